package cli

import (
	"context"

	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
	"google.golang.org/grpc"
)

// marketAPI is the part of the Marketplace client the CLI uses.
// *gs.Client satisfies it; tests provide fakes.
type marketAPI interface {
	Register(ctx context.Context, in *gs.RegisterRequest, opts ...grpc.CallOption) (*gs.RegisterResponse, error)
	Login(ctx context.Context, in *gs.LoginRequest, opts ...grpc.CallOption) (*gs.LoginResponse, error)
	Ping(ctx context.Context, opts ...grpc.CallOption) (*gs.PingResponse, error)

	CreateAd(ctx context.Context, in *gs.CreateAdRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	UpdateAd(ctx context.Context, in *gs.UpdateAdRequest, opts ...grpc.CallOption) (*gs.UpdateAdResponse, error)
	DeleteAd(ctx context.Context, in *gs.AdRequest, opts ...grpc.CallOption) (*gs.Empty, error)
	PublishAd(ctx context.Context, in *gs.AdRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	UnpublishAd(ctx context.Context, in *gs.AdRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	SyncAdToCloud(ctx context.Context, in *gs.AdRequest, opts ...grpc.CallOption) (*gs.SyncAdResponse, error)
	UnsyncAdFromCloud(ctx context.Context, in *gs.AdRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	GetAds(ctx context.Context, opts ...grpc.CallOption) (*gs.AdsResponse, error)
	GetMyAds(ctx context.Context, opts ...grpc.CallOption) (*gs.AdsResponse, error)
	ReportAd(ctx context.Context, in *gs.ReportAdRequest, opts ...grpc.CallOption) (*gs.Empty, error)
	BoostAd(ctx context.Context, in *gs.BoostAdRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)

	Follow(ctx context.Context, in *gs.FollowRequest, opts ...grpc.CallOption) (*gs.Empty, error)
	Unfollow(ctx context.Context, in *gs.FollowRequest, opts ...grpc.CallOption) (*gs.Empty, error)
	SetNetworkStatus(ctx context.Context, in *gs.SetNetworkStatusRequest, opts ...grpc.CallOption) (*gs.Empty, error)

	TakedownListing(ctx context.Context, in *gs.TakedownRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	DismissReport(ctx context.Context, in *gs.ModerationRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	ResetBoost(ctx context.Context, in *gs.ModerationRequest, opts ...grpc.CallOption) (*gs.AdResponse, error)
	GetAdminDashboardData(ctx context.Context, opts ...grpc.CallOption) (*gs.DashboardResponse, error)
}

var _ marketAPI = (*gs.Client)(nil)
