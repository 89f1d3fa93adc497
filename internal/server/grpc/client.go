package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client is a typed Marketplace client over any gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithAccessToken attaches token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c.cc, "Register", in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, "Login", in, opts...)
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[Empty, PingResponse](ctx, c.cc, "Ping", &Empty{}, opts...)
}

func (c *Client) CreateAd(ctx context.Context, in *CreateAdRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[CreateAdRequest, AdResponse](ctx, c.cc, "CreateAd", in, opts...)
}

func (c *Client) UpdateAd(ctx context.Context, in *UpdateAdRequest, opts ...grpc.CallOption) (*UpdateAdResponse, error) {
	return invoke[UpdateAdRequest, UpdateAdResponse](ctx, c.cc, "UpdateAd", in, opts...)
}

func (c *Client) DeleteAd(ctx context.Context, in *AdRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[AdRequest, Empty](ctx, c.cc, "DeleteAd", in, opts...)
}

func (c *Client) PublishAd(ctx context.Context, in *AdRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[AdRequest, AdResponse](ctx, c.cc, "PublishAd", in, opts...)
}

func (c *Client) UnpublishAd(ctx context.Context, in *AdRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[AdRequest, AdResponse](ctx, c.cc, "UnpublishAd", in, opts...)
}

func (c *Client) SyncAdToCloud(ctx context.Context, in *AdRequest, opts ...grpc.CallOption) (*SyncAdResponse, error) {
	return invoke[AdRequest, SyncAdResponse](ctx, c.cc, "SyncAdToCloud", in, opts...)
}

func (c *Client) UnsyncAdFromCloud(ctx context.Context, in *AdRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[AdRequest, AdResponse](ctx, c.cc, "UnsyncAdFromCloud", in, opts...)
}

func (c *Client) GetAds(ctx context.Context, opts ...grpc.CallOption) (*AdsResponse, error) {
	return invoke[Empty, AdsResponse](ctx, c.cc, "GetAds", &Empty{}, opts...)
}

func (c *Client) GetMyAds(ctx context.Context, opts ...grpc.CallOption) (*AdsResponse, error) {
	return invoke[Empty, AdsResponse](ctx, c.cc, "GetMyAds", &Empty{}, opts...)
}

func (c *Client) ReportAd(ctx context.Context, in *ReportAdRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[ReportAdRequest, Empty](ctx, c.cc, "ReportAd", in, opts...)
}

func (c *Client) BoostAd(ctx context.Context, in *BoostAdRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[BoostAdRequest, AdResponse](ctx, c.cc, "BoostAd", in, opts...)
}

func (c *Client) Follow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[FollowRequest, Empty](ctx, c.cc, "Follow", in, opts...)
}

func (c *Client) Unfollow(ctx context.Context, in *FollowRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[FollowRequest, Empty](ctx, c.cc, "Unfollow", in, opts...)
}

func (c *Client) SetNetworkStatus(ctx context.Context, in *SetNetworkStatusRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetNetworkStatusRequest, Empty](ctx, c.cc, "SetNetworkStatus", in, opts...)
}

func (c *Client) TakedownListing(ctx context.Context, in *TakedownRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[TakedownRequest, AdResponse](ctx, c.cc, "TakedownListing", in, opts...)
}

func (c *Client) DismissReport(ctx context.Context, in *ModerationRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[ModerationRequest, AdResponse](ctx, c.cc, "DismissReport", in, opts...)
}

func (c *Client) ResetBoost(ctx context.Context, in *ModerationRequest, opts ...grpc.CallOption) (*AdResponse, error) {
	return invoke[ModerationRequest, AdResponse](ctx, c.cc, "ResetBoost", in, opts...)
}

func (c *Client) GetAdminDashboardData(ctx context.Context, opts ...grpc.CallOption) (*DashboardResponse, error) {
	return invoke[Empty, DashboardResponse](ctx, c.cc, "GetAdminDashboardData", &Empty{}, opts...)
}
