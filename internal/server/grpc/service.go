package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "gophmarket.Marketplace"

// MarketplaceServer is the server API of the Marketplace service.
type MarketplaceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)

	CreateAd(context.Context, *CreateAdRequest) (*AdResponse, error)
	UpdateAd(context.Context, *UpdateAdRequest) (*UpdateAdResponse, error)
	DeleteAd(context.Context, *AdRequest) (*Empty, error)
	PublishAd(context.Context, *AdRequest) (*AdResponse, error)
	UnpublishAd(context.Context, *AdRequest) (*AdResponse, error)
	SyncAdToCloud(context.Context, *AdRequest) (*SyncAdResponse, error)
	UnsyncAdFromCloud(context.Context, *AdRequest) (*AdResponse, error)
	GetAds(context.Context, *Empty) (*AdsResponse, error)
	GetMyAds(context.Context, *Empty) (*AdsResponse, error)
	ReportAd(context.Context, *ReportAdRequest) (*Empty, error)
	BoostAd(context.Context, *BoostAdRequest) (*AdResponse, error)

	Follow(context.Context, *FollowRequest) (*Empty, error)
	Unfollow(context.Context, *FollowRequest) (*Empty, error)
	SetNetworkStatus(context.Context, *SetNetworkStatusRequest) (*Empty, error)

	TakedownListing(context.Context, *TakedownRequest) (*AdResponse, error)
	DismissReport(context.Context, *ModerationRequest) (*AdResponse, error)
	ResetBoost(context.Context, *ModerationRequest) (*AdResponse, error)
	GetAdminDashboardData(context.Context, *Empty) (*DashboardResponse, error)
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](method string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MarketplaceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MarketplaceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the Marketplace service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", MarketplaceServer.Register),
		unary("Login", MarketplaceServer.Login),
		unary("Ping", MarketplaceServer.Ping),
		unary("CreateAd", MarketplaceServer.CreateAd),
		unary("UpdateAd", MarketplaceServer.UpdateAd),
		unary("DeleteAd", MarketplaceServer.DeleteAd),
		unary("PublishAd", MarketplaceServer.PublishAd),
		unary("UnpublishAd", MarketplaceServer.UnpublishAd),
		unary("SyncAdToCloud", MarketplaceServer.SyncAdToCloud),
		unary("UnsyncAdFromCloud", MarketplaceServer.UnsyncAdFromCloud),
		unary("GetAds", MarketplaceServer.GetAds),
		unary("GetMyAds", MarketplaceServer.GetMyAds),
		unary("ReportAd", MarketplaceServer.ReportAd),
		unary("BoostAd", MarketplaceServer.BoostAd),
		unary("Follow", MarketplaceServer.Follow),
		unary("Unfollow", MarketplaceServer.Unfollow),
		unary("SetNetworkStatus", MarketplaceServer.SetNetworkStatus),
		unary("TakedownListing", MarketplaceServer.TakedownListing),
		unary("DismissReport", MarketplaceServer.DismissReport),
		unary("ResetBoost", MarketplaceServer.ResetBoost),
		unary("GetAdminDashboardData", MarketplaceServer.GetAdminDashboardData),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophmarket/marketplace",
}
