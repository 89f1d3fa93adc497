package grpc

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmarket/internal/common"
)

var _ MarketplaceServer = (*GRPCServer)(nil)

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *Empty) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

// caller returns the authenticated user and the owner addressed by the
// request, which defaults to the caller.
func caller(ctx context.Context, ownerID string) (string, string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	if ownerID == "" {
		ownerID = userID
	}
	return userID, ownerID, nil
}

func (s *GRPCServer) CreateAd(ctx context.Context, req *CreateAdRequest) (*AdResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.ads.Create(ctx, userID, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) UpdateAd(ctx context.Context, req *UpdateAdRequest) (*UpdateAdResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	res, err := s.ads.Update(ctx, userID, req.Ad)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &UpdateAdResponse{Ad: res.Ad, ConflictResolved: res.ConflictResolved}, nil
}

func (s *GRPCServer) DeleteAd(ctx context.Context, req *AdRequest) (*Empty, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if userID != ownerID {
		return nil, s.toStatus(ctx, fmt.Errorf("%w: caller does not own the ad", common.ErrAuthorization))
	}
	if err := s.ads.Delete(ctx, ownerID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) PublishAd(ctx context.Context, req *AdRequest) (*AdResponse, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.ads.Publish(ctx, userID, ownerID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) UnpublishAd(ctx context.Context, req *AdRequest) (*AdResponse, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.ads.Unpublish(ctx, userID, ownerID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) SyncAdToCloud(ctx context.Context, req *AdRequest) (*SyncAdResponse, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, reg, err := s.ads.SyncToCloud(ctx, userID, ownerID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &SyncAdResponse{Ad: ad, Registration: reg}, nil
}

func (s *GRPCServer) UnsyncAdFromCloud(ctx context.Context, req *AdRequest) (*AdResponse, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.ads.UnsyncFromCloud(ctx, userID, ownerID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) GetAds(ctx context.Context, req *Empty) (*AdsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	feed, err := s.discovery.Feed(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdsResponse{Ads: feed}, nil
}

func (s *GRPCServer) GetMyAds(ctx context.Context, req *Empty) (*AdsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	mine, err := s.ads.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdsResponse{Ads: mine}, nil
}

func (s *GRPCServer) ReportAd(ctx context.Context, req *ReportAdRequest) (*Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.ads.ReportAd(ctx, userID, req.AdID, req.Reason); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) BoostAd(ctx context.Context, req *BoostAdRequest) (*AdResponse, error) {
	userID, ownerID, err := caller(ctx, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.ads.BoostAd(ctx, userID, ownerID, req.ID, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) Follow(ctx context.Context, req *FollowRequest) (*Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.users.Follow(ctx, userID, req.SellerID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) Unfollow(ctx context.Context, req *FollowRequest) (*Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.users.Unfollow(ctx, userID, req.SellerID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) SetNetworkStatus(ctx context.Context, req *SetNetworkStatusRequest) (*Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.users.SetNetworkStatus(ctx, userID, req.Online)
	return &Empty{}, nil
}

func (s *GRPCServer) TakedownListing(ctx context.Context, req *TakedownRequest) (*AdResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.moderation.Takedown(ctx, userID, req.AdID, req.Reason)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) DismissReport(ctx context.Context, req *ModerationRequest) (*AdResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.moderation.DismissReport(ctx, userID, req.AdID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) ResetBoost(ctx context.Context, req *ModerationRequest) (*AdResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ad, err := s.moderation.ResetBoost(ctx, userID, req.AdID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AdResponse{Ad: ad}, nil
}

func (s *GRPCServer) GetAdminDashboardData(ctx context.Context, req *Empty) (*DashboardResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	dash, err := s.moderation.Dashboard(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &DashboardResponse{Dashboard: dash}, nil
}
