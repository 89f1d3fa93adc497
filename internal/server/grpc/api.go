package grpc

import "github.com/dmitrijs2005/gophmarket/internal/server/models"

// Wire messages of the Marketplace service.

type Empty struct{}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type CreateAdRequest struct {
	Content models.Content `json:"content"`
}

type UpdateAdRequest struct {
	Ad models.Ad `json:"ad"`
}

type UpdateAdResponse struct {
	Ad               *models.Ad `json:"ad"`
	ConflictResolved bool       `json:"conflict_resolved"`
}

// AdRequest addresses one ad. OwnerID defaults to the caller.
type AdRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`
}

type AdResponse struct {
	Ad *models.Ad `json:"ad"`
}

type SyncAdResponse struct {
	Ad           *models.Ad                    `json:"ad"`
	Registration *models.DiscoveryRegistration `json:"registration,omitempty"`
}

type AdsResponse struct {
	Ads []models.Ad `json:"ads"`
}

// ReportAdRequest flags a discoverable ad. AdID is its public id.
type ReportAdRequest struct {
	AdID   string `json:"ad_id"`
	Reason string `json:"reason"`
}

type BoostAdRequest struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`
	Amount  int64  `json:"amount"`
}

type FollowRequest struct {
	SellerID string `json:"seller_id"`
}

type SetNetworkStatusRequest struct {
	Online bool `json:"online"`
}

type TakedownRequest struct {
	AdID   string `json:"ad_id"`
	Reason string `json:"reason"`
}

type ModerationRequest struct {
	AdID string `json:"ad_id"`
}

type DashboardResponse struct {
	Dashboard *models.Dashboard `json:"dashboard"`
}
