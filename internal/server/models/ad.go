// Package models defines the server-side data model of GophMarket.
package models

import (
	"slices"
	"time"
)

// SyncStatus is the storage/visibility tier of an ad.
type SyncStatus string

const (
	// StatusLocal ads are visible to their owner only.
	StatusLocal SyncStatus = "local"
	// StatusPublic ads are visible while the owning peer is reachable.
	StatusPublic SyncStatus = "public"
	// StatusSynced ads live on durable cloud storage and are always visible.
	StatusSynced SyncStatus = "synced"
	// StatusTakedown ads are hidden by moderation; content is kept intact.
	StatusTakedown SyncStatus = "takedown"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case StatusLocal, StatusPublic, StatusSynced, StatusTakedown:
		return true
	}
	return false
}

// Media is a single picture or video attached to an ad.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// AuctionDetails is present when an ad is sold by auction.
type AuctionDetails struct {
	StartingBid float64   `json:"starting_bid"`
	CurrentBid  float64   `json:"current_bid"`
	EndsAt      time.Time `json:"ends_at"`
}

// Content holds the owner-editable fields of an ad. The lifecycle and
// discovery logic treats it as opaque.
type Content struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CategoryPath []string        `json:"category_path"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	Media        []Media         `json:"media"`
	Auction      *AuctionDetails `json:"auction,omitempty"`
}

// Ad is a marketplace listing. The owner store holds the only
// authoritative copy.
type Ad struct {
	ID       string `json:"id"`
	PublicID string `json:"public_id"`
	SellerID string `json:"seller_id"`

	Content

	SyncStatus SyncStatus `json:"sync_status"`
	// Version is bumped on every accepted write and never decreases.
	Version    int64 `json:"version"`
	BoostScore int64 `json:"boost_score"`

	IsFlagged      bool   `json:"is_flagged"`
	ReportReason   string `json:"report_reason,omitempty"`
	TakedownReason string `json:"takedown_reason,omitempty"`
	// TakedownVersion is the version the ad had when it was taken down.
	TakedownVersion int64 `json:"takedown_version,omitempty"`

	// CloudURL and Signature are set iff SyncStatus is StatusSynced.
	CloudURL  string `json:"cloud_url,omitempty"`
	Signature string `json:"signature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DedupKey is the key used to merge owner stores: the public id, or the
// local id for records that somehow lack one.
func (a *Ad) DedupKey() string {
	if a.PublicID != "" {
		return a.PublicID
	}
	return a.ID
}

// ClearCloud drops cloud metadata. Callers must also leave StatusSynced.
func (a *Ad) ClearCloud() {
	a.CloudURL = ""
	a.Signature = ""
}

// Clone returns a deep copy so that callers never share slices with a store.
func (a Ad) Clone() Ad {
	c := a
	c.CategoryPath = slices.Clone(a.CategoryPath)
	c.Media = slices.Clone(a.Media)
	if a.Auction != nil {
		auction := *a.Auction
		c.Auction = &auction
	}
	return c
}
