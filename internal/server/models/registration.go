package models

import "time"

// DiscoveryRegistration is the payload announced to the discovery
// collaborator when an ad is synced to the cloud.
type DiscoveryRegistration struct {
	PublicID   string `json:"public_id"`
	ListingURL string `json:"listing_url"`
	Signature  string `json:"signature"`
	TTLHours   int    `json:"ttl_hours"`
}

// ExpiresAt is the moment a registration issued at t stops being valid.
func (r DiscoveryRegistration) ExpiresAt(t time.Time) time.Time {
	return t.Add(time.Duration(r.TTLHours) * time.Hour)
}
