// Package registrations keeps the discovery registration announced for each
// cloud-synced listing.
package registrations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type Repository interface {
	// Upsert stores reg, replacing any previous registration for the same
	// public id.
	Upsert(ctx context.Context, reg models.DiscoveryRegistration, expiresAt time.Time) error
	Get(ctx context.Context, publicID string) (*models.DiscoveryRegistration, time.Time, error)
	// Delete is a no-op for an unknown public id.
	Delete(ctx context.Context, publicID string) error
}
