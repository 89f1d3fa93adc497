package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/registrations"
)

// Registrar announces synced listings to the discovery collaborator.
type Registrar interface {
	Register(ctx context.Context, reg models.DiscoveryRegistration) error
	Unregister(ctx context.Context, publicID string) error
}

// RepositoryRegistrar records registrations in a registrations.Repository,
// from where the discovery collaborator picks them up.
type RepositoryRegistrar struct {
	repo registrations.Repository
	now  func() time.Time
}

func NewRepositoryRegistrar(repo registrations.Repository) *RepositoryRegistrar {
	return &RepositoryRegistrar{repo: repo, now: time.Now}
}

func (r *RepositoryRegistrar) Register(ctx context.Context, reg models.DiscoveryRegistration) error {
	return r.repo.Upsert(ctx, reg, reg.ExpiresAt(r.now().UTC()))
}

func (r *RepositoryRegistrar) Unregister(ctx context.Context, publicID string) error {
	return r.repo.Delete(ctx, publicID)
}
