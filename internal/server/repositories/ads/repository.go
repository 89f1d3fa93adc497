// Package ads provides the owner stores: the only place ad records are
// durably written. Every method is scoped by owner identity; no store ever
// sees another owner's records.
//
// Two implementations exist: MemoryRepository (process memory, used by tests
// and single-node development) and SQLiteRepository (one SQLite file per
// owner). Both make Replace atomic at the single-record level, so readers
// scanning stores while owners write observe either the old or the new
// record, never a mix.
package ads

import (
	"context"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// Repository is the owner-store abstraction injected into every component.
type Repository interface {
	// Owners lists the owners that have a store.
	Owners(ctx context.Context) ([]string, error)

	// List returns all ads of an owner without filtering.
	List(ctx context.Context, ownerID string) ([]models.Ad, error)

	// Get returns a single ad or common.ErrNotFound.
	Get(ctx context.Context, ownerID, id string) (*models.Ad, error)

	// Insert stores a new ad.
	Insert(ctx context.Context, ownerID string, ad *models.Ad) error

	// Replace overwrites an existing ad; common.ErrNotFound if id is absent.
	Replace(ctx context.Context, ownerID string, ad *models.Ad) error

	// Delete hard-removes an ad and reports whether it existed.
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
