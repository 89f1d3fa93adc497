package registrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/dbx"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, reg models.DiscoveryRegistration, expiresAt time.Time) error {
	query := `INSERT INTO discovery_registrations (public_id, listing_url, signature, ttl_hours, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (public_id)
		DO UPDATE SET
			listing_url = EXCLUDED.listing_url,
			signature = EXCLUDED.signature,
			ttl_hours = EXCLUDED.ttl_hours,
			expires_at = EXCLUDED.expires_at`

	if _, err := r.db.ExecContext(ctx, query, reg.PublicID, reg.ListingURL, reg.Signature, reg.TTLHours, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, publicID string) (*models.DiscoveryRegistration, time.Time, error) {
	query := `SELECT public_id, listing_url, signature, ttl_hours, expires_at
		FROM discovery_registrations WHERE public_id = $1`

	var (
		reg       models.DiscoveryRegistration
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, publicID).
		Scan(&reg.PublicID, &reg.ListingURL, &reg.Signature, &reg.TTLHours, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, common.ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return &reg, expiresAt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, publicID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM discovery_registrations WHERE public_id = $1`, publicID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
