// Package audit persists the append-only moderation audit log.
package audit

import (
	"context"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, entry models.AuditEntry) error
	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]models.AuditEntry, error)
}
