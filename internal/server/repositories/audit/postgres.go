package audit

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmarket/internal/dbx"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e models.AuditEntry) error {
	query := `INSERT INTO audit_log (id, created_at, admin_id, admin_username, action, target_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Timestamp, e.AdminID, e.AdminUsername, string(e.Action), e.TargetID, e.Reason)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	query := `SELECT id, created_at, admin_id, admin_username, action, target_id, reason
		FROM audit_log ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select audit log: %w", err)
	}
	defer rows.Close()

	result := []models.AuditEntry{}
	for rows.Next() {
		var (
			e      models.AuditEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.AdminID, &e.AdminUsername, &action, &e.TargetID, &e.Reason); err != nil {
			return nil, err
		}
		e.Action = models.AuditAction(action)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
