package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/dbx"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (username, salt, password_hash, tier)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.UserName, user.Salt, user.PasswordHash, string(user.Tier)).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT id, username, salt, password_hash, tier, created_at FROM users WHERE ` + where

	var (
		u    models.User
		tier string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.UserName, &u.Salt, &u.PasswordHash, &tier, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Tier = models.Tier(tier)
	return &u, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.getOne(ctx, "id = $1", id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT seller_id FROM follows WHERE follower_id = $1 ORDER BY seller_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select follows: %w", err)
	}
	defer rows.Close()

	u.FollowingIDs = []string{}
	for rows.Next() {
		var sellerID string
		if err := rows.Scan(&sellerID); err != nil {
			return nil, err
		}
		u.FollowingIDs = append(u.FollowingIDs, sellerID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) Follow(ctx context.Context, userID, sellerID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (follower_id, seller_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, sellerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Unfollow(ctx context.Context, userID, sellerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = $1 AND seller_id = $2`, userID, sellerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
