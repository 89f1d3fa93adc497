// Package users stores accounts and follow relationships.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type Repository interface {
	// Create inserts a user; common.ErrUserAlreadyExists on a duplicate name.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByID returns the user with FollowingIDs populated.
	GetByID(ctx context.Context, id string) (*models.User, error)
	Follow(ctx context.Context, userID, sellerID string) error
	Unfollow(ctx context.Context, userID, sellerID string) error
	Count(ctx context.Context) (int, error)
}
