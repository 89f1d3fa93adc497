package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is the in-process Repository used when no database DSN
// is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	follows map[string]map[string]bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		follows: make(map[string]map[string]bool),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.UserName == user.UserName {
			return nil, common.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	stored := *user
	r.byID[user.ID] = &stored
	return user, nil
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.UserName == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	c.FollowingIDs = make([]string, 0, len(r.follows[id]))
	for seller := range r.follows[id] {
		c.FollowingIDs = append(c.FollowingIDs, seller)
	}
	sort.Strings(c.FollowingIDs)
	return &c, nil
}

func (r *MemoryRepository) Follow(ctx context.Context, userID, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[userID]; !ok {
		return common.ErrNotFound
	}
	set, ok := r.follows[userID]
	if !ok {
		set = make(map[string]bool)
		r.follows[userID] = set
	}
	set[sellerID] = true
	return nil
}

func (r *MemoryRepository) Unfollow(ctx context.Context, userID, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.follows[userID], sellerID)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// Seed inserts a ready-made user, keeping its ID and tier. Used to bootstrap
// admin accounts and in tests.
func (r *MemoryRepository) Seed(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := user
	u.FollowingIDs = nil
	r.byID[u.ID] = &u
	for _, seller := range user.FollowingIDs {
		if r.follows[u.ID] == nil {
			r.follows[u.ID] = make(map[string]bool)
		}
		r.follows[u.ID][seller] = true
	}
}
