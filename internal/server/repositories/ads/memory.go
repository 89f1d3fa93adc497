package ads

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// MemoryRepository keeps every owner store in process memory. Records are
// cloned on the way in and out.
type MemoryRepository struct {
	mu     sync.RWMutex
	stores map[string]map[string]models.Ad
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stores: make(map[string]map[string]models.Ad)}
}

func (r *MemoryRepository) Owners(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make([]string, 0, len(r.stores))
	for owner := range r.stores {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners, nil
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string) ([]models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store := r.stores[ownerID]
	result := make([]models.Ad, 0, len(store))
	for _, ad := range store {
		result = append(result, ad.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, ownerID, id string) (*models.Ad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ad, ok := r.stores[ownerID][id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := ad.Clone()
	return &c, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, ownerID string, ad *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[ownerID]
	if !ok {
		store = make(map[string]models.Ad)
		r.stores[ownerID] = store
	}
	if _, exists := store[ad.ID]; exists {
		return fmt.Errorf("ad %s already exists", ad.ID)
	}
	store[ad.ID] = ad.Clone()
	return nil
}

func (r *MemoryRepository) Replace(ctx context.Context, ownerID string, ad *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store := r.stores[ownerID]
	if _, ok := store[ad.ID]; !ok {
		return common.ErrNotFound
	}
	store[ad.ID] = ad.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store := r.stores[ownerID]
	if _, ok := store[id]; !ok {
		return false, nil
	}
	delete(store, id)
	return true, nil
}
