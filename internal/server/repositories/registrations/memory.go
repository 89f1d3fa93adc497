package registrations

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type record struct {
	reg       models.DiscoveryRegistration
	expiresAt time.Time
}

type MemoryRepository struct {
	mu   sync.RWMutex
	regs map[string]record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{regs: make(map[string]record)}
}

func (r *MemoryRepository) Upsert(ctx context.Context, reg models.DiscoveryRegistration, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs[reg.PublicID] = record{reg: reg, expiresAt: expiresAt}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, publicID string) (*models.DiscoveryRegistration, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.regs[publicID]
	if !ok {
		return nil, time.Time{}, common.ErrNotFound
	}
	reg := rec.reg
	return &reg, rec.expiresAt, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.regs, publicID)
	return nil
}
