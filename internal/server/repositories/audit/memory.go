package audit

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	entries []models.AuditEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, e models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]models.AuditEntry, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, r.entries[i])
	}
	return result, nil
}
