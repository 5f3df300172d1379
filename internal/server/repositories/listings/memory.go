package listings

import (
	"context"
	"sync"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	listings map[string]models.Listing
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{listings: make(map[string]models.Listing)}
}

func (r *MemoryRepository) Get(ctx context.Context, entityID string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[entityID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	l.Fields = l.Fields.Clone()
	return &l, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, l *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *l
	c.Fields = l.Fields.Clone()
	if prev, ok := r.listings[l.EntityID]; ok {
		c.PartnerID = prev.PartnerID
	}
	r.listings[l.EntityID] = c
	return nil
}
