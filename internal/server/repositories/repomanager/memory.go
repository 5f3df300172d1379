package repomanager

import (
	"context"
	"sync"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/drafts"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/listings"
)

// MemoryRepositoryManager keeps everything in process memory. It is used
// when no database DSN is configured. Transactions are serialized but
// not rolled back, so callers validate before they write.
type MemoryRepositoryManager struct {
	txMu  sync.Mutex
	repos Repositories
}

var _ RepositoryManager = (*MemoryRepositoryManager)(nil)

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repos: Repositories{
		Drafts:   drafts.NewMemoryRepository(),
		Listings: listings.NewMemoryRepository(),
	}}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Repositories() Repositories {
	return m.repos
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, m.repos)
}
