package repomanager

import (
	"context"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/drafts"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/listings"
)

// Repositories is a set of repositories bound to the same handle: either
// the database itself or one transaction.
type Repositories struct {
	Drafts   drafts.Repository
	Listings listings.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Repositories returns repositories that run outside any transaction.
	Repositories() Repositories
	// WithTx runs fn with repositories bound to a single transaction,
	// committed when fn returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
