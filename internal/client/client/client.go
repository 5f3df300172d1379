package client

import (
	"context"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/draft"
)

// Client is the editor's view of the draft service: the remote an editing
// session saves to, plus connection management.
type Client interface {
	draft.Remote
	Ping(ctx context.Context) error
	Close() error
}
