package draft

import (
	"errors"
	"fmt"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

var (
	ErrUnknownField = listing.ErrUnknownField
	ErrFieldKind    = listing.ErrFieldKind

	ErrNotEditing    = errors.New("session is not in edit mode")
	ErrSessionClosed = errors.New("session closed")

	// ErrTimeout is returned when a remote call exceeds its deadline. It
	// wraps common.ErrUnavailable so it is treated as retryable.
	ErrTimeout = fmt.Errorf("request timed out: %w", common.ErrUnavailable)
)

// IsTransient reports whether err is worth retrying automatically.
func IsTransient(err error) bool {
	return errors.Is(err, common.ErrUnavailable)
}
