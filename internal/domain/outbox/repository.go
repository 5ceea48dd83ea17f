package outbox

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("outbox action not found")

type Repository interface {
	Create(ctx context.Context, action *Action) error
	Update(ctx context.Context, action *Action) error
	// ListDue returns PENDING actions whose retry time has elapsed, oldest
	// first, so actions for the same subject run in enqueue order.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Action, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]Action, error)
}
