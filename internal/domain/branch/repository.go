package branch

import "context"

// Repository calls are tenant-scoped: every lookup filters by church id as
// well as the primary key, and a cross-tenant id resolves to ErrNotFound.
type Repository interface {
	Create(ctx context.Context, branch *Branch) error
	Get(ctx context.Context, churchID, branchID string) (*Branch, error)
	List(ctx context.Context, churchID string) ([]Branch, error)
	Update(ctx context.Context, branch *Branch) error
	Delete(ctx context.Context, churchID, branchID string) error
}
