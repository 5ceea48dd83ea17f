package member

import "context"

// Filter narrows member listings. Search matches first/last name, email and
// phone case-insensitively; all filtering happens in storage.
type Filter struct {
	Search   string
	BranchID string
	Status   string
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, member *Member) error
	Get(ctx context.Context, churchID, memberID string) (*Member, error)
	List(ctx context.Context, churchID string, filter Filter) ([]Member, error)
	ListByBranches(ctx context.Context, churchID string, branchIDs []string) ([]Member, error)
	Search(ctx context.Context, churchID, query string, limit int) ([]SearchResult, error)
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, churchID, memberID string) error
}
