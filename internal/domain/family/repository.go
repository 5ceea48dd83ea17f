package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, family *Family) error
	Get(ctx context.Context, churchID, familyID string) (*Family, error)
	List(ctx context.Context, churchID string) ([]Family, error)
	Update(ctx context.Context, family *Family) error

	AddMember(ctx context.Context, link *FamilyMember) error
	ListLinks(ctx context.Context, churchID, familyID string) ([]MemberLink, error)
	// ListAllLinks returns the member links of every family in the tenant,
	// feeding the roster composition in one query.
	ListAllLinks(ctx context.Context, churchID string) ([]MemberLink, error)
	MemberExists(ctx context.Context, churchID, memberID string) (bool, error)
}
