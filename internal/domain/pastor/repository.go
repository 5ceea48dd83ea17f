package pastor

import "context"

// Filter narrows the roster. Search matches member name and email
// case-insensitively; both filters are applied in storage.
type Filter struct {
	Search   string
	BranchID string
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateProfile(ctx context.Context, profile *PastorProfile) error
	GetProfile(ctx context.Context, churchID, profileID string) (*PastorProfile, error)
	GetProfileByMember(ctx context.Context, churchID, memberID string) (*PastorProfile, error)
	ListRoster(ctx context.Context, churchID string, filter Filter) ([]RosterEntry, error)
	UpdateProfile(ctx context.Context, profile *PastorProfile) error
	DeleteProfile(ctx context.Context, churchID, profileID string) error

	ListBranchIDs(ctx context.Context, churchID, profileID string) ([]string, error)
	ListAssignedBranches(ctx context.Context, churchID, profileID string) ([]BranchRef, error)
	AddBranch(ctx context.Context, assignment *PastorBranch) error
	RemoveBranch(ctx context.Context, churchID, profileID, branchID string) error
	BranchExists(ctx context.Context, churchID, branchID string) (bool, error)

	GetMember(ctx context.Context, churchID, memberID string) (*MemberInfo, error)
	UpdateMemberEmail(ctx context.Context, churchID, memberID, email string) error

	GetAppUserByEmail(ctx context.Context, churchID, email string) (*AppUserLink, error)
	GetPastorAppUserByMember(ctx context.Context, churchID, memberID string) (*AppUserLink, error)
	UpsertPastorAppUser(ctx context.Context, link AppUserLink) error

	GetChurchSlug(ctx context.Context, churchID string) (string, error)
}
