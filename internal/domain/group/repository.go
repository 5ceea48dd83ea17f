package group

import "context"

// CandidateFilter narrows the candidate list. The repository excludes current
// group members with an anti-join; callers never see them regardless of the
// filter combination.
type CandidateFilter struct {
	Search   string
	BranchID string
	Status   string
	Limit    int
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, group *Group) error
	Get(ctx context.Context, churchID, groupID string) (*Group, error)
	List(ctx context.Context, churchID string) ([]ListEntry, error)
	Update(ctx context.Context, group *Group) error

	AddMember(ctx context.Context, link *GroupMember) error
	RemoveMember(ctx context.Context, churchID, groupID, memberID string) error
	IsMember(ctx context.Context, churchID, groupID, memberID string) (bool, error)
	ListMembers(ctx context.Context, churchID, groupID string) ([]MemberEntry, error)
	ListCandidates(ctx context.Context, churchID, groupID string, filter CandidateFilter) ([]Candidate, error)
	MemberExists(ctx context.Context, churchID, memberID string) (bool, error)

	CreateAnnouncement(ctx context.Context, announcement *Announcement) error
	ListAnnouncements(ctx context.Context, churchID, groupID string, limit int) ([]Announcement, error)
}
