package group

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGroupRepo struct {
	groups        map[string]*Group
	links         map[string]*GroupMember
	members       map[string]bool
	announcements map[string]*Announcement

	lastCandidateFilter CandidateFilter
	lastAnnouncementCap int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:        make(map[string]*Group),
		links:         make(map[string]*GroupMember),
		members:       make(map[string]bool),
		announcements: make(map[string]*Announcement),
	}
}

func (r *fakeGroupRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeGroupRepo) Create(ctx context.Context, record *Group) error {
	copied := *record
	r.groups[record.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Get(ctx context.Context, churchID, groupID string) (*Group, error) {
	record, ok := r.groups[groupID]
	if !ok || record.ChurchID != churchID {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeGroupRepo) List(ctx context.Context, churchID string) ([]ListEntry, error) {
	result := make([]ListEntry, 0)
	for _, record := range r.groups {
		if record.ChurchID != churchID {
			continue
		}
		entry := ListEntry{Group: *record}
		for _, link := range r.links {
			if link.GroupID == record.ID {
				entry.MemberCount++
			}
		}
		result = append(result, entry)
	}
	return result, nil
}

func (r *fakeGroupRepo) Update(ctx context.Context, record *Group) error {
	copied := *record
	r.groups[record.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, link *GroupMember) error {
	copied := *link
	r.links[link.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) RemoveMember(ctx context.Context, churchID, groupID, memberID string) error {
	for id, link := range r.links {
		if link.ChurchID == churchID && link.GroupID == groupID && link.MemberID == memberID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *fakeGroupRepo) IsMember(ctx context.Context, churchID, groupID, memberID string) (bool, error) {
	for _, link := range r.links {
		if link.ChurchID == churchID && link.GroupID == groupID && link.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGroupRepo) ListMembers(ctx context.Context, churchID, groupID string) ([]MemberEntry, error) {
	result := make([]MemberEntry, 0)
	for _, link := range r.links {
		if link.ChurchID == churchID && link.GroupID == groupID {
			result = append(result, MemberEntry{GroupMemberID: link.ID, MemberID: link.MemberID, JoinedAt: link.JoinedAt})
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) ListCandidates(ctx context.Context, churchID, groupID string, filter CandidateFilter) ([]Candidate, error) {
	r.lastCandidateFilter = filter
	result := make([]Candidate, 0)
	for memberID := range r.members {
		in, _ := r.IsMember(ctx, churchID, groupID, memberID)
		if !in {
			result = append(result, Candidate{MemberID: memberID})
		}
	}
	return result, nil
}

func (r *fakeGroupRepo) MemberExists(ctx context.Context, churchID, memberID string) (bool, error) {
	return r.members[memberID], nil
}

func (r *fakeGroupRepo) CreateAnnouncement(ctx context.Context, record *Announcement) error {
	copied := *record
	r.announcements[record.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) ListAnnouncements(ctx context.Context, churchID, groupID string, limit int) ([]Announcement, error) {
	r.lastAnnouncementCap = limit
	result := make([]Announcement, 0)
	for _, record := range r.announcements {
		if record.ChurchID == churchID && record.GroupID == groupID {
			result = append(result, *record)
		}
	}
	return result, nil
}

const churchID = "church-1"

func seedGroup(repo *fakeGroupRepo, id string) {
	repo.groups[id] = &Group{ID: id, ChurchID: churchID, Name: "Choir"}
}

func TestCreateRequiresName(t *testing.T) {
	service := NewService(newFakeGroupRepo())

	_, err := service.Create(context.Background(), churchID, CreateParams{Name: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddMemberChain(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	repo.members["m1"] = true
	service := NewService(repo)

	if _, err := service.AddMember(context.Background(), churchID, "nope", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown group: expected ErrNotFound, got %v", err)
	}
	if _, err := service.AddMember(context.Background(), churchID, "g1", "ghost"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("unknown member: expected ErrMemberNotFound, got %v", err)
	}

	link, err := service.AddMember(context.Background(), churchID, "g1", "m1")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, ok := repo.links[link.ID]; !ok {
		t.Fatalf("expected link persisted")
	}

	if _, err := service.AddMember(context.Background(), churchID, "g1", "m1"); !errors.Is(err, ErrAlreadyInGroup) {
		t.Fatalf("duplicate: expected ErrAlreadyInGroup, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	repo.members["m1"] = true
	service := NewService(repo)

	if _, err := service.AddMember(context.Background(), churchID, "g1", "m1"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := service.RemoveMember(context.Background(), churchID, "g1", "m1"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if len(repo.links) != 0 {
		t.Fatalf("expected no links, got %d", len(repo.links))
	}

	if err := service.RemoveMember(context.Background(), churchID, "nope", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown group: expected ErrNotFound, got %v", err)
	}
}

func TestCandidatesExcludeCurrentMembers(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	repo.members["m1"] = true
	repo.members["m2"] = true
	service := NewService(repo)

	if _, err := service.AddMember(context.Background(), churchID, "g1", "m1"); err != nil {
		t.Fatalf("add member: %v", err)
	}

	candidates, err := service.Candidates(context.Background(), churchID, "g1", CandidateFilter{})
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].MemberID != "m2" {
		t.Fatalf("expected only m2, got %+v", candidates)
	}
}

func TestCandidatesClampLimitAndPassFilters(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	service := NewService(repo)

	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: candidateLimit},
		{in: -5, want: candidateLimit},
		{in: 500, want: candidateLimit},
		{in: 10, want: 10},
	}
	for _, tc := range cases {
		if _, err := service.Candidates(context.Background(), churchID, "g1", CandidateFilter{
			Limit: tc.in, Search: "  jane ", BranchID: "b1", Status: "ACTIVE",
		}); err != nil {
			t.Fatalf("candidates limit %d: %v", tc.in, err)
		}
		got := repo.lastCandidateFilter
		if got.Limit != tc.want {
			t.Fatalf("limit %d: expected clamp to %d, got %d", tc.in, tc.want, got.Limit)
		}
		if got.Search != "jane" || got.BranchID != "b1" || got.Status != "ACTIVE" {
			t.Fatalf("expected filters forwarded, got %+v", got)
		}
	}
}

func TestCreateAnnouncementValidation(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	service := NewService(repo)

	cases := []struct {
		name  string
		title string
		body  string
	}{
		{name: "empty title", title: "  ", body: "hello"},
		{name: "long title", title: strings.Repeat("t", maxTitleLen+1), body: "hello"},
		{name: "empty body", title: "Picnic", body: ""},
		{name: "long body", title: "Picnic", body: strings.Repeat("b", maxBodyLen+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateAnnouncement(context.Background(), churchID, "g1", "u1", tc.title, tc.body)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateAnnouncementRecordsAuthor(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	service := NewService(repo)

	record, err := service.CreateAnnouncement(context.Background(), churchID, "g1", "u1", " Picnic ", " Saturday at noon. ")
	if err != nil {
		t.Fatalf("create announcement: %v", err)
	}
	if record.Title != "Picnic" || record.Body != "Saturday at noon." {
		t.Fatalf("expected trimmed fields, got %+v", record)
	}
	if record.CreatedBy != "u1" {
		t.Fatalf("expected author recorded, got %s", record.CreatedBy)
	}
	if _, ok := repo.announcements[record.ID]; !ok {
		t.Fatalf("expected announcement persisted")
	}
}

func TestAnnouncementsUseListCap(t *testing.T) {
	repo := newFakeGroupRepo()
	seedGroup(repo, "g1")
	service := NewService(repo)

	if _, err := service.Announcements(context.Background(), churchID, "g1"); err != nil {
		t.Fatalf("announcements: %v", err)
	}
	if repo.lastAnnouncementCap != announcementLimit {
		t.Fatalf("expected cap %d, got %d", announcementLimit, repo.lastAnnouncementCap)
	}
}

func TestUpdateClearBranch(t *testing.T) {
	repo := newFakeGroupRepo()
	branchID := "b1"
	repo.groups["g1"] = &Group{ID: "g1", ChurchID: churchID, Name: "Choir", BranchID: &branchID}
	service := NewService(repo)

	record, err := service.Update(context.Background(), churchID, "g1", UpdateParams{ClearBranch: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.BranchID != nil {
		t.Fatalf("expected branch cleared, got %v", *record.BranchID)
	}
	if record.Name != "Choir" {
		t.Fatalf("name must survive, got %s", record.Name)
	}
}
