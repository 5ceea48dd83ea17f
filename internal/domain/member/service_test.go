package member

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeMemberRepo struct {
	records map[string]*Member

	searchCalls   int
	lastQuery     string
	lastBranchIDs []string
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{records: make(map[string]*Member)}
}

func (r *fakeMemberRepo) Create(ctx context.Context, record *Member) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) Get(ctx context.Context, churchID, memberID string) (*Member, error) {
	record, ok := r.records[memberID]
	if !ok || record.ChurchID != churchID {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeMemberRepo) List(ctx context.Context, churchID string, filter Filter) ([]Member, error) {
	result := make([]Member, 0)
	for _, record := range r.records {
		if record.ChurchID != churchID {
			continue
		}
		if filter.BranchID != "" && (record.BranchID == nil || *record.BranchID != filter.BranchID) {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		result = append(result, *record)
	}
	return result, nil
}

func (r *fakeMemberRepo) ListByBranches(ctx context.Context, churchID string, branchIDs []string) ([]Member, error) {
	r.lastBranchIDs = branchIDs
	result := make([]Member, 0)
	for _, record := range r.records {
		if record.ChurchID != churchID || record.BranchID == nil {
			continue
		}
		for _, id := range branchIDs {
			if *record.BranchID == id {
				result = append(result, *record)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeMemberRepo) Search(ctx context.Context, churchID, query string, limit int) ([]SearchResult, error) {
	r.searchCalls++
	r.lastQuery = query
	return []SearchResult{}, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, record *Member) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, churchID, memberID string) error {
	record, ok := r.records[memberID]
	if !ok || record.ChurchID != churchID {
		return ErrNotFound
	}
	delete(r.records, memberID)
	return nil
}

const churchID = "church-1"

func strPtr(value string) *string { return &value }

func TestCreateDefaults(t *testing.T) {
	repo := newFakeMemberRepo()
	service := NewService(repo)

	record, err := service.Create(context.Background(), churchID, CreateParams{
		FirstName: " Jane ", LastName: " Doe ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.FirstName != "Jane" || record.LastName != "Doe" {
		t.Fatalf("expected trimmed names, got %q %q", record.FirstName, record.LastName)
	}
	if record.Status != StatusActive {
		t.Fatalf("expected default status ACTIVE, got %s", record.Status)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !record.JoinedDate.Equal(today) {
		t.Fatalf("expected joined date %v, got %v", today, record.JoinedDate)
	}
}

func TestCreateRequiresNames(t *testing.T) {
	service := NewService(newFakeMemberRepo())

	_, err := service.Create(context.Background(), churchID, CreateParams{FirstName: "Jane", LastName: "  "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateRejectsBadStatus(t *testing.T) {
	service := NewService(newFakeMemberRepo())

	_, err := service.Create(context.Background(), churchID, CreateParams{
		FirstName: "Jane", LastName: "Doe", Status: "SUSPENDED",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo := newFakeMemberRepo()
	service := NewService(repo)

	record, err := service.Create(context.Background(), churchID, CreateParams{
		FirstName: "Jane", LastName: "Doe", Email: strPtr(" Jane@Example.ORG "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Email == nil || *record.Email != "jane@example.org" {
		t.Fatalf("expected lowercased email, got %v", record.Email)
	}

	if _, err := service.Create(context.Background(), churchID, CreateParams{
		FirstName: "Jane", LastName: "Doe", Email: strPtr("not-an-email"),
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}
}

func TestSearchSkipsStorageOnEmptyQuery(t *testing.T) {
	repo := newFakeMemberRepo()
	service := NewService(repo)

	result, err := service.Search(context.Background(), churchID, "   ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", result)
	}
	if repo.searchCalls != 0 {
		t.Fatalf("empty query must not hit storage, got %d calls", repo.searchCalls)
	}

	if _, err := service.Search(context.Background(), churchID, " jane "); err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.searchCalls != 1 || repo.lastQuery != "jane" {
		t.Fatalf("expected trimmed query forwarded, got %q (%d calls)", repo.lastQuery, repo.searchCalls)
	}
}

func TestListByBranchesEmptySet(t *testing.T) {
	repo := newFakeMemberRepo()
	branchID := "b1"
	repo.records["m1"] = &Member{ID: "m1", ChurchID: churchID, BranchID: &branchID, FirstName: "Jane", LastName: "Doe", Status: StatusActive}
	service := NewService(repo)

	result, err := service.ListByBranches(context.Background(), churchID, nil)
	if err != nil {
		t.Fatalf("list by branches: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("no assigned branches means no members, got %d", len(result))
	}
	if repo.lastBranchIDs != nil {
		t.Fatalf("empty set must not hit storage")
	}
}

func TestUpdateClearBranch(t *testing.T) {
	repo := newFakeMemberRepo()
	branchID := "b1"
	repo.records["m1"] = &Member{ID: "m1", ChurchID: churchID, BranchID: &branchID, FirstName: "Jane", LastName: "Doe", Status: StatusActive}
	service := NewService(repo)

	record, err := service.Update(context.Background(), churchID, "m1", UpdateParams{ClearBranch: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.BranchID != nil {
		t.Fatalf("expected branch cleared, got %v", *record.BranchID)
	}
	if record.FirstName != "Jane" {
		t.Fatalf("unset fields must survive, got %q", record.FirstName)
	}
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.records["m1"] = &Member{ID: "m1", ChurchID: churchID, FirstName: "Jane", LastName: "Doe", Status: StatusActive}
	service := NewService(repo)

	_, err := service.Update(context.Background(), churchID, "m1", UpdateParams{Status: strPtr("GONE")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetScopedToChurch(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.records["m1"] = &Member{ID: "m1", ChurchID: "other-church", FirstName: "Jane", LastName: "Doe", Status: StatusActive}
	service := NewService(repo)

	if _, err := service.Get(context.Background(), churchID, "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
}
