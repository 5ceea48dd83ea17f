package branch

import (
	"context"
	"errors"
	"testing"
)

type fakeBranchRepo struct {
	records map[string]*Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{records: make(map[string]*Branch)}
}

func (r *fakeBranchRepo) Create(ctx context.Context, record *Branch) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeBranchRepo) Get(ctx context.Context, churchID, branchID string) (*Branch, error) {
	record, ok := r.records[branchID]
	if !ok || record.ChurchID != churchID {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeBranchRepo) List(ctx context.Context, churchID string) ([]Branch, error) {
	result := make([]Branch, 0)
	for _, record := range r.records {
		if record.ChurchID == churchID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *fakeBranchRepo) Update(ctx context.Context, record *Branch) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeBranchRepo) Delete(ctx context.Context, churchID, branchID string) error {
	record, ok := r.records[branchID]
	if !ok || record.ChurchID != churchID {
		return ErrNotFound
	}
	delete(r.records, branchID)
	return nil
}

const churchID = "church-1"

func strPtr(value string) *string { return &value }

func boolPtr(value bool) *bool { return &value }

func TestCreateDefaultsToActive(t *testing.T) {
	service := NewService(newFakeBranchRepo())

	record, err := service.Create(context.Background(), churchID, CreateParams{
		Name: " Main Campus ", City: "Lagos",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Name != "Main Campus" {
		t.Fatalf("expected trimmed name, got %q", record.Name)
	}
	if !record.IsActive {
		t.Fatalf("expected new branch active by default")
	}
}

func TestCreateRequiresNameAndCity(t *testing.T) {
	service := NewService(newFakeBranchRepo())

	if _, err := service.Create(context.Background(), churchID, CreateParams{City: "Lagos"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing name: expected ErrValidation, got %v", err)
	}
	if _, err := service.Create(context.Background(), churchID, CreateParams{Name: "Main"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing city: expected ErrValidation, got %v", err)
	}
}

func TestUpdateDeactivates(t *testing.T) {
	repo := newFakeBranchRepo()
	repo.records["b1"] = &Branch{ID: "b1", ChurchID: churchID, Name: "Main", City: "Lagos", IsActive: true}
	service := NewService(repo)

	record, err := service.Update(context.Background(), churchID, "b1", UpdateParams{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if record.IsActive {
		t.Fatalf("expected branch deactivated")
	}
	if record.Name != "Main" || record.City != "Lagos" {
		t.Fatalf("unset fields must survive, got %+v", record)
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	repo := newFakeBranchRepo()
	repo.records["b1"] = &Branch{ID: "b1", ChurchID: churchID, Name: "Main", City: "Lagos"}
	service := NewService(repo)

	_, err := service.Update(context.Background(), churchID, "b1", UpdateParams{Name: strPtr("  ")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetScopedToChurch(t *testing.T) {
	repo := newFakeBranchRepo()
	repo.records["b1"] = &Branch{ID: "b1", ChurchID: "other-church", Name: "Main", City: "Lagos"}
	service := NewService(repo)

	if _, err := service.Get(context.Background(), churchID, "b1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
}
