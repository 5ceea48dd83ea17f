package member

import (
	"context"
	"errors"
	"testing"

	branchdomain "church-app-go/internal/domain/branch"
	memberdomain "church-app-go/internal/domain/member"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&branchdomain.Branch{}, &memberdomain.Member{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const churchID = "11111111-1111-1111-1111-111111111111"

func seed(t *testing.T, db *gorm.DB, record memberdomain.Member) string {
	t.Helper()
	record.ID = uuid.NewString()
	record.ChurchID = churchID
	if record.Status == "" {
		record.Status = memberdomain.StatusActive
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return record.ID
}

func strPtr(value string) *string { return &value }

func TestListFilters(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	branchID := uuid.NewString()
	if err := db.Create(&branchdomain.Branch{ID: branchID, ChurchID: churchID, Name: "Main", City: "Lagos"}).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	want := seed(t, db, memberdomain.Member{FirstName: "Jane", LastName: "Doe", BranchID: &branchID})
	seed(t, db, memberdomain.Member{FirstName: "Jane", LastName: "Roe"})
	seed(t, db, memberdomain.Member{FirstName: "Janet", LastName: "Doe", BranchID: &branchID, Status: memberdomain.StatusInactive})

	result, err := repo.List(ctx, churchID, memberdomain.Filter{
		Search: "JANE", BranchID: branchID, Status: memberdomain.StatusActive,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result) != 1 || result[0].ID != want {
		t.Fatalf("expected one filtered member, got %+v", result)
	}
}

func TestSearchJoinsBranchName(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	branchID := uuid.NewString()
	if err := db.Create(&branchdomain.Branch{ID: branchID, ChurchID: churchID, Name: "Main Campus", City: "Lagos"}).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	seed(t, db, memberdomain.Member{FirstName: "Jane", LastName: "Doe", BranchID: &branchID, Email: strPtr("jane@example.org")})
	seed(t, db, memberdomain.Member{FirstName: "Mark", LastName: "Luke"})

	result, err := repo.Search(ctx, churchID, "jane", 20)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one hit, got %+v", result)
	}
	if result[0].BranchName == nil || *result[0].BranchName != "Main Campus" {
		t.Fatalf("expected branch name joined, got %v", result[0].BranchName)
	}
}

func TestListByBranches(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	a, b := uuid.NewString(), uuid.NewString()
	inA := seed(t, db, memberdomain.Member{FirstName: "Jane", LastName: "Doe", BranchID: &a})
	seed(t, db, memberdomain.Member{FirstName: "Mark", LastName: "Luke", BranchID: &b})
	seed(t, db, memberdomain.Member{FirstName: "Ada", LastName: "Obi"})

	result, err := repo.ListByBranches(ctx, churchID, []string{a})
	if err != nil {
		t.Fatalf("list by branches: %v", err)
	}
	if len(result) != 1 || result[0].ID != inA {
		t.Fatalf("expected only branch-a member, got %+v", result)
	}
}

func TestGetScopedToChurch(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	memberID := seed(t, db, memberdomain.Member{FirstName: "Jane", LastName: "Doe"})

	if _, err := repo.Get(ctx, "22222222-2222-2222-2222-222222222222", memberID); !errors.Is(err, memberdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
}
