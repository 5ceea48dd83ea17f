package group

import (
	"context"
	"errors"
	"testing"

	branchdomain "church-app-go/internal/domain/branch"
	groupdomain "church-app-go/internal/domain/group"
	memberdomain "church-app-go/internal/domain/member"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The repository runs against Postgres in production; the SQL it issues is
// kept portable so these tests can exercise it on in-memory sqlite.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&branchdomain.Branch{},
		&memberdomain.Member{},
		&groupdomain.Group{},
		&groupdomain.GroupMember{},
		&groupdomain.Announcement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const churchID = "11111111-1111-1111-1111-111111111111"

func seedMember(t *testing.T, db *gorm.DB, first, last, status string, branchID *string) string {
	t.Helper()
	record := memberdomain.Member{
		ID:        uuid.NewString(),
		ChurchID:  churchID,
		BranchID:  branchID,
		FirstName: first,
		LastName:  last,
		Status:    status,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return record.ID
}

func seedGroup(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	record := groupdomain.Group{ID: uuid.NewString(), ChurchID: churchID, Name: name}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return record.ID
}

func TestListCandidatesExcludesGroupMembers(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	groupID := seedGroup(t, db, "Choir")
	inGroup := seedMember(t, db, "Jane", "Doe", "ACTIVE", nil)
	outside := seedMember(t, db, "John", "Smith", "ACTIVE", nil)

	if err := repo.AddMember(ctx, &groupdomain.GroupMember{
		ID: uuid.NewString(), ChurchID: churchID, GroupID: groupID, MemberID: inGroup,
	}); err != nil {
		t.Fatalf("add member: %v", err)
	}

	candidates, err := repo.ListCandidates(ctx, churchID, groupID, groupdomain.CandidateFilter{Limit: 50})
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].MemberID != outside {
		t.Fatalf("expected only the outside member, got %+v", candidates)
	}
}

func TestListCandidatesFilters(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	branch := branchdomain.Branch{ID: uuid.NewString(), ChurchID: churchID, Name: "Main Campus", City: "Lagos", IsActive: true}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	groupID := seedGroup(t, db, "Choir")
	match := seedMember(t, db, "Jane", "Doe", "ACTIVE", &branch.ID)
	seedMember(t, db, "Jane", "Roe", "ACTIVE", nil)      // wrong branch
	seedMember(t, db, "Janet", "Doe", "INACTIVE", &branch.ID) // wrong status
	seedMember(t, db, "Mark", "Luke", "ACTIVE", &branch.ID)   // no name match

	candidates, err := repo.ListCandidates(ctx, churchID, groupID, groupdomain.CandidateFilter{
		Search: "jane", BranchID: branch.ID, Status: "ACTIVE", Limit: 50,
	})
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].MemberID != match {
		t.Fatalf("expected one filtered candidate, got %+v", candidates)
	}
	if candidates[0].BranchName == nil || *candidates[0].BranchName != "Main Campus" {
		t.Fatalf("expected branch name joined, got %v", candidates[0].BranchName)
	}
}

func TestListCountsMembers(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	groupID := seedGroup(t, db, "Choir")
	seedGroup(t, db, "Ushers")
	for i := 0; i < 3; i++ {
		memberID := seedMember(t, db, "Jane", "Doe", "ACTIVE", nil)
		if err := repo.AddMember(ctx, &groupdomain.GroupMember{
			ID: uuid.NewString(), ChurchID: churchID, GroupID: groupID, MemberID: memberID,
		}); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}

	entries, err := repo.List(ctx, churchID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two groups, got %d", len(entries))
	}
	counts := map[string]int{}
	for _, entry := range entries {
		counts[entry.Name] = entry.MemberCount
	}
	if counts["Choir"] != 3 || counts["Ushers"] != 0 {
		t.Fatalf("unexpected member counts %v", counts)
	}
}

func TestGetScopedToChurch(t *testing.T) {
	db := testDB(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	groupID := seedGroup(t, db, "Choir")

	if _, err := repo.Get(ctx, "22222222-2222-2222-2222-222222222222", groupID); !errors.Is(err, groupdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}
	if _, err := repo.Get(ctx, churchID, groupID); err != nil {
		t.Fatalf("same tenant get: %v", err)
	}
}
