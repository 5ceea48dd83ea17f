package member

import "time"

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// Member is the hub entity: families, pastor profiles and group memberships
// all reference it instead of duplicating personal data. BranchID is nil for
// unassigned members.
type Member struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	ChurchID    string  `gorm:"type:uuid;not null;index"`
	BranchID    *string `gorm:"type:uuid;index"`
	FirstName   string  `gorm:"not null"`
	LastName    string  `gorm:"not null;index"`
	Gender      *string
	Email       *string
	Phone       *string
	Status      string    `gorm:"type:varchar(16);not null"`
	JoinedDate  time.Time `gorm:"not null"`
	DateOfBirth *time.Time
	BaptismDate *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// SearchResult is a member row joined with its branch name for pickers.
type SearchResult struct {
	Member
	BranchName *string
}
