package group

import "time"

// Group is a ministry group. BranchID nil means the group spans all branches.
type Group struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	ChurchID    string  `gorm:"type:uuid;not null;index"`
	BranchID    *string `gorm:"type:uuid;index"`
	Name        string  `gorm:"not null"`
	Type        *string
	Description *string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type GroupMember struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	ChurchID string    `gorm:"type:uuid;not null;index"`
	GroupID  string    `gorm:"type:uuid;not null;index"`
	MemberID string    `gorm:"type:uuid;not null;index"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

type Announcement struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ChurchID  string    `gorm:"type:uuid;not null;index"`
	GroupID   string    `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Body      string    `gorm:"not null"`
	CreatedBy string    `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ListEntry is the group list view with its branch name and member count.
type ListEntry struct {
	Group
	BranchName  *string
	MemberCount int
}

// MemberEntry is a group member with the joined member's display fields.
type MemberEntry struct {
	GroupMemberID string
	MemberID      string
	JoinedAt      time.Time
	FirstName     string
	LastName      string
	Email         *string
	Phone         *string
	DateOfBirth   *time.Time
	Status        string
	BranchID      *string
	BranchName    *string
}

// Candidate is a tenant member eligible to join the group, i.e. not already
// in group_members for it.
type Candidate struct {
	MemberID    string
	FirstName   string
	LastName    string
	Email       *string
	Phone       *string
	DateOfBirth *time.Time
	Status      string
	BranchID    *string
	BranchName  *string
}
