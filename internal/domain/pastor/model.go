package pastor

import "time"

// PastorProfile promotes an existing Member to pastor. At most one profile
// exists per (church, member); the login identity is provisioned alongside.
type PastorProfile struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	ChurchID       string    `gorm:"type:uuid;not null;index"`
	MemberID       string    `gorm:"type:uuid;not null;index"`
	Title          string    `gorm:"not null"`
	OrdinationDate *time.Time
	Bio            *string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// PastorBranch assigns a pastor to a branch. The set is edited as a whole:
// updates diff the submitted set against existing rows.
type PastorBranch struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	ChurchID        string    `gorm:"type:uuid;not null;index"`
	PastorProfileID string    `gorm:"type:uuid;not null;index"`
	BranchID        string    `gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

type BranchRef struct {
	ID   string
	Name string
}

// RosterEntry is the pastor list view: profile plus member identity and
// assigned branches.
type RosterEntry struct {
	PastorProfile
	FirstName string
	LastName  string
	Email     *string
	Branches  []BranchRef
}

// MemberInfo is the slice of a member row the provisioning workflow needs.
type MemberInfo struct {
	ID        string
	FirstName string
	LastName  string
	Email     *string
}

// AppUserLink mirrors the app_users row tied to a pastor login.
type AppUserLink struct {
	ID       string
	Email    string
	ChurchID string
	MemberID string
}
