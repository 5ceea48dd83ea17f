package church

import "time"

const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"

	PlanFree     = "FREE"
	PlanStandard = "STANDARD"
	PlanPremium  = "PREMIUM"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

func ValidPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanStandard, PlanPremium:
		return true
	}
	return false
}

// Church is the tenant root. Every other entity carries its id. The slug is
// immutable after creation and identifies the tenant in URLs.
type Church struct {
	ID                  string    `gorm:"type:uuid;primaryKey"`
	Name                string    `gorm:"not null"`
	Slug                string    `gorm:"not null;uniqueIndex"`
	PrimaryContactName  string    `gorm:"not null"`
	PrimaryContactEmail string    `gorm:"not null"`
	Status              string    `gorm:"type:varchar(16);not null"`
	Plan                string    `gorm:"type:varchar(16);not null"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// AppUser links an external auth identity to a role within a church. The id
// matches the provider's identity id. ChurchID is null only for super admins;
// MemberID is set only for pastors.
type AppUser struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"`
	ChurchID  *string   `gorm:"type:uuid;index"`
	MemberID  *string   `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
