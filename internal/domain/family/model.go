package family

import "time"

const (
	RelationshipHead   = "HEAD"
	RelationshipSpouse = "SPOUSE"
	RelationshipChild  = "CHILD"
	RelationshipOther  = "OTHER"
)

func ValidRelationship(value string) bool {
	switch value {
	case RelationshipHead, RelationshipSpouse, RelationshipChild, RelationshipOther:
		return true
	}
	return false
}

type Family struct {
	ID                 string  `gorm:"type:uuid;primaryKey"`
	ChurchID           string  `gorm:"type:uuid;not null;index"`
	FamilyName         *string
	WeddingAnniversary *time.Time
	Address            *string
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// FamilyMember links a Member into a Family. Relationship is advisory: the
// application does not enforce a single HEAD or SPOUSE per family.
type FamilyMember struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	ChurchID         string    `gorm:"type:uuid;not null;index"`
	FamilyID         string    `gorm:"type:uuid;not null;index"`
	MemberID         string    `gorm:"type:uuid;not null;index"`
	Relationship     string    `gorm:"type:varchar(16);not null"`
	IsPrimaryContact bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// MemberLink is a FamilyMember row joined with the member's display fields.
type MemberLink struct {
	ID               string
	FamilyID         string
	MemberID         string
	Relationship     string
	IsPrimaryContact bool
	FirstName        string
	LastName         string
	Email            *string
	Phone            *string
	CreatedAt        time.Time
}

// RosterEntry is the list view: the family plus its head's name and counts.
type RosterEntry struct {
	Family
	HeadName    *string
	MemberCount int
	ChildCount  int
}

// Detail is a family with all of its member links resolved.
type Detail struct {
	Family
	Members []MemberLink
}
