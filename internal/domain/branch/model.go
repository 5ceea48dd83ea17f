package branch

import "time"

// Branch is a campus of a church. Members and groups may reference it;
// pastors are assigned to it through pastor_branches.
type Branch struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ChurchID  string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null"`
	Address   *string
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
