package outbox

import "time"

const (
	StatusPending   = "PENDING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// Action is a recorded side effect against the identity provider that must
// eventually converge with the primary write that enqueued it. Failures stay
// visible instead of being swallowed.
type Action struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	ChurchID    string  `gorm:"type:uuid;not null;index"`
	Kind        string  `gorm:"type:varchar(64);not null"`
	Payload     string  `gorm:"type:text;not null"`
	Status      string  `gorm:"type:varchar(16);not null;index"`
	Attempts    int     `gorm:"not null;default:0"`
	LastError   *string
	NextRetryAt time.Time `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Action) TableName() string { return "identity_outbox" }
