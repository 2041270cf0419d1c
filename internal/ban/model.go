package ban

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ban is a time-bounded restriction on an account's ability to
// authenticate. It references the account by id; many bans may reference
// one account over its lifetime.
type Ban struct {
	ID           string `gorm:"primaryKey"`
	AccountID    string `gorm:"index;not null"`
	Reason       string `gorm:"not null"`
	Notes        string
	AdminID      string
	StartsAt     time.Time
	EndsAt       time.Time
	Active       bool `gorm:"index"`
	DurationDays float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Ban) TableName() string {
	return "bans"
}

func (b *Ban) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.StartsAt.IsZero() {
		b.StartsAt = time.Now()
	}
	return nil
}

// Expired reports whether the ban's end has passed. Readers must use this
// rather than trusting the Active flag alone, since the sweep is lazy.
func (b *Ban) Expired(now time.Time) bool {
	return !b.EndsAt.After(now)
}
