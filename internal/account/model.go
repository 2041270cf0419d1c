package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Account is a registered or OAuth-provisioned user identity.
// PasswordHash is empty for OAuth-only accounts.
type Account struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	Name         string
	Surname      string
	Phone        string
	Role         Role `gorm:"type:text;default:user"`
	IsBanned     bool
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	return nil
}

// Summary is the shape returned to callers. The credential hash and other
// internal fields never leave the core.
type Summary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsBanned bool   `json:"isBanned"`
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:       a.ID,
		Email:    a.Email,
		Role:     a.Role,
		IsBanned: a.IsBanned,
	}
}
