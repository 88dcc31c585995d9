package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(50);not null" json:"name"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  *string   `gorm:"column:password;type:varchar(255)" json:"-"` // nil for OAuth-only accounts
	Role          Role      `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	Avatar        *string   `gorm:"type:text" json:"avatar"`
	GoogleID      *string   `gorm:"type:varchar(64);uniqueIndex" json:"googleId,omitempty"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Blogs    []Blog    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Projects []Project `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Resumes  []Resume  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword is false for accounts created through Google sign-in.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserCounts is the per-user content count attached to admin user listings.
type UserCounts struct {
	Blogs    int64 `json:"blogs"`
	Projects int64 `json:"projects"`
	Resumes  int64 `json:"resumes"`
}

// UserWithCounts is a user row from the admin listing.
type UserWithCounts struct {
	User
	Count UserCounts `gorm:"-" json:"_count"`
}
