package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	Roles        RoleSet    `gorm:"not null;default:1" json:"roles"`
	Bio          string     `gorm:"type:text" json:"bio"`
	Phone        string     `gorm:"size:32" json:"phone"`
	Address      string     `json:"address"`
	AvatarURL    string     `gorm:"size:512" json:"avatar"`
	NGOID        *uuid.UUID `gorm:"type:varchar(36)" json:"ngoId,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Roles == 0 {
		u.Roles = RoleSetOf(RoleUser)
	}
	return nil
}

// HasRole reports whether the user's role set contains r.
func (u *User) HasRole(r Role) bool {
	return u.Roles.Has(r)
}
