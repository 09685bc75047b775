package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Volunteer struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	UserID       uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"not null" json:"email"`
	Phone        string     `gorm:"size:32;not null" json:"phone"`
	Address      string     `json:"address"`
	Availability string     `json:"availability"`
	Interests    StringList `json:"interests"`
	Experience   string     `gorm:"type:text" json:"experience,omitempty"`
}

func (v *Volunteer) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
