package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NGOStatus string

const (
	NGOPending  NGOStatus = "pending"
	NGOApproved NGOStatus = "approved"
	NGORejected NGOStatus = "rejected"
)

func (s NGOStatus) Valid() bool {
	switch s {
	case NGOPending, NGOApproved, NGORejected:
		return true
	}
	return false
}

type ContactPerson struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type NGO struct {
	ID                uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	Name              string        `gorm:"size:255;not null" json:"name"`
	Email             string        `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string        `gorm:"size:32;not null" json:"phone"`
	ContactPerson     ContactPerson `gorm:"embedded;embeddedPrefix:contact_" json:"contactPerson"`
	Website           string        `json:"website,omitempty"`
	Type              string        `gorm:"size:64;not null" json:"type"`
	IncorporationDate string        `gorm:"size:32" json:"incorporationDate,omitempty"`
	Address           string        `gorm:"not null" json:"address"`
	SocialLinks       SocialLinks   `gorm:"embedded;embeddedPrefix:social_" json:"socialLinks"`
	LogoURL           string        `gorm:"size:512" json:"logo,omitempty"`
	CertificateURL    string        `gorm:"size:512" json:"certification,omitempty"`
	Status            NGOStatus     `gorm:"size:16;not null;default:'pending'" json:"status"`
}

func (n *NGO) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = NGOPending
	}
	return nil
}
