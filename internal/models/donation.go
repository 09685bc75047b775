package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DonationType string

const (
	DonationFood    DonationType = "Food"
	DonationClothes DonationType = "Clothes"
	DonationBooks   DonationType = "Books"
	DonationOther   DonationType = "Other"
)

func (t DonationType) Valid() bool {
	switch t {
	case DonationFood, DonationClothes, DonationBooks, DonationOther:
		return true
	}
	return false
}

type DonationStatus string

const (
	DonationAvailable DonationStatus = "available"
	// DonationPending is reserved; no transition enters it.
	DonationPending   DonationStatus = "pending"
	DonationRequested DonationStatus = "requested"
	DonationCompleted DonationStatus = "completed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationAvailable, DonationPending, DonationRequested, DonationCompleted:
		return true
	}
	return false
}

const DefaultDonorName = "Anonymous"

type Availability struct {
	StartTime string `gorm:"size:32" json:"startTime"`
	EndTime   string `gorm:"size:32" json:"endTime"`
	Notes     string `gorm:"type:text" json:"notes"`
}

type Location struct {
	Address string `json:"address"`
	City    string `gorm:"index" json:"city"`
	State   string `json:"state"`
	Area    string `json:"area,omitempty"`
}

// Complete reports whether the required address parts are present.
func (l Location) Complete() bool {
	return l.Address != "" && l.City != "" && l.State != ""
}

type Donation struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	UserID       uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"userId"`
	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type         DonationType   `gorm:"size:16;not null" json:"type"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	DonorName    string         `gorm:"size:255;not null;default:'Anonymous'" json:"donorName"`
	Quantity     string         `gorm:"size:64" json:"quantity"`
	FoodType     string         `gorm:"size:64" json:"foodType,omitempty"`
	Images       StringList     `json:"images"`
	Availability Availability   `gorm:"embedded;embeddedPrefix:availability_" json:"availability"`
	Location     Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Status       DonationStatus `gorm:"size:16;not null;default:'available';index" json:"status"`
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DonationAvailable
	}
	if d.DonorName == "" {
		d.DonorName = DefaultDonorName
	}
	return nil
}

// OwnedBy reports whether userID owns the donation.
func (d *Donation) OwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}
