package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityKind string

const (
	AvailabilitySpecific AvailabilityKind = "specific"
	AvailabilityWeekdays AvailabilityKind = "weekdays"
	AvailabilityWeekend  AvailabilityKind = "weekend"
	AvailabilityAllDays  AvailabilityKind = "allDays"
)

func (k AvailabilityKind) Valid() bool {
	switch k {
	case AvailabilitySpecific, AvailabilityWeekdays, AvailabilityWeekend, AvailabilityAllDays:
		return true
	}
	return false
}

type FreeFoodAvailability struct {
	Kind         AvailabilityKind `gorm:"size:16" json:"type"`
	SpecificDate string           `gorm:"size:32" json:"specificDate,omitempty"`
	StartTime    string           `gorm:"size:32" json:"startTime"`
	EndTime      string           `gorm:"size:32" json:"endTime"`
}

// FreeFoodListing is a venue or event that hands out food.
type FreeFoodListing struct {
	ID           uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Type         string               `gorm:"size:64;not null" json:"type"`
	VenueName    string               `gorm:"size:255;not null" json:"venueName"`
	FoodType     string               `gorm:"size:64" json:"foodType"`
	Availability FreeFoodAvailability `gorm:"embedded;embeddedPrefix:availability_" json:"availability"`
	Organizer    string               `gorm:"size:255" json:"organizer"`
	UploaderID   uuid.UUID            `gorm:"type:varchar(36);not null;index" json:"uploadedBy"`
	ImageURL     string               `gorm:"size:512" json:"venueImage,omitempty"`
	Location     Location             `gorm:"embedded;embeddedPrefix:location_" json:"location"`
}

func (f *FreeFoodListing) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
