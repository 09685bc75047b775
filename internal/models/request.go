package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

// Request is a requester's claim against a donation.
type Request struct {
	ID            uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	UserID        uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"userId"`
	DonationID    uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"donationId"`
	Donation      *Donation     `gorm:"foreignKey:DonationID" json:"donation,omitempty"`
	RequestorName string        `gorm:"size:255;not null" json:"requestorName"`
	ContactNumber string        `gorm:"size:32;not null" json:"contactNumber"`
	Address       string        `gorm:"not null" json:"address"`
	Reason        string        `gorm:"type:text" json:"reason"`
	Urgency       Urgency       `gorm:"size:16;not null;default:'normal'" json:"urgency"`
	Status        RequestStatus `gorm:"size:16;not null;default:'pending'" json:"status"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Urgency == "" {
		r.Urgency = UrgencyNormal
	}
	if r.Status == "" {
		r.Status = RequestPending
	}
	return nil
}
