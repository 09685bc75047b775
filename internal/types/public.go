package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/wallofhumanity/backend/internal/models"
)

// PublicDonation is a donation without its owner reference.
type PublicDonation struct {
	ID           uuid.UUID             `json:"id"`
	CreatedAt    time.Time             `json:"createdAt"`
	Type         models.DonationType   `json:"type"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	DonorName    string                `json:"donorName"`
	Quantity     string                `json:"quantity"`
	FoodType     string                `json:"foodType,omitempty"`
	Images       []string              `json:"images"`
	Availability models.Availability   `json:"availability"`
	Location     models.Location       `json:"location"`
	Status       models.DonationStatus `json:"status"`
}

func NewPublicDonation(d models.Donation) PublicDonation {
	images := []string(d.Images)
	if images == nil {
		images = []string{}
	}
	return PublicDonation{
		ID:           d.ID,
		CreatedAt:    d.CreatedAt,
		Type:         d.Type,
		Title:        d.Title,
		Description:  d.Description,
		DonorName:    d.DonorName,
		Quantity:     d.Quantity,
		FoodType:     d.FoodType,
		Images:       images,
		Availability: d.Availability,
		Location:     d.Location,
		Status:       d.Status,
	}
}
