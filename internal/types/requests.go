package types

import (
	"io"

	"github.com/wallofhumanity/backend/internal/models"
)

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register, login and verify.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileRequest carries the editable profile fields. Nil means unchanged.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Bio     *string `json:"bio"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DonationInput is the body of donation create and update.
type DonationInput struct {
	Type         models.DonationType `json:"type"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DonorName    string              `json:"donorName"`
	Quantity     string              `json:"quantity"`
	FoodType     string              `json:"foodType"`
	Availability models.Availability `json:"availability"`
	Location     models.Location     `json:"location"`
}

type DonationStatusRequest struct {
	Status models.DonationStatus `json:"status"`
}

// CreateRequestInput is the body of POST /api/requests. Older clients send
// the donation id as "donation".
type CreateRequestInput struct {
	DonationID    string         `json:"donationId"`
	Donation      string         `json:"donation"`
	RequestorName string         `json:"requestorName"`
	ContactNumber string         `json:"contactNumber"`
	Address       string         `json:"address"`
	Reason        string         `json:"reason"`
	Urgency       models.Urgency `json:"urgency"`
}

// TargetDonation returns whichever donation id field was supplied.
func (r CreateRequestInput) TargetDonation() string {
	if r.DonationID != "" {
		return r.DonationID
	}
	return r.Donation
}

type RequestStatusRequest struct {
	Status models.RequestStatus `json:"status"`
}

// NGORegistration is the multipart form of POST /api/ngos/register.
type NGORegistration struct {
	Name              string               `json:"name"`
	Email             string               `json:"email"`
	Phone             string               `json:"phone"`
	ContactPerson     models.ContactPerson `json:"contactPerson"`
	Website           string               `json:"website"`
	Type              string               `json:"type"`
	IncorporationDate string               `json:"incorporationDate"`
	Address           string               `json:"address"`
	SocialLinks       models.SocialLinks   `json:"socialLinks"`
}

type NGOStatusRequest struct {
	Status models.NGOStatus `json:"status"`
}

// VolunteerRegistration is the body of both volunteer endpoints. Password is
// only used when a new account is created.
type VolunteerRegistration struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Availability string   `json:"availability"`
	Interests    []string `json:"interests"`
	Experience   string   `json:"experience"`
}

type VolunteerResponse struct {
	Volunteer *models.Volunteer `json:"volunteer"`
	User      *models.User      `json:"user"`
	Token     string            `json:"token,omitempty"`
}

// FreeFoodInput is the body of free-food create and update.
type FreeFoodInput struct {
	Type         string                      `json:"type"`
	VenueName    string                      `json:"venueName"`
	FoodType     string                      `json:"foodType"`
	Availability models.FreeFoodAvailability `json:"availability"`
	Organizer    string                      `json:"organizer"`
	Location     models.Location             `json:"location"`
}

// Upload describes a file received with a request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stats is the response of GET /api/donations/stats.
type Stats struct {
	TotalDonations    int64            `json:"totalDonations"`
	DonationsByStatus map[string]int64 `json:"donationsByStatus"`
	DonationsByType   map[string]int64 `json:"donationsByType"`
	TotalRequests     int64            `json:"totalRequests"`
	TotalUsers        int64            `json:"totalUsers"`
	ApprovedNGOs      int64            `json:"approvedNgos"`
	Volunteers        int64            `json:"volunteers"`
	FreeFoodListings  int64            `json:"freeFoodListings"`
}
