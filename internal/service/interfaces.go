package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/types"
)

// IAuthService defines the interface for account and token operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	Refresh(ctx context.Context, user *models.User) (*types.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest, avatar *types.Upload) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req types.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// IDonationService defines the interface for donation listings
type IDonationService interface {
	Create(ctx context.Context, owner *models.User, in types.DonationInput, image *types.Upload) (*models.Donation, error)
	Get(ctx context.Context, id string) (*models.Donation, error)
	List(ctx context.Context) ([]models.Donation, error)
	ListPublic(ctx context.Context) ([]models.Donation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Donation, error)
	Update(ctx context.Context, callerID uuid.UUID, id string, in types.DonationInput, image *types.Upload) (*models.Donation, error)
	Complete(ctx context.Context, callerID uuid.UUID, id string, status models.DonationStatus) (*models.Donation, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) error
}

// IRequestService defines the interface for the donation request lifecycle
type IRequestService interface {
	Create(ctx context.Context, requester *models.User, in types.CreateRequestInput) (*models.Request, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	ListReceived(ctx context.Context, ownerID uuid.UUID) ([]models.Request, error)
	UpdateStatus(ctx context.Context, callerID uuid.UUID, id string, status models.RequestStatus) (*models.Request, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) error
}

// INGOService defines the interface for NGO registration and review
type INGOService interface {
	Register(ctx context.Context, in types.NGORegistration, logo, certificate *types.Upload) (*models.NGO, error)
	List(ctx context.Context) ([]models.NGO, error)
	SetStatus(ctx context.Context, id string, status models.NGOStatus) (*models.NGO, error)
}

// IVolunteerService defines the interface for volunteer sign-up
type IVolunteerService interface {
	Register(ctx context.Context, caller *models.User, in types.VolunteerRegistration) (*types.VolunteerResponse, error)
}

// IFreeFoodService defines the interface for the free-food directory
type IFreeFoodService interface {
	Create(ctx context.Context, uploader *models.User, in types.FreeFoodInput, image *types.Upload) (*models.FreeFoodListing, error)
	Get(ctx context.Context, id string) (*models.FreeFoodListing, error)
	List(ctx context.Context, city string) ([]models.FreeFoodListing, error)
	ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]models.FreeFoodListing, error)
	Update(ctx context.Context, callerID uuid.UUID, id string, in types.FreeFoodInput, image *types.Upload) (*models.FreeFoodListing, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) error
}

// IStatsService defines the interface for aggregate counts
type IStatsService interface {
	Stats(ctx context.Context) (*types.Stats, error)
}

// Notifier dispatches transactional email. Every method returns immediately;
// delivery happens in the background and failures never reach the caller.
type Notifier interface {
	RequestCreated(donation *models.Donation, owner *models.User, request *models.Request, requester *models.User)
	RequestStatusChanged(request *models.Request, donation *models.Donation, requester *models.User)
	UserRegistered(user *models.User)
	NGORegistered(ngo *models.NGO)
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) RequestCreated(*models.Donation, *models.User, *models.Request, *models.User) {}
func (NopNotifier) RequestStatusChanged(*models.Request, *models.Donation, *models.User) {}
func (NopNotifier) UserRegistered(*models.User) {}
func (NopNotifier) NGORegistered(*models.NGO) {}
