package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/lifecycle"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/storage"
	"github.com/wallofhumanity/backend/internal/types"
)

type DonationService struct {
	Deps
}

func NewDonationService(deps Deps) *DonationService {
	return &DonationService{Deps: deps.withDefaults()}
}

func normalizeDonation(in types.DonationInput) (types.DonationInput, error) {
	// titles end up in email subjects
	if strings.ContainsAny(in.Title, "\r\n") {
		return in, apperr.Validation("Title must be a single line")
	}
	in.Title = clean(in.Title)
	in.Description = clean(in.Description)
	in.DonorName = clean(in.DonorName)
	in.Quantity = clean(in.Quantity)
	in.FoodType = clean(in.FoodType)
	in.Availability = models.Availability{
		StartTime: clean(in.Availability.StartTime),
		EndTime:   clean(in.Availability.EndTime),
		Notes:     clean(in.Availability.Notes),
	}
	in.Location = cleanLocation(in.Location)

	if !in.Type.Valid() {
		return in, apperr.Validation("Type must be one of Food, Clothes, Books, Other")
	}
	if in.Title == "" {
		return in, apperr.Validation("Title is required")
	}
	if in.Quantity == "" {
		return in, apperr.Validation("Quantity is required")
	}
	if !in.Location.Complete() {
		return in, apperr.Validation("Location address, city and state are required")
	}
	if in.DonorName == "" {
		in.DonorName = models.DefaultDonorName
	}
	return in, nil
}

func cleanLocation(l models.Location) models.Location {
	return models.Location{
		Address: clean(l.Address),
		City:    clean(l.City),
		State:   clean(l.State),
		Area:    clean(l.Area),
	}
}

// Create stores a new available donation owned by owner. The image, if any,
// is uploaded before the row is written.
func (s *DonationService) Create(ctx context.Context, owner *models.User, in types.DonationInput, image *types.Upload) (*models.Donation, error) {
	in, err := normalizeDonation(in)
	if err != nil {
		return nil, err
	}

	donation := &models.Donation{
		UserID:       owner.ID,
		Type:         in.Type,
		Title:        in.Title,
		Description:  in.Description,
		DonorName:    in.DonorName,
		Quantity:     in.Quantity,
		FoodType:     in.FoodType,
		Images:       models.StringList{},
		Availability: in.Availability,
		Location:     in.Location,
		Status:       models.DonationAvailable,
	}

	if image != nil {
		url, err := s.upload(ctx, storage.FolderDonations, image, false)
		if err != nil {
			return nil, err
		}
		donation.Images = models.StringList{url}
	}

	if err := s.DB.WithContext(ctx).Create(donation).Error; err != nil {
		s.discard(ctx, donation.Images...)
		return nil, apperr.Internal("Failed to create donation", err)
	}
	s.Logger.Info("donation created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("user_id", owner.ID.String()),
	)
	return donation, nil
}

func (s *DonationService) Get(ctx context.Context, id string) (*models.Donation, error) {
	donationID, err := parseID(id, "donation")
	if err != nil {
		return nil, err
	}
	return s.load(s.DB.WithContext(ctx), donationID)
}

func (s *DonationService) load(tx *gorm.DB, id uuid.UUID) (*models.Donation, error) {
	var d models.Donation
	if err := tx.First(&d, "id = ?", id).Error; err != nil {
		return nil, dbError(err, "Donation not found", "Failed to load donation")
	}
	return &d, nil
}

func (s *DonationService) List(ctx context.Context) ([]models.Donation, error) {
	return s.find(s.DB.WithContext(ctx))
}

// ListPublic returns available donations only.
func (s *DonationService) ListPublic(ctx context.Context) ([]models.Donation, error) {
	return s.find(s.DB.WithContext(ctx).Where("status = ?", models.DonationAvailable))
}

func (s *DonationService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Donation, error) {
	return s.find(s.DB.WithContext(ctx).Where("user_id = ?", ownerID))
}

func (s *DonationService) find(q *gorm.DB) ([]models.Donation, error) {
	donations := []models.Donation{}
	if err := q.Order("created_at DESC").Find(&donations).Error; err != nil {
		return nil, apperr.Internal("Failed to list donations", err)
	}
	return donations, nil
}

// ownedDonation loads a donation and checks that callerID owns it.
func (s *DonationService) ownedDonation(ctx context.Context, callerID uuid.UUID, id string) (*models.Donation, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.OwnedBy(callerID) {
		return nil, apperr.Forbidden("Not authorized to modify this donation")
	}
	return d, nil
}

// Update replaces the editable fields. The owner reference never changes.
func (s *DonationService) Update(ctx context.Context, callerID uuid.UUID, id string, in types.DonationInput, image *types.Upload) (*models.Donation, error) {
	d, err := s.ownedDonation(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	in, err = normalizeDonation(in)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"type":                    in.Type,
		"title":                   in.Title,
		"description":             in.Description,
		"donor_name":              in.DonorName,
		"quantity":                in.Quantity,
		"food_type":               in.FoodType,
		"availability_start_time": in.Availability.StartTime,
		"availability_end_time":   in.Availability.EndTime,
		"availability_notes":      in.Availability.Notes,
		"location_address":        in.Location.Address,
		"location_city":           in.Location.City,
		"location_state":          in.Location.State,
		"location_area":           in.Location.Area,
	}

	previous := []string(d.Images)
	var uploaded string
	if image != nil {
		uploaded, err = s.upload(ctx, storage.FolderDonations, image, false)
		if err != nil {
			return nil, err
		}
		updates["images"] = models.StringList{uploaded}
	}

	if err := s.DB.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", d.ID).Updates(updates).Error; err != nil {
		s.discard(ctx, uploaded)
		return nil, apperr.Internal("Failed to update donation", err)
	}
	if uploaded != "" {
		s.discard(ctx, previous...)
	}
	return s.load(s.DB.WithContext(ctx), d.ID)
}

// Complete moves a donation along the lifecycle on behalf of its owner.
func (s *DonationService) Complete(ctx context.Context, callerID uuid.UUID, id string, status models.DonationStatus) (*models.Donation, error) {
	if status == "" {
		status = models.DonationCompleted
	}
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid status %q", status))
	}
	d, err := s.ownedDonation(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transitionDonation(tx, d, status, lifecycle.ActorOwner)
	})
	if err != nil {
		return nil, err
	}
	return s.load(s.DB.WithContext(ctx), d.ID)
}

// transitionDonation applies a table transition with a conditional update so
// that concurrent writers cannot both succeed.
func transitionDonation(tx *gorm.DB, d *models.Donation, to models.DonationStatus, actor lifecycle.Actor) error {
	if err := lifecycle.CanTransition(d.Status, to, actor); err != nil {
		return invalidTransition(d.Status, err)
	}

	res := tx.Model(&models.Donation{}).
		Where("id = ? AND status IN ?", d.ID, lifecycle.SourcesFor(to, actor)).
		Update("status", to)
	if res.Error != nil {
		return apperr.Internal("Failed to update donation status", res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := currentStatus(tx, d.ID)
		if err != nil {
			return err
		}
		return invalidTransition(current, lifecycle.CanTransition(current, to, actor))
	}
	d.Status = to
	return nil
}

func invalidTransition(current models.DonationStatus, cause error) error {
	e := apperr.Conflict(apperr.CodeInvalidTransition, fmt.Sprintf("Donation cannot move from %s", current))
	e.Err = cause
	return e.
		WithDetail("currentStatus", current).
		WithDetail("validTransitions", lifecycle.ValidTransitionsFrom(current))
}

func currentStatus(tx *gorm.DB, id uuid.UUID) (models.DonationStatus, error) {
	var d models.Donation
	if err := tx.Select("status").First(&d, "id = ?", id).Error; err != nil {
		return "", dbError(err, "Donation not found", "Failed to load donation")
	}
	return d.Status, nil
}

// Delete removes a donation and the requests made against it.
func (s *DonationService) Delete(ctx context.Context, callerID uuid.UUID, id string) error {
	d, err := s.ownedDonation(ctx, callerID, id)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("donation_id = ?", d.ID).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Donation{}, "id = ?", d.ID).Error
	})
	if err != nil {
		return apperr.Internal("Failed to delete donation", err)
	}

	s.discard(ctx, d.Images...)
	return nil
}
