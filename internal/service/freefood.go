package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/storage"
	"github.com/wallofhumanity/backend/internal/types"
)

type FreeFoodService struct {
	Deps
}

func NewFreeFoodService(deps Deps) *FreeFoodService {
	return &FreeFoodService{Deps: deps.withDefaults()}
}

func normalizeFreeFood(in types.FreeFoodInput) (types.FreeFoodInput, error) {
	in.Type = clean(in.Type)
	in.VenueName = clean(in.VenueName)
	in.FoodType = clean(in.FoodType)
	in.Organizer = clean(in.Organizer)
	in.Availability = models.FreeFoodAvailability{
		Kind:         in.Availability.Kind,
		SpecificDate: clean(in.Availability.SpecificDate),
		StartTime:    clean(in.Availability.StartTime),
		EndTime:      clean(in.Availability.EndTime),
	}
	in.Location = cleanLocation(in.Location)

	if in.Type == "" || in.VenueName == "" {
		return in, apperr.Validation("Type and venue name are required")
	}
	if !in.Availability.Kind.Valid() {
		return in, apperr.Validation("Availability type must be one of specific, weekdays, weekend, allDays")
	}
	if in.Availability.Kind == models.AvailabilitySpecific && in.Availability.SpecificDate == "" {
		return in, apperr.Validation("A specific date is required for specific availability")
	}
	if in.Availability.Kind != models.AvailabilitySpecific {
		in.Availability.SpecificDate = ""
	}
	if !in.Location.Complete() {
		return in, apperr.Validation("Location address, city and state are required")
	}
	return in, nil
}

func (s *FreeFoodService) Create(ctx context.Context, uploader *models.User, in types.FreeFoodInput, image *types.Upload) (*models.FreeFoodListing, error) {
	in, err := normalizeFreeFood(in)
	if err != nil {
		return nil, err
	}

	listing := &models.FreeFoodListing{
		Type:         in.Type,
		VenueName:    in.VenueName,
		FoodType:     in.FoodType,
		Availability: in.Availability,
		Organizer:    in.Organizer,
		UploaderID:   uploader.ID,
		Location:     in.Location,
	}
	if image != nil {
		url, err := s.upload(ctx, storage.FolderFreeFood, image, false)
		if err != nil {
			return nil, err
		}
		listing.ImageURL = url
	}

	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		s.discard(ctx, listing.ImageURL)
		return nil, apperr.Internal("Failed to create listing", err)
	}
	return listing, nil
}

func (s *FreeFoodService) Get(ctx context.Context, id string) (*models.FreeFoodListing, error) {
	listingID, err := parseID(id, "listing")
	if err != nil {
		return nil, err
	}
	var l models.FreeFoodListing
	if err := s.DB.WithContext(ctx).First(&l, "id = ?", listingID).Error; err != nil {
		return nil, dbError(err, "Listing not found", "Failed to load listing")
	}
	return &l, nil
}

// List returns every listing, optionally limited to a city (case-insensitive).
func (s *FreeFoodService) List(ctx context.Context, city string) ([]models.FreeFoodListing, error) {
	q := s.DB.WithContext(ctx)
	if city = strings.TrimSpace(city); city != "" {
		q = q.Where("LOWER(location_city) = ?", strings.ToLower(city))
	}
	return s.find(q)
}

func (s *FreeFoodService) ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]models.FreeFoodListing, error) {
	return s.find(s.DB.WithContext(ctx).Where("uploader_id = ?", uploaderID))
}

func (s *FreeFoodService) find(q *gorm.DB) ([]models.FreeFoodListing, error) {
	listings := []models.FreeFoodListing{}
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, apperr.Internal("Failed to list free food", err)
	}
	return listings, nil
}

func (s *FreeFoodService) owned(ctx context.Context, callerID uuid.UUID, id string) (*models.FreeFoodListing, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UploaderID != callerID {
		return nil, apperr.Forbidden("Not authorized to modify this listing")
	}
	return l, nil
}

func (s *FreeFoodService) Update(ctx context.Context, callerID uuid.UUID, id string, in types.FreeFoodInput, image *types.Upload) (*models.FreeFoodListing, error) {
	l, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	in, err = normalizeFreeFood(in)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"type":                       in.Type,
		"venue_name":                 in.VenueName,
		"food_type":                  in.FoodType,
		"organizer":                  in.Organizer,
		"availability_kind":          in.Availability.Kind,
		"availability_specific_date": in.Availability.SpecificDate,
		"availability_start_time":    in.Availability.StartTime,
		"availability_end_time":      in.Availability.EndTime,
		"location_address":           in.Location.Address,
		"location_city":              in.Location.City,
		"location_state":             in.Location.State,
		"location_area":              in.Location.Area,
	}
	previous := l.ImageURL
	var uploaded string
	if image != nil {
		if uploaded, err = s.upload(ctx, storage.FolderFreeFood, image, false); err != nil {
			return nil, err
		}
		updates["image_url"] = uploaded
	}

	if err := s.DB.WithContext(ctx).Model(&models.FreeFoodListing{}).Where("id = ?", l.ID).Updates(updates).Error; err != nil {
		s.discard(ctx, uploaded)
		return nil, apperr.Internal("Failed to update listing", err)
	}
	if uploaded != "" {
		s.discard(ctx, previous)
	}
	return s.Get(ctx, l.ID.String())
}

func (s *FreeFoodService) Delete(ctx context.Context, callerID uuid.UUID, id string) error {
	l, err := s.owned(ctx, callerID, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&models.FreeFoodListing{}, "id = ?", l.ID).Error; err != nil {
		return apperr.Internal("Failed to delete listing", err)
	}
	s.discard(ctx, l.ImageURL)
	return nil
}
