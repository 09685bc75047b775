package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/lifecycle"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/types"
)

// RequestService drives the donation lifecycle from the requester's side and
// lets owners answer requests.
type RequestService struct {
	Deps
	donations *DonationService
}

func NewRequestService(deps Deps) *RequestService {
	deps = deps.withDefaults()
	return &RequestService{Deps: deps, donations: NewDonationService(deps)}
}

func alreadyRequested(current models.DonationStatus) error {
	msg := "This donation has already been requested"
	if current == models.DonationCompleted {
		msg = "This donation has already been completed"
	}
	e := apperr.New(apperr.KindConflict, http.StatusBadRequest, apperr.CodeAlreadyRequested, msg)
	return e.WithDetail("currentStatus", current)
}

// Create records a request and moves the donation to requested in a single
// transaction. Of several concurrent callers exactly one succeeds; the rest
// get ALREADY_REQUESTED.
func (s *RequestService) Create(ctx context.Context, requester *models.User, in types.CreateRequestInput) (*models.Request, error) {
	donationID, err := parseID(in.TargetDonation(), "donation")
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		UserID:        requester.ID,
		DonationID:    donationID,
		RequestorName: clean(in.RequestorName),
		ContactNumber: clean(in.ContactNumber),
		Address:       clean(in.Address),
		Reason:        clean(in.Reason),
		Urgency:       in.Urgency,
		Status:        models.RequestPending,
	}
	if req.RequestorName == "" {
		req.RequestorName = requester.Name
	}
	if req.Urgency == "" {
		req.Urgency = models.UrgencyNormal
	}
	if !req.Urgency.Valid() {
		return nil, apperr.Validation("Urgency must be one of normal, urgent, emergency")
	}
	if req.ContactNumber == "" || req.Address == "" {
		return nil, apperr.Validation("Contact number and address are required")
	}

	var donation *models.Donation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		donation, err = s.donations.load(tx, donationID)
		if err != nil {
			return err
		}
		if donation.OwnedBy(requester.ID) {
			return apperr.Validation("You cannot request your own donation")
		}

		if err := transitionDonation(tx, donation, models.DonationRequested, lifecycle.ActorRequester); err != nil {
			if apperr.Is(err, apperr.KindConflict) {
				current, _ := apperr.As(err).Details["currentStatus"].(models.DonationStatus)
				return alreadyRequested(current)
			}
			return err
		}

		if err := tx.Create(req).Error; err != nil {
			return apperr.Internal("Failed to create request", err)
		}
		return nil
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			s.Metrics.ObserveDonationRequest("conflict")
		} else {
			s.Metrics.ObserveDonationRequest("rejected")
		}
		return nil, err
	}
	s.Metrics.ObserveDonationRequest("created")

	s.Logger.Info("donation requested",
		zap.String("donation_id", donation.ID.String()),
		zap.String("request_id", req.ID.String()),
		zap.String("user_id", requester.ID.String()),
	)

	var owner models.User
	if err := s.DB.WithContext(ctx).First(&owner, "id = ?", donation.UserID).Error; err != nil {
		s.Logger.Warn("could not load donation owner for notification", zap.Error(err))
	}
	s.Notifier.RequestCreated(donation, &owner, req, requester)

	req.Donation = donation
	return req, nil
}

func (s *RequestService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	return s.find(s.DB.WithContext(ctx).Where("user_id = ?", userID))
}

// ListReceived returns requests made against donations owned by ownerID.
func (s *RequestService) ListReceived(ctx context.Context, ownerID uuid.UUID) ([]models.Request, error) {
	db := s.DB.WithContext(ctx)
	owned := db.Model(&models.Donation{}).Select("id").Where("user_id = ?", ownerID)
	return s.find(db.Where("donation_id IN (?)", owned))
}

func (s *RequestService) find(q *gorm.DB) ([]models.Request, error) {
	requests := []models.Request{}
	if err := q.Preload("Donation").Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, apperr.Internal("Failed to list requests", err)
	}
	return requests, nil
}

func (s *RequestService) load(tx *gorm.DB, id uuid.UUID) (*models.Request, error) {
	var r models.Request
	if err := tx.First(&r, "id = ?", id).Error; err != nil {
		return nil, dbError(err, "Request not found", "Failed to load request")
	}
	return &r, nil
}

// UpdateStatus lets the donation owner answer a request. Completing a request
// also completes its donation.
func (s *RequestService) UpdateStatus(ctx context.Context, callerID uuid.UUID, id string, status models.RequestStatus) (*models.Request, error) {
	requestID, err := parseID(id, "request")
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid status %q, must be one of pending, approved, rejected, completed", status))
	}

	var req *models.Request
	var donation *models.Donation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if req, err = s.load(tx, requestID); err != nil {
			return err
		}
		if donation, err = s.donations.load(tx, req.DonationID); err != nil {
			return err
		}
		if !donation.OwnedBy(callerID) {
			return apperr.Forbidden("Only the donation owner can update this request")
		}

		if err := tx.Model(req).Update("status", status).Error; err != nil {
			return apperr.Internal("Failed to update request", err)
		}
		req.Status = status

		if status == models.RequestCompleted && lifecycle.CanTransition(donation.Status, models.DonationCompleted, lifecycle.ActorOwner) == nil {
			return transitionDonation(tx, donation, models.DonationCompleted, lifecycle.ActorOwner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var requester models.User
	if err := s.DB.WithContext(ctx).First(&requester, "id = ?", req.UserID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Warn("could not load requester for notification", zap.Error(err))
		}
	} else {
		s.Notifier.RequestStatusChanged(req, donation, &requester)
	}

	req.Donation = donation
	return req, nil
}

// Delete withdraws a request. Only the requester may do so; the donation
// keeps its status.
func (s *RequestService) Delete(ctx context.Context, callerID uuid.UUID, id string) error {
	requestID, err := parseID(id, "request")
	if err != nil {
		return err
	}
	req, err := s.load(s.DB.WithContext(ctx), requestID)
	if err != nil {
		return err
	}
	if req.UserID != callerID {
		return apperr.Forbidden("Not authorized to delete this request")
	}
	if err := s.DB.WithContext(ctx).Delete(&models.Request{}, "id = ?", req.ID).Error; err != nil {
		return apperr.Internal("Failed to delete request", err)
	}
	return nil
}
