package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/storage"
	"github.com/wallofhumanity/backend/internal/types"
)

type NGOService struct {
	Deps
}

func NewNGOService(deps Deps) *NGOService {
	return &NGOService{Deps: deps.withDefaults()}
}

// Register stores a pending NGO. Logo and certificate are uploaded one after
// the other before anything is written; a failed upload aborts the
// registration.
func (s *NGOService) Register(ctx context.Context, in types.NGORegistration, logo, certificate *types.Upload) (*models.NGO, error) {
	ngo := &models.NGO{
		Name:  clean(in.Name),
		Email: NormalizeEmail(in.Email),
		Phone: clean(in.Phone),
		ContactPerson: models.ContactPerson{
			Name:  clean(in.ContactPerson.Name),
			Email: NormalizeEmail(in.ContactPerson.Email),
			Phone: clean(in.ContactPerson.Phone),
		},
		Website:           clean(in.Website),
		Type:              clean(in.Type),
		IncorporationDate: clean(in.IncorporationDate),
		Address:           clean(in.Address),
		SocialLinks: models.SocialLinks{
			Facebook:  clean(in.SocialLinks.Facebook),
			Twitter:   clean(in.SocialLinks.Twitter),
			Instagram: clean(in.SocialLinks.Instagram),
			LinkedIn:  clean(in.SocialLinks.LinkedIn),
		},
		Status: models.NGOPending,
	}

	if ngo.Name == "" || ngo.Phone == "" || ngo.Type == "" || ngo.Address == "" {
		return nil, apperr.Validation("Name, email, phone, type and address are required")
	}
	if !validEmail(ngo.Email) {
		return nil, apperr.Validation("A valid email is required")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.NGO{}).Where("email = ?", ngo.Email).Count(&count).Error; err != nil {
		return nil, apperr.Internal("Failed to check email", err)
	}
	if count > 0 {
		return nil, apperr.Conflict(apperr.CodeEmailExists, "An NGO with this email is already registered")
	}

	if logo != nil {
		url, err := s.upload(ctx, storage.FolderNGOLogos, logo, false)
		if err != nil {
			return nil, err
		}
		ngo.LogoURL = url
	}
	if certificate != nil {
		url, err := s.upload(ctx, storage.FolderCertificates, certificate, true)
		if err != nil {
			s.discard(ctx, ngo.LogoURL)
			return nil, err
		}
		ngo.CertificateURL = url
	}

	if err := s.DB.WithContext(ctx).Create(ngo).Error; err != nil {
		s.discard(ctx, ngo.LogoURL, ngo.CertificateURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeEmailExists, "An NGO with this email is already registered")
		}
		return nil, apperr.Internal("Failed to register NGO", err)
	}

	s.Logger.Info("ngo registered", zap.String("ngo_id", ngo.ID.String()))
	s.Notifier.NGORegistered(ngo)
	return ngo, nil
}

func (s *NGOService) List(ctx context.Context) ([]models.NGO, error) {
	ngos := []models.NGO{}
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&ngos).Error; err != nil {
		return nil, apperr.Internal("Failed to list NGOs", err)
	}
	return ngos, nil
}

// SetStatus records an admin's review decision.
func (s *NGOService) SetStatus(ctx context.Context, id string, status models.NGOStatus) (*models.NGO, error) {
	ngoID, err := parseID(id, "NGO")
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid status %q, must be one of pending, approved, rejected", status))
	}

	var ngo models.NGO
	if err := s.DB.WithContext(ctx).First(&ngo, "id = ?", ngoID).Error; err != nil {
		return nil, dbError(err, "NGO not found", "Failed to load NGO")
	}
	if err := s.DB.WithContext(ctx).Model(&ngo).Update("status", status).Error; err != nil {
		return nil, apperr.Internal("Failed to update NGO", err)
	}
	ngo.Status = status
	return &ngo, nil
}
