package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/types"
)

type VolunteerService struct {
	Deps
	auth *AuthService
}

func NewVolunteerService(deps Deps, auth *AuthService) *VolunteerService {
	return &VolunteerService{Deps: deps.withDefaults(), auth: auth}
}

// Register signs up a volunteer. An existing account can only be extended by
// its authenticated owner; anyone else reusing the email is rejected. Without
// an existing account a new one with roles {user, volunteer} is created.
func (s *VolunteerService) Register(ctx context.Context, caller *models.User, in types.VolunteerRegistration) (*types.VolunteerResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" && caller != nil {
		email = caller.Email
	}
	volunteer := &models.Volunteer{
		Name:         clean(in.Name),
		Email:        email,
		Phone:        clean(in.Phone),
		Address:      clean(in.Address),
		Availability: clean(in.Availability),
		Experience:   clean(in.Experience),
		Interests:    models.StringList{},
	}
	for _, i := range in.Interests {
		if i = clean(i); i != "" {
			volunteer.Interests = append(volunteer.Interests, i)
		}
	}

	if volunteer.Name == "" || volunteer.Phone == "" {
		return nil, apperr.Validation("Name, email and phone are required")
	}
	if !validEmail(email) {
		return nil, apperr.Validation("A valid email is required")
	}
	if caller != nil && caller.Email != email {
		return nil, apperr.Validation("Email must match your account")
	}

	var user *models.User
	created := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			if caller == nil || caller.ID != existing.ID {
				return apperr.Conflict(apperr.CodeEmailExists, "An account with this email already exists, log in to register as a volunteer")
			}
			var count int64
			if err := tx.Model(&models.Volunteer{}).Where("user_id = ?", existing.ID).Count(&count).Error; err != nil {
				return apperr.Internal("Failed to check volunteer", err)
			}
			if count > 0 {
				return apperr.Conflict("", "Already registered as a volunteer")
			}
			existing.Roles = existing.Roles.With(models.RoleVolunteer)
			if err := tx.Model(&existing).Update("roles", existing.Roles).Error; err != nil {
				return apperr.Internal("Failed to update roles", err)
			}
			user = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err = createAccount(tx, volunteer.Name, email, in.Password, models.RoleSetOf(models.RoleUser, models.RoleVolunteer))
			if err != nil {
				return err
			}
			created = true
		default:
			return apperr.Internal("Failed to load user", err)
		}

		volunteer.UserID = user.ID
		if err := tx.Create(volunteer).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("", "Already registered as a volunteer")
			}
			return apperr.Internal("Failed to register volunteer", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &types.VolunteerResponse{Volunteer: volunteer, User: user}
	if created {
		token, err := s.auth.GenerateToken(user.ID, SessionTTL)
		if err != nil {
			return nil, err
		}
		resp.Token = token
		s.Notifier.UserRegistered(user)
	}
	s.Logger.Info("volunteer registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("new_account", created),
	)
	return resp, nil
}
