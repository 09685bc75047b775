package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/storage"
	"github.com/wallofhumanity/backend/internal/types"
)

const (
	// SessionTTL is the lifetime of tokens issued by login and register.
	SessionTTL = 24 * time.Hour
	// RefreshTTL is the lifetime of tokens issued by verify.
	RefreshTTL = 7 * 24 * time.Hour

	minPasswordLength = 6
)

type AuthService struct {
	Deps
	jwtSecret []byte
}

func NewAuthService(deps Deps, jwtSecret string) *AuthService {
	return &AuthService{
		Deps:      deps.withDefaults(),
		jwtSecret: []byte(jwtSecret),
	}
}

func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	var user *models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = createAccount(tx, req.Name, req.Email, req.Password, models.RoleSetOf(models.RoleUser))
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := s.GenerateToken(user.ID, SessionTTL)
	if err != nil {
		return nil, err
	}

	s.Notifier.UserRegistered(user)
	s.Logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return &types.AuthResponse{Token: token, User: user}, nil
}

// CreateAdmin inserts an account holding the admin role. An existing account
// with the same email is promoted instead.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	var user *models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", NormalizeEmail(email)).First(&existing).Error
		switch {
		case err == nil:
			existing.Roles = existing.Roles.With(models.RoleAdmin)
			if err := tx.Model(&existing).Update("roles", existing.Roles).Error; err != nil {
				return apperr.Internal("Failed to update roles", err)
			}
			user = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err = createAccount(tx, name, email, password, models.RoleSetOf(models.RoleUser, models.RoleAdmin))
			return err
		default:
			return apperr.Internal("Failed to look up user", err)
		}
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("admin account ready", zap.String("user_id", user.ID.String()))
	return user, nil
}

// createAccount validates the credentials and inserts a user. tx must be a
// transaction when the caller performs further writes.
func createAccount(tx *gorm.DB, name, email, password string, roles models.RoleSet) (*models.User, error) {
	name = clean(name)
	email = NormalizeEmail(email)

	if name == "" {
		return nil, apperr.Validation("Name is required")
	}
	if !validEmail(email) {
		return nil, apperr.Validation("A valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.Validation("Password must be at least 6 characters")
	}

	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Internal("Failed to check email", err)
	}
	if count > 0 {
		return nil, apperr.Conflict(apperr.CodeEmailExists, "User already exists with this email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeEmailExists, "User already exists with this email")
		}
		return nil, apperr.Internal("Failed to create user", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid credentials")
		}
		return nil, apperr.Internal("Failed to load user", err)
	}

	if user.PasswordHash == "" {
		e := apperr.Internal("Account has no password set, please reset it", nil)
		e.Code = apperr.CodePasswordNotSet
		return nil, e
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid credentials")
	}

	token, err := s.GenerateToken(user.ID, SessionTTL)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, User: &user}, nil
}

// Refresh issues a long-lived token for an already authenticated user.
func (s *AuthService) Refresh(_ context.Context, user *models.User) (*types.AuthResponse, error) {
	token, err := s.GenerateToken(user.ID, RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) GenerateToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID.String(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperr.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// ValidateToken checks the signature and expiry of a token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized(apperr.CodeTokenExpired, "Token has expired")
		}
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token")
	}
	if !token.Valid {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.UserID
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token")
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized(apperr.CodeUserNotFound, "User not found")
		}
		e := apperr.Unauthorized(apperr.CodeAuthFailed, "Authentication failed")
		e.Err = err
		return nil, e
	}
	return &user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, dbError(err, "User not found", "Failed to load user")
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields and, when avatar is set, replaces
// the avatar image.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest, avatar *types.Upload) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := clean(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Bio != nil {
		updates["bio"] = clean(*req.Bio)
	}
	if req.Phone != nil {
		updates["phone"] = clean(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = clean(*req.Address)
	}

	previousAvatar := user.AvatarURL
	if avatar != nil {
		url, err := s.upload(ctx, storage.FolderAvatars, avatar, false)
		if err != nil {
			return nil, err
		}
		updates["avatar_url"] = url
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if url, ok := updates["avatar_url"].(string); ok {
			s.discard(ctx, url)
		}
		return nil, apperr.Internal("Failed to update profile", err)
	}
	if avatar != nil {
		s.discard(ctx, previousAvatar)
	}
	return s.GetProfile(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req types.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperr.Validation("Current and new password are required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperr.Validation("Password must be at least 6 characters")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return apperr.Unauthorized(apperr.CodeInvalidCredentials, "Current password is incorrect")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return apperr.Internal("Failed to update password", err)
	}
	return nil
}

// DeleteAccount removes the user together with everything that references it.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	var files []string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var donations []models.Donation
		if err := tx.Where("user_id = ?", userID).Find(&donations).Error; err != nil {
			return err
		}
		donationIDs := make([]uuid.UUID, 0, len(donations))
		for _, d := range donations {
			donationIDs = append(donationIDs, d.ID)
			files = append(files, d.Images...)
		}

		var listings []models.FreeFoodListing
		if err := tx.Where("uploader_id = ?", userID).Find(&listings).Error; err != nil {
			return err
		}
		for _, l := range listings {
			files = append(files, l.ImageURL)
		}

		q := tx.Where("user_id = ?", userID)
		if len(donationIDs) > 0 {
			q = tx.Where("user_id = ? OR donation_id IN ?", userID, donationIDs)
		}
		if err := q.Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Donation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Volunteer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("uploader_id = ?", userID).Delete(&models.FreeFoodListing{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		return apperr.Internal("Failed to delete account", err)
	}

	files = append(files, user.AvatarURL)
	s.discard(ctx, files...)
	s.Logger.Info("account deleted", zap.String("user_id", userID.String()))
	return nil
}
