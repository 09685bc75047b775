package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/models"
)

// CreateUser inserts a user with a bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, roles ...models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        models.RoleSetOf(roles...),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateDonation inserts an available Food donation owned by owner.
func CreateDonation(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Donation {
	t.Helper()

	d := &models.Donation{
		UserID:   owner.ID,
		Type:     models.DonationFood,
		Title:    title,
		Quantity: "1",
		Images:   models.StringList{},
		Location: models.Location{Address: "1 Main St", City: "Pune", State: "MH"},
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("failed to create donation: %v", err)
	}
	return d
}
