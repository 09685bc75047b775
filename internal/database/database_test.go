package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wallofhumanity/backend/config"
	"github.com/wallofhumanity/backend/internal/database"
	"github.com/wallofhumanity/backend/internal/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect("sqlite", dsn, logger.Silent, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestMigrateAndHealthCheck(t *testing.T) {
	db := openSQLite(t)

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "table for %T", m)
	}
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestEmailIsUnique(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, db.Create(&models.User{Name: "A", Email: "a@x.com"}).Error)
	err := db.Create(&models.User{Name: "B", Email: "a@x.com"}).Error
	assert.Error(t, err)
}

func TestDonationRoundTrip(t *testing.T) {
	db := openSQLite(t)

	owner := models.User{Name: "Owner", Email: "owner@x.com"}
	require.NoError(t, db.Create(&owner).Error)

	d := models.Donation{
		UserID:   owner.ID,
		Type:     models.DonationFood,
		Title:    "Rice",
		Quantity: "5kg",
		Images:   models.StringList{"/uploads/donations/a.jpg"},
		Location: models.Location{Address: "1 Main St", City: "Pune", State: "MH"},
	}
	require.NoError(t, db.Create(&d).Error)

	var got models.Donation
	require.NoError(t, db.First(&got, "id = ?", d.ID).Error)
	assert.Equal(t, models.DonationAvailable, got.Status)
	assert.Equal(t, models.DefaultDonorName, got.DonorName)
	assert.Equal(t, models.StringList{"/uploads/donations/a.jpg"}, got.Images)
	assert.Equal(t, "Pune", got.Location.City)

	var u models.User
	require.NoError(t, db.First(&u, "id = ?", owner.ID).Error)
	assert.True(t, u.HasRole(models.RoleUser))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mysql"}, nil)
	assert.Error(t, err)
}
