package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

func volunteerForm(email string) types.VolunteerRegistration {
	return types.VolunteerRegistration{
		Name:         "Sam",
		Email:        email,
		Password:     "secret1",
		Phone:        "555-0100",
		Availability: "weekends",
		Interests:    []string{"cooking", " ", "driving"},
	}
}

func TestVolunteerRegisterCreatesAccount(t *testing.T) {
	f := newFixture(t)
	auth := service.NewAuthService(f.deps, testSecret)
	svc := service.NewVolunteerService(f.deps, auth)

	resp, err := svc.Register(context.Background(), nil, volunteerForm("sam@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.HasRole(models.RoleUser))
	assert.True(t, resp.User.HasRole(models.RoleVolunteer))
	assert.Equal(t, resp.User.ID, resp.Volunteer.UserID)
	assert.Equal(t, models.StringList{"cooking", "driving"}, resp.Volunteer.Interests)

	user, err := auth.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	ev, ok := f.notifier.Next()
	require.True(t, ok)
	assert.Equal(t, "welcome", ev.Kind)
}

func TestVolunteerRegisterExistingEmailRequiresOwner(t *testing.T) {
	f := newFixture(t)
	svc := service.NewVolunteerService(f.deps, service.NewAuthService(f.deps, testSecret))
	existing := f.user(t, "Sam")

	_, err := svc.Register(context.Background(), nil, volunteerForm(existing.Email))
	e := requireAppErr(t, err, apperr.KindConflict)
	assert.Equal(t, apperr.CodeEmailExists, e.Code)

	other := f.user(t, "Other")
	_, err = svc.Register(context.Background(), other, volunteerForm(existing.Email))
	requireAppErr(t, err, apperr.KindValidation)

	var count int64
	f.db.Model(&models.Volunteer{}).Count(&count)
	assert.Zero(t, count)
}

func TestVolunteerRegisterExtendsCallerAccount(t *testing.T) {
	f := newFixture(t)
	svc := service.NewVolunteerService(f.deps, service.NewAuthService(f.deps, testSecret))
	ctx := context.Background()
	caller := f.user(t, "Sam")

	resp, err := svc.Register(ctx, caller, volunteerForm(""))
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
	assert.True(t, resp.User.HasRole(models.RoleVolunteer))
	assert.Equal(t, caller.Email, resp.Volunteer.Email)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", caller.ID).Error)
	assert.True(t, stored.HasRole(models.RoleUser))
	assert.True(t, stored.HasRole(models.RoleVolunteer))

	_, err = svc.Register(ctx, &stored, volunteerForm(caller.Email))
	requireAppErr(t, err, apperr.KindConflict)
}

func TestVolunteerRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := service.NewVolunteerService(f.deps, service.NewAuthService(f.deps, testSecret))

	in := volunteerForm("sam@example.com")
	in.Phone = ""
	_, err := svc.Register(context.Background(), nil, in)
	requireAppErr(t, err, apperr.KindValidation)

	in = volunteerForm("sam@example.com")
	in.Password = "123"
	_, err = svc.Register(context.Background(), nil, in)
	requireAppErr(t, err, apperr.KindValidation)

	var users int64
	f.db.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}
