package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/apperr"
	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/testhelpers"
	"github.com/wallofhumanity/backend/internal/types"
)

const testSecret = "test-secret"

type fixture struct {
	db       *gorm.DB
	store    *testhelpers.MemoryStore
	notifier *testhelpers.RecordingNotifier
	metrics  *metrics.Metrics
	deps     service.Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       testhelpers.SetupTestDatabase(t),
		store:    testhelpers.NewMemoryStore(),
		notifier: testhelpers.NewRecordingNotifier(),
		metrics:  metrics.New(),
	}
	f.deps = service.Deps{
		DB:             f.db,
		Store:          f.store,
		Notifier:       f.notifier,
		Metrics:        f.metrics,
		MaxUploadBytes: 1024,
	}
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	return testhelpers.CreateUser(t, f.db, name, strings.ToLower(name)+"@example.com", "password123")
}

func (f *fixture) donation(t *testing.T, owner *models.User, title string) *models.Donation {
	return testhelpers.CreateDonation(t, f.db, owner, title)
}

func image(name, body string) *types.Upload {
	return &types.Upload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

// requireAppErr asserts err is an *apperr.Error of kind and returns it.
func requireAppErr(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperr.Is(err, kind), "expected %s error, got %v", kind, err)
	return apperr.As(err)
}
