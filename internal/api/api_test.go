package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wallofhumanity/backend/internal/api"
	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/testhelpers"
)

type testAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	store    *testhelpers.MemoryStore
	notifier *testhelpers.RecordingNotifier
}

func setup(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ta := &testAPI{
		db:       testhelpers.SetupTestDatabase(t),
		store:    testhelpers.NewMemoryStore(),
		notifier: testhelpers.NewRecordingNotifier(),
	}
	m := metrics.New()
	deps := service.Deps{
		DB:             ta.db,
		Store:          ta.store,
		Notifier:       ta.notifier,
		Metrics:        m,
		MaxUploadBytes: 1 << 20,
	}
	auth := service.NewAuthService(deps, "test-secret")
	svc := api.Services{
		Auth:       auth,
		Donations:  service.NewDonationService(deps),
		Requests:   service.NewRequestService(deps),
		NGOs:       service.NewNGOService(deps),
		Volunteers: service.NewVolunteerService(deps, auth),
		FreeFood:   service.NewFreeFoodService(deps),
		Stats:      service.NewStatsService(deps),
	}

	ta.router = gin.New()
	ta.router.Use(middleware.Recovery(zap.NewNop(), true), middleware.ErrorHandler(zap.NewNop(), true))
	api.RegisterRoutes(ta.router, svc, api.Options{DB: ta.db, Metrics: m})
	return ta
}

func (ta *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// register creates an account over HTTP and returns its token.
func (ta *testAPI) register(t *testing.T, name, email string) string {
	t.Helper()
	w := ta.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	return resp.Token
}

func (ta *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	w := ta.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func donationBody(title string) gin.H {
	return gin.H{
		"type":     "Food",
		"title":    title,
		"quantity": "5 kg",
		"location": gin.H{"address": "12 Main St", "city": "Pune", "state": "MH"},
	}
}

func (ta *testAPI) createDonation(t *testing.T, token, title string) models.Donation {
	t.Helper()
	w := ta.do(t, http.MethodPost, "/api/donations", token, donationBody(title))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var d models.Donation
	decode(t, w, &d)
	return d
}

func requestBody(donationID string) gin.H {
	return gin.H{
		"donationId":    donationID,
		"contactNumber": "9999999999",
		"address":       "4 Park Road",
		"reason":        "family of four",
	}
}

func TestDonateAndRequestFlow(t *testing.T) {
	ta := setup(t)

	ta.register(t, "A", "a@x.com")
	tokenA := ta.login(t, "a@x.com")

	d := ta.createDonation(t, tokenA, "Rice")
	assert.Equal(t, models.DonationAvailable, d.Status)

	ta.register(t, "B", "b@x.com")
	tokenB := ta.login(t, "B@X.com")

	w := ta.do(t, http.MethodPost, "/api/requests", tokenB, requestBody(d.ID.String()))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ta.do(t, http.MethodGet, "/api/donations/"+d.ID.String(), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Donation
	decode(t, w, &got)
	assert.Equal(t, models.DonationRequested, got.Status)

	w = ta.do(t, http.MethodPost, "/api/requests", tokenB, requestBody(d.ID.String()))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Contains(t, body["message"], "already been requested")
	assert.Equal(t, "ALREADY_REQUESTED", body["code"])
	assert.Equal(t, "requested", body["currentStatus"])

	var count int64
	require.NoError(t, ta.db.Model(&models.Request{}).Where("donation_id = ?", d.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w = ta.do(t, http.MethodGet, "/api/requests/received", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var received []models.Request
	decode(t, w, &received)
	assert.Len(t, received, 1)
}

func TestDeleteAccountRemovesDonations(t *testing.T) {
	ta := setup(t)

	tokenA := ta.register(t, "A", "a@x.com")
	tokenB := ta.register(t, "B", "b@x.com")
	d := ta.createDonation(t, tokenA, "Rice")
	ta.createDonation(t, tokenB, "Books")

	w := ta.do(t, http.MethodDelete, "/api/auth/profile/delete", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ta.do(t, http.MethodGet, "/api/donations", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Donation
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.NotEqual(t, d.ID, list[0].ID)

	// the deleted account's token no longer authenticates
	w = ta.do(t, http.MethodGet, "/api/auth/profile", tokenA, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGate(t *testing.T) {
	ta := setup(t)

	w := ta.do(t, http.MethodGet, "/api/donations/my-donations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "NO_TOKEN", body["code"])
	assert.NotEmpty(t, body["message"])

	w = ta.do(t, http.MethodGet, "/api/donations/my-donations", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := ta.register(t, "Asha", "asha@example.com")
	w = ta.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	ta := setup(t)

	w := ta.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Short", "email": "short@example.com", "password": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ta.register(t, "Asha", "asha@example.com")
	w = ta.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "ASHA@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicDonationsHideOwner(t *testing.T) {
	ta := setup(t)
	token := ta.register(t, "A", "a@x.com")
	ta.createDonation(t, token, "Rice")

	w := ta.do(t, http.MethodGet, "/api/donations/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Rice", list[0]["title"])
	assert.NotContains(t, list[0], "userId")
	assert.NotContains(t, list[0], "user")
}

func TestDonationsReadableWithoutToken(t *testing.T) {
	ta := setup(t)
	token := ta.register(t, "A", "a@x.com")
	d := ta.createDonation(t, token, "Rice")

	w := ta.do(t, http.MethodGet, "/api/donations", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list []models.Donation
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, d.ID, list[0].ID)

	w = ta.do(t, http.MethodGet, "/api/donations/"+d.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ta.do(t, http.MethodPost, "/api/donations", "", donationBody("Dal"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNonOwnerCannotEditDonation(t *testing.T) {
	ta := setup(t)
	tokenA := ta.register(t, "A", "a@x.com")
	tokenB := ta.register(t, "B", "b@x.com")
	d := ta.createDonation(t, tokenA, "Rice")

	w := ta.do(t, http.MethodPut, "/api/donations/"+d.ID.String(), tokenB, donationBody("Stolen"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, http.MethodDelete, "/api/donations/"+d.ID.String(), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Donation
	require.NoError(t, ta.db.First(&stored, "id = ?", d.ID).Error)
	assert.Equal(t, "Rice", stored.Title)
}

func TestCreateDonationMultipart(t *testing.T) {
	ta := setup(t)
	token := ta.register(t, "A", "a@x.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "Clothes"))
	require.NoError(t, mw.WriteField("title", "Winter coats"))
	require.NoError(t, mw.WriteField("quantity", "3"))
	require.NoError(t, mw.WriteField("location", `{"address":"1 Hill Rd","city":"Shimla","state":"HP"}`))
	require.NoError(t, mw.WriteField("availability", `{"startTime":"09:00","endTime":"17:00"}`))
	fw, err := mw.CreateFormFile("images", "coat.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/donations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var d models.Donation
	decode(t, w, &d)
	assert.Equal(t, "Winter coats", d.Title)
	assert.Equal(t, "Shimla", d.Location.City)
	assert.Equal(t, "09:00", d.Availability.StartTime)
	require.Len(t, d.Images, 1)
	assert.True(t, ta.store.Has(d.Images[0]))
}

func TestMalformedMultipartLocation(t *testing.T) {
	ta := setup(t)
	token := ta.register(t, "A", "a@x.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "Food"))
	require.NoError(t, mw.WriteField("title", "Rice"))
	require.NoError(t, mw.WriteField("location", "{not json"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/donations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	ta := setup(t)
	token := ta.register(t, "A", "a@x.com")
	ta.createDonation(t, token, "Rice")

	w := ta.do(t, http.MethodGet, "/api/donations/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	decode(t, w, &stats)
	assert.EqualValues(t, 1, stats["totalDonations"])
}

func TestHealthAndNotFound(t *testing.T) {
	ta := setup(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := ta.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "healthy", body["status"])
	}

	w := ta.do(t, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Route not found"}`, w.Body.String())
}
