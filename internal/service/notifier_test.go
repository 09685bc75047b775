package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/testhelpers"
)

func requestScenario() (*models.Donation, *models.User, *models.Request, *models.User) {
	owner := &models.User{ID: uuid.New(), Name: "Owner", Email: "owner@example.com"}
	requester := &models.User{ID: uuid.New(), Name: "Req", Email: "req@example.com"}
	d := &models.Donation{ID: uuid.New(), UserID: owner.ID, Title: "Rice & Dal", Type: models.DonationFood, Quantity: "2kg"}
	r := &models.Request{
		ID:            uuid.New(),
		UserID:        requester.ID,
		DonationID:    d.ID,
		RequestorName: "<b>Req</b>",
		ContactNumber: "123",
		Address:       "x",
		Urgency:       models.UrgencyEmergency,
		Status:        models.RequestPending,
	}
	return d, owner, r, requester
}

func TestEmailNotifierRequestCreated(t *testing.T) {
	transport := &testhelpers.RecordingTransport{}
	m := metrics.New()
	n := service.NewEmailNotifier(service.NewEmailService("ops@wallofhumanity.org", "https://wall.example/"), transport, zap.NewNop(), m)

	n.RequestCreated(requestScenario())
	n.Wait()

	sent := transport.Sent()
	require.Len(t, sent, 3)
	recipients := []string{sent[0].To, sent[1].To, sent[2].To}
	assert.ElementsMatch(t, []string{"owner@example.com", "ops@wallofhumanity.org", "req@example.com"}, recipients)
	for _, msg := range sent {
		assert.Equal(t, "request_created", msg.Kind)
		assert.NotContains(t, msg.HTML, "<b>Req</b>")
		assert.Contains(t, msg.HTML, "&lt;b&gt;Req&lt;/b&gt;")
	}
	assert.Contains(t, sent[0].HTML, "https://wall.example/dashboard")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Notifications.WithLabelValues("request_created", "ok")))
}

func TestEmailNotifierSkipsOperatorWhenUnset(t *testing.T) {
	transport := &testhelpers.RecordingTransport{}
	n := service.NewEmailNotifier(service.NewEmailService("", "https://wall.example"), transport, nil, nil)

	n.RequestCreated(requestScenario())
	n.NGORegistered(&models.NGO{Name: "Helping Hands"})
	n.Wait()

	assert.Len(t, transport.Sent(), 2)
}

func TestEmailNotifierStatusChange(t *testing.T) {
	transport := &testhelpers.RecordingTransport{}
	n := service.NewEmailNotifier(service.NewEmailService("", "https://wall.example"), transport, nil, nil)
	d, _, r, requester := requestScenario()

	r.Status = models.RequestApproved
	n.RequestStatusChanged(r, d, requester)
	r.Status = models.RequestRejected
	n.RequestStatusChanged(r, d, requester)
	n.RequestStatusChanged(r, d, &models.User{})
	n.Wait()

	sent := transport.Sent()
	require.Len(t, sent, 2)
	subjects := sent[0].Subject + "|" + sent[1].Subject
	assert.Contains(t, subjects, "Request Approved: Rice & Dal")
	assert.Contains(t, subjects, "Request Rejected: Rice & Dal")
}

func TestEmailNotifierSwallowsTransportErrors(t *testing.T) {
	transport := &testhelpers.RecordingTransport{Err: errors.New("smtp down")}
	m := metrics.New()
	n := service.NewEmailNotifier(service.NewEmailService("", "https://wall.example"), transport, zap.NewNop(), m)

	n.UserRegistered(&models.User{Name: "Asha", Email: "asha@example.com"})
	n.Wait()

	assert.Empty(t, transport.Sent())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("welcome", "error")))
}

func TestWelcomeEmail(t *testing.T) {
	msg := service.NewEmailService("", "https://wall.example/").Welcome(&models.User{Name: "Asha", Email: "asha@example.com"})
	assert.Equal(t, "asha@example.com", msg.To)
	assert.True(t, strings.Contains(msg.HTML, "Hello Asha"))
	assert.Contains(t, msg.HTML, `href="https://wall.example"`)
}
