package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wallofhumanity/backend/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  models.DonationStatus
		to    models.DonationStatus
		actor Actor
		ok    bool
	}{
		{"request available", models.DonationAvailable, models.DonationRequested, ActorRequester, true},
		{"request reserved pending", models.DonationPending, models.DonationRequested, ActorRequester, true},
		{"request already requested", models.DonationRequested, models.DonationRequested, ActorRequester, false},
		{"request completed", models.DonationCompleted, models.DonationRequested, ActorRequester, false},
		{"owner completes requested", models.DonationRequested, models.DonationCompleted, ActorOwner, true},
		{"owner completes available", models.DonationAvailable, models.DonationCompleted, ActorOwner, false},
		{"requester completes", models.DonationRequested, models.DonationCompleted, ActorRequester, false},
		{"nothing enters pending", models.DonationAvailable, models.DonationPending, ActorOwner, false},
		{"no way back", models.DonationRequested, models.DonationAvailable, ActorOwner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.DonationCompleted))
	assert.False(t, IsTerminal(models.DonationAvailable))

	err := CanTransition(models.DonationCompleted, models.DonationRequested, ActorRequester)
	assert.Contains(t, err.Error(), "terminal")
}

func TestSourcesFor(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.DonationStatus{models.DonationAvailable, models.DonationPending},
		SourcesFor(models.DonationRequested, ActorRequester))
	assert.Equal(t,
		[]models.DonationStatus{models.DonationRequested},
		SourcesFor(models.DonationCompleted, ActorOwner))
}

func TestNoTransitionEntersPending(t *testing.T) {
	for _, tr := range All() {
		assert.NotEqual(t, models.DonationPending, tr.To)
	}
}
