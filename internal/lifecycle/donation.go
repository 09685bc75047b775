// Package lifecycle holds the authoritative donation status transitions.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/wallofhumanity/backend/internal/models"
)

type Actor string

const (
	ActorRequester Actor = "requester"
	ActorOwner     Actor = "owner"
)

// Transition defines a valid status change and who can perform it
type Transition struct {
	From  models.DonationStatus
	To    models.DonationStatus
	Actor Actor
}

// pending is reserved and never entered, but a donation sitting in it may
// still be requested.
var transitions = []Transition{
	{From: models.DonationAvailable, To: models.DonationRequested, Actor: ActorRequester},
	{From: models.DonationPending, To: models.DonationRequested, Actor: ActorRequester},
	{From: models.DonationRequested, To: models.DonationCompleted, Actor: ActorOwner},
}

type transitionKey struct {
	from  models.DonationStatus
	to    models.DonationStatus
	actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(transitions))
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// CanTransition checks if actor can move a donation from one status to another.
func CanTransition(from, to models.DonationStatus, actor Actor) error {
	if transitionMap[transitionKey{from, to, actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s -> %s is not allowed for %s; valid transitions from %s: %s",
		from, to, actor, from, describeValidFrom(from))
}

// SourcesFor returns every status from which actor may move a donation to to.
// It backs the conditional update that guards concurrent transitions.
func SourcesFor(to models.DonationStatus, actor Actor) []models.DonationStatus {
	var out []models.DonationStatus
	for _, t := range transitions {
		if t.To == to && t.Actor == actor {
			out = append(out, t.From)
		}
	}
	return out
}

// ValidTransitionsFrom returns all valid next statuses from status.
func ValidTransitionsFrom(status models.DonationStatus) []models.DonationStatus {
	var nexts []models.DonationStatus
	seen := map[models.DonationStatus]bool{}
	for _, t := range transitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.DonationStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// All returns the full table.
func All() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

func describeValidFrom(status models.DonationStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
