package testhelpers

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/wallofhumanity/backend/internal/mailer"
	"github.com/wallofhumanity/backend/internal/models"
)

// Notification is one call recorded by RecordingNotifier.
type Notification struct {
	Kind      string
	Donation  *models.Donation
	Request   *models.Request
	User      *models.User
	Requester *models.User
	NGO       *models.NGO
}

// RecordingNotifier captures notifications on a buffered channel.
type RecordingNotifier struct {
	Events chan Notification
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{Events: make(chan Notification, 64)}
}

func (n *RecordingNotifier) RequestCreated(d *models.Donation, owner *models.User, r *models.Request, requester *models.User) {
	n.Events <- Notification{Kind: "request_created", Donation: d, User: owner, Request: r, Requester: requester}
}

func (n *RecordingNotifier) RequestStatusChanged(r *models.Request, d *models.Donation, requester *models.User) {
	n.Events <- Notification{Kind: "request_status", Request: r, Donation: d, Requester: requester}
}

func (n *RecordingNotifier) UserRegistered(u *models.User) {
	n.Events <- Notification{Kind: "welcome", User: u}
}

func (n *RecordingNotifier) NGORegistered(ngo *models.NGO) {
	n.Events <- Notification{Kind: "ngo_registered", NGO: ngo}
}

// Next waits up to a second for the next notification.
func (n *RecordingNotifier) Next() (Notification, bool) {
	select {
	case ev := <-n.Events:
		return ev, true
	case <-time.After(time.Second):
		return Notification{}, false
	}
}

// Drain discards pending notifications.
func (n *RecordingNotifier) Drain() {
	for {
		select {
		case <-n.Events:
		default:
			return
		}
	}
}

// MemoryStore is an in-memory storage.Store.
type MemoryStore struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
	// FailFolder makes Save fail for that folder.
	FailFolder string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Files: map[string][]byte{}}
}

func (s *MemoryStore) Save(_ context.Context, folder, filename string, r io.Reader, _ string) (string, error) {
	if folder == s.FailFolder {
		return "", errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + folder + "/" + filename
	s.mu.Lock()
	s.Files[url] = data
	s.mu.Unlock()
	return url, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Files, ref)
	s.Deleted = append(s.Deleted, ref)
	return nil
}

// Has reports whether ref is currently stored.
func (s *MemoryStore) Has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[ref]
	return ok
}

// RecordingTransport is a mailer.Transport that keeps sent messages.
type RecordingTransport struct {
	mu   sync.Mutex
	sent []mailer.Message
	Err  error
}

func (t *RecordingTransport) Send(_ context.Context, msg mailer.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *RecordingTransport) Close() error { return nil }

func (t *RecordingTransport) Sent() []mailer.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]mailer.Message, len(t.sent))
	copy(out, t.sent)
	return out
}
