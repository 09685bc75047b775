package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/internal/mailer"
	"github.com/wallofhumanity/backend/internal/metrics"
	"github.com/wallofhumanity/backend/internal/models"
)

const notifyTimeout = 30 * time.Second

// EmailNotifier renders messages with EmailService and sends them over a
// mailer.Transport in a background goroutine.
type EmailNotifier struct {
	emails    *EmailService
	transport mailer.Transport
	logger    *zap.Logger
	metrics   *metrics.Metrics
	wg        sync.WaitGroup
}

func NewEmailNotifier(emails *EmailService, transport mailer.Transport, logger *zap.Logger, m *metrics.Metrics) *EmailNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailNotifier{emails: emails, transport: transport, logger: logger, metrics: m}
}

func (n *EmailNotifier) RequestCreated(d *models.Donation, owner *models.User, r *models.Request, requester *models.User) {
	n.dispatch("request_created", n.emails.RequestCreated(d, owner, r, requester)...)
}

func (n *EmailNotifier) RequestStatusChanged(r *models.Request, d *models.Donation, requester *models.User) {
	if requester == nil || requester.Email == "" {
		return
	}
	n.dispatch("request_status", n.emails.RequestStatusChanged(r, d, requester))
}

func (n *EmailNotifier) UserRegistered(u *models.User) {
	n.dispatch("welcome", n.emails.Welcome(u))
}

func (n *EmailNotifier) NGORegistered(ngo *models.NGO) {
	if msg, ok := n.emails.NGORegistered(ngo); ok {
		n.dispatch("ngo_registered", msg)
	}
}

// Wait blocks until every in-flight dispatch has finished.
func (n *EmailNotifier) Wait() {
	n.wg.Wait()
}

func (n *EmailNotifier) dispatch(kind string, msgs ...mailer.Message) {
	if len(msgs) == 0 {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				n.logger.Error("email dispatch panicked", zap.String("kind", kind), zap.Error(fmt.Errorf("%v", r)))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		for _, msg := range msgs {
			msg.Kind = kind
			err := n.transport.Send(ctx, msg)
			n.metrics.ObserveNotification(kind, err)
			if err != nil {
				n.logger.Error("failed to send email",
					zap.String("kind", kind),
					zap.String("to", msg.To),
					zap.Error(err),
				)
			}
		}
	}()
}
