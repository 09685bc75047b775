package service

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wallofhumanity/backend/internal/mailer"
	"github.com/wallofhumanity/backend/internal/models"
)

// EmailService renders the transactional emails.
type EmailService struct {
	operatorEmail string
	frontendURL   string
}

func NewEmailService(operatorEmail, frontendURL string) *EmailService {
	return &EmailService{
		operatorEmail: operatorEmail,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
	}
}

// RequestCreated returns the owner, operator and requester messages for a new
// request. Recipients without an address are skipped.
func (s *EmailService) RequestCreated(d *models.Donation, owner *models.User, r *models.Request, requester *models.User) []mailer.Message {
	summary := s.requestSummary(d, owner, r, requester)
	var msgs []mailer.Message

	if owner != nil && owner.Email != "" {
		msgs = append(msgs, mailer.Message{
			To:      owner.Email,
			Subject: fmt.Sprintf("New request for your donation: %s", d.Title),
			HTML: s.layout("Someone requested your donation",
				fmt.Sprintf("<p>Hello %s,</p><p>%s has requested your donation.</p>%s<p>You can review it from your dashboard: <a href=\"%s/dashboard\">%s/dashboard</a></p>",
					esc(owner.Name), esc(r.RequestorName), summary, s.frontendURL, s.frontendURL)),
		})
	}

	if s.operatorEmail != "" {
		msgs = append(msgs, mailer.Message{
			To:      s.operatorEmail,
			Subject: fmt.Sprintf("[Wall of Humanity] Donation requested: %s", d.Title),
			HTML:    s.layout("Donation requested", summary),
		})
	}

	if requester != nil && requester.Email != "" {
		msgs = append(msgs, mailer.Message{
			To:      requester.Email,
			Subject: fmt.Sprintf("Your request for %s was received", d.Title),
			HTML: s.layout("Request received",
				fmt.Sprintf("<p>Hello %s,</p><p>We have forwarded your request to the donor. You will hear from us when its status changes.</p>%s",
					esc(r.RequestorName), summary)),
		})
	}
	return msgs
}

// RequestStatusChanged returns the requester's status update.
func (s *EmailService) RequestStatusChanged(r *models.Request, d *models.Donation, requester *models.User) mailer.Message {
	title := "your donation request"
	if d != nil {
		title = d.Title
	}
	caser := cases.Title(language.English)

	var body string
	switch r.Status {
	case models.RequestApproved:
		body = "<p>Good news! The donor approved your request. They will contact you to arrange the handover.</p>"
	case models.RequestRejected:
		body = "<p>Unfortunately the donor could not approve your request this time. Other donations are waiting for you on the wall.</p>"
	default:
		body = fmt.Sprintf("<p>Your request is now <strong>%s</strong>.</p>", esc(string(r.Status)))
	}

	return mailer.Message{
		To:      requester.Email,
		Subject: fmt.Sprintf("Request %s: %s", caser.String(string(r.Status)), title),
		HTML:    s.layout("Request update", fmt.Sprintf("<p>Hello %s,</p>%s", esc(r.RequestorName), body)),
	}
}

func (s *EmailService) Welcome(u *models.User) mailer.Message {
	return mailer.Message{
		To:      u.Email,
		Subject: "Welcome to Wall of Humanity!",
		HTML: s.layout("Welcome!",
			fmt.Sprintf("<p>Hello %s,</p><p>Thank you for joining Wall of Humanity. Start by browsing donations or posting something you no longer need: <a href=\"%s\">%s</a></p>",
				esc(u.Name), s.frontendURL, s.frontendURL)),
	}
}

// NGORegistered returns the operator notification, or false when no operator
// address is configured.
func (s *EmailService) NGORegistered(n *models.NGO) (mailer.Message, bool) {
	if s.operatorEmail == "" {
		return mailer.Message{}, false
	}
	rows := [][2]string{
		{"Organization", n.Name},
		{"Email", n.Email},
		{"Phone", n.Phone},
		{"Type", n.Type},
		{"Address", n.Address},
		{"Contact person", n.ContactPerson.Name},
	}
	return mailer.Message{
		To:      s.operatorEmail,
		Subject: fmt.Sprintf("[Wall of Humanity] New NGO registration: %s", n.Name),
		HTML:    s.layout("NGO awaiting review", table(rows)),
	}, true
}

func (s *EmailService) requestSummary(d *models.Donation, owner *models.User, r *models.Request, requester *models.User) string {
	ownerName := d.DonorName
	if owner != nil && owner.Name != "" {
		ownerName = owner.Name
	}
	requesterEmail := ""
	if requester != nil {
		requesterEmail = requester.Email
	}
	return table([][2]string{
		{"Donation", d.Title},
		{"Type", string(d.Type)},
		{"Quantity", d.Quantity},
		{"Donor", ownerName},
		{"Requested by", r.RequestorName},
		{"Requester email", requesterEmail},
		{"Contact number", r.ContactNumber},
		{"Address", r.Address},
		{"Urgency", string(r.Urgency)},
		{"Reason", r.Reason},
	})
}

func (s *EmailService) layout(heading, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>%[1]s</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background-color: #e85d04; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
		<h1 style="margin: 0; font-size: 24px;">Wall of Humanity</h1>
	</div>
	<div style="background-color: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px;">
		<h2 style="margin-top: 0;">%[1]s</h2>
		%[2]s
	</div>
</body>
</html>`, esc(heading), content)
}

func table(rows [][2]string) string {
	var b strings.Builder
	b.WriteString(`<table style="border-collapse: collapse; width: 100%;">`)
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, `<tr><td style="padding: 4px 8px; font-weight: bold;">%s</td><td style="padding: 4px 8px;">%s</td></tr>`, esc(r[0]), esc(r[1]))
	}
	b.WriteString("</table>")
	return b.String()
}

func esc(s string) string { return html.EscapeString(s) }
