package notify

import (
	"context"
	"errors"

	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
)

const (
	templateInvite       = "invite"
	templateConfirmation = "confirmation"
)

// Invite asks a candidate to pick a screening slot.
type Invite struct {
	Name        string
	Phone       string
	JobTitle    string
	CandidateID string
	UserID      string
}

// Confirmation tells a candidate their screening is booked.
// When is pre-formatted, e.g. "Tuesday, March 5, 2024 at 14:00".
type Confirmation struct {
	Name     string
	Phone    string
	JobTitle string
	When     string
}

// Notifier formats booking SMS and hands them to a Sender.
type Notifier struct {
	sender      Sender
	frontendURL string
}

func NewNotifier(sender Sender, frontendURL string) *Notifier {
	return &Notifier{sender: sender, frontendURL: frontendURL}
}

func (n *Notifier) SendInvite(ctx context.Context, in Invite) (Receipt, error) {
	link := BookingLink(n.frontendURL, in.CandidateID, in.UserID)
	return n.send(ctx, templateInvite, in.Phone, InviteMessage(in.Name, in.JobTitle, link))
}

func (n *Notifier) SendConfirmation(ctx context.Context, in Confirmation) (Receipt, error) {
	return n.send(ctx, templateConfirmation, in.Phone, ConfirmationMessage(in.Name, in.JobTitle, in.When))
}

func (n *Notifier) send(ctx context.Context, template, phone, body string) (Receipt, error) {
	if n.sender == nil {
		return Receipt{}, errors.New("notify: sender not configured")
	}
	to := NormalizePhone(phone)
	log := logger.From(ctx).With("template", template, "to", logger.MaskPhone(to))

	rec, err := n.sender.Send(ctx, to, body)
	metrics.SMSMessages.WithLabelValues(template, metrics.Result(err)).Inc()
	if err != nil {
		log.Error("sms send failed", "err", err)
		return Receipt{}, err
	}
	log.Info("sms sent", "sid", rec.SID)
	return rec, nil
}
