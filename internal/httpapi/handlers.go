package httpapi

import (
	"context"
	"time"

	"screening-backend/internal/booking"
	"screening-backend/internal/calls"
	"screening-backend/internal/crm"
	"screening-backend/internal/notify"
	"screening-backend/internal/telephony"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
// A nil dependency makes its endpoints answer 500 "... not configured".
type Handlers struct {
	Pathway  telephony.PathwayCaller
	Agent    telephony.AgentCaller
	Contacts crm.ContactLister
	SMS      SMSNotifier
	Booking  BookingService
	Ingestor CallIngestor

	// DefaultPhone is dialed by /start-call when the body has no phone.
	// Empty in production.
	DefaultPhone string

	// OutboundTimeout bounds each provider or store call. Zero means 10s.
	OutboundTimeout time.Duration
}

type SMSNotifier interface {
	SendInvite(ctx context.Context, in notify.Invite) (notify.Receipt, error)
	SendConfirmation(ctx context.Context, in notify.Confirmation) (notify.Receipt, error)
}

type BookingService interface {
	CandidateInfo(ctx context.Context, candidateID, userID string) (booking.CandidateInfo, error)
	Availability(ctx context.Context, userID string) ([]booking.Slot, error)
	CreateBooking(ctx context.Context, req booking.CreateRequest) (booking.Booking, error)
	ConfirmViaSMS(ctx context.Context, req booking.SMSConfirmRequest) (booking.SMSConfirmResult, error)
}

type CallIngestor interface {
	Ingest(ctx context.Context, body []byte) (calls.Outcome, error)
}

const defaultOutboundTimeout = 10 * time.Second

// outboundContext detaches provider and store calls from the inbound request:
// a client hanging up does not cancel work already issued.
func (h Handlers) outboundContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.OutboundTimeout
	if timeout <= 0 {
		timeout = defaultOutboundTimeout
	}
	return context.WithTimeout(context.WithoutCancel(c.Request.Context()), timeout)
}

// Register mounts every endpoint on r. recruiter guards the routes used from
// the recruiter dashboard; candidate-facing routes and the webhook stay public.
func (h Handlers) Register(r gin.IRouter, recruiter ...gin.HandlerFunc) {
	r.POST("/bland/webhook", h.BlandWebhook)

	cal := r.Group("/calendar")
	{
		cal.GET("/candidate-info/:candidateId/:userId", h.CandidateInfo)
		cal.GET("/availability/:userId", h.Availability)
		cal.POST("/create-booking", h.CreateBooking)
	}
	r.POST("/send-booking-sms", h.SendBookingSMS)

	rec := r.Group("/", recruiter...)
	{
		rec.POST("/start-call", h.StartCall)
		rec.POST("/elevenlabs/call", h.ElevenLabsCall)
		rec.GET("/api/contacts", h.ListContacts)
		rec.POST("/send-sms", h.SendSMS)
		rec.POST("/send-confirmation", h.SendConfirmation)
	}
}
