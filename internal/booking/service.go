package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screening-backend/internal/notify"
	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
)

const (
	flowDirect = "direct"
	flowSMS    = "sms"
)

// Notifier sends the booking confirmation SMS.
type Notifier interface {
	SendConfirmation(ctx context.Context, in notify.Confirmation) (notify.Receipt, error)
}

// Guard serializes concurrent submissions for the same booking key.
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	guard    Guard
	clock    func() time.Time
}

// NewService wires the booking workflows. guard may be nil.
func NewService(repo Repository, notifier Notifier, guard Guard) *Service {
	return &Service{repo: repo, notifier: notifier, guard: guard, clock: time.Now}
}

// CandidateInfo returns the public candidate view for a booking link.
// The candidate must belong to userID.
func (s *Service) CandidateInfo(ctx context.Context, candidateID, userID string) (CandidateInfo, error) {
	if candidateID == "" || userID == "" {
		return CandidateInfo{}, ErrInvalidArgument
	}
	if s.repo == nil {
		return CandidateInfo{}, errors.New("booking: repository not configured")
	}
	c, ok, err := s.repo.GetCandidate(ctx, candidateID, userID)
	if err != nil {
		return CandidateInfo{}, err
	}
	if !ok {
		return CandidateInfo{}, ErrCandidateNotFound
	}
	return CandidateInfo{ID: c.ID, Name: c.Name, Phone: c.Phone, Position: c.Position}, nil
}

// Availability lists the recruiter's scheduled screenings from now on.
func (s *Service) Availability(ctx context.Context, userID string) ([]Slot, error) {
	if userID == "" {
		return nil, ErrInvalidArgument
	}
	if s.repo == nil {
		return nil, errors.New("booking: repository not configured")
	}
	return s.repo.ListUpcomingScreenings(ctx, userID, s.clock().UTC())
}

type CreateRequest struct {
	CandidateID string
	UserID      string
	Datetime    Instant
	Status      string
}

// CreateBooking inserts a booking as given. It performs no duplicate check;
// callers consult Availability first when they care.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (b Booking, err error) {
	if req.CandidateID == "" || req.UserID == "" || req.Datetime.IsZero() {
		return Booking{}, ErrInvalidArgument
	}
	if s.repo == nil {
		return Booking{}, errors.New("booking: repository not configured")
	}
	if req.Status == "" {
		req.Status = StatusScheduled
	}
	defer func() { metrics.Bookings.WithLabelValues(flowDirect, metrics.Result(err)).Inc() }()

	if err := s.ensureOwned(ctx, req.CandidateID, req.UserID); err != nil {
		return Booking{}, err
	}

	b, err = s.repo.InsertBooking(ctx, Booking{
		CandidateID: req.CandidateID,
		UserID:      req.UserID,
		Datetime:    req.Datetime,
		Status:      req.Status,
	})
	if err != nil {
		return Booking{}, err
	}
	logger.From(ctx).Info("booking created", "booking_id", b.ID, "candidate_id", b.CandidateID)
	return b, nil
}

// ensureOwned distinguishes an unknown candidate from one owned by another user.
func (s *Service) ensureOwned(ctx context.Context, candidateID, userID string) error {
	_, ok, err := s.repo.GetCandidate(ctx, candidateID, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	_, exists, err := s.repo.CandidateOwner(ctx, candidateID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccessDenied
	}
	return ErrCandidateNotFound
}

type SMSConfirmRequest struct {
	CandidateID  string
	UserID       string
	SelectedDate string // YYYY-MM-DD
	SelectedTime string // HH:MM
}

// SMSConfirmResult is returned even when the SMS step fails, so callers can
// see a booking that was made without a message.
type SMSConfirmResult struct {
	Success        bool           `json:"success"`
	CandidateName  string         `json:"candidate_name"`
	CandidatePhone string         `json:"candidate_phone"`
	BookingID      *string        `json:"booking_id"`
	SMS            notify.Receipt `json:"sms"`
}

// ConfirmViaSMS books the selected slot and texts the candidate a confirmation.
//
// It is not transactional. A failed insert is logged and the SMS still goes
// out (BookingID stays nil); a failed SMS returns ErrSMSFailed together with
// whatever booking was made.
func (s *Service) ConfirmViaSMS(ctx context.Context, req SMSConfirmRequest) (SMSConfirmResult, error) {
	if req.CandidateID == "" || req.UserID == "" || req.SelectedDate == "" || req.SelectedTime == "" {
		return SMSConfirmResult{}, ErrInvalidArgument
	}
	if s.repo == nil || s.notifier == nil {
		return SMSConfirmResult{}, errors.New("booking: service not configured")
	}
	at, err := ComposeInstant(req.SelectedDate, req.SelectedTime)
	if err != nil {
		return SMSConfirmResult{}, err
	}
	when, err := DisplayDateTime(req.SelectedDate, req.SelectedTime)
	if err != nil {
		return SMSConfirmResult{}, err
	}

	log := logger.From(ctx).With("candidate_id", req.CandidateID, "datetime", at.String())

	c, ok, err := s.repo.GetCandidate(ctx, req.CandidateID, req.UserID)
	if err != nil {
		return SMSConfirmResult{}, err
	}
	if !ok {
		return SMSConfirmResult{}, ErrCandidateNotFound
	}
	if !c.HasRealPhone() {
		return SMSConfirmResult{}, &PhoneUnavailableError{CandidateName: c.Name}
	}

	jobTitle := s.jobTitle(ctx, c)

	key := guardKey(c.ID, req.UserID, at)
	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx, key)
		switch {
		case err != nil:
			log.Warn("booking guard unavailable", "err", err)
		case !acquired:
			return SMSConfirmResult{}, ErrBookingInProgress
		default:
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
					log.Warn("booking guard release failed", "err", err)
				}
			}()
		}
	}

	out := SMSConfirmResult{
		CandidateName:  c.Name,
		CandidatePhone: c.Phone,
		BookingID:      s.reserve(ctx, c.ID, req.UserID, at),
	}

	rec, err := s.notifier.SendConfirmation(ctx, notify.Confirmation{
		Name:     c.Name,
		Phone:    c.Phone,
		JobTitle: jobTitle,
		When:     when,
	})
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrSMSFailed, err)
	}

	out.Success = true
	out.SMS = rec
	return out, nil
}

// reserve returns the id of an existing booking for the slot, or inserts one.
// Failures are logged and yield nil.
func (s *Service) reserve(ctx context.Context, candidateID, userID string, at Instant) *string {
	log := logger.From(ctx)

	existing, found, err := s.repo.FindExistingBooking(ctx, candidateID, userID, at)
	if err != nil {
		log.Warn("duplicate booking check failed", "err", err)
	}
	if found {
		metrics.Bookings.WithLabelValues(flowSMS, "reused").Inc()
		log.Info("booking already exists", "booking_id", existing.ID)
		return &existing.ID
	}

	b, err := s.repo.InsertBooking(ctx, Booking{
		CandidateID: candidateID,
		UserID:      userID,
		Datetime:    at,
		Status:      StatusScheduled,
		Notes:       smsBookingNote,
	})
	metrics.Bookings.WithLabelValues(flowSMS, metrics.Result(err)).Inc()
	if err != nil {
		log.Error("booking insert failed, sending sms anyway", "err", err)
		return nil
	}
	log.Info("booking created", "booking_id", b.ID)
	return &b.ID
}

// jobTitle prefers the assigned job posting, then the candidate's position.
func (s *Service) jobTitle(ctx context.Context, c Candidate) string {
	title, ok, err := s.repo.ResolveJobTitle(ctx, c.ID)
	if err != nil {
		logger.From(ctx).Warn("job title lookup failed", "candidate_id", c.ID, "err", err)
	}
	if ok && title != "" {
		return title
	}
	if c.Position != "" {
		return c.Position
	}
	return DefaultJobTitle
}

func guardKey(candidateID, userID string, at Instant) string {
	return "screening:booking:" + candidateID + ":" + userID + ":" + at.String()
}
