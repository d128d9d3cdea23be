package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("booking: invalid argument")
	ErrCandidateNotFound = errors.New("booking: candidate not found")
	ErrAccessDenied      = errors.New("booking: candidate belongs to another user")
	ErrStorage           = errors.New("booking: storage error")
	ErrBookingInProgress = errors.New("booking: booking for this slot already in progress")
	ErrSMSFailed         = errors.New("booking: confirmation sms failed")
)

// PhoneUnavailableError is returned when a candidate has no usable phone.
// It carries the name so callers can say who is affected.
type PhoneUnavailableError struct {
	CandidateName string
}

func (e *PhoneUnavailableError) Error() string {
	return fmt.Sprintf("booking: candidate %q has no valid phone number", e.CandidateName)
}
