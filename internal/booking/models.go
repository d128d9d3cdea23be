package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusScheduled = "scheduled"

	// PlaceholderPhone marks a candidate imported without a real number.
	PlaceholderPhone = "000-000-0000"

	// DefaultJobTitle is used when neither an assignment nor a position is known.
	DefaultJobTitle = "Position"

	smsBookingNote = "booked via SMS confirmation"
)

// Candidate is owned by a recruiter (UserID). It is never written here.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	UserID   string `json:"user_id"`
}

// HasRealPhone reports whether the candidate can receive SMS.
func (c Candidate) HasRealPhone() bool {
	return c.Phone != "" && c.Phone != PlaceholderPhone
}

// CandidateInfo is the public view of a Candidate; the owning tenant is omitted.
type CandidateInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

// Booking is a row of the screenings table.
// (candidate_id, user_id, datetime) is expected to be unique in the store.
type Booking struct {
	ID          string  `json:"id"`
	CandidateID string  `json:"candidate_id"`
	UserID      string  `json:"user_id"`
	Datetime    Instant `json:"datetime"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

// Slot is an occupied screening time.
type Slot struct {
	Datetime Instant `json:"datetime"`
}

const instantLayout = "2006-01-02T15:04:05.000Z"

// Instant is a UTC timestamp rendered with millisecond precision,
// e.g. "2024-03-05T14:00:00.000Z".
type Instant struct {
	time.Time
}

func NewInstant(t time.Time) Instant { return Instant{t.UTC()} }

// ParseInstant accepts any RFC 3339 timestamp.
func ParseInstant(s string) (Instant, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: datetime %q is not RFC 3339", ErrInvalidArgument, s)
	}
	return NewInstant(t), nil
}

func (i Instant) String() string { return i.UTC().Format(instantLayout) }

func (i Instant) Equal(o Instant) bool { return i.Time.Equal(o.Time) }

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i Instant) Value() (driver.Value, error) {
	return i.UTC(), nil
}

func (i *Instant) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*i = NewInstant(v)
		return nil
	case string:
		return i.scanString(v)
	case []byte:
		return i.scanString(string(v))
	case nil:
		*i = Instant{}
		return nil
	default:
		return fmt.Errorf("booking: cannot scan %T into Instant", src)
	}
}

func (i *Instant) scanString(s string) error {
	v, err := ParseInstant(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}
