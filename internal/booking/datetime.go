package booking

import (
	"fmt"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	clockLayout   = "15:04"
	displayLayout = "Monday, January 2, 2006"
)

// ComposeInstant joins a calendar date (YYYY-MM-DD) and a wall-clock time
// (HH:MM) into a timestamp. The wall-clock time is taken as UTC as-is:
// "2024-03-05" + "14:00" becomes 2024-03-05T14:00:00.000Z regardless of the
// candidate's or recruiter's timezone.
func ComposeInstant(date, clock string) (Instant, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Instant{}, fmt.Errorf("%w: selected_date %q must be YYYY-MM-DD", ErrInvalidArgument, date)
	}
	if _, err := time.Parse(clockLayout, clock); err != nil {
		return Instant{}, fmt.Errorf("%w: selected_time %q must be HH:MM", ErrInvalidArgument, clock)
	}
	return ParseInstant(date + "T" + clock + ":00.000Z")
}

// DisplayDateTime renders "Tuesday, March 5, 2024 at 14:00".
// The time is echoed exactly as selected.
func DisplayDateTime(date, clock string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: selected_date %q must be YYYY-MM-DD", ErrInvalidArgument, date)
	}
	return d.Format(displayLayout) + " at " + clock, nil
}
