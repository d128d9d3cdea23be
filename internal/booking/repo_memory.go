package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repository for tests and local runs.
type MemoryRepo struct {
	mu         sync.Mutex
	candidates map[string]Candidate
	titles     map[string]string
	bookings   []Booking

	// InsertErr and JobTitleErr inject store failures.
	InsertErr   error
	JobTitleErr error
	Inserts     int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		candidates: map[string]Candidate{},
		titles:     map[string]string{},
	}
}

func (r *MemoryRepo) AddCandidate(c Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[c.ID] = c
}

// AssignJob links a candidate to a job posting title.
func (r *MemoryRepo) AssignJob(candidateID, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles[candidateID] = title
}

func (r *MemoryRepo) Bookings() []Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Booking, len(r.bookings))
	copy(out, r.bookings)
	return out
}

func (r *MemoryRepo) GetCandidate(ctx context.Context, id, userID string) (Candidate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok || c.UserID != userID {
		return Candidate{}, false, nil
	}
	return c, true, nil
}

func (r *MemoryRepo) CandidateOwner(ctx context.Context, id string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok {
		return "", false, nil
	}
	return c.UserID, true, nil
}

func (r *MemoryRepo) ListUpcomingScreenings(ctx context.Context, userID string, now time.Time) ([]Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Slot, 0)
	for _, b := range r.bookings {
		if b.UserID == userID && b.Status == StatusScheduled && !b.Datetime.Before(now) {
			out = append(out, Slot{Datetime: b.Datetime})
		}
	}
	return out, nil
}

func (r *MemoryRepo) FindExistingBooking(ctx context.Context, candidateID, userID string, at Instant) (Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.CandidateID == candidateID && b.UserID == userID && b.Datetime.Equal(at) {
			return b, true, nil
		}
	}
	return Booking{}, false, nil
}

func (r *MemoryRepo) InsertBooking(ctx context.Context, b Booking) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Inserts++
	if r.InsertErr != nil {
		return Booking{}, fmt.Errorf("%w: %w", ErrStorage, r.InsertErr)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.bookings = append(r.bookings, b)
	return b, nil
}

func (r *MemoryRepo) ResolveJobTitle(ctx context.Context, candidateID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.JobTitleErr != nil {
		return "", false, fmt.Errorf("%w: %w", ErrStorage, r.JobTitleErr)
	}
	t, ok := r.titles[candidateID]
	return t, ok && t != "", nil
}
