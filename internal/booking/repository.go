package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the store surface the booking workflows depend on.
// Methods that miss return (zero, false, nil) rather than an error.
type Repository interface {
	// GetCandidate matches both id and owning user.
	GetCandidate(ctx context.Context, id, userID string) (Candidate, bool, error)
	// CandidateOwner returns the user_id owning a candidate, unscoped.
	CandidateOwner(ctx context.Context, id string) (string, bool, error)
	ListUpcomingScreenings(ctx context.Context, userID string, now time.Time) ([]Slot, error)
	FindExistingBooking(ctx context.Context, candidateID, userID string, at Instant) (Booking, bool, error)
	InsertBooking(ctx context.Context, b Booking) (Booking, error)
	// ResolveJobTitle follows the candidate's job assignment, if any.
	ResolveJobTitle(ctx context.Context, candidateID string) (string, bool, error)
}

// SQLRepository talks to the Supabase Postgres schema:
//
//	candidates (id, name, phone, position, user_id)
//	screenings (id uuid, candidate_id, user_id, datetime timestamptz, status, notes)
//	candidate_job_assignments (candidate_id, job_posting_id) -> job_postings (id, title)
//
// screenings should carry UNIQUE (candidate_id, user_id, datetime); the
// application-level duplicate check alone is racy.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) GetCandidate(ctx context.Context, id, userID string) (Candidate, bool, error) {
	const q = `
SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(position, ''), user_id
FROM candidates
WHERE id = $1 AND user_id = $2
`
	var c Candidate
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&c.ID, &c.Name, &c.Phone, &c.Position, &c.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return Candidate{}, false, nil
	}
	if err != nil {
		return Candidate{}, false, fmt.Errorf("%w: get candidate: %w", ErrStorage, err)
	}
	return c, true, nil
}

func (r *SQLRepository) CandidateOwner(ctx context.Context, id string) (string, bool, error) {
	const q = `SELECT user_id FROM candidates WHERE id = $1`
	var owner string
	err := r.db.QueryRowContext(ctx, q, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: candidate owner: %w", ErrStorage, err)
	}
	return owner, true, nil
}

func (r *SQLRepository) ListUpcomingScreenings(ctx context.Context, userID string, now time.Time) ([]Slot, error) {
	const q = `
SELECT datetime
FROM screenings
WHERE user_id = $1 AND status = $2 AND datetime >= $3
`
	rows, err := r.db.QueryContext(ctx, q, userID, StatusScheduled, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: list screenings: %w", ErrStorage, err)
	}
	defer rows.Close()

	out := make([]Slot, 0)
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Datetime); err != nil {
			return nil, fmt.Errorf("%w: scan screening: %w", ErrStorage, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list screenings: %w", ErrStorage, err)
	}
	return out, nil
}

func (r *SQLRepository) FindExistingBooking(ctx context.Context, candidateID, userID string, at Instant) (Booking, bool, error) {
	const q = `
SELECT id, candidate_id, user_id, datetime, status, COALESCE(notes, '')
FROM screenings
WHERE candidate_id = $1 AND user_id = $2 AND datetime = $3
LIMIT 1
`
	var b Booking
	err := r.db.QueryRowContext(ctx, q, candidateID, userID, at).
		Scan(&b.ID, &b.CandidateID, &b.UserID, &b.Datetime, &b.Status, &b.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, false, nil
	}
	if err != nil {
		return Booking{}, false, fmt.Errorf("%w: find booking: %w", ErrStorage, err)
	}
	return b, true, nil
}

func (r *SQLRepository) InsertBooking(ctx context.Context, b Booking) (Booking, error) {
	const q = `
INSERT INTO screenings (id, candidate_id, user_id, datetime, status, notes)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING id, candidate_id, user_id, datetime, status, COALESCE(notes, '')
`
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	var out Booking
	err := r.db.QueryRowContext(ctx, q, b.ID, b.CandidateID, b.UserID, b.Datetime, b.Status, b.Notes).
		Scan(&out.ID, &out.CandidateID, &out.UserID, &out.Datetime, &out.Status, &out.Notes)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: insert booking: %w", ErrStorage, err)
	}
	return out, nil
}

func (r *SQLRepository) ResolveJobTitle(ctx context.Context, candidateID string) (string, bool, error) {
	const q = `
SELECT jp.title
FROM candidate_job_assignments cja
JOIN job_postings jp ON jp.id = cja.job_posting_id
WHERE cja.candidate_id = $1
LIMIT 1
`
	var title sql.NullString
	err := r.db.QueryRowContext(ctx, q, candidateID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: resolve job title: %w", ErrStorage, err)
	}
	if !title.Valid || title.String == "" {
		return "", false, nil
	}
	return title.String, true, nil
}
