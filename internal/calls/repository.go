package calls

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStorage wraps any failure from the relational store.
var ErrStorage = errors.New("calls: storage error")

// Repository persists completed calls.
type Repository interface {
	InsertCallRecord(ctx context.Context, r CallRecord) error
}

// SQLRepository writes to the recruiter_calls table.
//
// Assumes:
//
//	recruiter_calls (id text primary key, phone_to, phone_from, call_time timestamptz,
//	                 status, duration_sec int, recording_url, transcript, summary,
//	                 campaign_id, pathway_id, disposition, metadata jsonb)
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) InsertCallRecord(ctx context.Context, rec CallRecord) error {
	const q = `
INSERT INTO recruiter_calls (
  id, phone_to, phone_from, call_time, status, duration_sec,
  recording_url, transcript, summary, campaign_id, pathway_id, disposition, metadata
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::jsonb
)
ON CONFLICT (id) DO NOTHING
`
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %w", ErrStorage, err)
	}
	_, err = r.db.ExecContext(ctx, q,
		rec.ID,
		rec.PhoneTo,
		rec.PhoneFrom,
		nullIfEmpty(rec.CallTime),
		rec.Status,
		rec.DurationSec,
		rec.RecordingURL,
		rec.Transcript,
		rec.Summary,
		rec.CampaignID,
		rec.PathwayID,
		rec.Disposition,
		string(meta),
	)
	if err != nil {
		return fmt.Errorf("%w: insert call %s: %w", ErrStorage, rec.ID, err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
