package calls

import (
	"context"
	"errors"
	"time"

	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
	"screening-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Outcome describes what happened to one webhook delivery.
type Outcome string

const (
	OutcomeStored    Outcome = "stored"
	OutcomeSkipped   Outcome = "skipped"   // not completed, or no transcript
	OutcomeDuplicate Outcome = "duplicate" // already seen by the deduper
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

var ErrMissingCallID = errors.New("calls: completed notification without call_id")

// Deduper remembers call ids across deliveries.
type Deduper interface {
	MarkOnce(ctx context.Context, callID string) (first bool, err error)
	Forget(ctx context.Context, callID string) error
}

// Ingestor turns call-completion notifications into stored CallRecords.
// The caller acknowledges the provider regardless of the outcome.
type Ingestor struct {
	repo  Repository
	dedup Deduper
}

// NewIngestor builds an ingestor. dedup may be nil; the store's
// ON CONFLICT policy still absorbs redelivery.
func NewIngestor(repo Repository, dedup Deduper) *Ingestor {
	return &Ingestor{repo: repo, dedup: dedup}
}

func (i *Ingestor) Ingest(ctx context.Context, body []byte) (out Outcome, err error) {
	defer func() { metrics.WebhookNotifications.WithLabelValues(string(out)).Inc() }()

	log := logger.From(ctx)

	n, err := ParseNotification(body)
	if err != nil {
		return OutcomeInvalid, err
	}
	log = log.With("call_id", n.CallID, "status", n.Status)

	if !n.Completed() {
		log.Debug("call notification skipped", "has_transcript", n.ConcatenatedTranscript != "")
		return OutcomeSkipped, nil
	}
	if n.CallID == "" {
		return OutcomeInvalid, ErrMissingCallID
	}
	if i.repo == nil {
		return OutcomeFailed, errors.New("calls: repository not configured")
	}

	if i.dedup != nil {
		first, err := i.dedup.MarkOnce(ctx, n.CallID)
		switch {
		case err != nil:
			log.Warn("call dedup unavailable", "err", err)
		case !first:
			log.Info("duplicate call notification")
			return OutcomeDuplicate, nil
		}
	}

	if err := i.repo.InsertCallRecord(ctx, n.ToRecord()); err != nil {
		if i.dedup != nil {
			// Let a provider retry try again.
			if ferr := i.dedup.Forget(ctx, n.CallID); ferr != nil {
				log.Warn("call dedup forget failed", "err", ferr)
			}
		}
		return OutcomeFailed, err
	}

	log.Info("call record stored")
	return OutcomeStored, nil
}

// RedisDeduper keeps seen call ids in Redis for a bounded window.
type RedisDeduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisDeduper(rdb redis.Cmdable, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

func dedupKey(callID string) string { return "screening:call-webhook:" + callID }

func (d *RedisDeduper) MarkOnce(ctx context.Context, callID string) (bool, error) {
	return utils.SetOnce(ctx, d.rdb, dedupKey(callID), d.ttl)
}

func (d *RedisDeduper) Forget(ctx context.Context, callID string) error {
	return utils.Forget(ctx, d.rdb, dedupKey(callID))
}
