package calls

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completedBody = `{
  "call_id": "c-123",
  "to": "+380664374069",
  "from": "+15550001111",
  "created_at": "2024-07-01T10:00:00Z",
  "status": "completed",
  "corrected_duration": "42",
  "recording_url": "https://rec.example/c-123.mp3",
  "concatenated_transcript": "user: hello\nassistant: hi",
  "summary": "Candidate is interested.",
  "pathway_id": "pw-1",
  "disposition_tag": "INTERESTED",
  "variables": {"name": "Ann", "metadata": {"campaign_id": "from-variables"}}
}`

type fakeDeduper struct {
	seen      map[string]bool
	markErr   error
	forgotten []string
}

func newFakeDeduper() *fakeDeduper { return &fakeDeduper{seen: map[string]bool{}} }

func (d *fakeDeduper) MarkOnce(ctx context.Context, id string) (bool, error) {
	if d.markErr != nil {
		return false, d.markErr
	}
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func (d *fakeDeduper) Forget(ctx context.Context, id string) error {
	delete(d.seen, id)
	d.forgotten = append(d.forgotten, id)
	return nil
}

func TestIngest_CompletedWithTranscript_StoresOneRecord(t *testing.T) {
	repo := NewMemoryRepo()
	ing := NewIngestor(repo, nil)

	out, err := ing.Ingest(context.Background(), []byte(completedBody))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, out)

	recs := repo.Records()
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, "c-123", r.ID)
	assert.Equal(t, "+380664374069", r.PhoneTo)
	assert.Equal(t, "+15550001111", r.PhoneFrom)
	assert.Equal(t, "2024-07-01T10:00:00Z", r.CallTime)
	assert.Equal(t, 42, r.DurationSec)
	require.NotNil(t, r.RecordingURL)
	assert.Equal(t, "https://rec.example/c-123.mp3", *r.RecordingURL)
	require.NotNil(t, r.CampaignID)
	assert.Equal(t, "from-variables", *r.CampaignID)
	require.NotNil(t, r.Disposition)
	assert.Equal(t, "INTERESTED", *r.Disposition)
	assert.Equal(t, "Ann", r.Metadata["name"])
}

func TestIngest_InProgress_StoresNothing(t *testing.T) {
	repo := NewMemoryRepo()
	ing := NewIngestor(repo, nil)

	out, err := ing.Ingest(context.Background(), []byte(`{"call_id":"c-1","status":"in-progress","concatenated_transcript":"partial"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out)
	assert.Empty(t, repo.Records())
}

func TestIngest_CompletedWithoutTranscript_StoresNothing(t *testing.T) {
	repo := NewMemoryRepo()
	out, err := NewIngestor(repo, nil).Ingest(context.Background(), []byte(`{"call_id":"c-1","status":"completed"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out)
	assert.Empty(t, repo.Records())
}

func TestIngest_InvalidJSON(t *testing.T) {
	out, err := NewIngestor(NewMemoryRepo(), nil).Ingest(context.Background(), []byte(`{not json`))
	assert.Error(t, err)
	assert.Equal(t, OutcomeInvalid, out)
}

func TestIngest_MissingCallID(t *testing.T) {
	out, err := NewIngestor(NewMemoryRepo(), nil).Ingest(context.Background(),
		[]byte(`{"status":"completed","concatenated_transcript":"x"}`))
	assert.ErrorIs(t, err, ErrMissingCallID)
	assert.Equal(t, OutcomeInvalid, out)
}

func TestIngest_Redelivery(t *testing.T) {
	repo := NewMemoryRepo()
	dedup := newFakeDeduper()
	ing := NewIngestor(repo, dedup)

	out, err := ing.Ingest(context.Background(), []byte(completedBody))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, out)

	out, err = ing.Ingest(context.Background(), []byte(completedBody))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)
	assert.Len(t, repo.Records(), 1)
}

func TestIngest_RedeliveryWithoutDeduper_StoreAbsorbsConflict(t *testing.T) {
	repo := NewMemoryRepo()
	ing := NewIngestor(repo, nil)

	for i := 0; i < 2; i++ {
		out, err := ing.Ingest(context.Background(), []byte(completedBody))
		require.NoError(t, err)
		assert.Equal(t, OutcomeStored, out)
	}
	assert.Len(t, repo.Records(), 1)
}

func TestIngest_DeduperErrorDoesNotBlockStore(t *testing.T) {
	repo := NewMemoryRepo()
	dedup := newFakeDeduper()
	dedup.markErr = errors.New("redis down")

	out, err := NewIngestor(repo, dedup).Ingest(context.Background(), []byte(completedBody))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, out)
	assert.Len(t, repo.Records(), 1)
}

func TestIngest_StoreFailureForgetsCallID(t *testing.T) {
	repo := NewMemoryRepo()
	repo.InsertErr = errors.New("connection refused")
	dedup := newFakeDeduper()

	out, err := NewIngestor(repo, dedup).Ingest(context.Background(), []byte(completedBody))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, OutcomeFailed, out)
	assert.Equal(t, []string{"c-123"}, dedup.forgotten)
	assert.False(t, dedup.seen["c-123"])
}
