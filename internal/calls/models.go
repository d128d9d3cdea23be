package calls

// CallRecord is one completed voice-call session as stored in recruiter_calls.
//
// ID is the provider's call identifier; re-delivery of the same completion is
// absorbed by the store (ON CONFLICT (id) DO NOTHING).
type CallRecord struct {
	ID          string `json:"id" db:"id"`
	PhoneTo     string `json:"phone_to" db:"phone_to"`
	PhoneFrom   string `json:"phone_from" db:"phone_from"`
	CallTime    string `json:"call_time" db:"call_time"`
	Status      string `json:"status" db:"status"`
	DurationSec int    `json:"duration_sec" db:"duration_sec"`

	RecordingURL *string `json:"recording_url" db:"recording_url"`
	Transcript   string  `json:"transcript" db:"transcript"`
	Summary      string  `json:"summary" db:"summary"`
	CampaignID   *string `json:"campaign_id" db:"campaign_id"`
	PathwayID    *string `json:"pathway_id" db:"pathway_id"`
	Disposition  *string `json:"disposition" db:"disposition"`

	// Metadata is the provider's call-time variables, stored verbatim as JSONB.
	Metadata map[string]any `json:"metadata" db:"metadata"`
}

// StatusCompleted is the only provider status that is persisted.
const StatusCompleted = "completed"
