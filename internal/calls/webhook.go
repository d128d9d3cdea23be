package calls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Notification is the subset of the voice provider's call webhook we map.
type Notification struct {
	CallID                 string          `json:"call_id"`
	To                     string          `json:"to"`
	From                   string          `json:"from"`
	CreatedAt              string          `json:"created_at"`
	Status                 string          `json:"status"`
	CorrectedDuration      json.RawMessage `json:"corrected_duration"`
	RecordingURL           string          `json:"recording_url"`
	ConcatenatedTranscript string          `json:"concatenated_transcript"`
	Summary                string          `json:"summary"`
	PathwayID              string          `json:"pathway_id"`
	DispositionTag         string          `json:"disposition_tag"`
	Metadata               map[string]any  `json:"metadata"`
	Variables              map[string]any  `json:"variables"`
}

// ParseNotification decodes a webhook body.
func ParseNotification(body []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("calls: invalid notification: %w", err)
	}
	return n, nil
}

// Completed reports whether the notification is terminal and worth storing:
// status "completed" with a non-empty transcript.
func (n Notification) Completed() bool {
	return n.Status == StatusCompleted && n.ConcatenatedTranscript != ""
}

// ToRecord maps provider fields to a storage row.
func (n Notification) ToRecord() CallRecord {
	meta := n.Variables
	if meta == nil {
		meta = map[string]any{}
	}
	return CallRecord{
		ID:           n.CallID,
		PhoneTo:      n.To,
		PhoneFrom:    n.From,
		CallTime:     n.CreatedAt,
		Status:       n.Status,
		DurationSec:  coerceDuration(n.CorrectedDuration),
		RecordingURL: optional(n.RecordingURL),
		Transcript:   n.ConcatenatedTranscript,
		Summary:      n.Summary,
		CampaignID:   optional(n.campaignID()),
		PathwayID:    optional(n.PathwayID),
		Disposition:  optional(n.DispositionTag),
		Metadata:     meta,
	}
}

// campaignID prefers metadata.campaign_id, then variables.metadata.campaign_id.
func (n Notification) campaignID() string {
	if id := stringField(n.Metadata, "campaign_id"); id != "" {
		return id
	}
	if nested, ok := n.Variables["metadata"].(map[string]any); ok {
		return stringField(nested, "campaign_id")
	}
	return ""
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// coerceDuration accepts a JSON number or numeric string and keeps its
// integer part. Absent, null, negative or unparsable values become 0.
func coerceDuration(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		return leadingInt(s)
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// leadingInt parses the leading decimal digits of s ("14.7s" -> 14).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
