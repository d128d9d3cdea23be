package telephony

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrProvider wraps any failure reported by a voice provider.
var ErrProvider = errors.New("telephony: voice provider error")

// PathwayCall asks the voice provider to run a scripted pathway against a phone number.
type PathwayCall struct {
	Phone string

	// Metadata is echoed back on the completion webhook.
	Metadata map[string]any

	// RequestData is exposed to the pathway script as call-time variables.
	RequestData map[string]any
}

// PathwayCaller places pathway-driven calls. The provider response is
// returned as-is.
type PathwayCaller interface {
	PlaceCall(ctx context.Context, call PathwayCall) (json.RawMessage, error)
}

// AgentCall starts a conversational-agent call to a candidate.
type AgentCall struct {
	Phone         string
	CandidateName string
	JobTitle      string
}

type AgentCallResult struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	CallSID        string `json:"call_sid"`
}

type AgentCaller interface {
	StartOutboundCall(ctx context.Context, call AgentCall) (AgentCallResult, error)
}
