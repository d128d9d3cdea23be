package telephony

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"screening-backend/pkg/httpclient"
	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
)

const DefaultElevenLabsBaseURL = "https://api.elevenlabs.io"

type ElevenLabsConfig struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string

	BaseURL string
	Timeout time.Duration
}

// ElevenLabsClient starts conversational-agent calls over the ElevenLabs
// Twilio integration.
type ElevenLabsClient struct {
	http          *httpclient.Client
	agentID       string
	phoneNumberID string
}

func NewElevenLabsClient(cfg ElevenLabsConfig, opts ...httpclient.Option) *ElevenLabsClient {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultElevenLabsBaseURL
	}
	opts = append([]httpclient.Option{httpclient.WithHeader("xi-api-key", cfg.APIKey)}, opts...)
	return &ElevenLabsClient{
		http:          httpclient.New("elevenlabs", base, cfg.Timeout, opts...),
		agentID:       cfg.AgentID,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

type outboundCallRequest struct {
	AgentID            string           `json:"agent_id"`
	AgentPhoneNumberID string           `json:"agent_phone_number_id"`
	ToNumber           string           `json:"to_number"`
	InitiationData     initiationClient `json:"conversation_initiation_client_data"`
}

type initiationClient struct {
	DynamicVariables map[string]string `json:"dynamic_variables"`
}

type outboundCallResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	CallSID        string `json:"callSid"`
}

func (e *ElevenLabsClient) StartOutboundCall(ctx context.Context, call AgentCall) (AgentCallResult, error) {
	if call.Phone == "" || call.CandidateName == "" || call.JobTitle == "" {
		return AgentCallResult{}, errors.New("telephony: phone, candidate name and job title are required")
	}
	log := logger.From(ctx).With("provider", "elevenlabs", "to", logger.MaskPhone(call.Phone))

	req := outboundCallRequest{
		AgentID:            e.agentID,
		AgentPhoneNumberID: e.phoneNumberID,
		ToNumber:           call.Phone,
		InitiationData: initiationClient{DynamicVariables: map[string]string{
			"candidate_name": call.CandidateName,
			"job_title":      call.JobTitle,
		}},
	}

	var resp outboundCallResponse
	err := e.http.DoJSON(ctx, http.MethodPost, "/v1/convai/twilio/outbound-call", req, &resp)
	metrics.OutboundCalls.WithLabelValues("elevenlabs", metrics.Result(err)).Inc()
	if err != nil {
		logProviderError(log, err)
		return AgentCallResult{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	log.Info("agent call started", "conversation_id", resp.ConversationID)
	return AgentCallResult{
		Message:        "Call initiated successfully",
		ConversationID: resp.ConversationID,
		CallSID:        resp.CallSID,
	}, nil
}

// logProviderError logs the provider payload server-side; it never reaches callers.
func logProviderError(log *slog.Logger, err error) {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		log.Error("voice provider rejected call", "status", se.StatusCode, "body", string(se.Body))
		return
	}
	log.Error("voice provider call failed", "err", err)
}
