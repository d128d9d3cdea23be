package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"screening-backend/pkg/httpclient"
	"screening-backend/pkg/logger"
	"screening-backend/pkg/metrics"
)

const DefaultBlandBaseURL = "https://api.bland.ai"

type BlandConfig struct {
	APIKey     string
	PathwayID  string
	FromPhone  string
	WebhookURL string

	BaseURL string
	Timeout time.Duration
}

// BlandClient places pathway calls through Bland AI.
type BlandClient struct {
	http       *httpclient.Client
	pathwayID  string
	fromPhone  string
	webhookURL string
}

func NewBlandClient(cfg BlandConfig, opts ...httpclient.Option) *BlandClient {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBlandBaseURL
	}
	opts = append([]httpclient.Option{httpclient.WithBearer(cfg.APIKey)}, opts...)
	return &BlandClient{
		http:       httpclient.New("bland", base, cfg.Timeout, opts...),
		pathwayID:  cfg.PathwayID,
		fromPhone:  cfg.FromPhone,
		webhookURL: cfg.WebhookURL,
	}
}

type blandCallRequest struct {
	PhoneNumber           string         `json:"phone_number"`
	Voice                 string         `json:"voice"`
	WaitForGreeting       bool           `json:"wait_for_greeting"`
	BlockInterruptions    bool           `json:"block_interruptions"`
	InterruptionThreshold int            `json:"interruption_threshold"`
	Language              string         `json:"language"`
	Temperature           float64        `json:"temperature"`
	Model                 string         `json:"model"`
	Record                bool           `json:"record"`
	Webhook               string         `json:"webhook"`
	WebhookEvents         []string       `json:"webhook_events"`
	Metadata              map[string]any `json:"metadata"`
	PathwayID             string         `json:"pathway_id"`
	PathwayVersion        int            `json:"pathway_version"`
	From                  string         `json:"from,omitempty"`
	RequestData           map[string]any `json:"request_data"`
}

func (b *BlandClient) newRequest(call PathwayCall) blandCallRequest {
	meta := call.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	data := call.RequestData
	if data == nil {
		data = map[string]any{}
	}
	return blandCallRequest{
		PhoneNumber:           call.Phone,
		Voice:                 "josh",
		WaitForGreeting:       true,
		BlockInterruptions:    false,
		InterruptionThreshold: 100,
		Language:              "en-US",
		Temperature:           0.7,
		Model:                 "base",
		Record:                true,
		Webhook:               b.webhookURL,
		WebhookEvents:         []string{"call"},
		Metadata:              meta,
		PathwayID:             b.pathwayID,
		PathwayVersion:        0,
		From:                  b.fromPhone,
		RequestData:           data,
	}
}

func (b *BlandClient) PlaceCall(ctx context.Context, call PathwayCall) (json.RawMessage, error) {
	if call.Phone == "" {
		return nil, errors.New("telephony: phone is required")
	}
	log := logger.From(ctx).With("provider", "bland", "to", logger.MaskPhone(call.Phone))

	var out json.RawMessage
	err := b.http.DoJSON(ctx, http.MethodPost, "/v1/calls", b.newRequest(call), &out)
	metrics.OutboundCalls.WithLabelValues("bland", metrics.Result(err)).Inc()
	if err != nil {
		logProviderError(log, err)
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	log.Info("pathway call placed")
	return out, nil
}
