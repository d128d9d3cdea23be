package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"screening-backend/pkg/httpclient"
	"screening-backend/pkg/logger"
)

const DefaultHubSpotBaseURL = "https://api.hubapi.com"

// ErrProvider wraps any failure reported by the CRM.
var ErrProvider = errors.New("crm: provider error")

// ContactLister returns the CRM contact list exactly as the CRM shapes it.
type ContactLister interface {
	ListContacts(ctx context.Context) (json.RawMessage, error)
}

type HubSpotClient struct {
	http *httpclient.Client
}

// NewHubSpotClient authenticates with a private-app bearer token.
func NewHubSpotClient(token, baseURL string, timeout time.Duration, opts ...httpclient.Option) *HubSpotClient {
	if baseURL == "" {
		baseURL = DefaultHubSpotBaseURL
	}
	opts = append([]httpclient.Option{httpclient.WithBearer(token)}, opts...)
	return &HubSpotClient{http: httpclient.New("hubspot", baseURL, timeout, opts...)}
}

func (h *HubSpotClient) ListContacts(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := h.http.DoJSON(ctx, http.MethodGet, "/crm/v3/objects/contacts", nil, &out); err != nil {
		log := logger.From(ctx)
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			log.Error("hubspot contacts request rejected", "status", se.StatusCode, "body", string(se.Body))
		} else {
			log.Error("hubspot contacts request failed", "err", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return out, nil
}
