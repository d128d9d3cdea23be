package telephony

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"screening-backend/pkg/httpclient"
)

func TestBlandClient_PlaceCall_RequestShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/calls" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer bland-key" {
			t.Errorf("authorization=%q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"status":"success","call_id":"c-9"}`))
	}))
	defer srv.Close()

	bc := NewBlandClient(BlandConfig{
		APIKey:     "bland-key",
		PathwayID:  "pw-1",
		FromPhone:  "+15550001111",
		WebhookURL: "https://api.example.com/bland/webhook",
		BaseURL:    srv.URL,
		Timeout:    time.Second,
	})

	out, err := bc.PlaceCall(context.Background(), PathwayCall{
		Phone:       "+380664374069",
		Metadata:    map[string]any{"campaign_id": "cold_call_july_pathway"},
		RequestData: map[string]any{"name": "Ann", "position": "SRE"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"status":"success","call_id":"c-9"}` {
		t.Fatalf("response not passed through: %s", out)
	}

	want := map[string]any{
		"phone_number":           "+380664374069",
		"voice":                  "josh",
		"wait_for_greeting":      true,
		"block_interruptions":    false,
		"interruption_threshold": float64(100),
		"language":               "en-US",
		"temperature":            0.7,
		"model":                  "base",
		"record":                 true,
		"webhook":                "https://api.example.com/bland/webhook",
		"pathway_id":             "pw-1",
		"pathway_version":        float64(0),
		"from":                   "+15550001111",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s=%v want %v", k, got[k], v)
		}
	}
	if ev, _ := got["webhook_events"].([]any); len(ev) != 1 || ev[0] != "call" {
		t.Fatalf("webhook_events=%v", got["webhook_events"])
	}
	if rd, _ := got["request_data"].(map[string]any); rd["name"] != "Ann" || rd["position"] != "SRE" {
		t.Fatalf("request_data=%v", got["request_data"])
	}
	if md, _ := got["metadata"].(map[string]any); md["campaign_id"] != "cold_call_july_pathway" {
		t.Fatalf("metadata=%v", got["metadata"])
	}
}

func TestBlandClient_PlaceCall_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	bc := NewBlandClient(BlandConfig{APIKey: "bad", BaseURL: srv.URL, Timeout: time.Second})
	_, err := bc.PlaceCall(context.Background(), PathwayCall{Phone: "+1555"})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	var se *httpclient.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected StatusError 401, got %v", err)
	}
}

func TestBlandClient_PlaceCall_RequiresPhone(t *testing.T) {
	bc := NewBlandClient(BlandConfig{BaseURL: "http://127.0.0.1:1"})
	if _, err := bc.PlaceCall(context.Background(), PathwayCall{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestElevenLabsClient_StartOutboundCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/convai/twilio/outbound-call" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "el-key" {
			t.Errorf("xi-api-key=%q", r.Header.Get("xi-api-key"))
		}
		var body struct {
			AgentID            string `json:"agent_id"`
			AgentPhoneNumberID string `json:"agent_phone_number_id"`
			ToNumber           string `json:"to_number"`
			Init               struct {
				Vars map[string]string `json:"dynamic_variables"`
			} `json:"conversation_initiation_client_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.AgentID != "agent-1" || body.AgentPhoneNumberID != "pn-1" || body.ToNumber != "+1555" {
			t.Errorf("body=%+v", body)
		}
		if body.Init.Vars["candidate_name"] != "Ann" || body.Init.Vars["job_title"] != "SRE" {
			t.Errorf("vars=%v", body.Init.Vars)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","conversation_id":"conv-1","callSid":"CA123"}`))
	}))
	defer srv.Close()

	ec := NewElevenLabsClient(ElevenLabsConfig{
		APIKey: "el-key", AgentID: "agent-1", PhoneNumberID: "pn-1",
		BaseURL: srv.URL, Timeout: time.Second,
	})
	res, err := ec.StartOutboundCall(context.Background(), AgentCall{Phone: "+1555", CandidateName: "Ann", JobTitle: "SRE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AgentCallResult{Message: "Call initiated successfully", ConversationID: "conv-1", CallSID: "CA123"}
	if res != want {
		t.Fatalf("got %+v want %+v", res, want)
	}
}

func TestElevenLabsClient_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ec := NewElevenLabsClient(ElevenLabsConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := ec.StartOutboundCall(context.Background(), AgentCall{Phone: "+1555", CandidateName: "Ann", JobTitle: "SRE"})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
