package crm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHubSpotClient_ListContacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/crm/v3/objects/contacts" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hs-token" {
			t.Errorf("authorization=%q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"results":[{"id":"1","properties":{"firstname":"Ann"}}]}`))
	}))
	defer srv.Close()

	c := NewHubSpotClient("hs-token", srv.URL, time.Second)
	got, err := c.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"results":[{"id":"1","properties":{"firstname":"Ann"}}]}` {
		t.Fatalf("body=%s", got)
	}
}

func TestHubSpotClient_ListContacts_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewHubSpotClient("bad", srv.URL, time.Second).ListContacts(context.Background())
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
