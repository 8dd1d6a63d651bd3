package forms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmit(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/f/xcontact" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected JSON accept header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", map[string]string{"contact": "xcontact"}, time.Second)
	if err := c.Submit(context.Background(), "contact", map[string]string{"email": "a@example.org"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got["email"] != "a@example.org" {
		t.Fatalf("payload not forwarded, got %v", got)
	}
}

func TestSubmitErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"spam"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, map[string]string{"contact": "xcontact", "volunteer": ""}, time.Second)
	if err := c.Submit(context.Background(), "contact", map[string]string{}); err == nil {
		t.Fatalf("expected error for non-2xx answer")
	}
	if err := c.Submit(context.Background(), "volunteer", map[string]string{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if c.Configured("newsletter") {
		t.Fatalf("unknown form should not be configured")
	}
}
