package renderdeploy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrigger(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if !c.Configured() {
		t.Fatal("Configured() = false with a hook url")
	}
	if err := c.Trigger(context.Background()); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if !called {
		t.Error("deploy hook was never called")
	}
}

func TestTriggerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Trigger(context.Background()); err == nil {
		t.Fatal("Trigger() error = nil, want failure on 503")
	}
}

func TestNotConfigured(t *testing.T) {
	if NewClient("").Configured() {
		t.Error("Configured() = true with no hook url")
	}
}
