package githubsync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		token:      "test-token",
		repo:       "carbonroom/backup",
		branch:     "main",
	}
}

func TestPutFileCreatesNewFile(t *testing.T) {
	var putBody contentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q, want bearer token", got)
		}
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putBody); err != nil {
				t.Errorf("decoding put body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.PutFile(context.Background(), "backups/a1b2c3d4/record.json", "Register protocol a1b2c3d4", []byte(`{"id":"a1b2c3d4"}`))
	if err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}

	if putBody.SHA != "" {
		t.Errorf("sha = %q, want empty for a new file", putBody.SHA)
	}
	if putBody.Branch != "main" {
		t.Errorf("branch = %q, want main", putBody.Branch)
	}
	decoded, err := base64.StdEncoding.DecodeString(putBody.Content)
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	if string(decoded) != `{"id":"a1b2c3d4"}` {
		t.Errorf("content = %q, want the manifest", decoded)
	}
}

func TestPutFileUpdatesExistingFile(t *testing.T) {
	var putBody contentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(contentResponse{SHA: "existing-sha"})
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&putBody)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.PutFile(context.Background(), "backups/a1b2c3d4/record.json", "update", []byte("{}")); err != nil {
		t.Fatalf("PutFile() error = %v", err)
	}

	if putBody.SHA != "existing-sha" {
		t.Errorf("sha = %q, want the existing blob sha", putBody.SHA)
	}
}

func TestPutFileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.PutFile(context.Background(), "backups/x/record.json", "msg", []byte("{}")); err == nil {
		t.Fatal("PutFile() error = nil, want failure on 403")
	}
}
