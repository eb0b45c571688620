package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func probe(t *testing.T, h http.Handler, path string) (int, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return rec.Code, body
}

func TestHealthServer_Liveness(t *testing.T) {
	server := NewHealthServer(":0", "local", nil, discardLogger())

	code, body := probe(t, server.Handler(), "/health")

	if code != http.StatusOK {
		t.Errorf("expected status 200, got %d", code)
	}
	if body.Status != "ok" || body.Backend != "local" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHealthServer_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		check      ReadinessCheck
		wantCode   int
		wantStatus string
	}{
		{name: "not ready", ready: false, wantCode: http.StatusServiceUnavailable, wantStatus: "not ready"},
		{name: "ready without check", ready: true, wantCode: http.StatusOK, wantStatus: "ok"},
		{
			name:       "ready and backend reachable",
			ready:      true,
			check:      func(ctx context.Context) error { return nil },
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "ready but backend failing",
			ready:      true,
			check:      func(ctx context.Context) error { return errors.New("connection refused") },
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewHealthServer(":0", "postgres", tt.check, discardLogger())
			server.SetReady(tt.ready)

			code, body := probe(t, server.Handler(), "/health/ready")

			if code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, code)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, body.Status)
			}
		})
	}
}

func TestHealthServer_Readiness_Transition(t *testing.T) {
	server := NewHealthServer(":0", "local", nil, discardLogger())
	h := server.Handler()

	if code, _ := probe(t, h, "/health/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before ready, got %d", code)
	}
	server.SetReady(true)
	if code, _ := probe(t, h, "/health/ready"); code != http.StatusOK {
		t.Errorf("expected 200 after ready, got %d", code)
	}
	server.SetReady(false)
	if code, _ := probe(t, h, "/health/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after shutdown started, got %d", code)
	}
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	server := NewHealthServer("localhost:19095", "local", nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	// wait for the listener
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://localhost:19095/health")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("expected http.ErrServerClosed, got %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down")
	}
}
