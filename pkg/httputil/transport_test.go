package httputil

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestLoggingTransportPassesResponseThrough(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := &http.Client{Transport: NewLoggingTransport(server.Client().Transport, logger)}

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/v1beta/models/x:generateContent?key=secret", strings.NewReader("{}"))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}

	logged := buf.String()
	if !strings.Contains(logged, "status=503") {
		t.Errorf("log missing status: %s", logged)
	}
	if !strings.Contains(logged, "path=/v1beta/models/x:generateContent") {
		t.Errorf("log missing path: %s", logged)
	}
	if strings.Contains(logged, "secret") {
		t.Errorf("log leaked query string: %s", logged)
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestLoggingTransportReturnsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	transport := NewLoggingTransport(failingTransport{}, logger)

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	resp, err := transport.RoundTrip(req)
	if err == nil {
		t.Fatal("expected error")
	}
	if resp != nil {
		t.Error("expected nil response on error")
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("log missing error: %s", buf.String())
	}
}

func TestNewLoggingTransportDefaults(t *testing.T) {
	transport := NewLoggingTransport(nil, nil)
	if transport.base != http.DefaultTransport {
		t.Error("expected http.DefaultTransport as base")
	}
	if transport.logger == nil {
		t.Error("expected default logger")
	}
}

func TestIsRequestTooLarge(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusRequestEntityTooLarge, true},
		{http.StatusBadRequest, false},
		{http.StatusOK, false},
	}

	for _, tt := range tests {
		if got := IsRequestTooLarge(tt.status); got != tt.want {
			t.Errorf("IsRequestTooLarge(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
