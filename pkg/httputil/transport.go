package httputil

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport logs every round trip at debug level. It never retries:
// a failed request is returned to the caller as is.
type LoggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func NewLoggingTransport(base http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingTransport{
		base:   base,
		logger: logger,
	}
}

// NewClient returns an http.Client without a client-side timeout; deadlines
// come from the request context.
func NewClient(logger *slog.Logger) *http.Client {
	return &http.Client{Transport: NewLoggingTransport(nil, logger)}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	// The URL query may carry an API key, so only host and path are logged.
	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"request_bytes", req.ContentLength,
		"elapsed", elapsed,
	}
	if err != nil {
		t.logger.Debug("Provider request failed", append(attrs, "error", err)...)
		return nil, err
	}

	t.logger.Debug("Provider request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}

// IsRequestTooLarge reports whether status means the provider refused the
// request body because of its size.
func IsRequestTooLarge(status int) bool {
	return status == http.StatusRequestEntityTooLarge
}
