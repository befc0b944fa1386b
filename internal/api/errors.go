package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"tubesight/internal/gemini"
	"tubesight/internal/media"
)

// badRequestError marks input the client has to fix.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &badRequestError{err: err}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	var (
		cfgErr  *gemini.ConfigurationError
		tooBig  *gemini.PayloadTooLargeError
		badReq  *badRequestError
		convErr *media.ConversionError
	)

	switch {
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &tooBig), errors.Is(err, media.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &badReq),
		errors.As(err, &convErr),
		errors.Is(err, media.ErrEmptyPayload),
		errors.Is(err, media.ErrUnsupportedMedia),
		errors.Is(err, gemini.ErrEmptyMessage),
		errors.Is(err, gemini.ErrInvalidSlideCount):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	slog.Warn("Request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
