package gemini

import (
	"errors"
	"regexp"

	"google.golang.org/genai"

	"tubesight/pkg/httputil"
)

const (
	analysisFallback    = "video analysis failed"
	chatFallback        = "message stream failed"
	planningFallback    = "failed to plan presentation"
	payloadTooLargeText = "video file too large, please try a shorter clip"
)

var (
	ErrEmptyMessage      = errors.New("chat message is empty")
	ErrInvalidSlideCount = errors.New("invalid slide count")
)

// ConfigurationError means the client cannot be used at all, typically
// because the credential is missing. It is returned before any network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// PayloadTooLargeError means the provider refused the request because of
// the size of the video.
type PayloadTooLargeError struct {
	Err error
}

func (e *PayloadTooLargeError) Error() string { return payloadTooLargeText }
func (e *PayloadTooLargeError) Unwrap() error { return e.Err }

type AnalysisFailedError struct {
	Message string
	Err     error
}

func (e *AnalysisFailedError) Error() string { return e.Message }
func (e *AnalysisFailedError) Unwrap() error { return e.Err }

type ChatStreamError struct {
	Message string
	Err     error
}

func (e *ChatStreamError) Error() string { return e.Message }
func (e *ChatStreamError) Unwrap() error { return e.Err }

type PresentationPlanningError struct {
	Message string
	Err     error
}

func (e *PresentationPlanningError) Error() string { return e.Message }
func (e *PresentationPlanningError) Unwrap() error { return e.Err }

func analysisError(err error) error {
	if isRequestTooLarge(err) {
		return &PayloadTooLargeError{Err: err}
	}
	return &AnalysisFailedError{Message: providerMessage(err, analysisFallback), Err: err}
}

func chatError(err error) error {
	if isRequestTooLarge(err) {
		return &PayloadTooLargeError{Err: err}
	}
	return &ChatStreamError{Message: providerMessage(err, chatFallback), Err: err}
}

func planningError(err error) error {
	if isRequestTooLarge(err) {
		return &PayloadTooLargeError{Err: err}
	}
	return &PresentationPlanningError{Message: planningFallback + ": " + providerMessage(err, "no usable plan"), Err: err}
}

// tooLargePattern matches transport errors that carry a 413 status without
// being a genai.APIError.
var tooLargePattern = regexp.MustCompile(`(?i)\b(?:http|status|code)[ :=]*413\b|request entity too large|request too large`)

func isRequestTooLarge(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return httputil.IsRequestTooLarge(apiErr.Code)
	}
	return tooLargePattern.MatchString(err.Error())
}

// providerMessage prefers the message the provider sent over the SDK's
// formatted error string.
func providerMessage(err error, fallback string) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
