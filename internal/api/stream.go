package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tubesight/internal/app"
	"tubesight/internal/gemini"
	"tubesight/internal/timestamp"
)

type chunkEvent struct {
	Text string `json:"text"`
}

type seekEvent struct {
	Seconds float64 `json:"seconds"`
}

type seekRequest struct {
	Label   string   `json:"label"`
	Seconds *float64 `json:"seconds"`
}

// ChatHandler streams the reply as server-sent events: one data event per
// fragment, then "done", or "error" if the stream fails part way.
func (h *Handlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := form.value("message")
	if strings.TrimSpace(message) == "" {
		writeError(w, r, gemini.ErrEmptyMessage)
		return
	}

	var history []gemini.ChatMessage
	if raw := form.value("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			writeError(w, r, badRequest(fmt.Errorf("invalid history: %w", err)))
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	setEventStreamHeaders(w)

	stream := h.videos.StreamChat(r.Context(), gemini.ChatRequest{
		Video:   form.video,
		History: app.ProviderHistory(history),
		Message: message,
	})
	for fragment, err := range stream {
		if err != nil {
			slog.Warn("Chat stream failed", "error", err)
			writeEvent(w, "error", errorResponse{Error: err.Error()})
			flusher.Flush()
			return
		}
		writeEvent(w, "", chunkEvent{Text: fragment})
		flusher.Flush()
	}

	writeEvent(w, "done", struct{}{})
	flusher.Flush()
}

// SeekHandler asks every connected player to jump to a timestamp, given
// either as a label such as "02:15" or as seconds.
func (h *Handlers) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, badRequest(fmt.Errorf("invalid seek request: %w", err)))
		return
	}

	mark := timestamp.Mark{Label: req.Label}
	switch {
	case req.Seconds != nil:
		mark.Seconds = *req.Seconds
	case req.Label != "":
		seconds, ok := timestamp.Parse(req.Label)
		if !ok {
			writeError(w, r, badRequest(fmt.Errorf("invalid timestamp %q", req.Label)))
			return
		}
		mark.Seconds = seconds
	default:
		writeError(w, r, badRequest(fmt.Errorf("label or seconds is required")))
		return
	}

	h.seeks.Seek(mark)
	writeJSON(w, http.StatusOK, mark)
}

// SeekEventsHandler pushes a "seek" event to the player for each seek
// request until the client disconnects.
func (h *Handlers) SeekEventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	seeks := make(chan float64, 16)
	unsubscribe := h.seeks.Subscribe(timestamp.SeekerFunc(func(seconds float64) {
		select {
		case seeks <- seconds:
		default:
			slog.Debug("Dropping seek for slow subscriber", "seconds", seconds)
		}
	}))
	defer unsubscribe()

	setEventStreamHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientGone := r.Context().Done()
	for {
		select {
		case seconds := <-seeks:
			writeEvent(w, "seek", seekEvent{Seconds: seconds})
			flusher.Flush()
		case <-clientGone:
			return
		}
	}
}

func setEventStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
