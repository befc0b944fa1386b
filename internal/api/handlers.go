package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tubesight/internal/app"
	"tubesight/internal/gemini"
	"tubesight/internal/media"
	"tubesight/internal/timestamp"
	"tubesight/pkg/config"
)

// maxUploadSize leaves room for base64 encoding and the other form fields.
const maxUploadSize = media.MaxPayloadSize*4/3 + maxFieldSize

type Handlers struct {
	videos        app.VideoService
	presentation  config.PresentationConfig
	seeks         *timestamp.Broadcaster
	maxUploadSize int64
}

type HandlersOptions struct {
	Videos       app.VideoService
	Presentation config.PresentationConfig
	Seeks        *timestamp.Broadcaster
}

func NewHandlers(opts HandlersOptions) *Handlers {
	seeks := opts.Seeks
	if seeks == nil {
		seeks = timestamp.NewBroadcaster()
	}
	return &Handlers{
		videos:        opts.Videos,
		presentation:  opts.Presentation,
		seeks:         seeks,
		maxUploadSize: maxUploadSize,
	}
}

type analyzeResponse struct {
	Text    string           `json:"text"`
	Moments []timestamp.Mark `json:"moments"`
}

type presentationResponse struct {
	Slides []gemini.SlideData `json:"slides"`
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (h *Handlers) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mode, err := gemini.ParseAnalysisMode(form.valueOr("mode", string(gemini.ModeSummary)))
	if err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	result, err := h.videos.Analyze(r.Context(), gemini.AnalysisRequest{
		Video: form.video,
		Notes: form.value("notes"),
		Mode:  mode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Text:    result.Text,
		Moments: timestamp.Find(result.Text),
	})
}

func (h *Handlers) PresentationHandler(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	count := h.presentation.SlideCount
	if raw := form.value("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, badRequest(fmt.Errorf("invalid slide count %q", raw)))
			return
		}
	}

	language, err := gemini.ParseLanguage(form.valueOr("language", h.presentation.Language))
	if err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	slides, err := h.videos.GeneratePresentation(r.Context(), gemini.PresentationRequest{
		Video:        form.video,
		Instructions: form.value("instructions"),
		Audience:     form.valueOr("audience", h.presentation.Audience),
		Style:        form.valueOr("style", h.presentation.Style),
		ColorTheme:   form.valueOr("theme", h.presentation.ColorTheme),
		SlideCount:   count,
		Language:     language,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, presentationResponse{Slides: slides})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
