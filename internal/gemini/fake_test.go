package gemini

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"

	"tubesight/internal/media"
)

type recordedCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	stream   bool
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []recordedCall

	generate func(model string, contents []*genai.Content) (*genai.GenerateContentResponse, error)
	stream   func(model string, contents []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error]
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.record(recordedCall{model: model, contents: contents, config: config})
	return f.generate(model, contents)
}

func (f *fakeGenerator) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.record(recordedCall{model: model, contents: contents, config: config, stream: true})
	return f.stream(model, contents)
}

func (f *fakeGenerator) record(call recordedCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGenerator) callsTo(model string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.model == model {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func imageResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your image"},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: data}},
			}}},
		},
	}
}

func testVideo() *media.Payload {
	return &media.Payload{Name: "clip.mp4", MIMEType: "video/mp4", Data: []byte("fake video bytes")}
}

func newTestClient(t *testing.T, gen ContentGenerator, opts Options) *Client {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = "test-key"
	}
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := New(gen, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

// promptText returns the concatenated text parts of a content list.
func promptText(contents []*genai.Content) string {
	var sb strings.Builder
	for _, content := range contents {
		for _, part := range content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
