package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"tubesight/internal/media"
)

func TestAnalyzeEachModeUsesDistinctInstruction(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(string, []*genai.Content) (*genai.GenerateContentResponse, error) {
			return textResponse("## Result"), nil
		},
	}
	c := newTestClient(t, gen, Options{AnalysisModel: "analysis-model"})

	seen := make(map[string]AnalysisMode)
	for _, mode := range Modes() {
		result, err := c.Analyze(context.Background(), AnalysisRequest{Video: testVideo(), Mode: mode})
		if err != nil {
			t.Fatalf("Analyze(%s) error = %v", mode, err)
		}
		if result.Text != "## Result" {
			t.Errorf("Analyze(%s) text = %q", mode, result.Text)
		}

		calls := gen.callsTo("analysis-model")
		last := calls[len(calls)-1]
		system := promptText([]*genai.Content{last.config.SystemInstruction})
		if other, ok := seen[system]; ok {
			t.Errorf("modes %s and %s share a system instruction", other, mode)
		}
		seen[system] = mode
	}
}

func TestAnalyzeRequestShape(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(string, []*genai.Content) (*genai.GenerateContentResponse, error) {
			return textResponse("ok"), nil
		},
	}
	c := newTestClient(t, gen, Options{AnalysisModel: "analysis-model", AnalysisThinkingBudget: 1024})

	tests := []struct {
		name       string
		notes      string
		wantInText string
	}{
		{name: "withNotes", notes: "focus on pricing", wantInText: "focus on pricing"},
		{name: "withoutNotes", notes: "", wantInText: "No specific notes provided."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Analyze(context.Background(), AnalysisRequest{Video: testVideo(), Notes: tt.notes, Mode: ModeTechnical})
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			calls := gen.callsTo("analysis-model")
			call := calls[len(calls)-1]
			if len(call.contents) != 1 {
				t.Fatalf("contents = %d, want 1", len(call.contents))
			}
			parts := call.contents[0].Parts
			if len(parts) != 2 || parts[0].InlineData == nil {
				t.Fatalf("want video part followed by text part, got %d parts", len(parts))
			}
			if parts[0].InlineData.MIMEType != "video/mp4" {
				t.Errorf("video MIME = %q", parts[0].InlineData.MIMEType)
			}
			if !strings.Contains(parts[1].Text, tt.wantInText) {
				t.Errorf("prompt %q does not contain %q", parts[1].Text, tt.wantInText)
			}
			if !strings.Contains(parts[1].Text, "'technical'") {
				t.Errorf("prompt %q does not name the mode", parts[1].Text)
			}
			if call.config.ThinkingConfig == nil || *call.config.ThinkingConfig.ThinkingBudget != 1024 {
				t.Error("thinking budget not applied")
			}
		})
	}
}

func TestAnalyzeEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(string, []*genai.Content) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		},
	}
	c := newTestClient(t, gen, Options{})

	result, err := c.Analyze(context.Background(), AnalysisRequest{Video: testVideo(), Mode: ModeSummary})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Text != emptyAnalysisText {
		t.Errorf("Text = %q, want %q", result.Text, emptyAnalysisText)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name        string
		video       *media.Payload
		mode        AnalysisMode
		providerErr error
		check       func(t *testing.T, err error)
		wantCalls   int
	}{
		{
			name:  "nilVideo",
			video: nil,
			mode:  ModeSummary,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, media.ErrEmptyPayload) {
					t.Errorf("error = %v, want ErrEmptyPayload", err)
				}
			},
		},
		{
			name:  "unknownMode",
			video: testVideo(),
			mode:  "poetry",
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "poetry") {
					t.Errorf("error = %v, want unknown mode", err)
				}
			},
		},
		{
			name:        "payloadTooLarge",
			video:       testVideo(),
			mode:        ModeSummary,
			providerErr: genai.APIError{Code: 413, Message: "Request Entity Too Large"},
			wantCalls:   1,
			check: func(t *testing.T, err error) {
				var tooBig *PayloadTooLargeError
				if !errors.As(err, &tooBig) {
					t.Errorf("error = %T, want *PayloadTooLargeError", err)
				}
			},
		},
		{
			name:        "providerFailure",
			video:       testVideo(),
			mode:        ModeSummary,
			providerErr: genai.APIError{Code: 429, Message: "quota exceeded"},
			wantCalls:   1,
			check: func(t *testing.T, err error) {
				var failed *AnalysisFailedError
				if !errors.As(err, &failed) {
					t.Fatalf("error = %T, want *AnalysisFailedError", err)
				}
				if failed.Message != "quota exceeded" {
					t.Errorf("Message = %q, want provider message", failed.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{
				generate: func(string, []*genai.Content) (*genai.GenerateContentResponse, error) {
					return nil, tt.providerErr
				},
			}
			c := newTestClient(t, gen, Options{})

			_, err := c.Analyze(context.Background(), AnalysisRequest{Video: tt.video, Mode: tt.mode})
			if err == nil {
				t.Fatal("Analyze() expected error")
			}
			tt.check(t, err)
			if gen.callCount() != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", gen.callCount(), tt.wantCalls)
			}
		})
	}
}
