package gemini

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"tubesight/pkg/prompts"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"

	defaultAnalysisModel = "gemini-2.5-flash"
	defaultChatModel     = "gemini-2.5-flash"
	defaultPlanningModel = "gemini-2.5-flash"
	defaultImageModel    = "gemini-2.5-flash-image"
	defaultMaxSlides     = 10
)

// ContentGenerator is the slice of the genai Models service this package
// uses. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

type Options struct {
	Backend  string
	APIKey   string
	Project  string
	Location string

	AnalysisModel string
	ChatModel     string
	PlanningModel string
	ImageModel    string

	AnalysisThinkingBudget int32
	ChatThinkingBudget     int32
	PlanningThinkingBudget int32

	MaxSlides int
	// ImageConcurrency caps parallel image requests; 0 runs them all at once.
	ImageConcurrency int

	Prompts    *prompts.Prompts
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client runs the three video operations. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	gen     ContentGenerator
	opts    Options
	prompts *prompts.Prompts
	logger  *slog.Logger
}

var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
}

// NewClient validates the credential and connects to the Gemini API or
// Vertex AI depending on opts.Backend.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{HTTPClient: opts.HTTPClient}
	if opts.Backend == BackendVertex {
		cc.Backend = genai.BackendVertexAI
		cc.Project = opts.Project
		cc.Location = opts.Location
	} else {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = opts.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return New(client.Models, opts)
}

// New builds a Client on top of an existing generator.
func New(gen ContentGenerator, opts Options) (*Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, &ConfigurationError{Reason: "gemini content generator is nil"}
	}

	opts.applyDefaults()

	return &Client{
		gen:     gen,
		opts:    opts,
		prompts: opts.Prompts,
		logger:  opts.Logger,
	}, nil
}

func (o *Options) validate() error {
	switch o.Backend {
	case "", BackendGemini:
		if o.APIKey == "" {
			return &ConfigurationError{Reason: "API key missing: set GEMINI_API_KEY"}
		}
	case BackendVertex:
		if o.Project == "" {
			return &ConfigurationError{Reason: "Vertex AI project missing: set GOOGLE_CLOUD_PROJECT"}
		}
	default:
		return &ConfigurationError{Reason: fmt.Sprintf("unknown gemini backend %q", o.Backend)}
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.AnalysisModel == "" {
		o.AnalysisModel = defaultAnalysisModel
	}
	if o.ChatModel == "" {
		o.ChatModel = defaultChatModel
	}
	if o.PlanningModel == "" {
		o.PlanningModel = defaultPlanningModel
	}
	if o.ImageModel == "" {
		o.ImageModel = defaultImageModel
	}
	if o.MaxSlides <= 0 {
		o.MaxSlides = defaultMaxSlides
	}
	if o.Prompts == nil {
		o.Prompts = prompts.Default()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// textConfig is shared by the analysis and chat calls.
func textConfig(systemPrompt string, thinkingBudget int32) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		SafetySettings: safetySettings,
	}
	if thinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(thinkingBudget)}
	}
	return config
}
