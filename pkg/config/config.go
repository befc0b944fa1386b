package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultBackend          = "gemini"
	defaultLocation         = "us-central1"
	defaultAnalysisModel    = "gemini-2.5-flash"
	defaultChatModel        = "gemini-2.5-flash"
	defaultPlanningModel    = "gemini-2.5-flash"
	defaultImageModel       = "gemini-2.5-flash-image"
	defaultAnalysisThinking = 10240
	defaultChatThinking     = 8192
	defaultPlanningThinking = 12288
	defaultMaxSlides        = 10
	defaultSlideCount       = 3
	defaultStyle            = "Professional"
	defaultColorTheme       = "Corporate Blue"
	defaultLanguage         = "en"
	DefaultOutputDir        = "./output"
	defaultServerAddr       = ":8080"
	defaultPromptsPath      = "prompts.yaml"
	BackendGemini           = "gemini"
	BackendVertex           = "vertex"
	EnvAPIKey               = "GEMINI_API_KEY"
	EnvLegacyAPIKey         = "API_KEY"
	EnvAPIKeySecret         = "GEMINI_API_KEY_SECRET"
	EnvGCPProject           = "GOOGLE_CLOUD_PROJECT"
	EnvGCSBucket            = "GCS_BUCKET"
)

type Config struct {
	GeminiAPIKey       string
	GeminiAPIKeySecret string
	GCPProject         string
	GCSBucket          string

	Gemini       GeminiConfig       `yaml:"gemini"`
	Presentation PresentationConfig `yaml:"presentation"`
	Storage      StorageConfig      `yaml:"storage"`
	Server       ServerConfig       `yaml:"server"`
	PromptsPath  string             `yaml:"prompts_path"`
}

type GeminiConfig struct {
	Backend  string `yaml:"backend"` // "gemini" or "vertex"
	Location string `yaml:"location"`

	AnalysisModel string `yaml:"analysis_model"`
	ChatModel     string `yaml:"chat_model"`
	PlanningModel string `yaml:"planning_model"`
	ImageModel    string `yaml:"image_model"`

	AnalysisThinkingBudget int `yaml:"analysis_thinking_budget"`
	ChatThinkingBudget     int `yaml:"chat_thinking_budget"`
	PlanningThinkingBudget int `yaml:"planning_thinking_budget"`
}

type PresentationConfig struct {
	SlideCount       int    `yaml:"slide_count"`
	MaxSlides        int    `yaml:"max_slides"`
	Style            string `yaml:"style"`
	ColorTheme       string `yaml:"color_theme"`
	Audience         string `yaml:"audience"`
	Language         string `yaml:"language"`
	ImageConcurrency int    `yaml:"image_concurrency"`
}

type StorageConfig struct {
	OutputDir string `yaml:"output_dir"`
	GCSPrefix string `yaml:"gcs_prefix"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// secretAccessor is swapped in tests.
var secretAccessor = accessSecretVersion

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:       firstEnv(EnvAPIKey, EnvLegacyAPIKey),
		GeminiAPIKeySecret: os.Getenv(EnvAPIKeySecret),
		GCPProject:         os.Getenv(EnvGCPProject),
		GCSBucket:          os.Getenv(EnvGCSBucket),
	}

	if err := loadYAMLConfig(cfg, defaultConfigPath); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if cfg.GeminiAPIKey == "" && cfg.GeminiAPIKeySecret != "" {
		key, err := secretAccessor(ctx, cfg.GeminiAPIKeySecret)
		if err != nil {
			return nil, fmt.Errorf("load api key from secret manager: %w", err)
		}
		cfg.GeminiAPIKey = key
	}

	return cfg, nil
}

// Credential is the opaque string that authenticates against the provider:
// the API key for the Gemini API, the project for Vertex AI.
func (c *Config) Credential() string {
	if c.Gemini.Backend == BackendVertex {
		return c.GCPProject
	}
	return c.GeminiAPIKey
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("No config.yaml found, using defaults")
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyGeminiDefaults(cfg)
	applyPresentationDefaults(cfg)
	applyStorageDefaults(cfg)
	applyServerDefaults(cfg)
	if cfg.PromptsPath == "" {
		cfg.PromptsPath = defaultPromptsPath
	}
}

func applyGeminiDefaults(cfg *Config) {
	if cfg.Gemini.Backend == "" {
		cfg.Gemini.Backend = defaultBackend
	}
	if cfg.Gemini.Location == "" {
		cfg.Gemini.Location = defaultLocation
	}
	if cfg.Gemini.AnalysisModel == "" {
		cfg.Gemini.AnalysisModel = defaultAnalysisModel
	}
	if cfg.Gemini.ChatModel == "" {
		cfg.Gemini.ChatModel = defaultChatModel
	}
	if cfg.Gemini.PlanningModel == "" {
		cfg.Gemini.PlanningModel = defaultPlanningModel
	}
	if cfg.Gemini.ImageModel == "" {
		cfg.Gemini.ImageModel = defaultImageModel
	}
	if cfg.Gemini.AnalysisThinkingBudget == 0 {
		cfg.Gemini.AnalysisThinkingBudget = defaultAnalysisThinking
	}
	if cfg.Gemini.ChatThinkingBudget == 0 {
		cfg.Gemini.ChatThinkingBudget = defaultChatThinking
	}
	if cfg.Gemini.PlanningThinkingBudget == 0 {
		cfg.Gemini.PlanningThinkingBudget = defaultPlanningThinking
	}
}

func applyPresentationDefaults(cfg *Config) {
	if cfg.Presentation.SlideCount == 0 {
		cfg.Presentation.SlideCount = defaultSlideCount
	}
	if cfg.Presentation.MaxSlides == 0 {
		cfg.Presentation.MaxSlides = defaultMaxSlides
	}
	if cfg.Presentation.Style == "" {
		cfg.Presentation.Style = defaultStyle
	}
	if cfg.Presentation.ColorTheme == "" {
		cfg.Presentation.ColorTheme = defaultColorTheme
	}
	if cfg.Presentation.Language == "" {
		cfg.Presentation.Language = defaultLanguage
	}
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = DefaultOutputDir
	}
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}
