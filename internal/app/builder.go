package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"tubesight/internal/gemini"
	"tubesight/internal/storage"
	"tubesight/pkg/config"
	"tubesight/pkg/httputil"
	"tubesight/pkg/prompts"
)

func BuildService(ctx context.Context, cfg *config.Config, verbose bool) (*Service, error) {
	p, err := loadPrompts(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}

	// Provider request logging is only worth the wrapper in verbose mode.
	var httpClient *http.Client
	if verbose {
		httpClient = httputil.NewClient(slog.Default())
	}

	client, err := gemini.NewClient(ctx, gemini.Options{
		Backend:                cfg.Gemini.Backend,
		APIKey:                 cfg.GeminiAPIKey,
		Project:                cfg.GCPProject,
		Location:               cfg.Gemini.Location,
		AnalysisModel:          cfg.Gemini.AnalysisModel,
		ChatModel:              cfg.Gemini.ChatModel,
		PlanningModel:          cfg.Gemini.PlanningModel,
		ImageModel:             cfg.Gemini.ImageModel,
		AnalysisThinkingBudget: int32(cfg.Gemini.AnalysisThinkingBudget),
		ChatThinkingBudget:     int32(cfg.Gemini.ChatThinkingBudget),
		PlanningThinkingBudget: int32(cfg.Gemini.PlanningThinkingBudget),
		MaxSlides:              cfg.Presentation.MaxSlides,
		ImageConcurrency:       cfg.Presentation.ImageConcurrency,
		Prompts:                p,
		HTTPClient:             httpClient,
		Logger:                 slog.Default(),
	})
	if err != nil {
		return nil, err
	}

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewService(ServiceOptions{
		Config:  cfg,
		Gemini:  client,
		Storage: store,
	}), nil
}

// loadPrompts falls back to the embedded prompts when the configured file
// does not exist.
func loadPrompts(path string) (*prompts.Prompts, error) {
	if path == "" {
		return prompts.Load()
	}

	p, err := prompts.LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No prompts file found, using embedded prompts", "path", path)
		return prompts.Default(), nil
	}
	return p, err
}

// buildStorage writes exports to GCS when a bucket is configured and to the
// local output directory otherwise.
func buildStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.GCSBucket != "" {
		slog.Debug("Using GCS storage", "bucket", cfg.GCSBucket, "prefix", cfg.Storage.GCSPrefix)
		return storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.Storage.GCSPrefix)
	}

	local := storage.NewLocalStorage(cfg.Storage.OutputDir)
	if err := local.EnsureDir(); err != nil {
		return nil, err
	}
	return local, nil
}
