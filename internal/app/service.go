package app

import (
	"context"
	"iter"

	"tubesight/internal/gemini"
	"tubesight/internal/media"
	"tubesight/internal/storage"
	"tubesight/pkg/config"
)

// VideoService is the part of *gemini.Client the surfaces depend on.
type VideoService interface {
	Analyze(ctx context.Context, req gemini.AnalysisRequest) (*gemini.AnalysisResult, error)
	StreamChat(ctx context.Context, req gemini.ChatRequest) iter.Seq2[string, error]
	GeneratePresentation(ctx context.Context, req gemini.PresentationRequest) ([]gemini.SlideData, error)
}

type Service struct {
	cfg     *config.Config
	gemini  VideoService
	storage storage.Store
}

type ServiceOptions struct {
	Config  *config.Config
	Gemini  VideoService
	Storage storage.Store
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:     opts.Config,
		gemini:  opts.Gemini,
		storage: opts.Storage,
	}
}

func (s *Service) Config() *config.Config { return s.cfg }
func (s *Service) Gemini() VideoService   { return s.gemini }
func (s *Service) Storage() storage.Store { return s.storage }

func (s *Service) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}

// LoadVideo reads a video from a local path or a gs://bucket/object
// reference.
func (s *Service) LoadVideo(ctx context.Context, ref string) (*media.Payload, error) {
	if !storage.IsGCSRef(ref) {
		return media.Load(ref)
	}

	store, name, err := storage.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	r, err := store.Open(ctx, name)
	if err != nil {
		return nil, &media.ConversionError{Name: ref, Err: err}
	}
	defer func() { _ = r.Close() }()

	return media.Read(r, name, "")
}
