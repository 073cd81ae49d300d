package app

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"medi-response-service/internal/config"
	"medi-response-service/internal/events"
	"medi-response-service/internal/observability/logging"
	"medi-response-service/internal/observability/metrics"
	"medi-response-service/internal/service/classifier"
	classifiermock "medi-response-service/internal/service/classifier/mock"
	"medi-response-service/internal/service/classifier/remote"
	"medi-response-service/internal/service/generator"
	"medi-response-service/internal/service/generator/gemini"
	generatormock "medi-response-service/internal/service/generator/mock"
	"medi-response-service/internal/service/generator/ollama"
	"medi-response-service/internal/service/generator/openaicompat"
	"medi-response-service/internal/service/lexicon"
	"medi-response-service/internal/service/prompt"
	"medi-response-service/internal/service/response"
	"medi-response-service/internal/service/spelling"
	"medi-response-service/internal/service/stt"
	"medi-response-service/internal/service/stt/google"
	sttmock "medi-response-service/internal/service/stt/mock"
	"medi-response-service/internal/service/wordseg"
	"medi-response-service/internal/store"
)

// Application holds process-wide state for the service and builds its
// collaborators from configuration.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration
	Metrics     *metrics.Metrics

	closers []io.Closer
	ready   atomic.Bool
}

// New constructs a new Application from the provided configuration.
func New(cfg *config.Configuration) *Application {
	a := &Application{
		Cfg:     cfg,
		Metrics: metrics.DefaultMetrics,
	}
	a.setupLogger()

	appLogger := a.Logger.With().
		Str("method", "New").
		Logger()

	appLogger.Info().Msg("Medi response service application created")
	return a
}

// setupLogger configures zerolog for the service.
func (a *Application) setupLogger() {
	lc := logging.DefaultConfig()
	lc.Level = a.Cfg.Observability.LogLevel
	lc.Format = a.Cfg.Observability.LogFormat
	if os.Getenv("ENV") == "dev" {
		lc.Format = "console"
	}
	logging.Init(lc)

	a.Logger = logging.Logger().With().
		Str("service", "medi-response-service").
		Str("component", "application").
		Logger()

	a.Logger.Info().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Str("environment", os.Getenv("ENV")).
		Msg("Logger setup completed")
}

// NewGenerator builds the configured generator, wrapped in a token budget
// when a context size is set.
func (a *Application) NewGenerator(ctx context.Context) (generator.Generator, error) {
	gc := a.Cfg.Generator
	sampling := generator.Sampling{
		Temperature:   gc.Temperature,
		TopP:          gc.TopP,
		TopK:          gc.TopK,
		RepeatPenalty: gc.RepeatPenalty,
	}

	var gen generator.Generator
	switch gc.Provider {
	case generator.ProviderOllama:
		gen = ollama.New(ollama.Config{BaseURL: gc.BaseURL, Model: gc.Model, Timeout: gc.Timeout, Sampling: sampling})
	case generator.ProviderOpenAI:
		gen = openaicompat.New(openaicompat.Config{BaseURL: gc.BaseURL, APIKey: gc.APIKey, Model: gc.Model, Sampling: sampling})
	case generator.ProviderGemini:
		g, err := gemini.New(ctx, gemini.Config{APIKey: gc.APIKey, Model: gc.Model, Sampling: sampling})
		if err != nil {
			return nil, err
		}
		gen = g
	case generator.ProviderMock:
		gen = generatormock.New()
	default:
		return nil, fmt.Errorf("unknown generator provider %q", gc.Provider)
	}

	if gc.ContextTokens > 0 && gc.Provider != generator.ProviderMock {
		b, err := generator.NewBudget(gen, generator.DefaultEncoding, gc.ContextTokens)
		if err != nil {
			return nil, fmt.Errorf("token budget: %w", err)
		}
		gen = b
	}

	a.Logger.Info().
		Str("provider", gc.Provider).
		Str("model", gc.Model).
		Int("contextTokens", gc.ContextTokens).
		Msg("Generator configured")
	return gen, nil
}

// NewClassifier builds the configured role classifier.
func (a *Application) NewClassifier() (classifier.Classifier, error) {
	cc := a.Cfg.Classifier
	switch cc.Provider {
	case "http":
		return remote.New(remote.Config{BaseURL: cc.BaseURL, Timeout: cc.Timeout}), nil
	case "mock":
		return classifiermock.New(), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cc.Provider)
	}
}

// NewResponseService wires the full response pipeline.
func (a *Application) NewResponseService(ctx context.Context) (*response.Service, error) {
	gen, err := a.NewGenerator(ctx)
	if err != nil {
		return nil, err
	}
	cls, err := a.NewClassifier()
	if err != nil {
		return nil, err
	}
	lex, err := lexicon.LoadFile(a.Cfg.Spelling.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	return response.NewWithOptions(gen, cls, wordseg.New(lex), spelling.New(lex, a.Cfg.Spelling.Depth), response.Options{
		DefaultMaxLength: a.Cfg.Generator.MaxLength,
		Provider:         a.Cfg.Generator.Provider,
		Metrics:          a.Metrics,
	}), nil
}

// NewTranscriber builds the configured speech-to-text backend.
func (a *Application) NewTranscriber(ctx context.Context) (stt.Transcriber, error) {
	sc := a.Cfg.STT
	var t stt.Transcriber
	switch sc.Provider {
	case "google":
		g, err := google.New(ctx, google.Config{
			LanguageCode:  sc.LanguageCode,
			SampleRateHz:  sc.SampleRateHz,
			AudioEncoding: sc.AudioEncoding,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g)
		t = g
	case "mock":
		t = sttmock.New()
	default:
		return nil, fmt.Errorf("unknown stt provider %q", sc.Provider)
	}
	return stt.Instrument(sc.Provider, t, a.Metrics), nil
}

// NewPublisher creates the Kafka publisher. It is closed on Shutdown.
func (a *Application) NewPublisher() *events.Publisher {
	kc := a.Cfg.Kafka
	p := events.New(&events.Config{
		Enabled:    kc.Enabled,
		Brokers:    kc.Brokers,
		TopicRaw:   kc.TopicRaw,
		TopicFinal: kc.TopicFinal,
		Principal:  kc.Principal,
	})
	a.closers = append(a.closers, p)
	return p
}

// OpenStore opens the history database. An empty path returns nil.
func (a *Application) OpenStore() (*store.DB, error) {
	if a.Cfg.Store.Path == "" {
		return nil, nil
	}
	db, err := store.Open(a.Cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", a.Cfg.Store.Path, err)
	}
	a.closers = append(a.closers, db)
	return db, nil
}

// Scenario draws a dialogue scenario from the configured catalog. A
// configured emotion overrides the drawn one.
func (a *Application) Scenario() (prompt.Scenario, error) {
	dc := a.Cfg.Dialogue
	cat := prompt.DefaultCatalog()
	if dc.CatalogPath != "" {
		c, err := prompt.LoadCatalog(dc.CatalogPath)
		if err != nil {
			return prompt.Scenario{}, err
		}
		cat = c
	}

	seed := dc.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	sc := cat.Pick(rand.New(rand.NewPCG(seed, seed>>1)))
	if dc.Emotion != "" {
		if !cat.HasEmotion(dc.Emotion) {
			return prompt.Scenario{}, fmt.Errorf("unknown emotion %q", dc.Emotion)
		}
		sc.Emotion = dc.Emotion
	}
	return sc, nil
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	a.StartupTime = time.Now().UTC()
	startLogger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Medi response service starting")

	a.ready.Store(true)
	return nil
}

// Ready reports whether the service accepts traffic: after Start and until
// Drain or Shutdown.
func (a *Application) Ready() bool { return a.ready.Load() }

// Drain marks the service not ready so probes stop routing to it.
func (a *Application) Drain() { a.ready.Store(false) }

// Shutdown closes everything the factories opened, newest first.
func (a *Application) Shutdown() {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	a.Drain()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			shutdownLogger.Error().Err(err).Msg("Close failed")
		}
	}
	a.closers = nil
	shutdownLogger.Info().Msg("Medi response service shutting down")
}
