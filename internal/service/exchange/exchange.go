// Package exchange records one doctor/relative turn: it assigns session and
// turn ids, runs the response pipeline, then publishes and persists the result.
package exchange

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"medi-response-service/internal/models"
	"medi-response-service/internal/observability/logging"
	"medi-response-service/internal/observability/metrics"
	"medi-response-service/internal/schema"
	"medi-response-service/internal/service/generator"
	"medi-response-service/internal/service/prompt"
	"medi-response-service/internal/service/response"
	"medi-response-service/internal/service/turn"
	"medi-response-service/internal/store"
)

// ErrEmptyPrompt is returned for a request without prompt text.
var ErrEmptyPrompt = errors.New("prompt is required")

// DefaultIdleTTL is how long a session may go without a turn before its
// counter is dropped.
const DefaultIdleTTL = 30 * time.Minute

// Responder runs the response pipeline.
type Responder interface {
	RespondTrace(ctx context.Context, prompt string, maxLength int) (*response.Trace, error)
}

// Publisher receives the events of a completed turn.
type Publisher interface {
	PublishRaw(ctx context.Context, key string, event *models.GenerationRaw) error
	PublishFinal(ctx context.Context, key string, event *models.ResponseFinal) error
}

// Store persists sessions and turns.
type Store interface {
	CreateSession(ctx context.Context, s store.Session) error
	SaveTurn(ctx context.Context, t store.Turn) error
	LastTurn(ctx context.Context, sessionID string) (store.Turn, error)
}

type Request struct {
	Prompt    string
	MaxLength int
	SessionID string // empty starts a new session
}

type Result struct {
	Response  string
	SessionID string
	TurnID    string
	Trace     *response.Trace
}

// Config wires a Handler. Publisher and Store are optional.
type Config struct {
	Responder Responder
	Publisher Publisher
	Store     Store
	Provider  string
	MaxLength int
	Metrics   *metrics.Metrics
	// IdleTTL evicts sessions idle for longer. An evicted session that comes
	// back resumes from the store, or restarts numbering without one.
	IdleTTL time.Duration
}

// Handler is safe for concurrent use.
type Handler struct {
	responder Responder
	publisher Publisher
	store     Store
	provider  string
	maxLength int
	metrics   *metrics.Metrics
	validator *schema.Validator
	turns     *turn.Generator
	logger    zerolog.Logger

	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	lastSeen  map[string]time.Time
	lastSweep time.Time
}

func New(cfg Config) *Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.DefaultMetrics
	}
	if cfg.Provider == "" {
		cfg.Provider = "unknown"
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = generator.DefaultMaxLength
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Handler{
		responder: cfg.Responder,
		publisher: cfg.Publisher,
		store:     cfg.Store,
		provider:  cfg.Provider,
		maxLength: cfg.MaxLength,
		metrics:   cfg.Metrics,
		validator: schema.New(),
		turns:     turn.New(),
		logger:    logging.WithComponent("exchange"),
		idleTTL:   cfg.IdleTTL,
		now:       time.Now,
		lastSeen:  make(map[string]time.Time),
	}
}

// Handle runs one turn. Pipeline errors are returned unchanged so callers can
// match the response sentinels; publish and store failures are only logged.
func (h *Handler) Handle(ctx context.Context, req Request) (*Result, error) {
	p := req.Prompt
	if strings.TrimSpace(p) == "" {
		return nil, ErrEmptyPrompt
	}

	sessionID := h.session(ctx, req.SessionID, p)
	turnID := h.turns.Next(sessionID)
	h.metrics.RecordTurn()
	log := logging.WithTurn(sessionID, turnID)

	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = h.maxLength
	}
	tr, err := h.responder.RespondTrace(ctx, p, maxLength)
	if err != nil {
		log.Error().Err(err).Msg("Response failed")
		return nil, err
	}

	now := time.Now().UTC().UnixMilli()
	raw := &models.GenerationRaw{
		EventType: models.EventGenerationRaw,
		SessionID: sessionID,
		TurnID:    turnID,
		Timestamp: now,
		Provider:  h.provider,
		Prompt:    p,
		MaxLength: maxLength,
		Raw:       tr.Raw,
	}
	final := &models.ResponseFinal{
		EventType:  models.EventResponseFinal,
		SessionID:  sessionID,
		TurnID:     turnID,
		Timestamp:  now,
		Emotion:    prompt.EmotionOf(p),
		Doctor:     prompt.LastDoctorLine(p),
		Response:   tr.Response,
		Sentences:  len(tr.Sentences),
		Kept:       len(tr.Filter.Kept),
		Skipped:    tr.Filter.Skipped,
		Unexamined: tr.Filter.Unexamined,
	}

	h.publish(ctx, log, raw, final)
	h.save(ctx, log, raw, final)

	log.Info().
		Int("kept", final.Kept).
		Int("responseLen", len(final.Response)).
		Msg("Turn completed")

	return &Result{
		Response:  tr.Response,
		SessionID: sessionID,
		TurnID:    turnID,
		Trace:     tr,
	}, nil
}

// session returns the id to use for a request, creating or resuming the
// session on first sight.
func (h *Handler) session(ctx context.Context, id, p string) string {
	if id == "" {
		id = turn.NewSessionId()
		h.markKnown(id)
		h.metrics.RecordSessionStarted()
		if h.store != nil {
			err := h.store.CreateSession(ctx, store.Session{
				ID:      id,
				Emotion: prompt.EmotionOf(p),
				Persona: prompt.PersonaOf(p),
			})
			h.metrics.RecordStoreWrite("sessions", err)
			if err != nil {
				h.logger.Error().Err(err).Str("sessionId", id).Msg("Failed to store session")
			}
		}
		return id
	}

	if !h.markKnown(id) || h.store == nil {
		return id
	}
	last, err := h.store.LastTurn(ctx, id)
	switch {
	case err == nil:
		h.turns.Resume(id, last.Seq)
	case !errors.Is(err, store.ErrNotFound):
		h.logger.Warn().Err(err).Str("sessionId", id).Msg("Failed to resume session")
	}
	return id
}

// markKnown records activity on id and reports whether it was new.
func (h *Handler) markKnown(id string) bool {
	now := h.now()
	h.mu.Lock()
	defer h.mu.Unlock()
	_, seen := h.lastSeen[id]
	h.lastSeen[id] = now
	h.sweepLocked(now)
	return !seen
}

// Sessions returns the number of sessions currently tracked.
func (h *Handler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lastSeen)
}

// sweepLocked evicts idle sessions, at most once per tenth of the TTL.
func (h *Handler) sweepLocked(now time.Time) {
	if now.Sub(h.lastSweep) < h.idleTTL/10 {
		return
	}
	h.lastSweep = now
	for id, seen := range h.lastSeen {
		if now.Sub(seen) > h.idleTTL {
			delete(h.lastSeen, id)
			h.turns.Forget(id)
		}
	}
}

func (h *Handler) publish(ctx context.Context, log zerolog.Logger, raw *models.GenerationRaw, final *models.ResponseFinal) {
	if h.publisher == nil {
		return
	}
	if err := h.validator.Validate(raw); err != nil {
		log.Error().Err(err).Msg("Raw event failed validation, not published")
	} else if err := h.publisher.PublishRaw(ctx, raw.SessionID, raw); err != nil {
		log.Error().Err(err).Msg("Failed to publish raw event")
	}
	if err := h.validator.Validate(final); err != nil {
		log.Error().Err(err).Msg("Final event failed validation, not published")
	} else if err := h.publisher.PublishFinal(ctx, final.SessionID, final); err != nil {
		log.Error().Err(err).Msg("Failed to publish final event")
	}
}

func (h *Handler) save(ctx context.Context, log zerolog.Logger, raw *models.GenerationRaw, final *models.ResponseFinal) {
	if h.store == nil {
		return
	}
	_, seq, _ := turn.Parse(final.TurnID)
	err := h.store.SaveTurn(ctx, store.Turn{
		TurnID:    final.TurnID,
		SessionID: final.SessionID,
		Seq:       seq,
		Doctor:    final.Doctor,
		Raw:       raw.Raw,
		Response:  final.Response,
		CreatedAt: time.UnixMilli(final.Timestamp),
	})
	h.metrics.RecordStoreWrite("turns", err)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store turn")
	}
}
