package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"medi-response-service/internal/observability/metrics"
	"medi-response-service/internal/schema"
	"medi-response-service/internal/service/exchange"
	"medi-response-service/internal/service/response"
)

// Handler runs one recorded turn.
type Handler interface {
	Handle(ctx context.Context, req exchange.Request) (*exchange.Result, error)
}

type respondRequest struct {
	Prompt    string `json:"prompt"`
	MaxLength int    `json:"max_length"`
	SessionID string `json:"session_id"`
}

type respondResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter constructs the HTTP router for the service. ready backs
// /v1/readiness; nil always reports ready.
func NewRouter(h Handler, m *metrics.Metrics, ready func() bool) http.Handler {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(countRequests(m))

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/respond", respond(h))
		r.Get("/schemas/{eventType}", eventSchema)
	})

	return r
}

func respond(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req respondRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		res, err := h.Handle(r.Context(), exchange.Request{
			Prompt:    req.Prompt,
			MaxLength: req.MaxLength,
			SessionID: req.SessionID,
		})
		if err != nil {
			code := statusFor(err)
			if code >= http.StatusInternalServerError {
				log.Error().Err(err).Str("requestId", middleware.GetReqID(r.Context())).Msg("Respond failed")
			}
			writeJSON(w, code, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, respondResponse{
			Response:  res.Response,
			SessionID: res.SessionID,
			TurnID:    res.TurnID,
		})
	}
}

func eventSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := schema.Document(chi.URLParam(r, "eventType"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(doc)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, exchange.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, response.ErrGeneration), errors.Is(err, response.ErrClassification):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// countRequests records every request under its route pattern.
func countRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.RecordHTTP(route, ww.Status())
		})
	}
}
