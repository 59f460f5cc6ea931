package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	_ "lessonshop/docs"
	"lessonshop/pkg/logger"
	"lessonshop/pkg/metrics"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig carries what NewRouter needs besides the handlers.
type RouterConfig struct {
	Log     *logger.Logger
	Tracer  trace.Tracer
	Metrics *metrics.Metrics
	// Health is pinged by GET /healthz; nil always reports ok.
	Health Pinger
}

// NewRouter mounts the handler set and the operational endpoints.
func NewRouter(h *Handlers, cfg RouterConfig) http.Handler {
	if cfg.Log == nil {
		cfg.Log = logger.NewNop()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("lessonshop")
	}

	r := mux.NewRouter()
	r.Use(recoverPanics(cfg.Log), traceRequests(cfg.Tracer), logRequests(cfg.Log))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/lessons", h.ListLessons).Methods(http.MethodGet)
	r.HandleFunc("/lessons/{id}", h.UpdateLesson).Methods(http.MethodPut)
	r.HandleFunc("/search", h.SearchLessons).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)

	r.HandleFunc("/healthz", healthz(cfg.Health, cfg.Log)).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(r.Context(), cfg.Log, w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(r.Context(), cfg.Log, w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func healthz(p Pinger, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				log.Warn(ctx, "health check", "error", err)
				respondError(ctx, log, w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		respond(r.Context(), log, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
