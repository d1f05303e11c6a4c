package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pipelineai/app/usecase"
	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
)

var errHistoryDisabled = errors.New("history is disabled")

type PipelineHandler struct {
	generator usecase.GeneratorUsecase
	history   usecase.HistoryUsecase // nil when history is disabled
	logger    *slog.Logger
	validate  *validator.Validate

	// метрики
	reqDuration *prometheus.HistogramVec
	reqCount    *prometheus.CounterVec
	errCount    *prometheus.CounterVec
}

func NewPipelineHandler(
	generator usecase.GeneratorUsecase,
	history usecase.HistoryUsecase,
	logger *slog.Logger,
	reg prometheus.Registerer,
) *PipelineHandler {

	reqDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	reqCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)

	errCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	reg.MustRegister(reqDuration, reqCount, errCount)

	return &PipelineHandler{
		generator:   generator,
		history:     history,
		logger:      logger,
		validate:    validator.New(),
		reqDuration: reqDuration,
		reqCount:    reqCount,
		errCount:    errCount,
	}
}

// Middleware для метрик
func (h *PipelineHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		method := r.Method

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		duration := time.Since(start).Seconds()
		statusStr := strconv.Itoa(rw.status)

		h.reqCount.WithLabelValues(method, path).Inc()
		h.reqDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		if rw.status >= 400 {
			h.errCount.WithLabelValues(method, path, statusStr).Inc()
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *PipelineHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/pipelines", h.withMetrics(h.handleGenerate)).Methods(http.MethodPost)
	api.HandleFunc("/pipelines", h.withMetrics(h.handleList)).Methods(http.MethodGet)
	api.HandleFunc("/pipelines/stats", h.withMetrics(h.handleStats)).Methods(http.MethodGet)
	api.HandleFunc("/pipelines/{id}", h.withMetrics(h.handleGet)).Methods(http.MethodGet)
	api.HandleFunc("/pipelines/{id}", h.withMetrics(h.handleDelete)).Methods(http.MethodDelete)
	api.HandleFunc("/health", h.withMetrics(h.handleHealth)).Methods(http.MethodGet)

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// POST /api/v1/pipelines
func (h *PipelineHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req entity.PipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad request body: %w", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	res := h.generator.Generate(r.Context(), req)
	writeJSON(w, http.StatusOK, res)
}

// GET /api/v1/pipelines
func (h *PipelineHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, errHistoryDisabled)
		return
	}

	platform := entity.Platform(r.URL.Query().Get("platform"))
	if platform != "" && !platform.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown platform %q", platform))
		return
	}

	gens, err := h.history.ListByPlatform(r.Context(), platform)
	if err != nil {
		h.logger.Error("list generations failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if gens == nil {
		gens = []*entity.Generation{}
	}
	writeJSON(w, http.StatusOK, gens)
}

// GET /api/v1/pipelines/stats
func (h *PipelineHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, errHistoryDisabled)
		return
	}
	stats, err := h.history.Stats(r.Context())
	if err != nil {
		h.logger.Error("generation stats failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /api/v1/pipelines/{id}
func (h *PipelineHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, errHistoryDisabled)
		return
	}
	id := mux.Vars(r)["id"]
	g, err := h.history.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		h.logger.Error("get generation failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// DELETE /api/v1/pipelines/{id}
func (h *PipelineHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, errHistoryDisabled)
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.history.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrGenerationNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		h.logger.Error("delete generation failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/health
func (h *PipelineHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"ok": true,
		"ts": time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, status)
}
