package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/bomcost/pkg/application/dto"
	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomcost/pkg/infrastructure/events"
)

// maxRequestBytes caps the size of a JSON BOM request
const maxRequestBytes = 10 << 20

// Handler groups dependencies for route handlers.
type Handler struct {
	service *services.BOMService
	events  events.EventStore
	logger  logrus.FieldLogger
	metrics *Metrics
}

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// NewRouter builds the API. Metrics are registered with reg and served
// from it at /metrics. The service is attached to store so every run's
// events can be read back and step durations feed the step histogram.
func NewRouter(service *services.BOMService, store events.EventStore, logger logrus.FieldLogger, reg *prometheus.Registry) (http.Handler, error) {
	h := &Handler{
		service: service.WithEventStore(store),
		events:  store,
		logger:  logger,
		metrics: NewMetrics(reg),
	}
	if err := store.Subscribe([]string{events.StepCompletedEvent}, h.metrics.stepObserver()); err != nil {
		return nil, fmt.Errorf("failed to subscribe step metrics: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/v1/bom", func(r chi.Router) {
		r.Post("/calculate", h.calculate)
		r.Post("/validate", h.validate)
	})
	r.Get("/v1/runs/{runID}/events", h.runEvents)

	return r, nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		h.metrics.observe(OutcomeInvalid, 0)
		return
	}

	started := time.Now()
	result, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		outcome := h.writeError(w, r, err)
		h.metrics.observe(outcome, time.Since(started).Seconds())
		return
	}

	h.metrics.observe(OutcomeSuccess, time.Since(started).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Validate(req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (h *Handler) runEvents(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	stream, err := h.events.ReadEvents(runID, 1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if len(stream) == 0 {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "run not found"})
		return
	}

	body := make([]events.BaseEvent, len(stream))
	for i, e := range stream {
		body[i] = events.Stored(e)
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*dto.BOMRequest, bool) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()

	req := &dto.BOMRequest{}
	if err := decoder.Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body: " + err.Error()})
		return nil, false
	}
	return req, true
}

// writeError maps a service error to a status code and returns the metric outcome
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) string {
	var validationErr *bom_validator.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:    err.Error(),
			Problems: validationErr.Problems,
		})
		return OutcomeInvalid
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
	}).WithError(err).Error("BOM calculation failed")

	status := http.StatusInternalServerError
	if ctxErr := r.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
	return OutcomeError
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(started).String(),
		}).Info("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
