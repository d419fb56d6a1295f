package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/roach88/sift/internal/analysis"
	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/logging"
	"github.com/roach88/sift/internal/metrics"
	"github.com/roach88/sift/internal/nlquery"
	"github.com/roach88/sift/internal/service"
)

// Core is the subset of service.Service the handlers call.
type Core interface {
	Create(ctx context.Context, value string) (ir.Record, error)
	GetByValue(ctx context.Context, value string) (ir.Record, bool, error)
	List(ctx context.Context, f ir.Filters) ([]ir.Record, error)
	ListByQuery(ctx context.Context, query string) ([]ir.Record, nlquery.Interpretation, error)
	DeleteByValue(ctx context.Context, value string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Handler serves the string endpoints.
type Handler struct {
	core         Core
	log          *zap.Logger
	metrics      *metrics.Metrics
	maxBodyBytes int64
}

// createRequest is the POST /strings body after type checking.
type createRequest struct {
	Value string `validate:"required"`
}

// listResponse is the GET /strings body.
type listResponse struct {
	Data           []ir.Record `json:"data"`
	Count          int         `json:"count"`
	FiltersApplied ir.Filters  `json:"filters_applied"`
}

// queryResponse is the natural-language endpoint body.
type queryResponse struct {
	Data             []ir.Record      `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery interpretedQuery `json:"interpreted_query"`
}

type interpretedQuery struct {
	Original      string     `json:"original"`
	ParsedFilters ir.Filters `json:"parsed_filters"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var validate = validator.New()

// Create handles POST /strings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body or missing 'value' field.", err)
		return
	}

	var raw struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body or missing 'value' field.", err)
		return
	}
	if len(raw.Value) == 0 || bytes.Equal(raw.Value, []byte("null")) {
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body or missing 'value' field.", nil)
		return
	}

	var req createRequest
	if err := json.Unmarshal(raw.Value, &req.Value); err != nil {
		h.metrics.CreateOutcome.WithLabelValues("invalid").Inc()
		h.respondError(w, r, http.StatusUnprocessableEntity, "Invalid data type for 'value'. It must be a string.", nil)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.metrics.CreateOutcome.WithLabelValues("invalid").Inc()
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body or missing 'value' field.", nil)
		return
	}

	rec, err := h.core.Create(r.Context(), req.Value)
	switch {
	case service.IsInvalidInput(err):
		h.metrics.CreateOutcome.WithLabelValues("invalid").Inc()
		h.respondError(w, r, http.StatusBadRequest, "Invalid request body or missing 'value' field.", nil)
		return
	case service.IsAlreadyExists(err):
		h.metrics.CreateOutcome.WithLabelValues("conflict").Inc()
		h.respondError(w, r, http.StatusConflict, "String already exists in the system.", nil)
		return
	case err != nil:
		h.metrics.CreateOutcome.WithLabelValues("error").Inc()
		h.respondError(w, r, http.StatusInternalServerError, "An unexpected error occurred.", err)
		return
	}

	h.metrics.CreateOutcome.WithLabelValues("created").Inc()
	h.refreshRecordGauge(r.Context())
	h.respondJSON(w, r, http.StatusCreated, rec)
}

// Get handles GET /strings/{string_value}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	value, ok := pathValue(r, "string_value")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "Invalid string value in path.", nil)
		return
	}

	rec, found, err := h.core.GetByValue(r.Context(), value)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "An unexpected error occurred.", err)
		return
	}
	if !found {
		h.respondError(w, r, http.StatusNotFound, "String does not exist in the system.", nil)
		return
	}
	h.respondJSON(w, r, http.StatusOK, rec)
}

// List handles GET /strings with optional structured filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r.URL.Query())
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid query parameter values or types.", nil)
		return
	}

	records, err := h.core.List(r.Context(), f)
	switch {
	case service.IsInvalidInput(err):
		h.respondError(w, r, http.StatusBadRequest, "Invalid query parameter values or types.", nil)
		return
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, "An unexpected error occurred.", err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, listResponse{
		Data:           records,
		Count:          len(records),
		FiltersApplied: f,
	})
}

// Query handles GET /strings/filter-by-natural-language?query=...
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")

	records, interp, err := h.core.ListByQuery(r.Context(), q)
	switch {
	case service.IsInvalidInput(err) && analysis.IsBlank(q):
		h.respondError(w, r, http.StatusBadRequest, "Query cannot be empty.", nil)
		return
	case service.IsInvalidInput(err):
		h.respondError(w, r, http.StatusBadRequest, "Unable to parse natural language query.", nil)
		return
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, "An unexpected error occurred.", err)
		return
	}

	h.metrics.ObserveMatchers(interp.Matched)
	if len(records) == 0 {
		h.respondError(w, r, http.StatusUnprocessableEntity, "Query parsed but resulted in conflicting filters.", nil)
		return
	}

	h.respondJSON(w, r, http.StatusOK, queryResponse{
		Data:  records,
		Count: len(records),
		InterpretedQuery: interpretedQuery{
			Original:      interp.Original,
			ParsedFilters: interp.Filters,
		},
	})
}

// Delete handles DELETE /strings/{string_value}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	value, ok := pathValue(r, "string_value")
	if !ok || value == "" {
		h.respondError(w, r, http.StatusBadRequest, "String value cannot be empty.", nil)
		return
	}

	removed, err := h.core.DeleteByValue(r.Context(), value)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "An unexpected error occurred.", err)
		return
	}
	if !removed {
		h.respondError(w, r, http.StatusNotFound, "String does not exist in the system.", nil)
		return
	}

	h.refreshRecordGauge(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) refreshRecordGauge(ctx context.Context) {
	n, err := h.core.Count(ctx)
	if err != nil {
		h.log.Warn("count records", zap.Error(err))
		return
	}
	h.metrics.Records.Set(float64(n))
}

// parseFilters reads the structured predicate parameters.
// Absent or empty parameters leave the predicate unset.
func parseFilters(q url.Values) (ir.Filters, error) {
	var f ir.Filters

	if s := q.Get("is_palindrome"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return ir.Filters{}, err
		}
		f.IsPalindrome = &b
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"min_length", &f.MinLength},
		{"max_length", &f.MaxLength},
		{"word_count", &f.WordCount},
	}
	for _, p := range ints {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return ir.Filters{}, err
		}
		*p.dst = &n
	}

	if s := q.Get("contains_character"); s != "" {
		f.ContainsCharacter = &s
	}
	return f, nil
}

// pathValue returns the decoded URL parameter.
// chi matches on RawPath when it is set, leaving parameters escaped.
func pathValue(r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, true
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", false
	}
	return decoded, true
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.log.Error("marshal response",
			zap.String(logging.FieldRequestID, RequestIDFromContext(r.Context())),
			zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.log.Debug("write response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String(logging.FieldRequestID, RequestIDFromContext(r.Context())),
			zap.Int(logging.FieldStatus, status),
			zap.Error(err))
	}
	h.respondJSON(w, r, status, errorResponse{Error: message})
}
