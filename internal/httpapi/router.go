package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/sift/internal/logging"
	"github.com/roach88/sift/internal/metrics"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxBodyBytes bounds POST bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

type ctxKey struct{}

// Options configures NewRouter.
type Options struct {
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	MaxBodyBytes int64

	// NewRequestID generates IDs for requests without an X-Request-ID
	// header. Defaults to uuid.NewString.
	NewRequestID func() string
}

// NewRouter builds the chi router over core.
func NewRouter(core Core, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.NewRequestID == nil {
		opts.NewRequestID = uuid.NewString
	}

	h := &Handler{
		core:         core,
		log:          opts.Logger,
		metrics:      opts.Metrics,
		maxBodyBytes: opts.MaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(requestID(opts.NewRequestID))
	r.Use(accessLog(opts.Logger, opts.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/strings", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/filter-by-natural-language", h.Query)
		r.Get("/{string_value}", h.Get)
		r.Delete("/{string_value}", h.Delete)
	})
	return r
}

// RequestIDFromContext returns the request ID set by the router, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestID(gen func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = gen()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

func accessLog(log *zap.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			elapsed := time.Since(start)

			m.ObserveRequest(route, r.Method, status, elapsed)
			log.Info("request",
				zap.String(logging.FieldRequestID, RequestIDFromContext(r.Context())),
				zap.String(logging.FieldMethod, r.Method),
				zap.String(logging.FieldPath, r.URL.Path),
				zap.String(logging.FieldRoute, route),
				zap.Int(logging.FieldStatus, status),
				zap.Float64(logging.FieldDurationMS, float64(elapsed.Microseconds())/1000),
			)
		})
	}
}

// routePattern keeps metric label cardinality bounded by the route table.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
