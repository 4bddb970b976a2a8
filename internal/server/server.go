// Package server exposes the explorer queries as a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/explorer"
	"github.com/sells-group/career-explorer/internal/view"
)

// Explorer is the query surface the handlers call.
type Explorer interface {
	Compare(req explorer.CompareRequest) (view.Comparison, error)
	Detail(major string) (explorer.Detail, error)
	QuickSelect(mode string) ([]string, error)
	Majors() []string
	DefaultMajors() []string
	HasData(major string) bool
	Diagnostics() explorer.Report
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
}

type handler struct {
	exp Explorer
}

// New returns the router serving every endpoint.
func New(exp Explorer, opts Options) http.Handler {
	h := &handler{exp: exp}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/majors", h.majors)
		r.Get("/quick-select/{mode}", h.quickSelect)
		r.Get("/compare", h.compare)
		r.Get("/detail", h.detail)
		r.Get("/diagnostics", h.diagnostics)
	})
	return r
}

type majorEntry struct {
	Name    string `json:"name"`
	HasData bool   `json:"has_data"`
	Default bool   `json:"default"`
}

func (h *handler) majors(w http.ResponseWriter, _ *http.Request) {
	defaults := make(map[string]bool)
	for _, m := range h.exp.DefaultMajors() {
		defaults[m] = true
	}
	all := h.exp.Majors()
	out := make([]majorEntry, len(all))
	for i, m := range all {
		out[i] = majorEntry{Name: m, HasData: h.exp.HasData(m), Default: defaults[m]}
	}
	writeJSON(w, http.StatusOK, map[string]any{"majors": out})
}

func (h *handler) quickSelect(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	majors, err := h.exp.QuickSelect(mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mode": strings.ToLower(mode), "majors": majors})
}

// compare reads majors (comma-separated or repeated), preset, sort and order.
// With neither majors nor preset the curated defaults are compared.
func (h *handler) compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var majors []string
	for _, v := range q["majors"] {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				majors = append(majors, m)
			}
		}
	}
	preset := q.Get("preset")
	if len(majors) == 0 && preset == "" {
		preset = string(view.PresetTop15)
	}

	desc := true
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		writeError(w, r, apperr.InvalidArgument("unknown order %q", q.Get("order")))
		return
	}

	c, err := h.exp.Compare(explorer.CompareRequest{
		Majors:     majors,
		Preset:     preset,
		SortKey:    q.Get("sort"),
		Descending: desc,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) detail(w http.ResponseWriter, r *http.Request) {
	major := r.URL.Query().Get("major")
	if strings.TrimSpace(major) == "" {
		writeError(w, r, apperr.InvalidArgument("major is required"))
		return
	}
	d, err := h.exp.Detail(major)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) diagnostics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.exp.Diagnostics())
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	if apperr.IsInvalidArgument(err) {
		status, code = http.StatusBadRequest, string(apperr.KindInvalidArgument)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("server: request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{
		Error:     msg,
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorBody{Error: "internal error", Code: "internal_error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		zap.L().Warn("server: write response", zap.Error(err))
	}
}

// requestLogger logs one line per request with zap.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
