package cli

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graphio"
	"github.com/antopio26/graph-js/pkg/observability"
	"github.com/antopio26/graph-js/pkg/pipeline"
	"github.com/antopio26/graph-js/pkg/store"
)

// server carries the shared state of the HTTP API.
type server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	metrics *observability.Metrics
}

func newServer(runner *pipeline.Runner, st store.Store, logger *log.Logger) *server {
	return &server{runner: runner, store: st, logger: logger}
}

// routes builds the router. All API handlers live under /api; health and
// metrics sit at the root.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", s.handleListScenes)
			r.Post("/", s.handleCreateScene)
			r.Get("/{id}", s.handleGetScene)
			r.Delete("/{id}", s.handleDeleteScene)
		})
	})

	return r
}

// requestLogger reports every request to the server hooks and logs it.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		route := r.URL.Path
		observability.Server().OnRequest(ctx, r.Method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(ctx, s.logger)))

		duration := time.Since(start)
		observability.Server().OnResponse(ctx, r.Method, route, ww.Status(), duration)
		s.logger.Debug("request", "method", r.Method, "path", route,
			"status", ww.Status(), "duration", duration)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the full pipeline on an inline spec and returns the
// artifact bytes. Exactly one output format per request.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	if len(opts.Formats) > 1 {
		s.error(w, r, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidFormat, "request one format at a time"))
		return
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format]) //nolint:errcheck
}

// handleLayout runs build and layout only and returns placements as JSON.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}

	ld, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	res, err := s.runner.ComputeLayout(r.Context(), ld, opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := graphio.WriteLayoutJSON(res, w); err != nil {
		s.logger.Warn("write layout response", "error", err)
	}
}

// sceneRequest is the body of POST /api/scenes.
type sceneRequest struct {
	Name    string           `json:"name"`
	Options pipeline.Options `json:"options"`
}

// handleCreateScene renders an inline spec and persists graph, placements
// and drawing as one record.
func (s *server) handleCreateScene(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	opts := req.Options
	opts.SpecPath = ""
	opts.Logger = s.logger
	opts.Formats = []string{pipeline.FormatSVG}

	ld, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	res, err := s.runner.ComputeLayout(r.Context(), ld, opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), ld, res, opts)
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}

	id, err := s.store.Put(r.Context(), &store.Record{
		Name:   req.Name,
		Graph:  graphio.Encode(ld.Graph),
		Layout: graphio.EncodeLayout(res),
		SVG:    artifacts[pipeline.FormatSVG],
	})
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.error(w, r, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeOptions reads pipeline options from the request body. Specs come
// inline; path-based loading stays a CLI affair, so spec_path is dropped.
func (s *server) decodeOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	opts.SpecPath = ""
	opts.Logger = s.logger
	return opts, nil
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *server) error(w http.ResponseWriter, r *http.Request, status int, err error) {
	loggerFromContext(r.Context()).Warn("request failed",
		"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps pipeline error codes onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidSpec),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeInvalidStyle),
		errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeStructural):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound),
		errors.Is(err, errors.ErrCodeFileNotFound),
		errors.Is(err, errors.ErrCodeSceneNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// contentType returns the MIME type for an artifact format.
func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}
