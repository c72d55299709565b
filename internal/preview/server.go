package preview

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/markdown"
	"git.home.luguber.info/inful/mdlinkattrs/internal/metrics"
	smw "git.home.luguber.info/inful/mdlinkattrs/internal/server/middleware"
)

const shutdownTimeout = 5 * time.Second

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}</body>
</html>
`))

type page struct {
	Title string
	Body  template.HTML
}

// Server renders Markdown files below a root directory.
type Server struct {
	root           string
	addr           string
	metricsEnabled bool

	// mu serializes renders and guards renderer replacement on reload.
	mu       sync.Mutex
	renderer *markdown.Renderer

	registry     *prometheus.Registry
	recorder     *metrics.PrometheusRecorder
	errorAdapter *errors.HTTPErrorAdapter
	logger       *slog.Logger

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a server from cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	root, err := filepath.Abs(cfg.Serve.Root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve root").
			WithContext("path", cfg.Serve.Root).
			Build()
	}
	if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
		return nil, errors.NotFoundError(fmt.Sprintf("root directory not found: %s", root)).
			WithContext("path", root).
			Build()
	}

	s := &Server{
		root:           root,
		addr:           cfg.Serve.Addr,
		metricsEnabled: cfg.Serve.Metrics,
		registry:       metrics.NewRegistry(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = metrics.NewPrometheusRecorder(s.registry)
	s.errorAdapter = errors.NewHTTPErrorAdapter(s.logger)

	if err := s.Reload(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the renderer with one built from cfg. The root and listen address
// are fixed at construction.
func (s *Server) Reload(cfg *config.Config) error {
	r, err := markdown.NewRendererFromConfig(cfg,
		markdown.WithLogger(s.logger),
		markdown.WithRecorder(s.recorder))
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.renderer = r
	s.mu.Unlock()

	s.logger.Info("Preview renderer ready", slog.Int("layers", r.Table().Layers()))
	return nil
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metricsEnabled {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	}
	mux.HandleFunc("GET /", s.handlePage)
	return smw.Chain(s.logger, s.errorAdapter)(mux)
}

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to bind preview server").
			WithContext("addr", s.addr).
			Build()
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Preview server error", logfields.Error(err))
		}
	}()

	s.logger.Info("Preview server listening", logfields.Addr(ln.Addr().String()), logfields.Path(s.root))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "preview server shutdown").Build()
	}
	s.logger.Info("Preview server stopped")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	file, err := s.resolve(r.URL.Path)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	content, err := os.ReadFile(file)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
				WithContext("path", r.URL.Path).
				Build())
		return
	}

	s.mu.Lock()
	res, err := s.renderer.RenderDocument(content)
	s.mu.Unlock()
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			err = ce.WithContext("path", r.URL.Path)
		}
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	etag := `"` + res.Fingerprint + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache, must-revalidate")
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	title := res.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page{Title: title, Body: template.HTML(res.HTML)}); err != nil { //nolint:gosec // goldmark output
		s.logger.Error("Failed to write page", logfields.Path(r.URL.Path), logfields.Error(err))
	}
}

// resolve maps a URL path onto a Markdown file below the root.
func (s *Server) resolve(urlPath string) (string, error) {
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return "", errors.ValidationError("path escapes the document root").
				WithContext("path", urlPath).
				Build()
		}
	}

	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	var candidates []string
	switch {
	case rel == "":
		candidates = []string{"index.md", "README.md"}
	case path.Ext(rel) == "":
		candidates = []string{rel + ".md", path.Join(rel, "index.md"), path.Join(rel, "README.md")}
	default:
		candidates = []string{rel}
	}

	for _, c := range candidates {
		full := filepath.Join(s.root, filepath.FromSlash(c))
		if within, err := filepath.Rel(s.root, full); err != nil || strings.HasPrefix(within, "..") {
			continue
		}
		if st, err := os.Stat(full); err == nil && st.Mode().IsRegular() {
			return full, nil
		}
	}
	return "", errors.NotFoundError("document not found").
		WithContext("path", urlPath).
		Build()
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
