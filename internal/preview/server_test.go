package preview

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
)

func newTestServer(t *testing.T, layers string, files map[string]string) (*Server, *config.Config) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}

	cfg, err := config.Parse([]byte(layers))
	require.NoError(t, err)
	cfg.Serve.Root = root

	s, err := New(cfg, WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return s, cfg
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const externalLayer = "layers:\n  - rules:\n      pattern: ^https\n      attrs: {target: _blank}\n"

func TestServer_RendersMarkdown(t *testing.T) {
	s, _ := newTestServer(t, externalLayer, map[string]string{
		"index.md":       "---\ntitle: Home\n---\n[ext](https://example.com)\n",
		"guide/intro.md": "[back](/index|class=nav)\n",
	})
	h := s.Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>Home</title>")
	require.Contains(t, rec.Body.String(), `<a href="https://example.com" target="_blank">ext</a>`)
	require.NotEmpty(t, rec.Header().Get("ETag"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(t, h, "/guide/intro")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>intro</title>")
	require.Contains(t, rec.Body.String(), `<a href="/index" class="nav">back</a>`)
}

func TestServer_ETagRevalidation(t *testing.T) {
	s, _ := newTestServer(t, "", map[string]string{"doc.md": "[x](/x)\n"})
	h := s.Handler()

	first := get(t, h, "/doc.md")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")

	second := get(t, h, "/doc.md", "If-None-Match", etag)
	require.Equal(t, http.StatusNotModified, second.Code)
	require.Empty(t, second.Body.String())

	third := get(t, h, "/doc.md", "If-None-Match", `"stale"`)
	require.Equal(t, http.StatusOK, third.Code)
}

func TestServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t, "", nil)

	rec := get(t, s.Handler(), "/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"not_found"`)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, externalLayer, map[string]string{"a.md": "[x](https://x.example)\n"})
	h := s.Handler()

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	require.Equal(t, http.StatusOK, get(t, h, "/a").Code)
	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `mdlinkattrs_rule_matches_total{layer="1",rule="0"} 1`)
}

func TestServer_Reload(t *testing.T) {
	s, cfg := newTestServer(t, "", map[string]string{"a.md": "[x](/x)\n"})
	h := s.Handler()
	require.Contains(t, get(t, h, "/a").Body.String(), `<a href="/x">x</a>`)

	next, err := config.Parse([]byte("layers:\n  - rules: {attrs: {rel: me}}\n"))
	require.NoError(t, err)
	next.Serve = cfg.Serve
	require.NoError(t, s.Reload(next))

	require.Contains(t, get(t, h, "/a").Body.String(), `<a href="/x" rel="me">x</a>`)
}

func TestServer_InvalidFrontmatterRules(t *testing.T) {
	s, _ := newTestServer(t, "", map[string]string{"bad.md": "---\nlink_attributes:\n  pattern: \"(\"\n  attrs: {a: b}\n---\n"})

	rec := get(t, s.Handler(), "/bad")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid link pattern")
}

func TestResolve_RejectsEscapes(t *testing.T) {
	s, _ := newTestServer(t, "", map[string]string{"a.md": "a"})

	_, err := s.resolve("/../etc/passwd")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = s.resolve("/sub/../../a.md")
	require.Error(t, err)
}

func TestNew_MissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Serve.Root = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestEtagMatches(t *testing.T) {
	require.True(t, etagMatches(`"a", "b"`, `"b"`))
	require.True(t, etagMatches(`W/"b"`, `"b"`))
	require.True(t, etagMatches("*", `"b"`))
	require.False(t, etagMatches("", `"b"`))
	require.False(t, etagMatches(`"c"`, `"b"`))
}
