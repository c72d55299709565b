package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
)

const sampleConfig = `version: "1"
logging:
  level: DEBUG
  format: json
markdown:
  linkify: false
  unsafe: true
layers:
  - name: external
    rules:
      pattern: "^https?://"
      attrs:
        target: _blank
        rel: noopener
  - name: styling
    rules:
      - pattern: "^#"
        attrs: {class: anchor}
      - attrs:
          className: internal
          hidden:
serve:
  addr: ":9090"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdlinkattrs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
	require.False(t, cfg.Markdown.Linkify)
	require.True(t, cfg.Markdown.Unsafe)
	require.True(t, cfg.Markdown.Frontmatter, "unset fields keep defaults")
	require.Equal(t, ":9090", cfg.Serve.Addr)
	require.Equal(t, ".", cfg.Serve.Root)

	require.Len(t, cfg.Layers, 2)
	require.Len(t, cfg.Layers[0].Rules, 1)
	require.Equal(t, []string{"target", "rel"}, linkattrs.Attrs(cfg.Layers[0].Rules[0].Attrs).Names())
	require.Len(t, cfg.Layers[1].Rules, 2)
	require.Equal(t, AttrMap{
		{Name: "className", Value: "internal"},
		{Name: "hidden", Value: linkattrs.FlagValue},
	}, cfg.Layers[1].Rules[1].Attrs)
}

func TestRuleSets(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	sets, err := cfg.RuleSets()
	require.NoError(t, err)
	require.Len(t, sets, 2)
	require.Equal(t, "external", sets[0].Name())
	require.Equal(t, 0, sets[0].Find("https://example.com"))
	require.Equal(t, -1, sets[0].Find("/local"))
	require.Equal(t, 1, sets[1].Find("/local"))
}

func TestRuleSets_UnnamedLayer(t *testing.T) {
	cfg, err := Parse([]byte("layers:\n  - rules:\n      attrs: {rel: me}\n"))
	require.NoError(t, err)

	sets, err := cfg.RuleSets()
	require.NoError(t, err)
	require.Equal(t, "layer-1", sets[0].Name())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("MDLA_TARGET", "_top")

	cfg, err := Parse([]byte("layers:\n  - rules:\n      attrs: {target: ${MDLA_TARGET}}\n"))
	require.NoError(t, err)
	v, ok := linkattrs.Attrs(cfg.Layers[0].Rules[0].Attrs).Get("target")
	require.True(t, ok)
	require.Equal(t, "_top", v)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{name: "bad yaml", content: "layers: [", category: errors.CategoryConfig},
		{name: "wrong version", content: "version: \"9\"\n", category: errors.CategoryValidation},
		{name: "empty layer", content: "layers:\n  - name: empty\n", category: errors.CategoryValidation},
		{name: "bad attribute name", content: "layers:\n  - rules:\n      attrs: {\"a b\": x}\n", category: errors.CategoryValidation},
		{name: "bad pattern", content: "layers:\n  - rules:\n      pattern: \"(\"\n      attrs: {a: b}\n", category: errors.CategoryConfig},
		{name: "rules scalar", content: "layers:\n  - rules: nope\n", category: errors.CategoryConfig},
		{name: "attrs sequence", content: "layers:\n  - rules:\n      attrs: [a, b]\n", category: errors.CategoryConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			require.Equal(t, tt.category, errors.GetCategory(err), err.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlinkattrs.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Layers, 2)
	require.Equal(t, []string{"target", "rel"}, linkattrs.Attrs(cfg.Layers[0].Rules[0].Attrs).Names())

	err = Init(path, false)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestNormalizeLogLevel(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	require.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
}
