package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/markdown"
)

const testConfig = `version: "1"
layers:
  - name: external
    rules:
      pattern: "^https?://"
      attrs:
        target: _blank
        rel: noopener
`

func newGlobal(stdin string) (*Global, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Global{
		Logger: slog.New(slog.DiscardHandler),
		Stdout: out,
		Stdin:  strings.NewReader(stdin),
		RunID:  "test",
	}, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRenderCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "mdlinkattrs.yaml", testConfig)
	doc := writeFile(t, dir, "doc.md", "[ext](https://example.com) [int](/docs|hidden)\n")

	g, out := newGlobal("")
	cmd := &RenderCmd{Files: []string{doc}}
	require.NoError(t, cmd.Run(g, &CLI{Config: cfgPath}))

	require.Contains(t, out.String(), `<a href="https://example.com" target="_blank" rel="noopener">ext</a>`)
	require.Contains(t, out.String(), `<a href="/docs" hidden="true">int</a>`)
	require.Equal(t, cfgPath, g.ConfigPath)
}

func TestRenderCmd_OutputDirectory(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "guide.md", "[x](/x)\n")
	outDir := filepath.Join(dir, "html")

	g, out := newGlobal("")
	cmd := &RenderCmd{Files: []string{doc}, Output: outDir}
	require.NoError(t, cmd.Run(g, &CLI{Config: writeFile(t, dir, "c.yaml", testConfig)}))

	require.Empty(t, out.String())
	data, err := os.ReadFile(filepath.Join(outDir, "guide.html"))
	require.NoError(t, err)
	require.Contains(t, string(data), `<a href="/x">x</a>`)
}

func TestRenderCmd_CommandLineLayer(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "c.yaml", testConfig)

	g, out := newGlobal("[a](https://a.example) [b](/b)\n")
	cmd := &RenderCmd{Attrs: []string{"class=ext", "data-x"}, Pattern: "^https"}
	require.NoError(t, cmd.Validate())
	require.NoError(t, cmd.Run(g, &CLI{Config: cfgPath}))

	// The configured layer was registered first, so its values win on overlap and the
	// command-line attributes come first.
	require.Contains(t, out.String(), `<a href="https://a.example" class="ext" data-x="true" target="_blank" rel="noopener">a</a>`)
	require.Contains(t, out.String(), `<a href="/b">b</a>`)
}

func TestRenderCmd_Validate(t *testing.T) {
	require.Error(t, (&RenderCmd{Watch: true}).Validate())
	require.Error(t, (&RenderCmd{Pattern: "^x"}).Validate())
	require.NoError(t, (&RenderCmd{}).Validate())
}

func TestRenderCmd_BadPattern(t *testing.T) {
	g, _ := newGlobal("[a](/a)")
	dir := t.TempDir()
	cmd := &RenderCmd{Attrs: []string{"x"}, Pattern: "("}

	err := cmd.Run(g, &CLI{Config: writeFile(t, dir, "c.yaml", testConfig)})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRenderCmd_MissingConfig(t *testing.T) {
	g, _ := newGlobal("")
	cmd := &RenderCmd{}

	err := cmd.Run(g, &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	require.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestLinksCmd_Text(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.md", "[ext](https://example.com) [int](/docs)\n")

	g, out := newGlobal("")
	cmd := &LinksCmd{File: doc, Format: "text"}
	require.NoError(t, cmd.Run(g, &CLI{Config: writeFile(t, dir, "c.yaml", testConfig)}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "https://example.com\ttarget=\"_blank\" rel=\"noopener\"\text", lines[0])
	require.Equal(t, "/docs\t-\tint", lines[1])
}

func TestLinksCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.md", "[ext](https://example.com|data-id=1)\n")

	g, out := newGlobal("")
	cmd := &LinksCmd{File: doc, Format: "json"}
	require.NoError(t, cmd.Run(g, &CLI{Config: writeFile(t, dir, "c.yaml", testConfig)}))

	var anchors []markdown.Anchor
	require.NoError(t, json.Unmarshal(out.Bytes(), &anchors))
	require.Len(t, anchors, 1)
	require.Equal(t, []string{"href", "data-id", "target", "rel"}, anchors[0].Attrs.Names())
}

func TestLinksCmd_Raw(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.md", "[ext](https://example.com|data-id=1)\n")

	g, out := newGlobal("")
	cmd := &LinksCmd{File: doc, Format: "text", Raw: true}
	require.NoError(t, cmd.Run(g, &CLI{Config: writeFile(t, dir, "c.yaml", testConfig)}))

	require.Equal(t, "inline\thttps://example.com\tdata-id=\"1\"\n", out.String())
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlinkattrs.yaml")
	g, out := newGlobal("")

	require.NoError(t, (&InitCmd{}).Run(g, &CLI{Config: path}))
	require.Contains(t, out.String(), path)
	require.FileExists(t, path)

	err := (&InitCmd{}).Run(g, &CLI{Config: path})
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(g, &CLI{Config: path}))
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("out", "guide.html"), outputPath("out", filepath.Join("docs", "guide.md")))
	require.Equal(t, filepath.Join("out", "README.html"), outputPath("out", "README"))
}
