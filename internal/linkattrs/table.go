package linkattrs

import (
	"log/slog"
	"maps"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/metrics"
)

// Kinds lists the node kinds rendered as link-opening tokens.
var Kinds = []ast.NodeKind{ast.KindLink, ast.KindAutoLink}

// DefaultPriority places the table ahead of goldmark's HTML renderer (priority 1000).
const DefaultPriority = 100

// Table maps link node kinds to their render handlers. It is registered with goldmark
// once and looks the handler up on every call, so layers added with Use after the
// first render still take effect.
//
// A Table is not safe for concurrent use: Use and Set must not run while a document
// is being rendered with it.
type Table struct {
	html.Config

	handlers map[ast.NodeKind]renderer.NodeRendererFunc
	layers   int
	priority int
	logger   *slog.Logger
	recorder metrics.Recorder

	// swept is the document whose inline attributes were extracted last.
	swept ast.Node
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for rule match diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Table) {
		if r != nil {
			t.recorder = r
		}
	}
}

// WithHTMLOptions applies goldmark HTML options (unsafe, XHTML, writer) to the default
// link renderer.
func WithHTMLOptions(opts ...html.Option) Option {
	return func(t *Table) {
		for _, opt := range opts {
			opt.SetHTMLOption(&t.Config)
		}
	}
}

// WithPriority overrides the goldmark node renderer priority.
func WithPriority(p int) Option {
	return func(t *Table) { t.priority = p }
}

// NewTable returns a table whose handlers are the default link renderers.
//
// The table remembers which document it last swept for inline attributes, so a
// goldmark.Markdown built from it must not convert documents concurrently. Give each
// concurrent renderer its own Clone.
func NewTable(opts ...Option) *Table {
	t := &Table{
		Config:   html.NewConfig(),
		handlers: make(map[ast.NodeKind]renderer.NodeRendererFunc, len(Kinds)),
		priority: DefaultPriority,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Handler returns the handler installed for kind, or the default renderer.
func (t *Table) Handler(kind ast.NodeKind) renderer.NodeRendererFunc {
	if fn, ok := t.handlers[kind]; ok {
		return fn
	}
	if kind == ast.KindAutoLink {
		return t.renderAutoLink
	}
	return t.renderLink
}

// Set installs fn for kind. A nil fn restores the default renderer.
func (t *Table) Set(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if fn == nil {
		delete(t.handlers, kind)
		return
	}
	t.handlers[kind] = fn
}

// Layers returns the number of rule sets installed with Use.
func (t *Table) Layers() int { return t.layers }

// Use installs rules as a new layer. The layer wraps whatever handler is currently
// installed for each link kind and delegates to it after applying its attributes.
func (t *Table) Use(rules RuleSet) {
	t.layers++
	for _, kind := range Kinds {
		l := &layer{
			index:    t.layers,
			rules:    rules,
			fallback: t.Handler(kind),
			logger:   t.logger,
			recorder: t.recorder,
		}
		t.handlers[kind] = l.render
	}
	t.logger.Debug("Installed link attribute layer",
		logfields.Layer(t.layers),
		logfields.LayerName(rules.Name()),
		slog.Int("rules", rules.Len()))
}

// Register compiles rules and installs them as one layer on t.
func Register(t *Table, rules ...Rule) error {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		return err
	}
	t.Use(rs)
	return nil
}

// Clone returns a table with the same handlers. Layers added to the clone do not
// affect t.
func (t *Table) Clone() *Table {
	c := *t
	c.handlers = maps.Clone(t.handlers)
	c.swept = nil
	return &c
}

// RegisterFuncs implements renderer.NodeRenderer.
func (t *Table) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	for _, kind := range Kinds {
		reg.Register(kind, t.dispatch(kind))
	}
}

// Extend implements goldmark.Extender.
func (t *Table) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(t, t.priority)))
}

func (t *Table) dispatch(kind ast.NodeKind) renderer.NodeRendererFunc {
	return func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			t.sweep(node, source)
			t.recorder.IncLinkRendered(kind.String())
		}
		return t.Handler(kind)(w, source, node, entering)
	}
}

// sweep extracts inline attributes from every link of node's document, once per
// document.
func (t *Table) sweep(node ast.Node, source []byte) {
	root := node
	for root.Parent() != nil {
		root = root.Parent()
	}
	if root == t.swept {
		return
	}
	t.swept = root

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if tok, ok := NewToken(n, source); ok {
			if attrs := ExtractInline(tok); len(attrs) > 0 {
				t.recorder.AddInlineAttributes(len(attrs))
			}
		}
		return ast.WalkContinue, nil
	})
}

type layer struct {
	index    int
	rules    RuleSet
	fallback renderer.NodeRendererFunc
	logger   *slog.Logger
	recorder metrics.Recorder
}

func (l *layer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return l.fallback(w, source, node, entering)
	}
	tok, ok := NewToken(node, source)
	if !ok {
		return l.fallback(w, source, node, entering)
	}

	rule, i, matched := l.rules.Match(tok)
	if !matched {
		l.recorder.IncRuleMiss(l.index)
		return l.fallback(w, source, node, entering)
	}

	l.recorder.IncRuleMatch(l.index, i)
	l.logger.Debug("Link rule matched",
		logfields.Href(tok.Href()),
		logfields.Layer(l.index),
		logfields.Rule(i),
		logfields.AttrCount(len(rule.Attrs)))
	Apply(tok, rule.Attrs)
	return l.fallback(w, source, node, entering)
}
