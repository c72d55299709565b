package markdown

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/frontmatter"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/metrics"
)

// Options controls the goldmark pipeline.
type Options struct {
	Linkify       bool
	Table         bool
	Strikethrough bool
	TaskList      bool
	Unsafe        bool
	XHTML         bool
	HardWraps     bool
	// Frontmatter strips YAML frontmatter and installs its link_attributes as an extra
	// layer for that document.
	Frontmatter bool
}

// OptionsFromConfig maps the markdown configuration section onto Options.
func OptionsFromConfig(c config.MarkdownConfig) Options {
	return Options{
		Linkify:       c.Linkify,
		Table:         c.Table,
		Strikethrough: c.Strikethrough,
		TaskList:      c.TaskList,
		Unsafe:        c.Unsafe,
		XHTML:         c.XHTML,
		HardWraps:     c.HardWraps,
		Frontmatter:   c.Frontmatter,
	}
}

func (o Options) extensions() []goldmark.Extender {
	var exts []goldmark.Extender
	if o.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if o.Table {
		exts = append(exts, extension.Table)
	}
	if o.Strikethrough {
		exts = append(exts, extension.Strikethrough)
	}
	if o.TaskList {
		exts = append(exts, extension.TaskList)
	}
	return exts
}

// htmlOption is accepted both by goldmark's renderer and by the link table.
type htmlOption interface {
	renderer.Option
	html.Option
}

func (o Options) htmlOptions() []htmlOption {
	var opts []htmlOption
	if o.Unsafe {
		opts = append(opts, html.WithUnsafe())
	}
	if o.XHTML {
		opts = append(opts, html.WithXHTML())
	}
	if o.HardWraps {
		opts = append(opts, html.WithHardWraps())
	}
	return opts
}

// Result is a rendered document.
type Result struct {
	HTML []byte
	// Frontmatter holds the parsed frontmatter fields (empty when absent).
	Frontmatter map[string]any
	Title       string
	// Fingerprint identifies the frontmatter and rendered output, for cache validators.
	Fingerprint string
	// Layers counts the layers applied, including a frontmatter layer.
	Layers int
}

// Renderer renders Markdown with a stack of link attribute layers.
type Renderer struct {
	opts     Options
	table    *linkattrs.Table
	md       goldmark.Markdown
	logger   *slog.Logger
	recorder metrics.Recorder
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder shared with the link table.
func WithRecorder(rec metrics.Recorder) RendererOption {
	return func(r *Renderer) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRenderer returns a renderer without layers.
func NewRenderer(opts Options, ropts ...RendererOption) *Renderer {
	r := &Renderer{
		opts:     opts,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range ropts {
		o(r)
	}
	var htmlOpts []html.Option
	for _, o := range opts.htmlOptions() {
		htmlOpts = append(htmlOpts, o)
	}
	r.table = linkattrs.NewTable(
		linkattrs.WithLogger(r.logger),
		linkattrs.WithRecorder(r.recorder),
		linkattrs.WithHTMLOptions(htmlOpts...),
	)
	r.md = r.newMarkdown(r.table)
	return r
}

// NewRendererFromConfig builds a renderer with every configured layer installed.
func NewRendererFromConfig(cfg *config.Config, ropts ...RendererOption) (*Renderer, error) {
	r := NewRenderer(OptionsFromConfig(cfg.Markdown), ropts...)
	sets, err := cfg.RuleSets()
	if err != nil {
		return nil, err
	}
	for _, rs := range sets {
		r.Use(rs)
	}
	return r, nil
}

func (r *Renderer) newMarkdown(table *linkattrs.Table) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(append(r.opts.extensions(), table)...),
		goldmark.WithRendererOptions(r.rendererOptions()...),
	)
}

func (r *Renderer) rendererOptions() []renderer.Option {
	var out []renderer.Option
	for _, o := range r.opts.htmlOptions() {
		out = append(out, o)
	}
	return out
}

// Options returns the pipeline options.
func (r *Renderer) Options() Options { return r.opts }

// Table exposes the link handler table, for callers installing their own handlers.
func (r *Renderer) Table() *linkattrs.Table { return r.table }

// Use installs rules as the outermost layer.
func (r *Renderer) Use(rs linkattrs.RuleSet) { r.table.Use(rs) }

// Register compiles rules and installs them as one layer.
func (r *Renderer) Register(rules ...linkattrs.Rule) error {
	return linkattrs.Register(r.table, rules...)
}

// Render converts a Markdown body (no frontmatter handling) to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	return r.convert(r.md, body)
}

// RenderDocument renders a full document. With frontmatter enabled the frontmatter is
// stripped and its link_attributes are installed as an outermost layer for this
// document only.
func (r *Renderer) RenderDocument(content []byte) (*Result, error) {
	start := time.Now()
	res, err := r.renderDocument(content)
	r.recorder.ObserveRenderDuration(time.Since(start))
	if err != nil {
		r.recorder.IncRenderOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	r.recorder.IncRenderOutcome(metrics.OutcomeSuccess)
	return res, nil
}

func (r *Renderer) renderDocument(content []byte) (*Result, error) {
	res := &Result{Frontmatter: map[string]any{}, Layers: r.table.Layers()}
	md := r.md
	body := content
	var fm []byte

	if r.opts.Frontmatter {
		var had bool
		var err error
		fm, body, had, err = frontmatter.Split(content)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").Build()
		}
		if had {
			fields, err := frontmatter.ParseYAML(fm)
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").Build()
			}
			res.Frontmatter = fields
			res.Title = frontmatter.Title(fields)

			rules, ok, err := frontmatter.LinkRules(fm)
			if err != nil {
				return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter link rules").
					WithContext("field", frontmatter.LinkAttributesKey).
					Build()
			}
			if ok {
				rs, err := rules.RuleSet()
				if err != nil {
					return nil, err
				}
				table := r.table.Clone()
				table.Use(rs.Named(frontmatter.LinkAttributesKey))
				md = r.newMarkdown(table)
				res.Layers = table.Layers()
				r.logger.Debug("Using frontmatter link rules", logfields.AttrCount(rs.Len()))
			}
		}
	}

	out, err := r.convert(md, body)
	if err != nil {
		return nil, err
	}
	res.HTML = out
	res.Fingerprint = mdfp.CalculateFingerprintFromParts(string(fm), string(out))
	return res, nil
}

func (r *Renderer) convert(md goldmark.Markdown, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render markdown").Build()
	}
	return buf.Bytes(), nil
}
