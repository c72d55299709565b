package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/markdown"
	"git.home.luguber.info/inful/mdlinkattrs/internal/watch"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Files   []string `arg:"" optional:"" type:"existingfile" help:"Markdown files to render (stdin when omitted)."`
	Output  string   `short:"o" name:"output" type:"path" help:"Write <name>.html files into this directory instead of stdout."`
	Attrs   []string `name:"attr" short:"a" sep:"none" help:"Attribute key=value or bare key added to links as the outermost layer (repeatable)."`
	Pattern string   `name:"pattern" help:"Only add --attr attributes to links whose destination matches this expression."`
	Watch   bool     `short:"w" help:"Re-render files when they or the configuration change."`
}

// Validate implements kong's validation hook.
func (r *RenderCmd) Validate() error {
	if r.Watch && len(r.Files) == 0 {
		return errors.ValidationError("--watch requires at least one file").Build()
	}
	if r.Pattern != "" && len(r.Attrs) == 0 {
		return errors.ValidationError("--pattern requires --attr").Build()
	}
	return nil
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	renderer, err := r.buildRenderer(g, cfg)
	if err != nil {
		return err
	}

	if len(r.Files) == 0 {
		return r.renderStdin(g, renderer)
	}

	if r.Output != "" {
		if err := os.MkdirAll(r.Output, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
				WithContext("path", r.Output).
				Build()
		}
	}

	for _, file := range r.Files {
		if err := r.renderFile(g, renderer, file); err != nil {
			return err
		}
	}

	if !r.Watch {
		return nil
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return r.watch(ctx, g, root, renderer)
}

// buildRenderer installs the configured layers plus the command-line layer.
func (r *RenderCmd) buildRenderer(g *Global, cfg *config.Config) (*markdown.Renderer, error) {
	renderer, err := g.newRenderer(cfg)
	if err != nil {
		return nil, err
	}
	if len(r.Attrs) == 0 {
		return renderer, nil
	}

	rule := linkattrs.Rule{Attrs: linkattrs.ParseAttrs(r.Attrs)}
	if r.Pattern != "" {
		rule.Pattern = linkattrs.Expr(r.Pattern)
	}
	rs, err := linkattrs.NewRuleSet(rule)
	if err != nil {
		return nil, err
	}
	renderer.Use(rs.Named("command-line"))
	return renderer, nil
}

func (r *RenderCmd) renderStdin(g *Global, renderer *markdown.Renderer) error {
	content, err := io.ReadAll(g.Stdin)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
	}
	res, err := renderer.RenderDocument(content)
	if err != nil {
		return err
	}
	_, err = g.Stdout.Write(res.HTML)
	return err
}

func (r *RenderCmd) renderFile(g *Global, renderer *markdown.Renderer, file string) error {
	start := time.Now()
	content, err := os.ReadFile(file)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("file", file).
			Build()
	}

	res, err := renderer.RenderDocument(content)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return ce.WithContext("file", file)
		}
		return err
	}

	if r.Output == "" {
		if _, err := g.Stdout.Write(res.HTML); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").Build()
		}
	} else {
		target := outputPath(r.Output, file)
		if err := os.WriteFile(target, res.HTML, 0o644); err != nil { //nolint:gosec // public HTML output, non-sensitive
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
				WithContext("path", target).
				Build()
		}
	}

	g.logger().Info("Rendered document",
		logfields.File(file),
		slog.Int("layers", res.Layers),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// outputPath maps doc/guide.md onto <dir>/guide.html.
func outputPath(dir, file string) string {
	base := filepath.Base(file)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".html")
}

// watch re-renders changed files until ctx is done. A configuration change rebuilds the
// renderer and re-renders every file.
func (r *RenderCmd) watch(ctx context.Context, g *Global, root *CLI, renderer *markdown.Renderer) error {
	var mu sync.Mutex
	paths := append([]string(nil), r.Files...)
	configAbs := ""
	if g.ConfigPath != "" {
		configAbs, _ = filepath.Abs(g.ConfigPath)
		paths = append(paths, g.ConfigPath)
	}

	onChange := func(_ context.Context, changed []string) {
		mu.Lock()
		defer mu.Unlock()

		targets := changed
		for _, p := range changed {
			if p != configAbs {
				continue
			}
			cfg, err := root.loadConfig(g)
			if err != nil {
				g.logger().Error("Configuration reload failed", logfields.Error(err))
				return
			}
			next, err := r.buildRenderer(g, cfg)
			if err != nil {
				g.logger().Error("Configuration reload failed", logfields.Error(err))
				return
			}
			renderer = next
			targets = r.Files
			g.logger().Info("Configuration reloaded", logfields.Path(g.ConfigPath))
			break
		}

		for _, file := range targets {
			if file == configAbs {
				continue
			}
			if err := r.renderFile(g, renderer, file); err != nil {
				g.logger().Error("Render failed", logfields.File(file), logfields.Error(err))
			}
		}
	}

	w, err := watch.New(paths, onChange, watch.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		_ = w.Stop()
		return err
	}
	<-ctx.Done()
	g.logger().Info("Stopping watch")
	return w.Stop()
}
