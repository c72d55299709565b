package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/preview"
	"git.home.luguber.info/inful/mdlinkattrs/internal/watch"
)

// ServeCmd starts the preview server.
type ServeCmd struct {
	Addr      string `name:"addr" help:"Listen address (overrides serve.addr)."`
	Root      string `name:"root" type:"existingdir" help:"Document root (overrides serve.root)."`
	NoMetrics bool   `name:"no-metrics" help:"Disable the /metrics endpoint."`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	// Setup signal-based context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Root != "" {
		cfg.Serve.Root = s.Root
	}
	if s.NoMetrics {
		cfg.Serve.Metrics = false
	}

	srv, err := preview.New(cfg, preview.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if g.ConfigPath != "" {
		serve := cfg.Serve
		w, err := watch.New([]string{g.ConfigPath}, func(context.Context, []string) {
			next, err := root.loadConfig(g)
			if err != nil {
				g.logger().Error("Configuration reload failed", logfields.Error(err))
				return
			}
			next.Serve = serve
			if err := srv.Reload(next); err != nil {
				g.logger().Error("Configuration reload failed", logfields.Error(err))
			}
		}, watch.WithLogger(g.logger()))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			_ = w.Stop()
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	<-ctx.Done()
	g.logger().Info("Shutdown signal received")
	return srv.Stop(context.Background())
}
