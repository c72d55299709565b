package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdlinkattrs/internal/config"
	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
	"git.home.luguber.info/inful/mdlinkattrs/internal/markdown"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stdin  io.Reader
	// RunID tags every log line of one invocation.
	RunID string
	// ConfigPath is the file the configuration was loaded from, empty for defaults.
	ConfigPath string
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" type:"path" help:"Configuration file path (default: ${config_default} when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render Markdown files to HTML"`
	Links  LinksCmd  `cmd:"" help:"List the links of a document with their final attributes"`
	Serve  ServeCmd  `cmd:"" help:"Serve rendered Markdown over HTTP"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.RunID = uuid.NewString()
	configureLogging(g, c.Verbose, config.LogLevelInfo, config.LogFormatText)
	return nil
}

// configureLogging installs the process logger. --verbose wins over the configured level.
func configureLogging(g *Global, verbose bool, level config.LogLevel, format config.LogFormat) {
	lvl := level.SlogLevel()
	if verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler).With(logfields.RunID(g.RunID))
	slog.SetDefault(logger)
	g.Logger = logger
}

// loadConfig loads the configuration file. Without -c the default file is used when it
// exists, otherwise built-in defaults apply.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err != nil {
			g.ConfigPath = ""
			return config.Default(), nil
		}
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	g.ConfigPath = path
	configureLogging(g, c.Verbose, cfg.Logging.Level, cfg.Logging.Format)
	g.logger().Debug("Configuration loaded", logfields.Path(path), slog.Int("layers", len(cfg.Layers)))
	return cfg, nil
}

func (g *Global) newRenderer(cfg *config.Config) (*markdown.Renderer, error) {
	return markdown.NewRendererFromConfig(cfg, markdown.WithLogger(g.logger()))
}

func (g *Global) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}
