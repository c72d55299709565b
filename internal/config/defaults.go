package config

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Markdown: MarkdownConfig{
			Linkify:       true,
			Table:         true,
			Strikethrough: true,
			Frontmatter:   true,
		},
		Serve: ServeConfig{Addr: ":8080", Root: ".", Metrics: true},
	}
}

// applyDefaults fills values left empty by the file and canonicalizes enumerations.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	if cfg.Serve.Root == "" {
		cfg.Serve.Root = "."
	}
}
