package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
	"git.home.luguber.info/inful/mdlinkattrs/internal/logfields"
)

// CurrentVersion is the configuration format version written by Init.
const CurrentVersion = "1"

// DefaultPath is used when no configuration file is given on the command line.
const DefaultPath = "mdlinkattrs.yaml"

// Config represents the application configuration.
type Config struct {
	Version  string         `yaml:"version"`
	Logging  LoggingConfig  `yaml:"logging"`
	Markdown MarkdownConfig `yaml:"markdown"`
	// Layers are installed in order; each entry is one registration wrapping the
	// previous ones.
	Layers []LayerConfig `yaml:"layers"`
	Serve  ServeConfig   `yaml:"serve"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MarkdownConfig toggles goldmark extensions and HTML renderer options.
type MarkdownConfig struct {
	Linkify       bool `yaml:"linkify"`
	Table         bool `yaml:"table"`
	Strikethrough bool `yaml:"strikethrough"`
	TaskList      bool `yaml:"task_list"`
	Unsafe        bool `yaml:"unsafe"`
	XHTML         bool `yaml:"xhtml"`
	HardWraps     bool `yaml:"hard_wraps"`
	// Frontmatter enables per-document link_attributes layers.
	Frontmatter bool `yaml:"frontmatter"`
}

// LayerConfig is one named rule registration.
type LayerConfig struct {
	Name  string   `yaml:"name,omitempty"`
	Rules RuleList `yaml:"rules"`
}

// ServeConfig represents preview server configuration.
type ServeConfig struct {
	Addr    string `yaml:"addr"`
	Root    string `yaml:"root"`
	Metrics bool   `yaml:"metrics"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		slog.Debug("No environment file loaded", logfields.Error(err))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(fmt.Sprintf("configuration file not found: %s", configPath)).
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration content, expanding environment variables, applying
// defaults and validating the result.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RuleSets compiles every layer in order.
func (c *Config) RuleSets() ([]linkattrs.RuleSet, error) {
	sets := make([]linkattrs.RuleSet, 0, len(c.Layers))
	for i, layer := range c.Layers {
		rs, err := layer.Rules.RuleSet()
		if err != nil {
			if ce, ok := errors.AsClassified(err); ok {
				return nil, ce.WithContext("layer", i).WithContext("layer_name", layer.Name)
			}
			return nil, err
		}
		sets = append(sets, rs.Named(layer.displayName(i)))
	}
	return sets, nil
}

func (l LayerConfig) displayName(i int) string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("layer-%d", i+1)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Layers = []LayerConfig{
		{
			Name: "external",
			Rules: RuleList{{
				Pattern: "^https?://",
				Attrs: AttrMap{
					{Name: "target", Value: "_blank"},
					{Name: "rel", Value: "noopener noreferrer"},
				},
			}},
		},
		{
			Name: "styling",
			Rules: RuleList{
				{Pattern: "^#", Attrs: AttrMap{{Name: "class", Value: "anchor"}}},
				{Attrs: AttrMap{{Name: "class", Value: "internal"}}},
			},
		},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
