package config

import (
	"fmt"

	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
)

// Validate checks the configuration and compiles every layer so malformed patterns are
// reported once, at load time.
func Validate(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return errors.ValidationError(fmt.Sprintf("unsupported configuration version: %s (expected %s)", cfg.Version, CurrentVersion)).
			WithContext("version", cfg.Version).
			Build()
	}

	for i, layer := range cfg.Layers {
		if len(layer.Rules) == 0 {
			return errors.ValidationError("layer has no rules").
				WithContext("layer", i).
				WithContext("layer_name", layer.Name).
				Build()
		}
		for j, rule := range layer.Rules {
			for _, attr := range rule.Attrs {
				if !linkattrs.ValidName(attr.Name) {
					return errors.ValidationError(fmt.Sprintf("invalid attribute name %q", attr.Name)).
						WithContext("layer", i).
						WithContext("rule", j).
						Build()
				}
			}
		}
	}

	if _, err := cfg.RuleSets(); err != nil {
		return err
	}
	return nil
}
