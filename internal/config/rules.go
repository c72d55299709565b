package config

import (
	"fmt"

	"git.home.luguber.info/inful/mdlinkattrs/internal/linkattrs"
	"gopkg.in/yaml.v3"
)

// RuleConfig is one rule as written in YAML.
type RuleConfig struct {
	Pattern string  `yaml:"pattern,omitempty"`
	Attrs   AttrMap `yaml:"attrs"`
}

// Rule converts the entry to a linkattrs rule. The pattern is compiled later, when the
// rule set is built.
func (r RuleConfig) Rule() linkattrs.Rule {
	rule := linkattrs.Rule{Attrs: linkattrs.Attrs(r.Attrs)}
	if r.Pattern != "" {
		rule.Pattern = linkattrs.Expr(r.Pattern)
	}
	return rule
}

// RuleList is an ordered rule sequence. In YAML it is either a single rule mapping or a
// sequence of them.
type RuleList []RuleConfig

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *RuleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var rule RuleConfig
		if err := node.Decode(&rule); err != nil {
			return err
		}
		*l = RuleList{rule}
	case yaml.SequenceNode:
		var rules []RuleConfig
		if err := node.Decode(&rules); err != nil {
			return err
		}
		*l = rules
	case yaml.ScalarNode:
		if node.Tag != "!!null" {
			return fmt.Errorf("line %d: rules must be a mapping or a sequence", node.Line)
		}
		*l = nil
	default:
		return fmt.Errorf("line %d: rules must be a mapping or a sequence", node.Line)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l RuleList) MarshalYAML() (any, error) {
	return []RuleConfig(l), nil
}

// RuleSet compiles the list.
func (l RuleList) RuleSet() (linkattrs.RuleSet, error) {
	rules := make([]linkattrs.Rule, len(l))
	for i, r := range l {
		rules[i] = r.Rule()
	}
	return linkattrs.NewRuleSet(rules...)
}

// AttrMap is an attribute mapping decoded in document order. A key without a value
// (null) is a flag and records linkattrs.FlagValue.
type AttrMap linkattrs.Attrs

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *AttrMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attrs must be a mapping", node.Line)
	}

	var attrs linkattrs.Attrs
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute names must be scalars", key.Line)
		}
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q must have a scalar value", value.Line, key.Value)
		}
		v := value.Value
		if value.Tag == "!!null" {
			v = linkattrs.FlagValue
		}
		attrs = attrs.With(key.Value, v)
	}
	*m = AttrMap(attrs)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m AttrMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, attr := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Value},
		)
	}
	return node, nil
}
