package linkattrs

import (
	"git.home.luguber.info/inful/mdlinkattrs/internal/foundation/errors"
)

// Rule pairs an optional destination pattern with the attributes it adds.
type Rule struct {
	Pattern Pattern
	Attrs   Attrs
}

// RuleSet is an ordered, compiled and immutable sequence of rules.
type RuleSet struct {
	name  string
	rules []Rule
}

// NewRuleSet copies and compiles rules. A pattern that does not compile, or an attribute
// name that cannot be written into a tag, is reported as a configuration error.
func NewRuleSet(rules ...Rule) (RuleSet, error) {
	compiled := make([]Rule, 0, len(rules))
	for i, r := range rules {
		p, err := r.Pattern.compile()
		if err != nil {
			return RuleSet{}, errors.ConfigError("invalid link pattern").
				WithCause(err).
				WithContext("rule", i).
				WithContext("pattern", r.Pattern.String()).
				Build()
		}
		for _, attr := range r.Attrs {
			if !ValidName(canonicalName(attr.Name)) {
				return RuleSet{}, errors.ConfigError("invalid attribute name").
					WithContext("rule", i).
					WithContext("attribute", attr.Name).
					Build()
			}
		}
		compiled = append(compiled, Rule{Pattern: p, Attrs: r.Attrs.clone()})
	}
	return RuleSet{rules: compiled}, nil
}

// MustRuleSet is like NewRuleSet but panics on error.
func MustRuleSet(rules ...Rule) RuleSet {
	rs, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Named returns a copy of the set labelled name for logs.
func (s RuleSet) Named(name string) RuleSet {
	s.name = name
	return s
}

// Name returns the label given with Named.
func (s RuleSet) Name() string { return s.name }

// Len returns the number of rules.
func (s RuleSet) Len() int { return len(s.rules) }

// Rules returns a copy of the rules.
func (s RuleSet) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		out[i] = Rule{Pattern: r.Pattern, Attrs: r.Attrs.clone()}
	}
	return out
}

// Find returns the index of the first rule matching href, or -1. A rule without a
// pattern matches unconditionally.
func (s RuleSet) Find(href string) int {
	for i, r := range s.rules {
		if r.Pattern.matches(href) {
			return i
		}
	}
	return -1
}

// Match returns the first rule matching the token's href.
func (s RuleSet) Match(tok *Token) (Rule, int, bool) {
	i := s.Find(tok.Href())
	if i < 0 {
		return Rule{}, -1, false
	}
	return s.rules[i], i, true
}
