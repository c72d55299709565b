package linkattrs

import (
	"strings"
	"unicode"
)

// FlagValue is recorded for attributes given without a value.
const FlagValue = "true"

const (
	classAttr     = "class"
	classNameAttr = "className"
	hrefAttr      = "href"
	titleAttr     = "title"
)

// ValidName reports whether name can be written as an HTML attribute name: non-empty,
// without whitespace, control characters, quotes, '<', '>', '/' or '='.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`"'<>/=`, r)
	}) < 0
}

// Attr is a single HTML attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Attrs is an ordered attribute mapping. Names are unique when built through With.
type Attrs []Attr

// Flag returns a boolean-style attribute.
func Flag(name string) Attr {
	return Attr{Name: name, Value: FlagValue}
}

// Get returns the value recorded for name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// With returns a copy of a where name is set to value. An existing entry keeps its
// position; a new one is appended.
func (a Attrs) With(name, value string) Attrs {
	out := a.clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attr{Name: name, Value: value})
}

// Names returns the attribute names in order.
func (a Attrs) Names() []string {
	names := make([]string, len(a))
	for i, attr := range a {
		names[i] = attr.Name
	}
	return names
}

func (a Attrs) clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	copy(out, a)
	return out
}

// canonicalName maps the className alias onto class.
func canonicalName(name string) string {
	if name == classNameAttr {
		return classAttr
	}
	return name
}
