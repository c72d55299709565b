package errors

import (
	"log/slog"
	"slices"
)

// Field is one key/value pair of error context.
type Field struct {
	Key   string
	Value any
}

// ErrorContext is ordered structured context. Values keep the order they were first set
// in so log lines and error payloads are stable. Set and Merge never modify the receiver.
type ErrorContext []Field

// Set returns a copy of c with key bound to value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	out := slices.Clone(c)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Get looks up key.
func (c ErrorContext) Get(key string) (any, bool) {
	for _, f := range c {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// GetString looks up key and reports false unless the value is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Merge returns c overlaid with other; other wins on shared keys.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	out := slices.Clone(c)
	for _, f := range other {
		out = out.Set(f.Key, f.Value)
	}
	return out
}

// Map flattens the context for JSON payloads.
func (c ErrorContext) Map() map[string]any {
	if len(c) == 0 {
		return nil
	}
	m := make(map[string]any, len(c))
	for _, f := range c {
		m[f.Key] = f.Value
	}
	return m
}

// Attrs renders the context as slog attributes in order.
func (c ErrorContext) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(c))
	for _, f := range c {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}
