package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyHref       = "href"
	KeyLinkKind   = "link_kind"
	KeyLayer      = "layer"
	KeyLayerName  = "layer_name"
	KeyRule       = "rule"
	KeyPattern    = "pattern"
	KeyAttrCount  = "attr_count"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeyMethod     = "method"
	KeyRequestID  = "request_id"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Href(h string) slog.Attr         { return slog.String(KeyHref, h) }
func LinkKind(k string) slog.Attr     { return slog.String(KeyLinkKind, k) }
func Layer(n int) slog.Attr           { return slog.Int(KeyLayer, n) }
func LayerName(n string) slog.Attr    { return slog.String(KeyLayerName, n) }
func Rule(i int) slog.Attr            { return slog.Int(KeyRule, i) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func AttrCount(n int) slog.Attr       { return slog.Int(KeyAttrCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
