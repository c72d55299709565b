// Package preview serves Markdown files rendered with the configured link attribute
// layers.
//
// Routes:
//
//	GET /healthz   liveness probe
//	GET /metrics   Prometheus metrics (when enabled)
//	GET /<path>    renders <root>/<path>, adding .md when the path has no extension
//
// Rendered pages carry an ETag derived from the document fingerprint and honor
// If-None-Match.
package preview
