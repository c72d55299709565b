// Package metrics provides the observability hooks used while rendering links.
//
// Components receive a Recorder through options and default to NoopRecorder, so metrics
// collection never requires nil checks at call sites:
//
//	table := linkattrs.NewTable(linkattrs.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The preview server exposes the Prometheus registry through HTTPHandler.
package metrics
