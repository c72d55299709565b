package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdlinkattrs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	linksRendered  *prom.CounterVec
	ruleMatches    *prom.CounterVec
	ruleMisses     *prom.CounterVec
	inlineAttrs    prom.Counter
	renderDuration prom.Histogram
	renderOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		linksRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_rendered_total",
			Help:      "Link-opening tokens rendered, by node kind",
		}, []string{"kind"}),
		ruleMatches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rule_matches_total",
			Help:      "Links matched by a rule, by layer and rule index",
		}, []string{"layer", "rule"}),
		ruleMisses: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rule_misses_total",
			Help:      "Links no rule of a layer matched",
		}, []string{"layer"}),
		inlineAttrs: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "inline_attributes_total",
			Help:      "Attributes extracted from link destinations",
		}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of Markdown document renders",
			Buckets:   prom.DefBuckets,
		}),
		renderOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Document renders by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.linksRendered, pr.ruleMatches, pr.ruleMisses, pr.inlineAttrs, pr.renderDuration, pr.renderOutcome)
	return pr
}

func (p *PrometheusRecorder) IncLinkRendered(kind string) {
	if p == nil {
		return
	}
	p.linksRendered.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncRuleMatch(layer, rule int) {
	if p == nil {
		return
	}
	p.ruleMatches.WithLabelValues(strconv.Itoa(layer), strconv.Itoa(rule)).Inc()
}

func (p *PrometheusRecorder) IncRuleMiss(layer int) {
	if p == nil {
		return
	}
	p.ruleMisses.WithLabelValues(strconv.Itoa(layer)).Inc()
}

func (p *PrometheusRecorder) AddInlineAttributes(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.inlineAttrs.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.renderOutcome.WithLabelValues(string(outcome)).Inc()
}
