package metrics

import "time"

// Outcome enumerates document render outcomes for counters.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks for link rendering and document renders.
type Recorder interface {
	IncLinkRendered(kind string)
	IncRuleMatch(layer, rule int)
	IncRuleMiss(layer int)
	AddInlineAttributes(n int)
	ObserveRenderDuration(d time.Duration)
	IncRenderOutcome(outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncLinkRendered(string)              {}
func (NoopRecorder) IncRuleMatch(int, int)               {}
func (NoopRecorder) IncRuleMiss(int)                     {}
func (NoopRecorder) AddInlineAttributes(int)             {}
func (NoopRecorder) ObserveRenderDuration(time.Duration) {}
func (NoopRecorder) IncRenderOutcome(Outcome)            {}
