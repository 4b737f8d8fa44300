package metrics

import "github.com/keshon/cmdframe/pkg/cooldown"

// CooldownObserver exports cooldown events to Prometheus.
type CooldownObserver struct{}

var _ cooldown.Observer = CooldownObserver{}

func (CooldownObserver) BucketCreated(name string, scope cooldown.Scope) {
	CooldownBuckets.WithLabelValues(name, scope.String()).Inc()
}

func (CooldownObserver) Decided(name string, scope cooldown.Scope, d cooldown.Decision) {
	CooldownDecisionsTotal.WithLabelValues(name, scope.String(), d.Outcome.String()).Inc()
}

// Swept lowers the gauge by removed. Several managers may share a command and
// scope, so remaining is not the label's total.
func (CooldownObserver) Swept(name string, scope cooldown.Scope, removed, _ int) {
	CooldownSweptTotal.WithLabelValues(name, scope.String()).Add(float64(removed))
	CooldownBuckets.WithLabelValues(name, scope.String()).Sub(float64(removed))
}
