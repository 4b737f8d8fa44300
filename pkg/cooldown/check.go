package cooldown

import "time"

// Check evaluates every manager for ctx. Scope keys are extracted up front so
// an extraction error consumes no usage anywhere. If any manager denies, the
// returned *OnCooldownError carries the longest retry-after among them.
func Check(ctx Context, managers ...*Manager) error {
	keys := make([]uint64, len(managers))
	for i, m := range managers {
		key, err := m.scope.Key(ctx)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	var (
		denied  bool
		longest time.Duration
	)
	for i, m := range managers {
		d := m.EvaluateKey(keys[i])
		if d.Permitted() {
			continue
		}
		denied = true
		if d.RetryAfter > longest {
			longest = d.RetryAfter
		}
	}
	if denied {
		return &OnCooldownError{RetryAfter: longest}
	}
	return nil
}
