package location

import "time"

// Forward lookup outcomes reported to hooks.
const (
	OutcomeHit    = "hit"
	OutcomeCached = "cached"
	OutcomeMiss   = "miss"
)

// Hook receives engine events. The engine itself performs no I/O; metrics
// collectors and audit recorders attach here. Implementations must be fast
// and must not call back into the Resolver.
type Hook interface {
	// ForwardLookup is called after every GetNode with one of the
	// Outcome* constants.
	ForwardLookup(locationType, outcome string)

	// ReverseLookup is called after every GetNodeByURI.
	ReverseLookup(hit bool, elapsed time.Duration)

	// Rebound is called after a descriptor's URI has been overwritten,
	// either by reverse-lookup rebinding or an explicit remap.
	Rebound(d *Descriptor, previousURI string)

	// ContextChanged is called after the active context has been merged
	// and normalized.
	ContextChanged(ctx Context)
}

// NopHook is a Hook that ignores every event.
type NopHook struct{}

func (NopHook) ForwardLookup(string, string)      {}
func (NopHook) ReverseLookup(bool, time.Duration) {}
func (NopHook) Rebound(*Descriptor, string)       {}
func (NopHook) ContextChanged(Context)            {}

// Hooks fans events out to multiple hooks in order.
type Hooks []Hook

func (h Hooks) ForwardLookup(locationType, outcome string) {
	for _, hook := range h {
		hook.ForwardLookup(locationType, outcome)
	}
}

func (h Hooks) ReverseLookup(hit bool, elapsed time.Duration) {
	for _, hook := range h {
		hook.ReverseLookup(hit, elapsed)
	}
}

func (h Hooks) Rebound(d *Descriptor, previousURI string) {
	for _, hook := range h {
		hook.Rebound(d, previousURI)
	}
}

func (h Hooks) ContextChanged(ctx Context) {
	for _, hook := range h {
		hook.ContextChanged(ctx)
	}
}
