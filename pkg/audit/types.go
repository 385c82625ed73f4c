package audit

import "time"

// Event kinds.
const (
	KindRebind        = "rebind"
	KindContextChange = "context_change"
)

// Event is one recorded engine side effect.
type Event struct {
	// ID is a UUID assigned when the event is recorded.
	ID string `json:"id"`

	// Kind is KindRebind or KindContextChange.
	Kind string `json:"kind"`

	// At is when the event was observed.
	At time.Time `json:"at"`

	// LocationType is set for rebind events.
	LocationType string `json:"locationType,omitempty"`

	// PreviousURI and NewURI describe a rebind.
	PreviousURI string `json:"previousUri,omitempty"`
	NewURI      string `json:"newUri,omitempty"`

	// Environment, Residency and LocationID describe the context after a
	// context-change event.
	Environment string `json:"environment,omitempty"`
	Residency   string `json:"residency,omitempty"`
	LocationID  string `json:"locationId,omitempty"`
}

// Query filters event listing.
type Query struct {
	// Kind restricts results to one event kind; empty means all.
	Kind string

	// Since restricts results to events at or after this time.
	Since time.Time

	// Limit bounds the number of returned events; 0 means the store's
	// default limit.
	Limit int
}
