package audit

import (
	"context"
	"testing"
	"time"

	"mercator-hq/meridian/pkg/location"
)

func TestRecorder_RecordsRebinds(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, 16, nil)

	r.Rebound(&location.Descriptor{
		LocationType: "svc",
		LocationID:   "eu-1",
		URI:          "https://eu1.api.example.com",
		Environment:  "production",
		Residency:    "EU",
	}, "https://api.example.com")
	r.Close()

	events, err := s.List(context.Background(), Query{Kind: KindRebind})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d rebind events, want 1", len(events))
	}

	e := events[0]
	if e.ID == "" {
		t.Error("event ID not assigned")
	}
	if e.At.IsZero() {
		t.Error("event timestamp not assigned")
	}
	if e.LocationType != "svc" {
		t.Errorf("LocationType = %q, want %q", e.LocationType, "svc")
	}
	if e.PreviousURI != "https://api.example.com" {
		t.Errorf("PreviousURI = %q, want %q", e.PreviousURI, "https://api.example.com")
	}
	if e.NewURI != "https://eu1.api.example.com" {
		t.Errorf("NewURI = %q, want %q", e.NewURI, "https://eu1.api.example.com")
	}
}

func TestRecorder_RecordsContextChanges(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, 16, nil)

	r.ContextChanged(location.Context{
		Environment: "integration",
		Residency:   "US",
		LocationID:  "us-1",
	})
	r.Close()

	events, err := s.List(context.Background(), Query{Kind: KindContextChange})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d context-change events, want 1", len(events))
	}

	e := events[0]
	if e.Environment != "integration" || e.Residency != "US" || e.LocationID != "us-1" {
		t.Errorf("context fields = %q/%q/%q, want integration/US/us-1",
			e.Environment, e.Residency, e.LocationID)
	}
}

func TestRecorder_IgnoresLookupEvents(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, 16, nil)

	r.ForwardLookup("svc", location.OutcomeHit)
	r.ReverseLookup(true, time.Millisecond)
	r.Close()

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0 for lookup-only traffic", n)
	}
}

func TestRecorder_CloseDrainsBuffer(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, 64, nil)

	for i := 0; i < 20; i++ {
		r.ContextChanged(location.Context{Environment: "production"})
	}
	r.Close()

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 20 {
		t.Errorf("Count() = %d after Close, want 20", n)
	}
	if r.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", r.Dropped())
	}
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	r := NewRecorder(openTestStore(t), 1, nil)
	r.Close()
	r.Close()
}
