package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mercator-hq/meridian/pkg/location"
)

// writeTimeout bounds a single store write from the background worker.
const writeTimeout = 5 * time.Second

// Recorder writes engine events to a Store asynchronously. It implements
// location.Hook: rebinds and context changes are recorded, lookup events
// are ignored (they are metric material, not audit material).
type Recorder struct {
	location.NopHook

	store  *Store
	events chan Event
	logger *slog.Logger

	dropped atomic.Int64
	wg      sync.WaitGroup
	stop    chan struct{}
	once    sync.Once
}

// NewRecorder creates a recorder with the given buffer size and starts
// its background writer. Buffer sizes below 1 fall back to 1.
func NewRecorder(store *Store, buffer int, logger *slog.Logger) *Recorder {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		store:  store,
		events: make(chan Event, buffer),
		logger: logger.With("component", "audit.recorder"),
		stop:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()
	return r
}

// Rebound implements location.Hook.
func (r *Recorder) Rebound(d *location.Descriptor, previousURI string) {
	r.enqueue(Event{
		Kind:         KindRebind,
		LocationType: d.LocationType,
		PreviousURI:  previousURI,
		NewURI:       d.URI,
		Environment:  d.Environment,
		Residency:    d.Residency,
		LocationID:   d.LocationID,
	})
}

// ContextChanged implements location.Hook.
func (r *Recorder) ContextChanged(ctx location.Context) {
	r.enqueue(Event{
		Kind:        KindContextChange,
		Environment: ctx.Environment,
		Residency:   ctx.Residency,
		LocationID:  ctx.LocationID,
	})
}

// enqueue stamps and buffers an event without blocking the engine.
func (r *Recorder) enqueue(e Event) {
	e.ID = uuid.NewString()
	e.At = time.Now()

	select {
	case r.events <- e:
	default:
		// Full buffer: drop rather than stall a lookup.
		r.dropped.Add(1)
	}
}

// run is the background writer goroutine.
func (r *Recorder) run() {
	defer r.wg.Done()

	for {
		select {
		case e := <-r.events:
			r.write(e)
		case <-r.stop:
			// Drain whatever is still buffered.
			for {
				select {
				case e := <-r.events:
					r.write(e)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.Write(ctx, e); err != nil {
		r.logger.Error("failed to write audit event",
			"kind", e.Kind,
			"error", err,
		)
	}
}

// Dropped returns how many events were discarded due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops the background writer after draining buffered events. The
// store itself is not closed.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()
}
