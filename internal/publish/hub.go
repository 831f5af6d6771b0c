// Package publish delivers execution results to UI destinations.
//
// Delivery is fire-and-forget: Publish never blocks on the receiver and
// never reports failure to its caller. Undeliverable results are logged
// and counted.
package publish

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/metrics"
)

// timeNow is a variable to allow testing with fixed timestamps
var timeNow = time.Now

// Event is one delivered result
type Event struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	Name        string    `json:"event"`
	Envelope    Envelope  `json:"payload"`
	Time        time.Time `json:"time"`
}

// Publisher sends a result envelope to a destination
type Publisher interface {
	Publish(destination, name string, env Envelope)
}

type attachment struct {
	id   uint64
	sink Sink
}

// Hub routes events to the sink attached for each destination
type Hub struct {
	mu     sync.RWMutex
	sinks  map[string]attachment
	nextID uint64
	logger zerolog.Logger
}

var _ Publisher = (*Hub)(nil)

// NewHub creates an empty Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		sinks:  make(map[string]attachment),
		logger: logger.With().Str("component", "publish").Logger(),
	}
}

// Attach routes destination's events to sink, replacing any previous sink.
// The returned function detaches it; it does nothing if the sink has been
// replaced since.
func (h *Hub) Attach(destination string, sink Sink) (detach func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.sinks[destination] = attachment{id: id, sink: sink}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if a, ok := h.sinks[destination]; ok && a.id == id {
			delete(h.sinks, destination)
		}
	}
}

// Attached reports whether destination currently has a sink
func (h *Hub) Attached(destination string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sinks[destination]
	return ok
}

// Destinations returns the attached destination ids, sorted
func (h *Hub) Destinations() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.sinks))
	for id := range h.sinks {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Publish implements Publisher
func (h *Hub) Publish(destination, name string, env Envelope) {
	ev := Event{
		ID:          uuid.NewString(),
		Destination: destination,
		Name:        name,
		Envelope:    env,
		Time:        timeNow(),
	}

	h.mu.RLock()
	a, ok := h.sinks[destination]
	h.mu.RUnlock()

	if !ok {
		h.unreachable(ev, errors.NewKind(name, errors.KindDestinationUnreachable, "no sink attached", nil))
		return
	}
	if err := a.sink.Send(ev); err != nil {
		h.unreachable(ev, err)
		return
	}

	metrics.RecordDelivery(name, true)
	h.logger.Debug().
		Str("destination", destination).
		Str("event", name).
		Bool("is_ok", env.OK).
		Msg("result delivered")
}

func (h *Hub) unreachable(ev Event, err error) {
	metrics.RecordDelivery(ev.Name, false)
	h.logger.Warn().
		Err(err).
		Str("destination", ev.Destination).
		Str("event", ev.Name).
		Str("id", ev.ID).
		Msg("result dropped")
}
