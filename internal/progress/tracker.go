// Package progress tracks executions from admission to settlement and keeps
// a bounded history of the ones that finished.
package progress

import (
	"sort"
	"sync"
	"time"
)

// State is the lifecycle state of an execution
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

const defaultHistorySize = 100

// Execution is a snapshot of one tracked execution
type Execution struct {
	ID          uint64        `json:"id"`
	Operation   string        `json:"operation"`
	Destination string        `json:"destination"`
	State       State         `json:"state"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}

// Tracker records executions. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	seq     uint64
	limit   int
	active  map[uint64]*Execution
	history []Execution // oldest first
}

// NewTracker creates a Tracker remembering up to limit finished
// executions. A limit below one selects the default.
func NewTracker(limit int) *Tracker {
	if limit < 1 {
		limit = defaultHistorySize
	}
	return &Tracker{
		limit:  limit,
		active: make(map[uint64]*Execution),
	}
}

// Handle finishes one execution started with Start
type Handle struct {
	t    *Tracker
	id   uint64
	once sync.Once
}

// Start begins tracking an execution
func (t *Tracker) Start(operation, destination string) *Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.active[t.seq] = &Execution{
		ID:          t.seq,
		Operation:   operation,
		Destination: destination,
		State:       StateRunning,
		StartTime:   time.Now(),
	}
	return &Handle{t: t, id: t.seq}
}

// Finish moves the execution into the history with its final state. Only
// the first call has any effect.
func (h *Handle) Finish(state State, err error) {
	h.once.Do(func() {
		h.t.finish(h.id, state, err)
	})
}

func (t *Tracker) finish(id uint64, state State, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	exec, ok := t.active[id]
	if !ok {
		return
	}
	delete(t.active, id)

	exec.State = state
	exec.EndTime = time.Now()
	exec.Duration = exec.EndTime.Sub(exec.StartTime)
	if err != nil {
		exec.Error = err.Error()
	}

	if len(t.history) >= t.limit {
		t.history = t.history[1:]
	}
	t.history = append(t.history, *exec)
}

// Active returns the running executions for destination, oldest first. An
// empty destination matches all of them.
func (t *Tracker) Active(destination string) []Execution {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Execution, 0, len(t.active))
	for _, exec := range t.active {
		if destination == "" || exec.Destination == destination {
			snap := *exec
			snap.Duration = time.Since(snap.StartTime)
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Recent returns finished executions for destination, newest first. An
// empty destination matches all of them.
func (t *Tracker) Recent(destination string) []Execution {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Execution, 0, len(t.history))
	for i := len(t.history) - 1; i >= 0; i-- {
		if destination == "" || t.history[i].Destination == destination {
			out = append(out, t.history[i])
		}
	}
	return out
}
