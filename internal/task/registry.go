package task

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

type state struct {
	token   *Token
	running bool
}

// Registry owns the running state and cancellation token of every key.
// Entries are created on first use and never removed.
type Registry struct {
	mu    sync.Mutex
	tasks map[Key]*state
	gen   uint64
}

// NewRegistry creates a new, empty Registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[Key]*state),
	}
}

// entry returns the state for key, creating it if needed. Callers hold r.mu.
func (r *Registry) entry(key Key) *state {
	s, ok := r.tasks[key]
	if !ok {
		s = &state{token: r.nextToken(key)}
		r.tasks[key] = s
	}
	return s
}

func (r *Registry) nextToken(key Key) *Token {
	r.gen++
	return newToken(key, r.gen)
}

// Admit marks key as running and returns its current token. If key is
// already running nothing changes and an admission error is returned.
func (r *Registry) Admit(key Key) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.entry(key)
	if s.running {
		return nil, errors.NewKind(key.Operation, errors.KindAdmission,
			fmt.Sprintf("already running for destination %q", key.Destination), nil)
	}
	s.running = true
	return s.token, nil
}

// Release marks the token's key as no longer running. Releasing a token
// that has since been replaced by Cancel is a no-op, as is releasing twice.
func (r *Registry) Release(tok *Token) {
	if tok == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.tasks[tok.key]
	if !ok || s.token != tok {
		return
	}
	s.running = false
}

// Cancel fires the token of a running key and installs a fresh one.
// It reports whether anything was cancelled.
func (r *Registry) Cancel(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.tasks[key]
	if !ok || !s.running {
		return false
	}
	r.cancelLocked(key, s)
	return true
}

func (r *Registry) cancelLocked(key Key, s *state) {
	s.token.fire()
	s.running = false
	s.token = r.nextToken(key)
}

// CancelAll cancels every running key and returns how many were cancelled
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for key, s := range r.tasks {
		if s.running {
			r.cancelLocked(key, s)
			n++
		}
	}
	return n
}

// IsRunning reports whether key currently has an execution in flight.
// The answer may be stale by the time the caller acts on it.
func (r *Registry) IsRunning(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.tasks[key]
	return ok && s.running
}

// Running returns the keys currently in flight, sorted by operation then
// destination
func (r *Registry) Running() []Key {
	r.mu.Lock()
	keys := make([]Key, 0, len(r.tasks))
	for k, s := range r.tasks {
		if s.running {
			keys = append(keys, k)
		}
	}
	r.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Operation != keys[j].Operation {
			return keys[i].Operation < keys[j].Operation
		}
		return keys[i].Destination < keys[j].Destination
	})
	return keys
}
