package publish

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

// Sink receives events for one destination. Send must not block.
type Sink interface {
	Send(Event) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(Event) error

// Send implements Sink
func (f SinkFunc) Send(ev Event) error {
	return f(ev)
}

// ErrBacklogFull is returned by ChanSink when its buffer is full
var ErrBacklogFull = errors.NewKind("publish", errors.KindDestinationUnreachable, "destination backlog full", nil)

// ChanSink buffers events for a reader such as an SSE stream. Events that
// arrive while the buffer is full are dropped.
type ChanSink struct {
	ch chan Event
}

// NewChanSink creates a ChanSink holding up to size pending events
func NewChanSink(size int) *ChanSink {
	if size < 1 {
		size = 1
	}
	return &ChanSink{ch: make(chan Event, size)}
}

// Send implements Sink
func (s *ChanSink) Send(ev Event) error {
	select {
	case s.ch <- ev:
		return nil
	default:
		return ErrBacklogFull
	}
}

// Events returns the channel events are delivered on
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}

// WriterSink writes each event as one JSON line
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink creates a WriterSink on w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Send implements Sink
func (s *WriterSink) Send(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(ev); err != nil {
		return errors.NewKind("publish", errors.KindDestinationUnreachable,
			fmt.Sprintf("failed to write event %s", ev.Name), err)
	}
	return nil
}
