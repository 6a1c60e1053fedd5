package capture

import (
	"sync"
	"time"
)

// ChannelSource is an in-process Source fed by Emit calls.
//
// It backs the "keys" capture mode, where the terminal front end forwards
// each keystroke as an action, and is the natural test double for anything
// that consumes a Source. Emit never blocks: when the buffer is full the
// event is dropped and counted.
type ChannelSource struct {
	mu      sync.Mutex
	events  chan Event
	running bool
	closed  bool
	dropped int

	// startErr, when set, makes the next Start fail. Used to simulate
	// permission denials.
	startErr error
}

// NewChannelSource creates a channel source with the given buffer size.
// A non-positive buffer defaults to 64.
func NewChannelSource(buffer int) *ChannelSource {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelSource{
		events: make(chan Event, buffer),
	}
}

// Start implements Source.Start.
func (s *ChannelSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSourceClosed
	}
	if s.startErr != nil {
		return s.startErr
	}
	if s.running {
		return ErrAlreadyStarted
	}

	s.running = true
	return nil
}

// Stop implements Source.Stop.
func (s *ChannelSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	return nil
}

// Events implements Source.Events.
func (s *ChannelSource) Events() <-chan Event {
	return s.events
}

// Emit delivers one occurrence at the given time. Events emitted while the
// source is stopped, or while the buffer is full, are dropped.
func (s *ChannelSource) Emit(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.closed {
		return
	}

	// The send stays under the lock so Close cannot close the channel
	// between the state check and the send.
	select {
	case s.events <- Event{Timestamp: t}:
	default:
		s.dropped++
	}
}

// Close shuts the source down for good: the events channel is closed and
// any later Start returns ErrSourceClosed.
func (s *ChannelSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.running = false
	close(s.events)
	return nil
}

// Dropped reports how many events were discarded due to a full buffer.
func (s *ChannelSource) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// FailStarts makes subsequent Start calls fail with the given error.
// Passing nil clears the failure.
func (s *ChannelSource) FailStarts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startErr = err
}
