package capture

import (
	"sync"
	"time"
)

// SyntheticSource emits evenly spaced occurrence events on a ticker. It
// exists so the monitor can be exercised without hooking real input devices
// (demo mode and integration tests).
type SyntheticSource struct {
	interval time.Duration
	clock    func() time.Time

	mu       sync.Mutex
	events   chan Event
	stopChan chan struct{}
	running  bool
}

// NewSyntheticSource creates a source emitting one event per interval.
// A non-positive interval defaults to 500ms.
func NewSyntheticSource(interval time.Duration) *SyntheticSource {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &SyntheticSource{
		interval: interval,
		clock:    time.Now,
		events:   make(chan Event, 64),
	}
}

// Start implements Source.Start.
func (s *SyntheticSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyStarted
	}

	s.running = true
	s.stopChan = make(chan struct{})

	go s.run(s.stopChan)
	return nil
}

// Stop implements Source.Stop.
func (s *SyntheticSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	close(s.stopChan)
	s.running = false
	return nil
}

// Events implements Source.Events.
func (s *SyntheticSource) Events() <-chan Event {
	return s.events
}

func (s *SyntheticSource) run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case s.events <- Event{Timestamp: s.clock()}:
			default:
				// Consumer is behind; dropping keeps the generator from stalling.
			}
		}
	}
}
