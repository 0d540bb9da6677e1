package core

import (
	"sync"
	"time"
)

// Scheduler fires a callback once per period while armed.
//
// It shares its owner's lock: Start, Stop and Armed must be called with the
// lock held, and the callback runs with the lock held. A timer that was
// cancelled after it began firing is recognised by its generation and dropped.
type Scheduler struct {
	clock  Clock
	period time.Duration
	mu     sync.Locker
	fire   func()

	timer Timer
	gen   uint64
}

// NewScheduler creates a stopped scheduler.
// fire is called with mu held once per period after Start.
func NewScheduler(clock Clock, period time.Duration, mu sync.Locker, fire func()) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock:  clock,
		period: period,
		mu:     mu,
		fire:   fire,
	}
}

// Start arms the next fire. It is a no-op if a fire is already pending.
func (s *Scheduler) Start() {
	if s.timer != nil {
		return
	}
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.period, func() { s.run(gen) })
}

// Stop cancels the pending fire, if any.
func (s *Scheduler) Stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Armed reports whether a fire is pending.
func (s *Scheduler) Armed() bool {
	return s.timer != nil
}

// Period returns the interval between fires.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

func (s *Scheduler) run(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.timer = nil
	s.fire()
}
