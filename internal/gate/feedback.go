package gate

import (
	"sync"
	"time"
)

// ShakeDuration is how long the failure feedback signal stays raised.
const ShakeDuration = 300 * time.Millisecond

// shake is a one-shot flag that clears itself after a fixed delay.
// Raising it again restarts the delay.
type shake struct {
	mu     sync.Mutex
	on     bool
	gen    uint64
	timer  *time.Timer
	delay  time.Duration
	notify func(bool)
}

func newShake(delay time.Duration, notify func(bool)) *shake {
	return &shake{delay: delay, notify: notify}
}

func (s *shake) trigger() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.on = true
	s.timer = time.AfterFunc(s.delay, func() { s.clear(gen) })
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(true)
	}
}

func (s *shake) clear(gen uint64) {
	s.mu.Lock()
	if !s.on || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.on = false
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(false)
	}
}

func (s *shake) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}
