package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpen = errors.New("circuit breaker is open")

type Config struct {
	// Window is the number of most recent calls the failure ratio is computed over.
	Window int
	// Cooldown is how long the breaker stays open before letting calls through again.
	Cooldown time.Duration
	// FailureRatio in (0, 1] opens the breaker once reached inside the window.
	FailureRatio float64
	// Recovery is the number of consecutive half-open successes needed to close again.
	Recovery int
}

type CircuitBreaker interface {
	Call(fn func() error) error
	State() State
}

type circuitBreaker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state     State
	gen       uint64 // bumped on every state change
	openedAt  time.Time
	results   []bool // true marks a failed call
	pos       int
	successes int // half-open successes so far
	inflight  int // half-open calls not yet recorded
}

func New(cfg Config) CircuitBreaker {
	if cfg.Window <= 0 {
		cfg.Window = 1
	}
	if cfg.Recovery <= 0 {
		cfg.Recovery = 1
	}
	return &circuitBreaker{
		cfg:     cfg,
		now:     time.Now,
		state:   Closed,
		results: make([]bool, cfg.Window),
	}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	gen, ok := cb.allow()
	if !ok {
		return ErrOpen
	}
	err := fn()
	cb.record(gen, err != nil)
	return err
}

// allow admits a call and returns the generation it belongs to.
// At most Recovery calls are in flight while half-open.
func (cb *circuitBreaker) allow() (uint64, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case Closed:
		return cb.gen, true
	case Open:
		if cb.now().Sub(cb.openedAt) <= cb.cfg.Cooldown {
			return 0, false
		}
		cb.setState(HalfOpen)
	}
	if cb.inflight >= cb.cfg.Recovery {
		return 0, false
	}
	cb.inflight++
	return cb.gen, true
}

func (cb *circuitBreaker) record(gen uint64, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// the call started before the last state change
	if gen != cb.gen {
		return
	}

	if cb.state == HalfOpen {
		cb.inflight--
		if failed {
			cb.setState(Open)
			return
		}
		cb.successes++
		if cb.successes >= cb.cfg.Recovery {
			cb.setState(Closed)
		}
		return
	}

	cb.results[cb.pos] = failed
	cb.pos = (cb.pos + 1) % len(cb.results)
	fails := 0
	for _, f := range cb.results {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.results)) >= cb.cfg.FailureRatio {
		cb.setState(Open)
	}
}

func (cb *circuitBreaker) setState(state State) {
	cb.state = state
	cb.gen++
	cb.successes = 0
	cb.inflight = 0
	switch state {
	case Open:
		cb.openedAt = cb.now()
	case Closed:
		for i := range cb.results {
			cb.results[i] = false
		}
		cb.pos = 0
	}
}

func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
