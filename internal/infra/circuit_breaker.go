package infra

import (
	"errors"
	"sync"
	"time"
)

// Breaker guards the outbound SMTP relay so a dead mail server does not keep
// every alert job blocked on dial timeouts.
//
//	closed    → calls pass; N consecutive failures trip it open
//	open      → calls fail fast with ErrBreakerOpen until the cool-down passes
//	half-open → probe calls pass; M successes close it, one failure reopens it

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned by Execute while the breaker is open.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	CoolDown         time.Duration
}

// DefaultBreakerConfig suits the SMTP relay: trip after 5 failures, probe after a minute.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, CoolDown: time.Minute}
}

type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
	cfg       BreakerConfig
	now       func() time.Time
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	def := DefaultBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = def.CoolDown
	}
	return &CircuitBreaker{state: BreakerClosed, cfg: cfg, now: time.Now}
}

// State moves open → half-open once the cool-down has elapsed.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

func (cb *CircuitBreaker) currentLocked() BreakerState {
	if cb.state == BreakerOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.CoolDown {
		cb.state = BreakerHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and records the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == BreakerOpen {
		return ErrBreakerOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures++
	switch cb.state {
	case BreakerClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	case BreakerHalfOpen:
		cb.trip()
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case BreakerClosed:
		cb.failures = 0
	case BreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = BreakerClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = BreakerOpen
	cb.openedAt = cb.now()
	cb.failures = 0
	cb.successes = 0
}
