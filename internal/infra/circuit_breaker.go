package infra

import (
	"errors"
	"sync"
	"time"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Guards the SMTP relay: after a run of failures every send fails fast until
// the cool-down elapses, then one trial call decides whether to close again.

// CBState is the breaker position.
type CBState int

const (
	CBClosed   CBState = iota // sends pass through
	CBOpen                    // sends fail fast
	CBHalfOpen                // one trial call allowed
)

// String returns the state name used in logs.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds the thresholds; zero fields take the defaults.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	SuccessThreshold int           // successful trial calls needed to close it again
	OpenTimeout      time.Duration // cool-down before the first trial call
}

// DefaultCBConfig suits an SMTP relay: trip after 3 failures, retry after 2 minutes.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: 2 * time.Minute}
}

// CircuitBreaker is safe for concurrent use by the worker pool.
type CircuitBreaker struct {
	mu        sync.Mutex
	cfg       CircuitBreakerConfig
	state     CBState
	fallos    int
	exitos    int
	abiertoEn time.Time
	now       func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// State reports the current state, moving open to half-open once the cool-down passed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estado()
}

func (cb *CircuitBreaker) estado() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.exitos = 0
	}
	return cb.state
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.estado() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.fallo()
		return err
	}
	cb.exito()
	return nil
}

func (cb *CircuitBreaker) fallo() {
	cb.fallos++
	if cb.state == CBHalfOpen || cb.fallos >= cb.cfg.FailureThreshold {
		cb.state = CBOpen
		cb.abiertoEn = cb.now()
		cb.fallos = 0
		cb.exitos = 0
	}
}

func (cb *CircuitBreaker) exito() {
	switch cb.state {
	case CBClosed:
		cb.fallos = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.fallos = 0
		}
	}
}
