package allocation

import (
	"fmt"
	"math"
	"strings"
)

// Strategy selects how an Engine keeps its state summing to Total.
type Strategy string

const (
	// Proportional rescales the other keys on every edit.
	Proportional Strategy = "proportional"
	// LockAware defers rebalancing to AutoAdjust and honors locks.
	LockAware Strategy = "lock_aware"
)

// ParseStrategy accepts "proportional" and "lock_aware" (also "lock" and
// "locks"), case-insensitively. An empty string selects Proportional.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Proportional):
		return Proportional, nil
	case string(LockAware), "lock", "locks", "lock-aware":
		return LockAware, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want proportional or lock_aware)", s)
	}
}

// Engine owns the allocation of one form session. It is not safe for
// concurrent use.
type Engine struct {
	keys     []string
	strategy Strategy
	initial  State
	state    State
	locks    map[string]bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPreset starts the engine from a preset distribution instead of an
// equal split. See Preset.
func WithPreset(preset map[string]float64) Option {
	return func(e *Engine) {
		if len(preset) > 0 {
			e.initial = Preset(e.keys, preset)
		}
	}
}

// New creates an engine over keys (in display order).
func New(keys []string, strategy Strategy, opts ...Option) (*Engine, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = Proportional
	}
	if strategy != Proportional && strategy != LockAware {
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	e := &Engine{
		keys:     append([]string(nil), keys...),
		strategy: strategy,
	}
	e.initial = EqualSplit(e.keys)
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e, nil
}

// Reset restores the initial distribution and clears every lock.
func (e *Engine) Reset() {
	e.state = e.initial.Clone()
	e.locks = make(map[string]bool, len(e.keys))
}

// Edit sets key to value. Values outside [0, 100] are clamped. Under
// Proportional the other keys are rescaled; under LockAware nothing else
// changes.
func (e *Engine) Edit(key string, value float64) error {
	if !containsKey(e.keys, key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if math.IsNaN(value) {
		return ErrInvalidValue
	}

	if e.strategy == LockAware {
		e.state[key] = Clamp(value)
		return nil
	}

	next, err := ApplyEdit(e.state, e.keys, key, value)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// ToggleLock flips the lock on key and returns the new lock value.
func (e *Engine) ToggleLock(key string) (bool, error) {
	if e.strategy != LockAware {
		return false, ErrLocksUnsupported
	}
	if !containsKey(e.keys, key) {
		return false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	e.locks[key] = !e.locks[key]
	return e.locks[key], nil
}

// AutoAdjust rescales the unlocked keys so the whole set sums to Total.
// On error the state is left unchanged.
func (e *Engine) AutoAdjust() error {
	next, err := Rebalance(e.state, e.keys, e.locks)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// State returns a copy of the current allocation.
func (e *Engine) State() State { return e.state.Clone() }

// Value returns the current percentage for key.
func (e *Engine) Value(key string) float64 { return e.state[key] }

// Locked reports whether key is locked.
func (e *Engine) Locked(key string) bool { return e.locks[key] }

// Locks returns the locked keys in display order.
func (e *Engine) Locks() []string {
	var out []string
	for _, k := range e.keys {
		if e.locks[k] {
			out = append(out, k)
		}
	}
	return out
}

// Keys returns the category keys in display order.
func (e *Engine) Keys() []string { return append([]string(nil), e.keys...) }

// Strategy returns the rebalancing strategy the engine was built with.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Balance measures the current state against Total.
func (e *Engine) Balance() Balance { return Measure(e.state, e.keys) }

// Complete reports whether the current state passes the submit gate.
func (e *Engine) Complete() bool { return IsComplete(e.state, e.keys) }

// Sum adds the current values of keys, typically one display group.
func (e *Engine) Sum(keys []string) float64 { return e.state.Sum(keys) }
