// Package allocation keeps a set of percentage inputs consistent.
//
// A State maps category keys to percentages in [0, 100]. The package offers
// two rebalancing strategies over the same primitive, Rebalance:
//
//   - Proportional: every edit rescales the other keys so the set sums to 100.
//   - LockAware: edits only overwrite; AutoAdjust rescales the unlocked keys
//     on request and leaves locked keys untouched.
//
// IsComplete is the submit gate: the total must be within Tolerance of 100.
package allocation

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Total is the budget every complete allocation sums to.
	Total = 100.0
	// Tolerance is the accepted drift between a state's sum and Total.
	Tolerance = 0.01

	MinValue = 0.0
	MaxValue = 100.0
)

var (
	ErrOverLockedBudget   = errors.New("locked total exceeds 100%")
	ErrNoAdjustableFields = errors.New("no unlocked fields to adjust")
	ErrUnknownKey         = errors.New("unknown category key")
	ErrLocksUnsupported   = errors.New("locks are not available with proportional rebalancing")
	ErrInvalidValue       = errors.New("value is not a number")
	ErrNoKeys             = errors.New("at least one category key is required")
	ErrDuplicateKey       = errors.New("duplicate category key")
)

// State maps category key to percentage.
type State map[string]float64

// Clone returns an independent copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Sum adds the values of keys. Keys absent from s count as zero.
func (s State) Sum(keys []string) float64 {
	var total float64
	for _, k := range keys {
		total += s[k]
	}
	return total
}

// Clamp restricts v to [MinValue, MaxValue]. NaN becomes MinValue.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// EqualSplit gives each key Total/len(keys).
func EqualSplit(keys []string) State {
	s := make(State, len(keys))
	if len(keys) == 0 {
		return s
	}
	each := Total / float64(len(keys))
	for _, k := range keys {
		s[k] = each
	}
	return s
}

// Preset assigns the preset values (clamped) to the keys they name and
// splits what is left of Total evenly across the remaining keys. Preset
// entries for keys outside keys are ignored. When the preset already
// exceeds Total the remaining keys get zero.
func Preset(keys []string, preset map[string]float64) State {
	s := make(State, len(keys))
	var rest []string
	var presetSum float64
	for _, k := range keys {
		v, ok := preset[k]
		if !ok || math.IsNaN(v) {
			rest = append(rest, k)
			continue
		}
		v = Clamp(v)
		s[k] = v
		presetSum += v
	}
	if len(rest) == 0 {
		return s
	}
	each := math.Max(0, Total-presetSum) / float64(len(rest))
	for _, k := range rest {
		s[k] = each
	}
	return s
}

func validateKeys(keys []string) error {
	if len(keys) == 0 {
		return ErrNoKeys
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		seen[k] = true
	}
	return nil
}
