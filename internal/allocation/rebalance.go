package allocation

import (
	"errors"
	"fmt"
	"math"
)

// Rebalance returns a copy of state in which every key of keys that is not
// protected has been rescaled so the keys sum to Total. Protected keys keep
// their values.
//
// Adjustable keys keep their relative proportions. When they are all zero
// (or their sum is not a positive finite number) the remaining budget is
// split evenly between them instead.
//
// The operation fails without touching state when the protected keys alone
// exceed Total or when every key is protected.
func Rebalance(state State, keys []string, protected map[string]bool) (State, error) {
	var protectedSum, adjustableSum float64
	adjustable := make([]string, 0, len(keys))
	for _, k := range keys {
		if protected[k] {
			protectedSum += state[k]
			continue
		}
		adjustable = append(adjustable, k)
		adjustableSum += state[k]
	}

	if protectedSum > Total {
		return nil, fmt.Errorf("%w (%.1f%%)", ErrOverLockedBudget, protectedSum)
	}
	if len(adjustable) == 0 {
		return nil, ErrNoAdjustableFields
	}

	remaining := Total - protectedSum
	next := state.Clone()

	if !(adjustableSum > 0) || math.IsInf(adjustableSum, 0) {
		each := remaining / float64(len(adjustable))
		for _, k := range adjustable {
			next[k] = each
		}
		return next, nil
	}

	// Each share is taken before scaling so that a denormal sum cannot
	// overflow the factor.
	for _, k := range adjustable {
		next[k] = Clamp(state[k] / adjustableSum * remaining)
	}
	return next, nil
}

// ApplyEdit sets key to value (clamped to [0, 100]) and rescales every other
// key so the set sums to Total. With a single key there is nothing to
// rescale; the edited value is kept as is and the gate reports the gap.
func ApplyEdit(state State, keys []string, key string, value float64) (State, error) {
	if !containsKey(keys, key) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if math.IsNaN(value) {
		return nil, ErrInvalidValue
	}

	next := state.Clone()
	next[key] = Clamp(value)

	out, err := Rebalance(next, keys, map[string]bool{key: true})
	if errors.Is(err, ErrNoAdjustableFields) {
		return next, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sanitize returns a state holding exactly keys: values are clamped, NaN
// and missing entries become zero, and keys outside the set are dropped.
func Sanitize(state State, keys []string) State {
	out := make(State, len(keys))
	for _, k := range keys {
		out[k] = Clamp(state[k])
	}
	return out
}

// IsComplete reports whether the required fields of state sum to Total
// within Tolerance.
func IsComplete(state State, required []string) bool {
	return math.Abs(state.Sum(required)-Total) < Tolerance
}

// Balance summarizes how far a state is from a complete allocation.
type Balance struct {
	Total      float64 `json:"total"`
	Difference float64 `json:"difference"` // Total - 100; positive when over budget
	Complete   bool    `json:"complete"`
}

// Measure computes the Balance of state over keys.
func Measure(state State, keys []string) Balance {
	sum := state.Sum(keys)
	return Balance{
		Total:      sum,
		Difference: sum - Total,
		Complete:   math.Abs(sum-Total) < Tolerance,
	}
}

// Over reports an incomplete state whose total exceeds 100.
func (b Balance) Over() bool { return !b.Complete && b.Difference > 0 }

// Short reports an incomplete state whose total is below 100.
func (b Balance) Short() bool { return !b.Complete && b.Difference < 0 }

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
