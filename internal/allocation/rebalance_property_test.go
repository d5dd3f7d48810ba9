package allocation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplyEdit_Invariants_RangeAndSum property-tests proportional edits:
// every value stays in [0, 100], the set keeps summing to 100 and the
// untouched keys keep their ratios.
func TestApplyEdit_Invariants_RangeAndSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		keys := keysN(rng.Intn(24) + 2) // 2–25 keys
		e, err := New(keys, Proportional)
		require.NoError(t, err)

		edits := rng.Intn(30) + 1
		for step := 0; step < edits; step++ {
			key := keys[rng.Intn(len(keys))]
			value := rng.Float64()*140 - 20 // -20..120, exercises clamping
			before := e.State()

			require.NoError(t, e.Edit(key, value), "trial %d step %d", trial, step)
			after := e.State()

			// Invariant 1: range
			for _, k := range keys {
				assert.GreaterOrEqual(t, after[k], 0.0, "trial %d step %d key %s", trial, step, k)
				assert.LessOrEqual(t, after[k], 100.0, "trial %d step %d key %s", trial, step, k)
			}

			// Invariant 2: sum
			assert.InDelta(t, 100.0, after.Sum(keys), 1e-6, "trial %d step %d", trial, step)

			// Invariant 3: ratios between untouched non-zero keys are preserved
			edited := Clamp(value)
			if edited == 100 || before.Sum(keys)-before[key] == 0 {
				continue
			}
			var ref string
			for _, k := range keys {
				if k != key && before[k] > 1e-6 {
					ref = k
					break
				}
			}
			if ref == "" {
				continue
			}
			for _, k := range keys {
				if k == key || k == ref {
					continue
				}
				wantRatio := before[k] / before[ref]
				gotRatio := after[k] / after[ref]
				assert.InDelta(t, wantRatio, gotRatio, 1e-6*math.Max(1, wantRatio),
					"trial %d step %d: ratio %s/%s", trial, step, k, ref)
			}
		}
	}
}

// TestRebalance_Invariants_LockedKeysUntouched property-tests auto-adjust
// with random locks.
func TestRebalance_Invariants_LockedKeysUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		keys := keysN(rng.Intn(20) + 1)
		state := make(State, len(keys))
		protected := make(map[string]bool)
		var protectedSum float64
		for _, k := range keys {
			state[k] = math.Round(rng.Float64()*100*2) / 2 // 0.5 steps
			if rng.Intn(3) == 0 {
				protected[k] = true
				protectedSum += state[k]
			}
		}

		out, err := Rebalance(state, keys, protected)

		switch {
		case protectedSum > Total:
			assert.ErrorIs(t, err, ErrOverLockedBudget, "trial %d", trial)
			assert.Nil(t, out)
			continue
		case len(protected) == len(keys):
			assert.ErrorIs(t, err, ErrNoAdjustableFields, "trial %d", trial)
			continue
		}
		require.NoError(t, err, "trial %d", trial)

		for _, k := range keys {
			if protected[k] {
				assert.Equal(t, state[k], out[k], "trial %d: locked key %s changed", trial, k)
			}
			assert.GreaterOrEqual(t, out[k], 0.0)
			assert.LessOrEqual(t, out[k], 100.0)
		}
		assert.InDelta(t, 100.0, out.Sum(keys), 1e-6, "trial %d", trial)
		assert.True(t, IsComplete(out, keys), "trial %d", trial)

		// Idempotence
		again, err := Rebalance(out, keys, protected)
		require.NoError(t, err)
		for _, k := range keys {
			assert.InDelta(t, out[k], again[k], 1e-9, "trial %d key %s", trial, k)
		}
	}
}

func TestIsComplete_Tolerance(t *testing.T) {
	keys := []string{"a", "b"}
	assert.True(t, IsComplete(State{"a": 50, "b": 49.995}, keys))
	assert.False(t, IsComplete(State{"a": 50, "b": 49.98}, keys))
	assert.False(t, IsComplete(State{"a": 50, "b": 50.5}, keys))
	// Absent required keys count as zero.
	assert.False(t, IsComplete(State{"a": 50}, keys))
}

func TestMeasure(t *testing.T) {
	keys := []string{"a", "b"}

	b := Measure(State{"a": 60, "b": 45}, keys)
	assert.InDelta(t, 105.0, b.Total, 1e-12)
	assert.InDelta(t, 5.0, b.Difference, 1e-12)
	assert.True(t, b.Over())
	assert.False(t, b.Short())

	b = Measure(State{"a": 60, "b": 39.5}, keys)
	assert.True(t, b.Short())

	b = Measure(State{"a": 60, "b": 40}, keys)
	assert.True(t, b.Complete)
	assert.False(t, b.Over())
	assert.False(t, b.Short())
}

func TestSanitize(t *testing.T) {
	out := Sanitize(State{"a": 120, "b": math.NaN(), "stray": 5}, []string{"a", "b", "c"})
	assert.Equal(t, State{"a": 100, "b": 0, "c": 0}, out)
}

// requireWellFormed checks that every value of out is finite, in [0, 100],
// and that the set sums to 100.
func requireWellFormed(t *testing.T, out State, keys []string, msgAndArgs ...any) {
	t.Helper()
	for _, k := range keys {
		v := out[k]
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0), append([]any{"key %s is %v"}, k, v)...)
		require.GreaterOrEqual(t, v, 0.0, msgAndArgs...)
		require.LessOrEqual(t, v, 100.0, msgAndArgs...)
	}
	assert.InDelta(t, 100.0, out.Sum(keys), 1e-6, msgAndArgs...)
}

func TestApplyEdit_TinyOtherValues(t *testing.T) {
	keys := []string{"a", "b", "c"}
	tests := []struct {
		name  string
		state State
		want  State
	}{
		{"denormal next to zero", State{"a": 100, "b": 5e-324, "c": 0}, State{"a": 50, "b": 50, "c": 0}},
		{"two denormals", State{"a": 100, "b": 5e-324, "c": 5e-324}, State{"a": 50, "b": 25, "c": 25}},
		{"near zero", State{"a": 100, "b": 1e-300, "c": 3e-300}, State{"a": 50, "b": 12.5, "c": 37.5}},
		{"all zero others", State{"a": 100, "b": 0, "c": 0}, State{"a": 50, "b": 25, "c": 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyEdit(tt.state, keys, "a", 50)
			require.NoError(t, err)
			requireWellFormed(t, out, keys)
			for _, k := range keys {
				assert.InDelta(t, tt.want[k], out[k], 1e-9, "key %s", k)
			}
		})
	}
}

func TestRebalance_BoundaryBudgets(t *testing.T) {
	keys := []string{"a", "b", "c"}

	t.Run("locked keys use the whole budget", func(t *testing.T) {
		out, err := Rebalance(State{"a": 60, "b": 40, "c": 30}, keys, map[string]bool{"a": true, "b": true})
		require.NoError(t, err)
		assert.Equal(t, 0.0, out["c"])
		requireWellFormed(t, out, keys)
	})

	t.Run("single denormal unlocked key takes the rest", func(t *testing.T) {
		out, err := Rebalance(State{"a": 5e-324, "b": 0, "c": 0}, keys, nil)
		require.NoError(t, err)
		assert.Equal(t, State{"a": 100, "b": 0, "c": 0}, out)
	})

	t.Run("values at the edges of the range", func(t *testing.T) {
		out, err := Rebalance(State{"a": 100, "b": 100, "c": 0}, keys, map[string]bool{"c": true})
		require.NoError(t, err)
		assert.Equal(t, State{"a": 50, "b": 50, "c": 0}, out)
	})
}

// TestRebalance_Invariants_ExtremeMagnitudes mixes exact bounds, denormals
// and ordinary values, with and without locks.
func TestRebalance_Invariants_ExtremeMagnitudes(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	pool := []float64{0, 100, 5e-324, 1e-320, 1e-300, 1e-12, 1e-6, 0.01, 99.99}

	for trial := 0; trial < 300; trial++ {
		keys := keysN(rng.Intn(12) + 2)
		state := make(State, len(keys))
		protected := make(map[string]bool)
		var protectedSum float64
		for _, k := range keys {
			if rng.Intn(4) == 0 {
				state[k] = rng.Float64() * 100
			} else {
				state[k] = pool[rng.Intn(len(pool))]
			}
			if rng.Intn(4) == 0 {
				protected[k] = true
				protectedSum += state[k]
			}
		}

		out, err := Rebalance(state, keys, protected)
		if protectedSum > Total || len(protected) == len(keys) {
			require.Error(t, err, "trial %d", trial)
			continue
		}
		require.NoError(t, err, "trial %d", trial)
		requireWellFormed(t, out, keys, "trial %d", trial)

		key := keys[rng.Intn(len(keys))]
		edited, err := ApplyEdit(state, keys, key, pool[rng.Intn(len(pool))])
		require.NoError(t, err, "trial %d", trial)
		requireWellFormed(t, edited, keys, "trial %d edit %s", trial, key)
	}
}

func TestClamp_NaN(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 100.0, Clamp(math.Inf(1)))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1)))
}
