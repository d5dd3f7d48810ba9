package allocation

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysN(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%02d", i)
	}
	return keys
}

func TestNew_EqualSplit(t *testing.T) {
	e, err := New([]string{"a", "b", "c", "d"}, Proportional)
	require.NoError(t, err)

	for _, k := range e.Keys() {
		assert.InDelta(t, 25.0, e.Value(k), 1e-12)
	}
	assert.True(t, e.Complete())
}

func TestNew_RejectsEmptyAndDuplicateKeys(t *testing.T) {
	_, err := New(nil, Proportional)
	assert.ErrorIs(t, err, ErrNoKeys)

	_, err = New([]string{"a", "b", "a"}, Proportional)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestNew_RejectsUnknownStrategy(t *testing.T) {
	_, err := New([]string{"a"}, Strategy("greedy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greedy")
}

func TestNew_WithPreset(t *testing.T) {
	e, err := New([]string{"a", "b", "c", "d"}, Proportional,
		WithPreset(map[string]float64{"a": 40, "b": 20, "zzz": 99}))
	require.NoError(t, err)

	assert.Equal(t, 40.0, e.Value("a"))
	assert.Equal(t, 20.0, e.Value("b"))
	assert.InDelta(t, 20.0, e.Value("c"), 1e-12)
	assert.InDelta(t, 20.0, e.Value("d"), 1e-12)
	assert.True(t, e.Complete())
}

func TestPreset_OverBudgetLeavesRestAtZero(t *testing.T) {
	s := Preset([]string{"a", "b", "c", "d"}, map[string]float64{"a": 80, "b": 50})
	assert.Equal(t, 80.0, s["a"])
	assert.Equal(t, 50.0, s["b"])
	assert.Equal(t, 0.0, s["c"])
	assert.Equal(t, 0.0, s["d"])
}

func TestPreset_ClampsValues(t *testing.T) {
	s := Preset([]string{"a", "b"}, map[string]float64{"a": 130})
	assert.Equal(t, 100.0, s["a"])
	assert.Equal(t, 0.0, s["b"])
}

func TestEdit_Proportional_DegenerateEvenSplit(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	state := State{"a": 0, "b": 0, "c": 0, "d": 0}

	next, err := ApplyEdit(state, keys, "a", 40)
	require.NoError(t, err)

	assert.Equal(t, 40.0, next["a"])
	for _, k := range []string{"b", "c", "d"} {
		assert.InDelta(t, 20.0, next[k], 1e-12, "key %s", k)
	}
	// Input is never mutated.
	assert.Equal(t, 0.0, state["a"])
}

func TestEdit_Proportional_TwentyOneKeysScenario(t *testing.T) {
	keys := keysN(21)
	e, err := New(keys, Proportional)
	require.NoError(t, err)

	before := e.State()
	require.NoError(t, e.Edit("k00", 50))

	remaining := 50.0
	otherSum := 100.0 * 20 / 21
	ratio := remaining / otherSum

	assert.Equal(t, 50.0, e.Value("k00"))
	for _, k := range keys[1:] {
		assert.InDelta(t, before[k]*ratio, e.Value(k), 1e-9, "key %s", k)
	}
	assert.InDelta(t, 100.0, e.State().Sum(keys), 0.01)
	assert.True(t, e.Complete())
}

func TestEdit_Proportional_PreservesRatios(t *testing.T) {
	keys := []string{"a", "b", "c"}
	state := State{"a": 50, "b": 30, "c": 20}

	next, err := ApplyEdit(state, keys, "a", 10)
	require.NoError(t, err)

	assert.InDelta(t, 30.0/20.0, next["b"]/next["c"], 1e-12)
	assert.InDelta(t, 54.0, next["b"], 1e-9)
	assert.InDelta(t, 36.0, next["c"], 1e-9)
}

func TestEdit_Proportional_ClampsOutOfRange(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, Proportional)
	require.NoError(t, err)

	require.NoError(t, e.Edit("a", 150))
	assert.Equal(t, 100.0, e.Value("a"))
	assert.Equal(t, 0.0, e.Value("b"))
	assert.Equal(t, 0.0, e.Value("c"))

	require.NoError(t, e.Edit("a", -20))
	assert.Equal(t, 0.0, e.Value("a"))
	// b and c were both zero, so the budget is split evenly.
	assert.InDelta(t, 50.0, e.Value("b"), 1e-12)
	assert.InDelta(t, 50.0, e.Value("c"), 1e-12)
}

func TestEdit_Proportional_SingleKeyDiscardsRemainder(t *testing.T) {
	e, err := New([]string{"only"}, Proportional)
	require.NoError(t, err)
	assert.Equal(t, 100.0, e.Value("only"))

	require.NoError(t, e.Edit("only", 40))
	assert.Equal(t, 40.0, e.Value("only"))
	assert.False(t, e.Complete())
	assert.True(t, e.Balance().Short())
}

func TestEdit_UnknownKeyAndNaN(t *testing.T) {
	e, err := New([]string{"a", "b"}, Proportional)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Edit("zzz", 10), ErrUnknownKey)
	assert.ErrorIs(t, e.Edit("a", math.NaN()), ErrInvalidValue)
	assert.Equal(t, 50.0, e.Value("a"))
}

func TestEdit_LockAware_NoSideEffects(t *testing.T) {
	e, err := New([]string{"a", "b", "c", "d"}, LockAware)
	require.NoError(t, err)

	require.NoError(t, e.Edit("a", 70))
	assert.Equal(t, 70.0, e.Value("a"))
	assert.Equal(t, 25.0, e.Value("b"))
	assert.Equal(t, 25.0, e.Value("c"))
	assert.Equal(t, 25.0, e.Value("d"))
	assert.InDelta(t, 145.0, e.Balance().Total, 1e-12)
	assert.True(t, e.Balance().Over())
	assert.False(t, e.Complete())
}

func TestToggleLock(t *testing.T) {
	e, err := New([]string{"a", "b"}, LockAware)
	require.NoError(t, err)

	locked, err := e.ToggleLock("a")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.True(t, e.Locked("a"))
	assert.Equal(t, []string{"a"}, e.Locks())

	locked, err = e.ToggleLock("a")
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Empty(t, e.Locks())

	_, err = e.ToggleLock("zzz")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestToggleLock_ProportionalUnsupported(t *testing.T) {
	e, err := New([]string{"a", "b"}, Proportional)
	require.NoError(t, err)

	_, err = e.ToggleLock("a")
	assert.ErrorIs(t, err, ErrLocksUnsupported)
}

func TestAutoAdjust_LeavesLockedKeysUntouched(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, LockAware)
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 30))
	require.NoError(t, e.Edit("b", 10))
	require.NoError(t, e.Edit("c", 20))
	_, err = e.ToggleLock("a")
	require.NoError(t, err)

	require.NoError(t, e.AutoAdjust())

	assert.Equal(t, 30.0, e.Value("a"))
	assert.InDelta(t, 70.0*10/30, e.Value("b"), 1e-9)
	assert.InDelta(t, 70.0*20/30, e.Value("c"), 1e-9)
	assert.True(t, e.Complete())
}

func TestAutoAdjust_ZeroUnlockedSumSplitsEvenly(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, LockAware)
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 40))
	require.NoError(t, e.Edit("b", 0))
	require.NoError(t, e.Edit("c", 0))
	_, err = e.ToggleLock("a")
	require.NoError(t, err)

	require.NoError(t, e.AutoAdjust())
	assert.InDelta(t, 30.0, e.Value("b"), 1e-12)
	assert.InDelta(t, 30.0, e.Value("c"), 1e-12)
}

func TestAutoAdjust_FailsClosedOverLockedBudget(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, LockAware)
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 60))
	require.NoError(t, e.Edit("b", 45))
	_, err = e.ToggleLock("a")
	require.NoError(t, err)
	_, err = e.ToggleLock("b")
	require.NoError(t, err)

	before := e.State()
	err = e.AutoAdjust()
	require.ErrorIs(t, err, ErrOverLockedBudget)
	assert.Contains(t, err.Error(), "105.0%")
	assert.Equal(t, before, e.State())
}

func TestAutoAdjust_AllLocked(t *testing.T) {
	e, err := New([]string{"a", "b"}, LockAware)
	require.NoError(t, err)
	_, _ = e.ToggleLock("a")
	_, _ = e.ToggleLock("b")

	before := e.State()
	assert.ErrorIs(t, e.AutoAdjust(), ErrNoAdjustableFields)
	assert.Equal(t, before, e.State())
}

func TestAutoAdjust_Idempotent(t *testing.T) {
	e, err := New(keysN(7), LockAware)
	require.NoError(t, err)
	require.NoError(t, e.Edit("k01", 33.3))
	require.NoError(t, e.Edit("k04", 2.5))
	require.NoError(t, e.Edit("k06", 80))
	_, err = e.ToggleLock("k04")
	require.NoError(t, err)

	require.NoError(t, e.AutoAdjust())
	first := e.State()
	require.NoError(t, e.AutoAdjust())
	second := e.State()

	for k, v := range first {
		assert.InDelta(t, v, second[k], 1e-9, "key %s", k)
	}
	assert.True(t, e.Complete())
}

func TestAutoAdjust_ProportionalEngineRenormalizes(t *testing.T) {
	e, err := New([]string{"a", "b"}, Proportional)
	require.NoError(t, err)
	require.NoError(t, e.AutoAdjust())
	assert.InDelta(t, 50.0, e.Value("a"), 1e-12)
}

func TestReset_RestoresInitialAndClearsLocks(t *testing.T) {
	e, err := New([]string{"a", "b"}, LockAware, WithPreset(map[string]float64{"a": 70}))
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 10))
	_, _ = e.ToggleLock("b")

	e.Reset()
	assert.Equal(t, 70.0, e.Value("a"))
	assert.InDelta(t, 30.0, e.Value("b"), 1e-12)
	assert.False(t, e.Locked("b"))
}

func TestState_ReturnsCopy(t *testing.T) {
	e, err := New([]string{"a", "b"}, Proportional)
	require.NoError(t, err)

	s := e.State()
	s["a"] = 99
	assert.Equal(t, 50.0, e.Value("a"))
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{
		"":             Proportional,
		"proportional": Proportional,
		"LOCK_AWARE":   LockAware,
		"lock":         LockAware,
		" locks ":      LockAware,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseStrategy("random")
	assert.Error(t, err)
}

func TestAutoAdjust_DenormalValue(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, LockAware)
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 5e-324))
	require.NoError(t, e.Edit("b", 0))
	require.NoError(t, e.Edit("c", 0))

	require.NoError(t, e.AutoAdjust())

	assert.Equal(t, State{"a": 100, "b": 0, "c": 0}, e.State())
	assert.True(t, e.Complete())
}

func TestEdit_Proportional_DenormalNeighbour(t *testing.T) {
	e, err := New([]string{"a", "b", "c"}, Proportional)
	require.NoError(t, err)
	require.NoError(t, e.Edit("a", 100))
	require.NoError(t, e.Edit("b", 5e-324))

	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, math.IsNaN(e.Value(k)), "key %s", k)
	}
	assert.InDelta(t, 100.0, e.Balance().Total, 1e-6)
}
