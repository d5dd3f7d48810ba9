package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdentity_Trims(t *testing.T) {
	name, team, err := NormalizeIdentity("  Ada  ", "\tPlatform\n")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, "Platform", team)
}

func TestNormalizeIdentity_Required(t *testing.T) {
	_, _, err := NormalizeIdentity("   ", "Platform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, _, err = NormalizeIdentity("Ada", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team is required")
}

func TestNormalizeIdentity_MaxLengthCountsCharacters(t *testing.T) {
	// 255 multi-byte characters are accepted.
	_, _, err := NormalizeIdentity(strings.Repeat("é", MaxIdentityLen), "t")
	assert.NoError(t, err)

	_, _, err = NormalizeIdentity(strings.Repeat("a", MaxIdentityLen+1), "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum is 255")
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleServer, NormalizeRole(""))
	assert.Equal(t, RoleQA, NormalizeRole(" QA "))
	assert.Equal(t, Role("designer"), NormalizeRole("designer"))
}

func TestResponse_SumOfAndKeys(t *testing.T) {
	r := &Response{Allocation: map[string]float64{"b": 30, "a": 20, "c": 50}}
	assert.Equal(t, []string{"a", "b", "c"}, r.Keys())
	assert.Equal(t, 50.0, r.SumOf([]string{"a", "b", "missing"}))
}
