package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDedupesPreservingOrder(t *testing.T) {
	s := New("id", "name", "id", "email", "name")
	assert.Equal(t, []string{"id", "name", "email"}, s.Fields())
	assert.Equal(t, 3, s.Len())
}

func TestZeroValueIsEmpty(t *testing.T) {
	var s Selection
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Contains("id"))
	assert.Equal(t, "()", s.String())
}

func TestContainsAll(t *testing.T) {
	tests := []struct {
		name     string
		have     Selection
		need     Selection
		expected bool
	}{
		{"superset", New("id", "name", "email"), New("id", "email"), true},
		{"equal", New("id", "name"), New("name", "id"), true},
		{"missing field", New("id"), New("id", "name"), false},
		{"empty need", New("id"), New(), true},
		{"empty have", New(), New("id"), false},
		{"both empty", New(), New(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.have.ContainsAll(tt.need))
		})
	}
}

func TestUnionKeepsFirstSeenOrder(t *testing.T) {
	a := New("id", "name")
	b := New("name", "email", "id", "age")

	u := a.Union(b)
	assert.Equal(t, []string{"id", "name", "email", "age"}, u.Fields())

	// Inputs stay untouched.
	assert.Equal(t, []string{"id", "name"}, a.Fields())
	assert.Equal(t, []string{"name", "email", "id", "age"}, b.Fields())
}

func TestMissing(t *testing.T) {
	have := New("id", "name")
	need := New("name", "email", "age")

	missing := have.Missing(need)
	assert.Equal(t, []string{"email", "age"}, missing.Fields())

	assert.True(t, have.Missing(New("id")).IsEmpty())
}

func TestEqualIgnoresOrder(t *testing.T) {
	assert.True(t, New("a", "b").Equal(New("b", "a")))
	assert.False(t, New("a", "b").Equal(New("a")))
	assert.False(t, New("a").Equal(New("b")))
}

func TestVariadicUnion(t *testing.T) {
	u := Union(New("a"), New("b", "a"), New("c"))
	assert.Equal(t, []string{"a", "b", "c"}, u.Fields())
}

func TestFieldsReturnsCopy(t *testing.T) {
	s := New("id", "name")
	fields := s.Fields()
	fields[0] = "mutated"

	require.Equal(t, []string{"id", "name"}, s.Fields())
}
