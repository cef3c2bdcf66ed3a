package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectationRules(t *testing.T) {
	tests := []struct {
		name     string
		exp      *Expectation
		rows     int
		violated bool
	}{
		{"exactly one met", ExpectExactly(1, RecordNotFound{Model: "User"}), 1, false},
		{"exactly one zero rows", ExpectExactly(1, RecordNotFound{Model: "User"}), 0, true},
		{"exactly one too many", ExpectExactly(1, RecordNotFound{Model: "User"}), 2, true},
		{"empty met", ExpectEmpty(RelationViolation{Relation: "posts"}), 0, false},
		{"empty violated", ExpectEmpty(RelationViolation{Relation: "posts"}), 3, true},
		{"non-empty met", ExpectNonEmpty(RecordNotFound{Model: "Post"}), 2, false},
		{"non-empty violated", ExpectNonEmpty(RecordNotFound{Model: "Post"}), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exp.Check(tt.rows)
			if tt.violated {
				require.Error(t, err)
				assert.True(t, IsExpectationViolation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecordNotFoundError(t *testing.T) {
	e := RecordNotFound{Model: "User", Relation: "author"}

	assert.Equal(t, "RECORD_NOT_FOUND", e.ID())
	assert.Equal(t, map[string]string{"model": "User", "relation": "author"}, e.Context())

	err := e.RuntimeError(0)
	var violation *ExpectationViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "RECORD_NOT_FOUND", violation.Code)
	assert.Equal(t, 0, violation.Rows)
	assert.Contains(t, violation.Error(), "author")
}

func TestRecordsNotConnectedError(t *testing.T) {
	e := RecordsNotConnected{Parent: "User", Child: "Post", Relation: "posts"}

	err := e.RuntimeError(0)
	var violation *ExpectationViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "RECORDS_NOT_CONNECTED", violation.Code)
	assert.Equal(t, "Post", violation.Context["child"])
}

func TestIsExpectationViolationHandlesWrapping(t *testing.T) {
	inner := RecordNotFound{Model: "User"}.RuntimeError(0)
	wrapped := fmt.Errorf("evaluating edge: %w", inner)

	assert.True(t, IsExpectationViolation(wrapped))
	assert.False(t, IsExpectationViolation(fmt.Errorf("plain failure")))
}
