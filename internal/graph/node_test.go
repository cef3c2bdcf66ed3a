package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

func TestIfRuleEvaluate(t *testing.T) {
	rows := []query.Row{{"id": 1}}

	assert.True(t, NewIfNonEmpty().Rule.Evaluate(rows))
	assert.False(t, NewIfNonEmpty().Rule.Evaluate(nil))
	assert.True(t, NewIfEmpty().Rule.Evaluate(nil))
	assert.False(t, NewIfEmpty().Rule.Evaluate(rows))

	custom := IfRule{Mode: RuleFunc, Func: func(rows []query.Row) bool { return len(rows) > 1 }}
	assert.False(t, custom.Evaluate(rows))
	assert.True(t, custom.Evaluate([]query.Row{{}, {}}))
}

func TestDiffNode(t *testing.T) {
	d := &DiffNode{
		Left:  []query.Row{{"id": 1, "x": "a"}, {"id": 2, "x": "b"}, {"id": 3, "x": "c"}},
		Right: []query.Row{{"id": 2}, {"id": 4}},
	}

	out := d.Diff(selection.New("id"))
	assert.Equal(t, []query.Row{{"id": 1, "x": "a"}, {"id": 3, "x": "c"}}, out)
}

func TestDiffNodeEmptySides(t *testing.T) {
	d := &DiffNode{Right: []query.Row{{"id": 1}}}
	assert.Empty(t, d.Diff(selection.New("id")))

	d = &DiffNode{Left: []query.Row{{"id": 1}}}
	assert.Equal(t, []query.Row{{"id": 1}}, d.Diff(selection.New("id")))
}

func TestIsControlNode(t *testing.T) {
	assert.True(t, IsControlNode(NewIfNonEmpty()))
	assert.True(t, IsControlNode(&ReturnNode{}))
	assert.False(t, IsControlNode(newOp(query.KindCreateOne)))
	assert.False(t, IsControlNode(&DiffNode{}))
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"operation", newOp(query.KindCreateOne), "Operation CreateOne User"},
		{"if", NewIfNonEmpty(), "If non-empty"},
		{"return", &ReturnNode{}, "Return"},
		{"fixed return", &ReturnNode{Fixed: true, Result: []query.Row{{}}}, "Return fixed(1 rows)"},
		{"diff", &DiffNode{}, "Diff"},
		{"empty", nil, "(empty)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NodeLabel(tt.node))
		})
	}
}
