package planspec

import (
	"fmt"

	"github.com/roach88/plangraph/internal/graph"
	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

// Build constructs the plan graph a fixture describes. The returned map
// resolves fixture node IDs to graph handles so callers can address nodes
// after finalization.
//
// Build does not finalize; the caller decides the capabilities and the
// moment. Marks and result nodes are applied, so a plain Finalize call on
// the result yields the fixture's finished plan.
func (p *Plan) Build() (*graph.Graph, map[string]graph.NodeRef, error) {
	g := graph.New()

	models := make(map[string]query.Model, len(p.Models))
	for _, m := range p.Models {
		models[m.Name] = query.Model{
			Name:      m.Name,
			PrimaryID: query.NormalizeSelection(selection.New(m.PrimaryID...)),
		}
	}

	refs := make(map[string]graph.NodeRef, len(p.Nodes))
	for _, n := range p.Nodes {
		content, err := buildNode(&n, models)
		if err != nil {
			return nil, nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		refs[n.ID] = g.CreateNode(content)
	}

	for i, e := range p.Edges {
		dep, err := buildDependency(&e)
		if err != nil {
			return nil, nil, fmt.Errorf("edge %q -> %q: %w", e.From, e.To, err)
		}
		if _, err := g.CreateEdge(refs[e.From], refs[e.To], dep); err != nil {
			return nil, nil, fmt.Errorf("edges[%d] %q -> %q: %w", i, e.From, e.To, err)
		}
	}

	for _, m := range p.Marks {
		g.MarkNodes(refs[m.Parent], refs[m.Child])
	}

	for _, id := range p.Result {
		g.AddResultNode(refs[id])
	}

	if p.Transactional {
		g.FlagTransactional()
	}

	return g, refs, nil
}

// GraphCapabilities converts the fixture capability flags.
func (p *Plan) GraphCapabilities() query.Capabilities {
	return query.Capabilities{
		CreateReturning: p.Capabilities.CreateReturning,
		UpdateReturning: p.Capabilities.UpdateReturning,
		DeleteReturning: p.Capabilities.DeleteReturning,
	}
}

func buildNode(n *NodeSpec, models map[string]query.Model) (graph.Node, error) {
	switch {
	case n.Op != "":
		op, err := buildOperation(n, models[n.Model])
		if err != nil {
			return nil, err
		}
		return &graph.OperationNode{Op: op}, nil

	case n.If == "non_empty":
		return graph.NewIfNonEmpty(), nil
	case n.If == "empty":
		return graph.NewIfEmpty(), nil

	case n.Return != nil:
		return &graph.ReturnNode{
			Fixed:  n.Return.Fixed,
			Result: buildRows(n.Return.Rows),
		}, nil

	case n.Diff:
		return &graph.DiffNode{}, nil
	}
	return nil, fmt.Errorf("no node variant set")
}

func buildOperation(n *NodeSpec, model query.Model) (query.Operation, error) {
	kind, err := parseKind(n.Op)
	if err != nil {
		return nil, err
	}

	switch kind {
	case query.KindReadOne, query.KindReadMany:
		name := n.Query
		if name == "" {
			name = n.ID
		}
		selected := model.PrimaryID
		if len(n.Select) > 0 {
			selected = query.NormalizeSelection(selection.New(n.Select...))
		}
		if kind == query.KindReadOne {
			return query.NewReadOne(name, model, selected), nil
		}
		return query.NewReadMany(name, model, selected), nil

	default:
		if len(n.Select) > 0 {
			return nil, fmt.Errorf("select is only valid on reads; writes widen through capabilities")
		}
		return query.NewWriteQuery(kind, model, query.NormalizeRow(query.Row(n.Args))), nil
	}
}

func buildDependency(e *EdgeSpec) (graph.Dependency, error) {
	switch e.Dep {
	case DepOrder:
		return &graph.ExecutionOrder{}, nil
	case DepData:
		return &graph.DataDependency{}, nil
	case DepThen:
		return &graph.Then{}, nil
	case DepElse:
		return &graph.Else{}, nil

	case DepProjectedData:
		dep := &graph.ProjectedDataDependency{
			Selection: query.NormalizeSelection(selection.New(e.Select...)),
		}
		if e.Expect != nil {
			exp, err := buildExpectation(e.Expect)
			if err != nil {
				return nil, err
			}
			dep.Expectation = exp
		}
		return dep, nil

	case DepProjectedDataSink:
		dep := &graph.ProjectedDataSinkDependency{
			Selection: query.NormalizeSelection(selection.New(e.Select...)),
			Sink:      graph.RowSink{Shape: sinkShape(e.Sink)},
		}
		if e.Expect != nil {
			exp, err := buildExpectation(e.Expect)
			if err != nil {
				return nil, err
			}
			dep.Expectation = exp
		}
		return dep, nil
	}
	return nil, fmt.Errorf("unknown dependency kind %q", e.Dep)
}

func buildExpectation(x *ExpectSpec) (*graph.Expectation, error) {
	var shape graph.ExpectationError
	switch x.Error {
	case "record_not_found":
		shape = graph.RecordNotFound{Model: x.Model, Relation: x.Relation}
	case "records_not_connected":
		shape = graph.RecordsNotConnected{Parent: x.Parent, Child: x.Child, Relation: x.Relation}
	case "relation_violation":
		shape = graph.RelationViolation{Relation: x.Relation, Detail: x.Detail}
	default:
		return nil, fmt.Errorf("unknown error shape %q", x.Error)
	}

	switch x.Rule {
	case "exactly":
		return graph.ExpectExactly(x.Count, shape), nil
	case "empty":
		return graph.ExpectEmpty(shape), nil
	case "non_empty":
		return graph.ExpectNonEmpty(shape), nil
	}
	return nil, fmt.Errorf("unknown rule %q", x.Rule)
}

func sinkShape(s string) graph.SinkShape {
	switch s {
	case "one":
		return graph.SinkSingleRow
	case "one-as-list":
		return graph.SinkSingleRowAsList
	default:
		return graph.SinkAllRows
	}
}

func buildRows(rows []map[string]any) []query.Row {
	if len(rows) == 0 {
		return nil
	}
	out := make([]query.Row, len(rows))
	for i, r := range rows {
		out[i] = query.NormalizeRow(query.Row(r))
	}
	return out
}

func parseKind(s string) (query.Kind, error) {
	switch s {
	case "ReadOne":
		return query.KindReadOne, nil
	case "ReadMany":
		return query.KindReadMany, nil
	case "CreateOne":
		return query.KindCreateOne, nil
	case "UpdateOne":
		return query.KindUpdateOne, nil
	case "UpdateMany":
		return query.KindUpdateMany, nil
	case "DeleteOne":
		return query.KindDeleteOne, nil
	case "DeleteMany":
		return query.KindDeleteMany, nil
	}
	return 0, fmt.Errorf("unknown operation kind %q", s)
}
