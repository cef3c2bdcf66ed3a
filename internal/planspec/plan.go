package planspec

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan defines a declarative plan fixture.
// Fixtures describe the graph a query builder would have produced: the node
// and edge set before finalization, plus the marks and capabilities the
// finalizer consumes.
type Plan struct {
	// Name uniquely identifies this plan. Golden files are keyed by it.
	Name string `yaml:"name" json:"name"`

	// Description explains what this plan exercises.
	Description string `yaml:"description" json:"description"`

	// Models declares the data models operations refer to.
	Models []ModelSpec `yaml:"models" json:"models"`

	// Capabilities selects which write kinds the target engine can widen.
	Capabilities CapabilitySpec `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`

	// Nodes lists the plan nodes. Exactly one of the variant fields must be
	// set per node.
	Nodes []NodeSpec `yaml:"nodes" json:"nodes"`

	// Edges lists the dependencies between nodes, in declaration order.
	Edges []EdgeSpec `yaml:"edges,omitempty" json:"edges,omitempty"`

	// Marks lists parent/child pairs whose direction the finalizer flips.
	Marks []MarkSpec `yaml:"marks,omitempty" json:"marks,omitempty"`

	// Result names the nodes whose output forms the plan result.
	Result []string `yaml:"result,omitempty" json:"result,omitempty"`

	// Transactional forces the whole plan into a single transaction.
	Transactional bool `yaml:"transactional,omitempty" json:"transactional,omitempty"`
}

// ModelSpec declares a data model.
type ModelSpec struct {
	// Name is the model name referenced by node specs.
	Name string `yaml:"name" json:"name"`

	// PrimaryID lists the fields forming the primary identifier.
	PrimaryID []string `yaml:"primary_id" json:"primary_id"`
}

// CapabilitySpec mirrors the engine capability flags.
type CapabilitySpec struct {
	CreateReturning bool `yaml:"create_returning,omitempty" json:"create_returning,omitempty"`
	UpdateReturning bool `yaml:"update_returning,omitempty" json:"update_returning,omitempty"`
	DeleteReturning bool `yaml:"delete_returning,omitempty" json:"delete_returning,omitempty"`
}

// NodeSpec declares one plan node. The variant is picked by which field is
// set: Op for operation nodes, If for flow nodes, Return for result
// overrides, Diff for set differences.
type NodeSpec struct {
	// ID is the fixture-local node name referenced by edges, marks and the
	// result list.
	ID string `yaml:"id" json:"id"`

	// Op is the operation kind (ReadOne, ReadMany, CreateOne, UpdateOne,
	// UpdateMany, DeleteOne, DeleteMany).
	Op string `yaml:"op,omitempty" json:"op,omitempty"`

	// Model names the model an operation node acts on.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Query names a read query. Defaults to the node ID.
	Query string `yaml:"query,omitempty" json:"query,omitempty"`

	// Select lists the fields a read returns. Writes always start from the
	// model's primary identifier.
	Select []string `yaml:"select,omitempty" json:"select,omitempty"`

	// Args holds the column values of a write.
	Args map[string]any `yaml:"args,omitempty" json:"args,omitempty"`

	// If declares a flow node branching on its snapshot: "non_empty" or
	// "empty".
	If string `yaml:"if,omitempty" json:"if,omitempty"`

	// Return declares a result-override node.
	Return *ReturnSpec `yaml:"return,omitempty" json:"return,omitempty"`

	// Diff declares a set-difference computation node.
	Diff bool `yaml:"diff,omitempty" json:"diff,omitempty"`
}

// ReturnSpec declares a return node.
type ReturnSpec struct {
	// Fixed makes the rows override whatever the traversal result would be.
	Fixed bool `yaml:"fixed,omitempty" json:"fixed,omitempty"`

	// Rows is the fixed result payload.
	Rows []map[string]any `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// EdgeSpec declares one dependency between two nodes.
type EdgeSpec struct {
	// From and To reference node IDs.
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`

	// Dep is the dependency kind: "order", "data", "projected_data",
	// "projected_data_sink", "then" or "else".
	Dep string `yaml:"dep" json:"dep"`

	// Select lists the projected fields for the projected kinds.
	Select []string `yaml:"select,omitempty" json:"select,omitempty"`

	// Sink picks the row shape a sink dependency delivers: "all", "one" or
	// "one-as-list". Only valid for projected_data_sink.
	Sink string `yaml:"sink,omitempty" json:"sink,omitempty"`

	// Expect attaches a row-count expectation to a projected kind.
	Expect *ExpectSpec `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// ExpectSpec declares a row-count expectation on a projected dependency.
type ExpectSpec struct {
	// Rule is "exactly", "empty" or "non_empty".
	Rule string `yaml:"rule" json:"rule"`

	// Count is the required row count for the "exactly" rule.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Error picks the violation shape: "record_not_found",
	// "records_not_connected" or "relation_violation".
	Error string `yaml:"error" json:"error"`

	// Context fields for the violation shapes. Which apply depends on Error.
	Model    string `yaml:"model,omitempty" json:"model,omitempty"`
	Relation string `yaml:"relation,omitempty" json:"relation,omitempty"`
	Parent   string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Child    string `yaml:"child,omitempty" json:"child,omitempty"`
	Detail   string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// MarkSpec declares one parent/child pair for order inversion.
type MarkSpec struct {
	Parent string `yaml:"parent" json:"parent"`
	Child  string `yaml:"child" json:"child"`
}

// Dependency kind constants.
const (
	DepOrder             = "order"
	DepData              = "data"
	DepProjectedData     = "projected_data"
	DepProjectedDataSink = "projected_data_sink"
	DepThen              = "then"
	DepElse              = "else"
)

// Load reads and parses a plan fixture file.
// Returns an error if the file does not exist, is malformed, contains
// unknown fields, or fails structural validation.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data)
}

// Parse parses a plan fixture from raw YAML bytes.
func Parse(data []byte) (*Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	return &plan, nil
}

// Validate checks that required fields are present and all node references
// resolve. Decoders that bypass Parse (the CUE loader) call it directly.
func (p *Plan) Validate() error {
	return validatePlan(p)
}

// validatePlan checks that required fields are present and references
// resolve. It validates structure only; graph-level constraints (branch
// edges leaving flow nodes) are enforced by the builder.
func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(p.Nodes) == 0 {
		return fmt.Errorf("nodes list is required and must be non-empty")
	}

	models := make(map[string]bool, len(p.Models))
	for i, m := range p.Models {
		if m.Name == "" {
			return fmt.Errorf("models[%d]: name is required", i)
		}
		if models[m.Name] {
			return fmt.Errorf("models[%d]: duplicate model %q", i, m.Name)
		}
		if len(m.PrimaryID) == 0 {
			return fmt.Errorf("models[%d]: primary_id is required", i)
		}
		models[m.Name] = true
	}

	nodes := make(map[string]bool, len(p.Nodes))
	for i, n := range p.Nodes {
		if err := validateNode(i, &n, models); err != nil {
			return err
		}
		if nodes[n.ID] {
			return fmt.Errorf("nodes[%d]: duplicate node id %q", i, n.ID)
		}
		nodes[n.ID] = true
	}

	for i, e := range p.Edges {
		if err := validateEdge(i, &e, nodes); err != nil {
			return err
		}
	}

	for i, m := range p.Marks {
		if !nodes[m.Parent] {
			return fmt.Errorf("marks[%d]: unknown parent node %q", i, m.Parent)
		}
		if !nodes[m.Child] {
			return fmt.Errorf("marks[%d]: unknown child node %q", i, m.Child)
		}
	}

	for i, id := range p.Result {
		if !nodes[id] {
			return fmt.Errorf("result[%d]: unknown node %q", i, id)
		}
	}

	return nil
}

func validateNode(index int, n *NodeSpec, models map[string]bool) error {
	if n.ID == "" {
		return fmt.Errorf("nodes[%d]: id is required", index)
	}

	variants := 0
	if n.Op != "" {
		variants++
	}
	if n.If != "" {
		variants++
	}
	if n.Return != nil {
		variants++
	}
	if n.Diff {
		variants++
	}
	if variants != 1 {
		return fmt.Errorf("nodes[%d] %q: exactly one of op, if, return, diff must be set", index, n.ID)
	}

	switch {
	case n.Op != "":
		if _, err := parseKind(n.Op); err != nil {
			return fmt.Errorf("nodes[%d] %q: %w", index, n.ID, err)
		}
		if n.Model == "" {
			return fmt.Errorf("nodes[%d] %q: model is required for operation nodes", index, n.ID)
		}
		if !models[n.Model] {
			return fmt.Errorf("nodes[%d] %q: unknown model %q", index, n.ID, n.Model)
		}
	case n.If != "":
		if n.If != "non_empty" && n.If != "empty" {
			return fmt.Errorf("nodes[%d] %q: if must be %q or %q, got %q", index, n.ID, "non_empty", "empty", n.If)
		}
	}

	return nil
}

func validateEdge(index int, e *EdgeSpec, nodes map[string]bool) error {
	if !nodes[e.From] {
		return fmt.Errorf("edges[%d]: unknown source node %q", index, e.From)
	}
	if !nodes[e.To] {
		return fmt.Errorf("edges[%d]: unknown target node %q", index, e.To)
	}

	switch e.Dep {
	case DepOrder, DepData, DepThen, DepElse:
		if len(e.Select) > 0 {
			return fmt.Errorf("edges[%d]: select is only valid for projected kinds", index)
		}
		if e.Expect != nil {
			return fmt.Errorf("edges[%d]: expect is only valid for projected kinds", index)
		}
	case DepProjectedData, DepProjectedDataSink:
		if len(e.Select) == 0 {
			return fmt.Errorf("edges[%d]: select is required for %s", index, e.Dep)
		}
		if e.Dep == DepProjectedDataSink {
			switch e.Sink {
			case "all", "one", "one-as-list":
			default:
				return fmt.Errorf("edges[%d]: sink must be %q, %q or %q, got %q", index, "all", "one", "one-as-list", e.Sink)
			}
		} else if e.Sink != "" {
			return fmt.Errorf("edges[%d]: sink is only valid for %s", index, DepProjectedDataSink)
		}
		if e.Expect != nil {
			if err := validateExpect(index, e.Expect); err != nil {
				return err
			}
		}
	case "":
		return fmt.Errorf("edges[%d]: dep is required", index)
	default:
		return fmt.Errorf("edges[%d]: unknown dependency kind %q", index, e.Dep)
	}

	return nil
}

func validateExpect(index int, x *ExpectSpec) error {
	switch x.Rule {
	case "exactly":
		if x.Count < 0 {
			return fmt.Errorf("edges[%d].expect: count must be non-negative", index)
		}
	case "empty", "non_empty":
		if x.Count != 0 {
			return fmt.Errorf("edges[%d].expect: count is only valid for the exactly rule", index)
		}
	case "":
		return fmt.Errorf("edges[%d].expect: rule is required", index)
	default:
		return fmt.Errorf("edges[%d].expect: unknown rule %q", index, x.Rule)
	}

	switch x.Error {
	case "record_not_found", "records_not_connected", "relation_violation":
	case "":
		return fmt.Errorf("edges[%d].expect: error is required", index)
	default:
		return fmt.Errorf("edges[%d].expect: unknown error shape %q", index, x.Error)
	}

	return nil
}
