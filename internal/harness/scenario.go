// Package harness runs conformance scenarios for the pipeline engine.
//
// A scenario is a YAML file describing an IR module, a pipeline, and
// expectations: the error code the run should fail with (if any) and the
// exact pass execution trace. Scenarios validate:
//   - pipeline text parsing and canonical printing
//   - execution order over nested pipelines
//   - verifier and failure propagation
//
// Golden-file comparison of canonical pipelines and final IR dumps lives in
// golden.go and is only available under go test.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/passline/internal/ir"
)

// Scenario defines one conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Kinds registers operation kinds and their allowed nestings. When
	// empty, kinds are adopted from the module tree instead.
	Kinds []KindSpec `yaml:"kinds,omitempty"`

	// Module is the IR tree the pipeline runs over.
	Module OpSpec `yaml:"module"`

	// Anchor is the manager's root anchor kind. Empty means "any".
	Anchor string `yaml:"anchor,omitempty"`

	// Pipeline is the textual pipeline fed to Add.
	Pipeline string `yaml:"pipeline"`

	// Verify enables the structural verifier after every pass.
	Verify bool `yaml:"verify,omitempty"`

	// Expect holds the assertions evaluated after the run.
	Expect Expectation `yaml:"expect"`
}

// KindSpec registers one operation kind with its allowed nested kinds.
type KindSpec struct {
	Kind   string   `yaml:"kind"`
	Nested []string `yaml:"nested,omitempty"`
}

// OpSpec is the YAML form of an IR operation tree.
type OpSpec struct {
	Kind  string            `yaml:"kind"`
	Name  string            `yaml:"name,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
	Ops   []OpSpec          `yaml:"ops,omitempty"`
}

// Expectation describes the required outcome of a scenario run.
type Expectation struct {
	// ErrorCode is the pipeline error code the run must fail with.
	// Empty means the run must succeed.
	ErrorCode string `yaml:"error_code,omitempty"`

	// Trace is the exact "pass@kind" execution sequence (successful pass
	// runs only). Nil skips the assertion; an empty list asserts that no
	// pass ran.
	Trace []string `yaml:"trace,omitempty"`

	// Printed is the canonical pipeline text the manager must print.
	// Empty skips the assertion.
	Printed string `yaml:"printed,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if sc.Module.Kind == "" {
		return nil, fmt.Errorf("scenario %s: module.kind is required", path)
	}
	if sc.Pipeline == "" {
		return nil, fmt.Errorf("scenario %s: pipeline is required", path)
	}
	return &sc, nil
}

// BuildModule converts the YAML op tree into an ir.Module.
func (sc *Scenario) BuildModule() *ir.Module {
	return ir.NewModule(buildOp(sc.Module))
}

func buildOp(spec OpSpec) *ir.Op {
	op := &ir.Op{Kind: spec.Kind, Name: spec.Name}
	if len(spec.Attrs) > 0 {
		op.Attrs = make(map[string]string, len(spec.Attrs))
		for k, v := range spec.Attrs {
			op.Attrs[k] = v
		}
	}
	for _, child := range spec.Ops {
		op.Children = append(op.Children, buildOp(child))
	}
	return op
}

// BuildContext returns the ir.Context for the scenario: explicit kinds when
// given, otherwise kinds adopted from the module tree.
func (sc *Scenario) BuildContext() *ir.Context {
	ctx := ir.NewContext()
	if len(sc.Kinds) == 0 {
		mod := sc.BuildModule()
		ctx.Adopt(mod.Root)
		return ctx
	}
	for _, k := range sc.Kinds {
		ctx.RegisterKind(k.Kind, k.Nested...)
	}
	return ctx
}
