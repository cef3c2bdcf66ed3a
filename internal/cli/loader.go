package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/plangraph/internal/planspec"
)

// LoadError represents an error that occurred during plan loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeBadExt       = "E003" // Unsupported file extension
	ErrCodeParseFailed  = "E004" // YAML/CUE parse failed
	ErrCodeInvalidPlan  = "E005" // Plan failed structural validation
	ErrCodeBuildFailed  = "E006" // Graph construction failed
	ErrCodeCycle        = "E007" // Graph failed validation (dangling edge, cycle)
	ErrCodeWriteFailed  = "E008" // File write error
	ErrCodeRenderFailed = "E009" // Graphviz rendering failed
)

// LoadPlan reads and parses a plan file. The format is picked by extension:
// .yaml/.yml files decode directly, .cue files are evaluated first so plans
// can use CUE expressions and defaults.
func LoadPlan(path string) (*planspec.Plan, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan file not found: %s", path)}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return loadYAMLPlan(path)
	case ".cue":
		return loadCUEPlan(path)
	default:
		return nil, &LoadError{Code: ErrCodeBadExt, Message: fmt.Sprintf("unsupported plan file extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))}
	}
}

func loadYAMLPlan(path string) (*planspec.Plan, error) {
	plan, err := planspec.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	return plan, nil
}

// loadCUEPlan evaluates a single CUE file and decodes the result into a
// plan. Evaluation errors keep their file positions so typos point at the
// offending line.
func loadCUEPlan(path string) (*planspec.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading plan file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, err)
	}

	var plan planspec.Plan
	if err := value.Decode(&plan); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidPlan, Message: err.Error()}
	}

	return &plan, nil
}

// cueLoadError converts a CUE evaluation error to a LoadError, keeping the
// first source position if one is available.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: cueerrors.Details(err, nil)}
	if positions := cueerrors.Positions(cueerrors.Promote(err, "")); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
