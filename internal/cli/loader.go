package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/passline/internal/ir"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeCompile     = "E003" // CUE compile failed
	ErrCodeDecode      = "E004" // Module decode failed
	ErrCodeNoModule    = "E005" // No module field in file
	ErrCodePipeline    = "E010" // Pipeline parse failure
	ErrCodeRunFailed   = "E011" // Pipeline run failure
	ErrCodeStoreFailed = "E012" // Trace store failure
)

// LoadError represents an error that occurred during module loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// opSpec mirrors the CUE shape of one operation.
type opSpec struct {
	Kind  string            `json:"kind"`
	Name  string            `json:"name,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
	Ops   []opSpec          `json:"ops,omitempty"`
}

// LoadModule loads an IR module from a CUE file of the form:
//
//	module: {
//	    kind: "builtin.module"
//	    name: "main"
//	    ops: [{kind: "func.func", name: "f", ops: [...]}]
//	}
//
// The returned Context has every observed kind and nesting adopted, so a
// freshly loaded module always verifies; passes that corrupt it will not.
func LoadModule(path string) (*ir.Module, *ir.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("module file not found: %s", path)}
		}
		return nil, nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	cctx := cuecontext.New()
	value := cctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, nil, &LoadError{Code: ErrCodeCompile, Message: fmt.Sprintf("compiling %s: %v", path, err)}
	}

	modVal := value.LookupPath(cue.ParsePath("module"))
	if !modVal.Exists() {
		return nil, nil, &LoadError{Code: ErrCodeNoModule, Message: fmt.Sprintf("%s: no \"module\" field", path)}
	}

	var spec opSpec
	if err := modVal.Decode(&spec); err != nil {
		return nil, nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding module: %v", err)}
	}
	if spec.Kind == "" {
		return nil, nil, &LoadError{Code: ErrCodeDecode, Message: "module.kind is required"}
	}

	mod := ir.NewModule(buildOp(spec))
	irCtx := ir.BuiltinContext()
	irCtx.Adopt(mod.Root)
	return mod, irCtx, nil
}

func buildOp(spec opSpec) *ir.Op {
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
