package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/passline/internal/ir"
)

// AssertGoldenDump compares the module's IR dump against a golden file under
// testdata. Update with `go test -update`.
func AssertGoldenDump(t *testing.T, name string, mod *ir.Module) {
	t.Helper()
	g := goldie.New(t)
	g.Assert(t, name, []byte(ir.Dump(mod.Root)))
}

// AssertGoldenText compares arbitrary text (canonical pipeline output,
// diagnostics) against a golden file under testdata.
func AssertGoldenText(t *testing.T, name, text string) {
	t.Helper()
	g := goldie.New(t)
	g.Assert(t, name, []byte(text))
}
