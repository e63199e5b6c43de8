package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/passline/internal/store"
)

func TestRun_ExecutesPipelineAndPrintsIR(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)

	out, err := execute(t, "run", "--pipeline", "canonicalize,func.func(cse)", path)
	require.NoError(t, err)

	// Dead muli removed, duplicate addi collapsed.
	assert.Contains(t, out, "builtin.module @main")
	assert.Contains(t, out, "func.func @f")
	assert.Contains(t, out, "arith.addi")
	assert.NotContains(t, out, "arith.muli")
}

func TestRun_VerifyFlag(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)

	_, err := execute(t, "run", "--pipeline", "canonicalize", "--verify", path)
	assert.NoError(t, err)
}

func TestRun_AnchorMismatchIsCommandError(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)

	out, err := execute(t, "run", "--pipeline", "cse", "--anchor", "func.func", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "ANCHOR_MISMATCH")
}

func TestRun_InvalidPipelineIsCommandError(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)

	out, err := execute(t, "run", "--pipeline", "bogus", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "PIPELINE_SYNTAX")
}

func TestRun_MissingModuleFileIsCommandError(t *testing.T) {
	_, err := execute(t, "run", "--pipeline", "cse", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_RecordsTrace(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)
	dbPath := filepath.Join(t.TempDir(), "traces.db")

	_, err := execute(t, "run", "--pipeline", "canonicalize,func.func(cse)", "--db", dbPath, path)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ok", runs[0].Outcome)
	assert.Equal(t, "canonicalize,func.func(cse)", runs[0].Pipeline)
	assert.NotEmpty(t, runs[0].FingerprintBefore)
	assert.NotEmpty(t, runs[0].FingerprintAfter)
	// The pipeline mutated the module, so identity changed.
	assert.NotEqual(t, runs[0].FingerprintBefore, runs[0].FingerprintAfter)

	events, err := st.ReadTrace(context.Background(), runs[0].Token)
	require.NoError(t, err)
	// canonicalize at the root plus cse on the single function.
	require.Len(t, events, 2)
	assert.Equal(t, "canonicalize", events[0].Pass)
	assert.Equal(t, "cse", events[1].Pass)
}

func TestTrace_ListAndShow(t *testing.T) {
	path := writeModuleFile(t, moduleCUE)
	dbPath := filepath.Join(t.TempDir(), "traces.db")

	_, err := execute(t, "run", "--pipeline", "canonicalize", "--db", dbPath, path)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NoError(t, st.Close())

	out, err := execute(t, "trace", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].Token)
	assert.Contains(t, out, "canonicalize")

	out, err = execute(t, "trace", "--db", dbPath, runs[0].Token)
	require.NoError(t, err)
	assert.Contains(t, out, "run "+runs[0].Token)
	assert.Contains(t, out, "canonicalize")
}

func TestTrace_UnknownToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "traces.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = execute(t, "trace", "--db", dbPath, "missing-token")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_RunsScenarios(t *testing.T) {
	scenario := `name: cli-scenario
module:
  kind: builtin.module
  name: main
  ops:
    - kind: func.func
      name: f
      ops:
        - kind: arith.addi
        - kind: arith.addi
pipeline: func.func(cse)
expect:
  trace:
    - cse@func.func
  printed: func.func(cse)
`
	scPath := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(scPath, []byte(scenario), 0o644))

	out, err := execute(t, "test", scPath)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  cli-scenario")
	assert.Contains(t, out, "1/1 scenarios passed")
}

func TestTest_FailingScenarioExitsNonZero(t *testing.T) {
	scenario := `name: failing-scenario
module:
  kind: builtin.module
pipeline: canonicalize
expect:
  printed: cse
`
	scPath := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(scPath, []byte(scenario), 0o644))

	out, err := execute(t, "test", scPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL  failing-scenario")
	assert.Contains(t, out, "0/1 scenarios passed")
}
