package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/passline/internal/ir"
	"github.com/roach88/passline/internal/pass"
	"github.com/roach88/passline/internal/pipeline"
)

func parseFixture() (*pass.Registry, *ir.Context) {
	return pass.DefaultRegistry(), ir.BuiltinContext()
}

func TestParse_SinglePass(t *testing.T) {
	reg, ctx := parseFixture()

	pm, err := pipeline.Parse("canonicalize", reg, ctx)
	require.NoError(t, err)
	assert.Equal(t, ir.AnyKind, pm.Anchor())
	assert.Equal(t, "canonicalize", pm.String())
}

func TestParse_PassListWithOptions(t *testing.T) {
	reg, ctx := parseFixture()

	pm, err := pipeline.Parse("canonicalize{max-iterations=2},cse", reg, ctx)
	require.NoError(t, err)
	assert.Equal(t, "canonicalize{max-iterations=2},cse", pm.String())
	assert.Equal(t, []string{"canonicalize", "cse"}, pm.Root().PassNames())
}

func TestParse_SingleAnchoredGroupPromotesToRoot(t *testing.T) {
	reg, ctx := parseFixture()

	pm, err := pipeline.Parse("func.func(canonicalize,cse)", reg, ctx)
	require.NoError(t, err)
	assert.Equal(t, "func.func", pm.Anchor())
	assert.Equal(t, "func.func(canonicalize,cse)", pm.String())
}

func TestParse_NestedGroups(t *testing.T) {
	reg, ctx := parseFixture()

	pm, err := pipeline.Parse("builtin.module(canonicalize,func.func(cse,strip-debuginfo))", reg, ctx)
	require.NoError(t, err)
	assert.Equal(t, "builtin.module", pm.Anchor())
	assert.Equal(t, []string{"canonicalize"}, pm.Root().PassNames())
	assert.Equal(t, []string{"func.func"}, pm.Root().NestedKinds())
	assert.Equal(t, "builtin.module(canonicalize,func.func(cse,strip-debuginfo))", pm.String())
}

func TestParse_WhitespaceTolerated(t *testing.T) {
	reg, ctx := parseFixture()

	pm, err := pipeline.Parse("canonicalize , cse", reg, ctx)
	require.NoError(t, err)
	assert.Equal(t, "canonicalize,cse", pm.String())
}

func TestParse_TextRoundTrip(t *testing.T) {
	reg, ctx := parseFixture()

	for _, text := range []string{
		"canonicalize",
		"canonicalize,cse",
		"canonicalize{max-iterations=2}",
		"func.func(canonicalize,cse)",
		"builtin.module(canonicalize,func.func(cse),print-op-stats)",
	} {
		pm, err := pipeline.Parse(text, reg, ctx)
		require.NoError(t, err, text)
		require.Equal(t, text, pm.String(), text)

		again, err := pipeline.Parse(pm.String(), reg, ctx)
		require.NoError(t, err, text)
		assert.Equal(t, pm.String(), again.String(), text)
	}
}

func TestParse_EmptyText(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("", reg, ctx)
	require.Error(t, err)
	assert.True(t, pipeline.IsSyntaxError(err))

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Offset)
	assert.Contains(t, pe.Message, "empty pipeline")
}

func TestParse_UnknownPassOffset(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("canonicalize,bogus", reg, ctx)
	require.Error(t, err)

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pipeline.CodeSyntax, pe.Code)
	assert.Equal(t, 14, pe.Offset)
	assert.Contains(t, pe.Diagnostics, `unknown pass "bogus"`)
}

func TestParse_UnclosedGroup(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("func.func(cse", reg, ctx)
	require.Error(t, err)

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 14, pe.Offset)
	assert.Contains(t, pe.Message, "expected ')'")
}

func TestParse_EmptyGroup(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("func.func()", reg, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `empty pipeline for operation kind "func.func"`)
}

func TestParse_TrailingGarbage(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("cse)", reg, ctx)
	require.Error(t, err)

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 4, pe.Offset)
	assert.Contains(t, pe.Message, "expected ',' or end of pipeline")
}

func TestParse_OptionErrors(t *testing.T) {
	reg, ctx := parseFixture()

	tests := []struct {
		text    string
		wantMsg string
	}{
		{"canonicalize{max-iterations=2 max-iterations=3}", "duplicate option"},
		{"cse{foo}", "expected '='"},
		{"canonicalize{max-iterations=}", "expected value"},
		{"cse{=1}", "expected option key"},
	}
	for _, tt := range tests {
		_, err := pipeline.Parse(tt.text, reg, ctx)
		require.Error(t, err, tt.text)
		assert.True(t, pipeline.IsSyntaxError(err), tt.text)
		assert.Contains(t, err.Error(), tt.wantMsg, tt.text)
	}
}

func TestParse_UnknownOptionSurfacesAsSyntax(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("cse{foo=1}", reg, ctx)
	require.Error(t, err)

	var pe *pipeline.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pipeline.CodeSyntax, pe.Code)
	assert.Equal(t, 1, pe.Offset)
	assert.Contains(t, pe.Message, `unknown option "foo"`)
}

func TestParse_InvalidOptionValueSurfacesAsSyntax(t *testing.T) {
	reg, ctx := parseFixture()

	_, err := pipeline.Parse("canonicalize{max-iterations=zero}", reg, ctx)
	require.Error(t, err)
	assert.True(t, pipeline.IsSyntaxError(err))
	assert.Contains(t, err.Error(), "invalid max-iterations")
}
