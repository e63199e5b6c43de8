package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_RegisterAndLookup(t *testing.T) {
	c := NewContext()
	c.RegisterKind("builtin.module", "func.func")
	c.RegisterKind("func.func")

	assert.True(t, c.Known("builtin.module"))
	assert.True(t, c.Known("func.func"))
	assert.False(t, c.Known("scf.for"))

	assert.True(t, c.AllowsNested("builtin.module", "func.func"))
	assert.False(t, c.AllowsNested("func.func", "builtin.module"))
	assert.False(t, c.AllowsNested("scf.for", "func.func"))
}

func TestContext_AnyKindAlwaysKnown(t *testing.T) {
	c := NewContext()
	assert.True(t, c.Known(AnyKind))
}

func TestContext_ReRegisterExtendsNestedSet(t *testing.T) {
	c := NewContext()
	c.RegisterKind("func.func", "arith.addi")
	c.RegisterKind("func.func", "arith.muli")

	assert.True(t, c.AllowsNested("func.func", "arith.addi"))
	assert.True(t, c.AllowsNested("func.func", "arith.muli"))
}

func TestContext_KindsSorted(t *testing.T) {
	c := NewContext()
	c.RegisterKind("func.func")
	c.RegisterKind("arith.addi")
	c.RegisterKind("builtin.module")

	assert.Equal(t, []string{"arith.addi", "builtin.module", "func.func"}, c.Kinds())
}

func TestContext_Adopt(t *testing.T) {
	root := NewOp("builtin.module",
		NewOp("func.func",
			NewOp("arith.addi"),
		),
	)

	c := NewContext()
	c.Adopt(root)

	assert.True(t, c.Known("builtin.module"))
	assert.True(t, c.Known("arith.addi"))
	assert.True(t, c.AllowsNested("builtin.module", "func.func"))
	assert.True(t, c.AllowsNested("func.func", "arith.addi"))
	assert.False(t, c.AllowsNested("builtin.module", "arith.addi"))
}

func TestBuiltinContext(t *testing.T) {
	c := BuiltinContext()
	assert.True(t, c.AllowsNested("builtin.module", "func.func"))
}
