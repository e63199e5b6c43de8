package testutil

import "github.com/roach88/passline/internal/ir"

// TestContext returns a Context with the builtin dialect plus the arith
// kinds used across tests: builtin.module > func.func > arith.{addi,muli}.
func TestContext() *ir.Context {
	c := ir.BuiltinContext()
	c.RegisterKind("func.func", "arith.addi", "arith.muli")
	c.RegisterKind("arith.addi")
	c.RegisterKind("arith.muli")
	return c
}

// TestModule returns a small two-function module:
//
//	builtin.module @main
//	  func.func @f
//	    arith.addi
//	    arith.addi
//	  func.func @g
//	    arith.muli
func TestModule() *ir.Module {
	return ir.NewModule(
		ir.NamedOp("builtin.module", "main",
			ir.NamedOp("func.func", "f",
				ir.NewOp("arith.addi"),
				ir.NewOp("arith.addi"),
			),
			ir.NamedOp("func.func", "g",
				ir.NewOp("arith.muli"),
			),
		),
	)
}
