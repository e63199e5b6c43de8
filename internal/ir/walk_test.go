package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func walkFixture() *Op {
	return NamedOp("builtin.module", "main",
		NamedOp("func.func", "f",
			NewOp("arith.addi"),
			NewOp("arith.muli"),
		),
		NamedOp("func.func", "g",
			NewOp("arith.addi"),
		),
	)
}

func TestWalk_PreOrder(t *testing.T) {
	var order []string
	Walk(walkFixture(), func(o *Op) {
		label := o.Kind
		if o.Name != "" {
			label += "@" + o.Name
		}
		order = append(order, label)
	})

	assert.Equal(t, []string{
		"builtin.module@main",
		"func.func@f",
		"arith.addi",
		"arith.muli",
		"func.func@g",
		"arith.addi",
	}, order)
}

func TestWalk_NilRoot(t *testing.T) {
	called := false
	Walk(nil, func(*Op) { called = true })
	assert.False(t, called)
}

func TestCollectKind_StrictDescendants(t *testing.T) {
	root := walkFixture()

	funcs := CollectKind(root, "func.func")
	assert.Len(t, funcs, 2)
	assert.Equal(t, "f", funcs[0].Name)
	assert.Equal(t, "g", funcs[1].Name)

	// The root itself never matches, only descendants do.
	assert.Empty(t, CollectKind(root, "builtin.module"))
}

func TestCollectKind_AnyMatchesAll(t *testing.T) {
	assert.Len(t, CollectKind(walkFixture(), AnyKind), 5)
}

func TestCountKinds(t *testing.T) {
	counts := CountKinds(walkFixture())
	assert.Equal(t, map[string]int{
		"builtin.module": 1,
		"func.func":      2,
		"arith.addi":     2,
		"arith.muli":     1,
	}, counts)
}
