package ir

// AnyKind is the wildcard operation kind. A pipeline anchored at AnyKind
// applies to whatever kind the target module's root operation has.
const AnyKind = "any"

// Op is a single IR operation: a kind (e.g. "builtin.module", "func.func"),
// an optional symbol name, a flat attribute map, and nested operations.
//
// Ops are mutable in place. Passes own no Ops; they transform the subtree
// they are handed and must not retain references across runs.
type Op struct {
	Kind     string
	Name     string
	Attrs    map[string]string
	Children []*Op
}

// NewOp creates an operation of the given kind with no attributes.
func NewOp(kind string, children ...*Op) *Op {
	return &Op{Kind: kind, Children: children}
}

// NamedOp creates an operation with a symbol name.
func NamedOp(kind, name string, children ...*Op) *Op {
	return &Op{Kind: kind, Name: name, Children: children}
}

// SetAttr sets a single attribute, allocating the map on first use.
func (op *Op) SetAttr(key, value string) *Op {
	if op.Attrs == nil {
		op.Attrs = make(map[string]string)
	}
	op.Attrs[key] = value
	return op
}

// Attr returns the attribute value, or "" when absent.
func (op *Op) Attr(key string) string {
	return op.Attrs[key]
}

// Clone returns a deep copy of the operation subtree.
func (op *Op) Clone() *Op {
	if op == nil {
		return nil
	}
	out := &Op{Kind: op.Kind, Name: op.Name}
	if op.Attrs != nil {
		out.Attrs = make(map[string]string, len(op.Attrs))
		for k, v := range op.Attrs {
			out.Attrs[k] = v
		}
	}
	if op.Children != nil {
		out.Children = make([]*Op, len(op.Children))
		for i, child := range op.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Module is the IR tree a pipeline runs over. The pass manager never owns a
// Module; it is passed by reference for the duration of one run and no
// reference is retained afterward.
type Module struct {
	Root *Op
}

// NewModule wraps a root operation.
func NewModule(root *Op) *Module {
	return &Module{Root: root}
}

// RootKind returns the kind of the module's root operation, or "" for an
// empty module.
func (m *Module) RootKind() string {
	if m == nil || m.Root == nil {
		return ""
	}
	return m.Root.Kind
}

// Clone returns a deep copy of the module. Callers that want to retry a
// failed pipeline run on pristine IR clone the module first; runs are
// explicitly non-transactional.
func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	return &Module{Root: m.Root.Clone()}
}
