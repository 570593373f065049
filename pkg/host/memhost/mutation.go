package memhost

// MutationOp is the kind of a recorded host operation.
type MutationOp string

const (
	MutCreateText     MutationOp = "create-text"
	MutCreateElement  MutationOp = "create-element"
	MutSetText        MutationOp = "set-text"
	MutSetAttr        MutationOp = "set-attr"
	MutRemoveAttr     MutationOp = "remove-attr"
	MutSetStyle       MutationOp = "set-style"
	MutRemoveStyle    MutationOp = "remove-style"
	MutAddClass       MutationOp = "add-class"
	MutRemoveClass    MutationOp = "remove-class"
	MutAddListener    MutationOp = "add-listener"
	MutRemoveListener MutationOp = "remove-listener"
	MutInsert         MutationOp = "insert"
	MutRemove         MutationOp = "remove"
)

// Mutation is one recorded host operation.
type Mutation struct {
	Op     MutationOp `json:"op"`
	Target uint64     `json:"target"`
	Parent uint64     `json:"parent,omitempty"`
	Tag    string     `json:"tag,omitempty"`
	Name   string     `json:"name,omitempty"`
	Value  string     `json:"value,omitempty"`
}

// IsStructural reports whether the mutation changes tree shape.
func (m Mutation) IsStructural() bool {
	return m.Op == MutInsert || m.Op == MutRemove
}

// IsCreation reports whether the mutation created a node.
func (m Mutation) IsCreation() bool {
	return m.Op == MutCreateText || m.Op == MutCreateElement
}
