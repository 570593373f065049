package arraydiff

// Op is the kind of an edit operation.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpRemove
	OpMove
	OpNoop
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpNoop:
		return "noop"
	default:
		return "unknown"
	}
}

// Operation is a single edit. Index is the working-copy position the
// operation applies to. From is only meaningful for OpMove. OriginalIndex is
// the item's position in the old sequence for OpMove and OpNoop, and -1
// otherwise.
type Operation[T any] struct {
	Op            Op
	Index         int
	From          int
	OriginalIndex int
	Item          T
}

// withOriginalIndices is the mutable working copy of the old sequence.
type withOriginalIndices[T any] struct {
	items    []T
	original []int
	equal    func(a, b T) bool
}

func newWithOriginalIndices[T any](items []T, equal func(a, b T) bool) *withOriginalIndices[T] {
	w := &withOriginalIndices[T]{
		items:    make([]T, len(items)),
		original: make([]int, len(items)),
		equal:    equal,
	}
	copy(w.items, items)
	for i := range items {
		w.original[i] = i
	}
	return w
}

func (w *withOriginalIndices[T]) len() int { return len(w.items) }

// findFrom returns the first position at or after from holding an item equal
// to item, or -1.
func (w *withOriginalIndices[T]) findFrom(item T, from int) int {
	for i := from; i < len(w.items); i++ {
		if w.equal(item, w.items[i]) {
			return i
		}
	}
	return -1
}

func (w *withOriginalIndices[T]) isRemoval(index int, next []T) bool {
	if index >= len(w.items) {
		return false
	}
	item := w.items[index]
	for _, n := range next {
		if w.equal(item, n) {
			return false
		}
	}
	return true
}

func (w *withOriginalIndices[T]) remove(index int) Operation[T] {
	op := Operation[T]{Op: OpRemove, Index: index, From: index, OriginalIndex: -1, Item: w.items[index]}
	w.items = append(w.items[:index], w.items[index+1:]...)
	w.original = append(w.original[:index], w.original[index+1:]...)
	return op
}

func (w *withOriginalIndices[T]) isNoop(index int, next []T) bool {
	if index >= len(w.items) {
		return false
	}
	return w.equal(w.items[index], next[index])
}

func (w *withOriginalIndices[T]) noop(index int) Operation[T] {
	return Operation[T]{Op: OpNoop, Index: index, From: index, OriginalIndex: w.original[index], Item: w.items[index]}
}

func (w *withOriginalIndices[T]) add(item T, index int) Operation[T] {
	w.items = insertAt(w.items, index, item)
	w.original = insertAt(w.original, index, -1)
	return Operation[T]{Op: OpAdd, Index: index, From: index, OriginalIndex: -1, Item: item}
}

func (w *withOriginalIndices[T]) move(item T, to int) Operation[T] {
	from := w.findFrom(item, to)
	op := Operation[T]{Op: OpMove, Index: to, From: from, OriginalIndex: w.original[from], Item: w.items[from]}

	moved, orig := w.items[from], w.original[from]
	w.items = append(w.items[:from], w.items[from+1:]...)
	w.original = append(w.original[:from], w.original[from+1:]...)
	w.items = insertAt(w.items, to, moved)
	w.original = insertAt(w.original, to, orig)
	return op
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// Sequence returns the operations that transform old into next. When several
// old items match a new item, the leftmost one at or after the current
// position is chosen.
func Sequence[T any](old, next []T, equal func(a, b T) bool) []Operation[T] {
	var ops []Operation[T]
	w := newWithOriginalIndices(old, equal)

	for i := 0; i < len(next); i++ {
		if w.isRemoval(i, next) {
			ops = append(ops, w.remove(i))
			i--
			continue
		}
		if w.isNoop(i, next) {
			ops = append(ops, w.noop(i))
			continue
		}
		item := next[i]
		if w.findFrom(item, i) == -1 {
			ops = append(ops, w.add(item, i))
			continue
		}
		ops = append(ops, w.move(item, i))
	}

	for w.len() > len(next) {
		ops = append(ops, w.remove(len(next)))
	}
	return ops
}

// Apply replays ops against a copy of old. Items for Add come from the
// operation; Move relocates the working-copy item at From.
func Apply[T any](old []T, ops []Operation[T]) []T {
	out := make([]T, len(old))
	copy(out, old)
	for _, op := range ops {
		switch op.Op {
		case OpAdd:
			out = insertAt(out, op.Index, op.Item)
		case OpRemove:
			out = append(out[:op.Index], out[op.Index+1:]...)
		case OpMove:
			item := out[op.From]
			out = append(out[:op.From], out[op.From+1:]...)
			out = insertAt(out, op.Index, item)
		}
	}
	return out
}

// Count tallies operations by kind.
func Count[T any](ops []Operation[T]) map[Op]int {
	counts := make(map[Op]int, 4)
	for _, op := range ops {
		counts[op.Op]++
	}
	return counts
}
