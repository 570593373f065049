// Package memhost is an in-memory host tree.
//
// It implements the host capability with plain Go structs, records every
// mutation in an inspectable log, dispatches synthetic events to registered
// listeners, and serializes the tree to HTML. Tests use it to assert exactly
// which host operations a patch performed; the demo CLI and the inspector use
// it as the live presentation tree.
package memhost

import (
	"slices"
	"sync"

	"github.com/relaxui/relax/pkg/host"
)

var (
	_ host.Document = (*Document)(nil)
	_ host.Element  = (*Element)(nil)
	_ host.Text     = (*Text)(nil)
)

// Document owns node identity, the mutation log and mutation observers.
type Document struct {
	nextID       uint64
	nextListener uint64
	nodes        map[uint64]host.Node

	mu        sync.Mutex
	log       []Mutation
	limit     int
	dropped   uint64
	observers map[int]func(Mutation)
	nextObs   int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		nodes:     make(map[uint64]host.Node),
		observers: make(map[int]func(Mutation)),
	}
}

// CreateText implements host.Document.
func (d *Document) CreateText(value string) host.Text {
	t := &Text{value: value}
	t.init(d)
	d.nodes[t.id] = t
	d.record(Mutation{Op: MutCreateText, Target: t.id, Value: value})
	return t
}

// CreateElement implements host.Document.
func (d *Document) CreateElement(tag string) host.Element {
	return d.NewElement(tag)
}

// NewElement is CreateElement returning the concrete type, used to build
// mount containers.
func (d *Document) NewElement(tag string) *Element {
	el := &Element{
		tag:    tag,
		attrs:  make(map[string]any),
		styles: make(map[string]string),
	}
	el.init(d)
	d.nodes[el.id] = el
	d.record(Mutation{Op: MutCreateElement, Target: el.id, Tag: tag})
	return el
}

// Lookup returns the attached or detached-but-not-removed node with id.
func (d *Document) Lookup(id uint64) (host.Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Observe registers fn to receive every mutation. The returned function
// unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

// SetMutationLimit keeps only the newest n mutations in the log. n <= 0
// removes the limit. Observers see every mutation regardless.
func (d *Document) SetMutationLimit(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.limit = max(n, 0)
	d.trim(d.limit)
}

// Dropped returns how many mutations the limit has evicted from the log.
func (d *Document) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trim(d.limit)
	return d.dropped
}

// Mutations returns a copy of the mutation log.
func (d *Document) Mutations() []Mutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trim(d.limit)
	out := make([]Mutation, len(d.log))
	copy(out, d.log)
	return out
}

// ResetMutations clears the mutation log.
func (d *Document) ResetMutations() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = nil
}

// CountMutations tallies the log by operation.
func (d *Document) CountMutations() map[MutationOp]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trim(d.limit)
	counts := make(map[MutationOp]int)
	for _, m := range d.log {
		counts[m.Op]++
	}
	return counts
}

// trim evicts the oldest entries beyond keep. Callers hold mu.
func (d *Document) trim(keep int) {
	if keep <= 0 || len(d.log) <= keep {
		return
	}
	n := len(d.log) - keep
	d.dropped += uint64(n)
	d.log = slices.Clone(d.log[n:])
}

func (d *Document) record(m Mutation) {
	d.mu.Lock()
	d.log = append(d.log, m)
	// The raw log stays under twice the limit; readers trim to the limit.
	if d.limit > 0 && len(d.log) >= 2*d.limit {
		d.trim(d.limit)
	}
	observers := make([]func(Mutation), 0, len(d.observers))
	for _, fn := range d.observers {
		observers = append(observers, fn)
	}
	d.mu.Unlock()

	for _, fn := range observers {
		fn(m)
	}
}

func (d *Document) newID() uint64 {
	d.nextID++
	return d.nextID
}
