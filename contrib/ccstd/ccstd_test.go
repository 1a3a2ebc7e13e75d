package ccstd

import (
	"testing"

	"github.com/cycgc/cycgc"
)

func TestLeafTraceIsNoOp(t *testing.T) {
	var l Leaf[int]
	l.Value = 5
	l.Trace(nil) // must not panic or dereference ctx
}

// sliceNode exercises Slice as a payload's children container: a true ring
// of sliceNodes should collect as a cycle exactly like a hand-written Trace
// implementation would make it.
type sliceNode struct {
	label    Leaf[string]
	children Slice[cycgc.Strong[*sliceNode]]
	destroys *int
}

func (n *sliceNode) Trace(ctx *cycgc.Context) {
	n.label.Trace(ctx)
	n.children.Trace(ctx)
}

func (n *sliceNode) Destroy() {
	if n.destroys != nil {
		*n.destroys++
	}
	for _, c := range n.children {
		c.Release()
	}
	n.children = nil
}

func TestSliceTraceReachesCyclicChildren(t *testing.T) {
	eng := cycgc.NewEngine()
	destroys := 0

	a := cycgc.NewIn(eng, &sliceNode{label: Leaf[string]{Value: "a"}, destroys: &destroys})
	b := cycgc.NewIn(eng, &sliceNode{label: Leaf[string]{Value: "b"}, destroys: &destroys})
	a.Value().children = append(a.Value().children, b.Clone())
	b.Value().children = append(b.Value().children, a.Clone())
	a.Release()
	b.Release()

	eng.CollectCycles()
	if destroys != 2 {
		t.Fatalf("destroys = %d, want 2: Slice.Trace must reach both cycle members", destroys)
	}
}

// optionNode exercises Option the same way: only the Present branch should
// keep its child reachable.
type optionNode struct {
	child Option[cycgc.Strong[*optionNode]]
}

func (n *optionNode) Trace(ctx *cycgc.Context) { n.child.Trace(ctx) }
func (n *optionNode) Destroy() {
	if n.child.Present {
		n.child.Value.Release()
	}
	n.child = Option[cycgc.Strong[*optionNode]]{}
}

func TestOptionNoneObjectIsNotBuffered(t *testing.T) {
	eng := cycgc.NewEngine()
	h := cycgc.NewIn(eng, &optionNode{})
	h.Value().child = None[cycgc.Strong[*optionNode]]()
	h.Release()

	if eng.Stats().Buffered != 0 {
		t.Fatal("an object with no outgoing references should never be buffered as a cycle candidate")
	}
}

// mapNode exercises Map the same way a graph keyed by name would.
type mapNode struct {
	children Map[string, cycgc.Strong[*mapNode]]
	destroys *int
}

func (n *mapNode) Trace(ctx *cycgc.Context) { n.children.Trace(ctx) }
func (n *mapNode) Destroy() {
	if n.destroys != nil {
		*n.destroys++
	}
	for k, c := range n.children {
		c.Release()
		delete(n.children, k)
	}
}

func TestMapTraceReachesCyclicChildren(t *testing.T) {
	eng := cycgc.NewEngine()
	destroys := 0

	a := cycgc.NewIn(eng, &mapNode{children: Map[string, cycgc.Strong[*mapNode]]{}, destroys: &destroys})
	b := cycgc.NewIn(eng, &mapNode{children: Map[string, cycgc.Strong[*mapNode]]{}, destroys: &destroys})
	a.Value().children["next"] = b.Clone()
	b.Value().children["next"] = a.Clone()
	a.Release()
	b.Release()

	eng.CollectCycles()
	if destroys != 2 {
		t.Fatalf("destroys = %d, want 2: Map.Trace must reach both cycle members", destroys)
	}
}
