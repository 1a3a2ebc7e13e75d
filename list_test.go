package cycgc

import "testing"

// fakeObject is a minimal object implementation used to exercise list.go
// and queue.go in isolation, without going through header[T] allocation.
type fakeObject struct {
	headerBase
	id int
}

func (f *fakeObject) trace(*Context) {}
func (f *fakeObject) finalize()      {}
func (f *fakeObject) destroy()       {}

func newFake(id int) *fakeObject { return &fakeObject{id: id} }

func TestListAddRemoveOrder(t *testing.T) {
	var l list
	a, b, c := newFake(1), newFake(2), newFake(3)

	l.add(a)
	l.add(b)
	l.add(c)

	// add is head-insertion, so pop order is reverse of insertion.
	if got := l.removeFirst(); got != object(c) {
		t.Fatalf("removeFirst = %v, want c", got)
	}
	if got := l.removeFirst(); got != object(b) {
		t.Fatalf("removeFirst = %v, want b", got)
	}
	if got := l.removeFirst(); got != object(a) {
		t.Fatalf("removeFirst = %v, want a", got)
	}
	if !l.isEmpty() {
		t.Fatal("list should be empty after draining")
	}
}

func TestListRemoveMiddle(t *testing.T) {
	var l list
	a, b, c := newFake(1), newFake(2), newFake(3)
	l.add(a)
	l.add(b)
	l.add(c)

	l.remove(b)
	if getNext(b) != nil || getPrev(b) != nil {
		t.Fatal("remove should clear the removed element's links")
	}

	var seen []int
	l.forEach(func(o object) { seen = append(seen, o.(*fakeObject).id) })
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 1 {
		t.Fatalf("forEach order = %v, want [3 1]", seen)
	}
}

func TestListRemoveFirstResetsMark(t *testing.T) {
	var l list
	a := newFake(1)
	a.mark.setMark(markPossibleCycles)
	l.add(a)

	l.removeFirst()
	if a.mark.markState() != markNone {
		t.Fatalf("removeFirst should reset mark to NonMarked, got %v", a.mark.markState())
	}
}

func TestListForEachClearingDrains(t *testing.T) {
	var l list
	a, b := newFake(1), newFake(2)
	l.add(a)
	l.add(b)

	var seen []int
	l.forEachClearing(func(o object) { seen = append(seen, o.(*fakeObject).id) })

	if !l.isEmpty() {
		t.Fatal("forEachClearing should drain the list")
	}
	if len(seen) != 2 {
		t.Fatalf("forEachClearing visited %d elements, want 2", len(seen))
	}
}

func TestListClearResetsAllMarks(t *testing.T) {
	var l list
	a, b := newFake(1), newFake(2)
	a.mark.setMark(markTraceCounting)
	b.mark.setMark(markTraceRoots)
	l.add(a)
	l.add(b)

	l.clear()

	if a.mark.markState() != markNone || b.mark.markState() != markNone {
		t.Fatal("clear should reset every remaining element's mark to NonMarked")
	}
	if !l.isEmpty() {
		t.Fatal("clear should leave the list empty")
	}
}

func TestPossibleCyclesCardinality(t *testing.T) {
	var p possibleCycles
	a, b := newFake(1), newFake(2)

	p.add(a)
	p.add(b)
	if p.len() != 2 {
		t.Fatalf("len = %d, want 2", p.len())
	}

	p.remove(a)
	if p.len() != 1 {
		t.Fatalf("len = %d, want 1 after remove", p.len())
	}

	if got := p.removeFirst(); got != object(b) {
		t.Fatalf("removeFirst = %v, want b", got)
	}
	if p.len() != 0 {
		t.Fatalf("len = %d, want 0", p.len())
	}
	if !p.isEmpty() {
		t.Fatal("possibleCycles should be empty")
	}
}

func TestFifoQueueOrder(t *testing.T) {
	var q fifoQueue
	a, b, c := newFake(1), newFake(2), newFake(3)
	q.add(a)
	q.add(b)
	q.add(c)

	if got := q.peek(); got != object(a) {
		t.Fatalf("peek = %v, want a", got)
	}
	for _, want := range []object{a, b, c} {
		if got := q.poll(); got != want {
			t.Fatalf("poll = %v, want %v", got, want)
		}
	}
	if !q.isEmpty() {
		t.Fatal("queue should be empty after draining in FIFO order")
	}
}

func TestFifoQueueClear(t *testing.T) {
	var q fifoQueue
	a := newFake(1)
	a.mark.setMark(markTraceCounting)
	q.add(a)

	q.clear()
	if !q.isEmpty() {
		t.Fatal("clear should drain the queue")
	}
	if a.mark.markState() != markNone {
		t.Fatal("clear should reset remaining elements' marks")
	}
}
