package cycgc

// list is an intrusive doubly-linked list threaded through each object's
// headerBase.next/prev fields: adding or removing an object never
// allocates. The collector's root and non-root sets are both backed by
// this type.
type list struct {
	first object
}

func (l *list) add(o object) {
	if first := l.first; first != nil {
		setPrev(first, o)
		setNext(o, first)
	}
	setPrev(o, nil)
	l.first = o
}

func (l *list) remove(o object) {
	next, prev := getNext(o), getPrev(o)
	switch {
	case next != nil && prev != nil:
		setPrev(next, prev)
		setNext(prev, next)
	case next != nil && prev == nil:
		setPrev(next, nil)
		l.first = next
	case next == nil && prev != nil:
		setNext(prev, nil)
	default:
		l.first = nil
	}
	setNext(o, nil)
	setPrev(o, nil)
}

// removeFirst pops the head of the list, resetting its mark to markNone so
// no element is ever left behind in an inconsistent marked-but-unlinked
// state.
func (l *list) removeFirst() object {
	first := l.first
	if first == nil {
		return nil
	}
	l.first = getNext(first)
	if next := l.first; next != nil {
		setPrev(next, nil)
	}
	setNext(first, nil)
	first.base().mark.setMark(markNone)
	return first
}

func (l *list) isEmpty() bool { return l.first == nil }

// forEach walks the list without removing anything. The callback must not
// mutate the list it is iterating; the engine's collector only ever uses
// forEach between phases when it already holds the only reference to the
// list.
func (l *list) forEach(f func(object)) {
	current := l.first
	for current != nil {
		next := getNext(current)
		f(current)
		current = next
	}
}

// forEachClearing drains the list, invoking f once per element with the
// linkage already detached before f runs. This lets f destroy its argument
// without corrupting the list being walked.
func (l *list) forEachClearing(f func(object)) {
	for {
		o := l.first
		if o == nil {
			return
		}
		l.first = getNext(o)
		if next := l.first; next != nil {
			setPrev(next, nil)
		}
		setNext(o, nil)
		setPrev(o, nil)
		f(o)
	}
}

// clear resets every remaining object's mark to markNone and unlinks it.
// The collector defers this on any list it builds locally, so a panic
// partway through tracing (e.g. from a user Trace implementation) cannot
// leave headers claiming list membership the engine no longer grants them.
func (l *list) clear() {
	for {
		o := l.removeFirst()
		if o == nil {
			return
		}
	}
}

// possibleCycles is list's cousin for the long-lived possibly-cyclic
// set: same intrusive linkage, but it additionally tracks cardinality so
// the engine can report Stats().Buffered without a linear scan.
type possibleCycles struct {
	l    list
	size int
}

func (p *possibleCycles) add(o object) {
	p.l.add(o)
	p.size++
}

func (p *possibleCycles) remove(o object) {
	p.l.remove(o)
	p.size--
}

func (p *possibleCycles) removeFirst() object {
	o := p.l.removeFirst()
	if o != nil {
		p.size--
	}
	return o
}

func (p *possibleCycles) isEmpty() bool { return p.l.isEmpty() }

func (p *possibleCycles) len() int { return p.size }

func (p *possibleCycles) forEach(f func(object)) { p.l.forEach(f) }
