package cycgc

// fifoQueue is a singly-linked FIFO, threaded through the same next field
// list uses (an object is never in more than one list or queue at once),
// available for draining a set of headers in first-found order.
type fifoQueue struct {
	first, last object
}

func (q *fifoQueue) add(o object) {
	if q.last != nil {
		setNext(q.last, o)
	} else {
		q.first = o
	}
	q.last = o
}

func (q *fifoQueue) peek() object { return q.first }

func (q *fifoQueue) poll() object {
	first := q.first
	if first == nil {
		return nil
	}
	q.first = getNext(first)
	if q.first == nil {
		q.last = nil
	}
	setNext(first, nil)
	first.base().mark.setMark(markNone)
	return first
}

func (q *fifoQueue) isEmpty() bool { return q.first == nil }

// clear drains the queue without doing anything with the elements beyond
// resetting their marks, for the same panic-safety reason list.clear exists.
func (q *fifoQueue) clear() {
	for q.poll() != nil {
	}
}
