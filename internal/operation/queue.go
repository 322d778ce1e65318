package operation

// Queue runs operations one after another.
type Queue struct {
	pending []Operation
	current Operation
	done    int
}

func NewQueue(ops ...Operation) *Queue {
	q := &Queue{}
	for _, op := range ops {
		q.Offer(op)
	}
	return q
}

// Offer appends op to the queue. Nil operations are ignored.
func (q *Queue) Offer(op Operation) {
	if op != nil {
		q.pending = append(q.pending, op)
	}
}

// Len returns the number of operations not yet finished.
func (q *Queue) Len() int {
	n := len(q.pending)
	if q.current != nil {
		n++
	}
	return n
}

func (q *Queue) Resume(rc *RunContext) (Operation, error) {
	if q.current == nil {
		if len(q.pending) == 0 {
			return nil, nil
		}
		q.current = q.pending[0]
		q.pending = q.pending[1:]
	}

	next, err := q.current.Resume(rc)
	if err != nil {
		q.current = nil
		return nil, err
	}
	q.current = next
	if next == nil {
		q.done++
	}
	if q.Len() == 0 {
		return nil, nil
	}
	return q, nil
}

func (q *Queue) Cancel() {
	if q.current != nil {
		q.current.Cancel()
		q.current = nil
	}
	for _, op := range q.pending {
		op.Cancel()
	}
	q.pending = nil
}

// Progress weighs every queued operation equally. It is indeterminate
// while the running operation cannot report its own progress.
func (q *Queue) Progress() float64 {
	total := q.done + q.Len()
	if total == 0 {
		return 1
	}
	cur := 0.0
	if q.current != nil {
		p, ok := ProgressOf(q.current)
		if !ok || IsIndeterminate(p) {
			return Indeterminate
		}
		cur = p
	}
	return (float64(q.done) + cur) / float64(total)
}
