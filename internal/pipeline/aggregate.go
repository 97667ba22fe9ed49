package pipeline

// Aggregator turns the pool's arbitrary completion order back into strict
// discovery order. Outcomes arriving ahead of the cursor are buffered; when
// the expected index arrives, it and any now-contiguous buffered outcomes
// are released together.
//
// The buffer is bounded by the number of workers: at most W-1 outcomes can
// complete ahead of the slowest in-flight file, since each worker holds one
// file at a time.
type Aggregator struct {
	next   int
	buffer map[int]Outcome
}

// NewAggregator starts the cursor at index 0.
func NewAggregator() *Aggregator {
	return &Aggregator{buffer: make(map[int]Outcome)}
}

// Push accepts one completion and returns the contiguous run that became
// ready, in index order. Returns nil when the outcome had to be buffered.
func (a *Aggregator) Push(o Outcome) []Outcome {
	if o.Index != a.next {
		a.buffer[o.Index] = o
		return nil
	}

	ready := []Outcome{o}
	a.next++
	for {
		buffered, ok := a.buffer[a.next]
		if !ok {
			break
		}
		delete(a.buffer, a.next)
		ready = append(ready, buffered)
		a.next++
	}
	return ready
}

// Pending returns how many outcomes are buffered waiting for the cursor.
func (a *Aggregator) Pending() int { return len(a.buffer) }

// Next returns the index the aggregator is waiting for; once it reaches the
// candidate count, every outcome has been released.
func (a *Aggregator) Next() int { return a.next }
