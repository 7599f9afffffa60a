package intent

// Queue is a bounded FIFO safe for any number of producers. A single
// consumer drains it once per control tick.
type Queue struct {
	ch chan Intent
}

func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{ch: make(chan Intent, capacity)}
}

// Submit enqueues in without blocking.
func (q *Queue) Submit(in Intent) error {
	select {
	case q.ch <- in:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain hands fn every intent queued at the time of the call, oldest first,
// and returns how many it handed over. Intents submitted while draining
// wait for the next call.
func (q *Queue) Drain(fn func(Intent)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		fn(<-q.ch)
	}
	return n
}

// Len is the number of intents waiting.
func (q *Queue) Len() int { return len(q.ch) }
