package interrupts

import (
	"errors"
	"sync"
)

// ErrEmptyQueue is returned when popping from an empty queue
var ErrEmptyQueue = errors.New("interrupt queue is empty")

/*
 Queue collects pending interrupts in arrival order, until the core
 servicing them pops them. Safe for use from several goroutines.
*/
type Queue struct {
	mu      sync.Mutex
	pending []Interrupt
}

// Send implements Sink
func (q *Queue) Send(i Interrupt) {
	q.Push(i)
}

func (q *Queue) Push(i Interrupt) {
	q.mu.Lock()
	q.pending = append(q.pending, i)
	q.mu.Unlock()
}

func (q *Queue) Pop() (Interrupt, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return Interrupt{}, ErrEmptyQueue
	}
	element := q.pending[0]
	q.pending = q.pending[1:]
	return element, nil
}

// Len returns the number of pending interrupts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Clear drops all pending interrupts
func (q *Queue) Clear() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}
