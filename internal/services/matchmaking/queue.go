package matchmaking

import (
	"slices"

	"github.com/mcoot/rpsarena/internal/model"
)

// Queue is a strict FIFO waitlist of handles seeking an opponent.
// A handle appears at most once. Not safe for concurrent use.
type Queue struct {
	waiting []model.Handle
}

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends the handle to the tail. Returns false if it was already waiting.
func (q *Queue) Enqueue(handle model.Handle) bool {
	if q.Contains(handle) {
		return false
	}
	q.waiting = append(q.waiting, handle)
	return true
}

// Cancel removes the handle wherever it sits. Returns false if it was absent.
func (q *Queue) Cancel(handle model.Handle) bool {
	i := slices.Index(q.waiting, handle)
	if i < 0 {
		return false
	}
	q.waiting = slices.Delete(q.waiting, i, i+1)
	return true
}

// TryPair removes and returns the two oldest waiters.
// The first dequeued is player A. ok is false with fewer than two waiting.
func (q *Queue) TryPair() (a, b model.Handle, ok bool) {
	if len(q.waiting) < 2 {
		return "", "", false
	}
	a, b = q.waiting[0], q.waiting[1]
	q.waiting = slices.Delete(q.waiting, 0, 2)
	return a, b, true
}

// RequeueFront puts handles back at the head, keeping their given order.
// Handles already waiting are skipped.
func (q *Queue) RequeueFront(handles ...model.Handle) {
	front := make([]model.Handle, 0, len(handles))
	for _, h := range handles {
		if q.Contains(h) || slices.Contains(front, h) {
			continue
		}
		front = append(front, h)
	}
	q.waiting = append(front, q.waiting...)
}

// Contains returns true if the handle is waiting
func (q *Queue) Contains(handle model.Handle) bool {
	return slices.Contains(q.waiting, handle)
}

// Len returns the number of waiting handles
func (q *Queue) Len() int {
	return len(q.waiting)
}

// Snapshot returns a copy of the waiting handles, oldest first
func (q *Queue) Snapshot() []model.Handle {
	return slices.Clone(q.waiting)
}
