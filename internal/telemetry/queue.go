package telemetry

import (
	"sync"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

// Queue is an unbounded FIFO buffer between the simulation tasks (many
// producers) and the persistence worker (single consumer).
//
// Push never blocks: producers must not stall on slow disk I/O. Pop
// blocks until a snapshot is available or the queue is closed and fully
// drained, so the consumer needs no polling loop. Snapshots from a single
// producer are delivered in the order they were pushed.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []device.Snapshot
	closed bool
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a snapshot to the queue without blocking.
//
// Returns ErrQueueClosed if Close has been called; the snapshot is
// dropped in that case.
func (q *Queue) Push(snap device.Snapshot) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, snap)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the oldest snapshot, blocking until one is
// available. After Close, Pop keeps returning buffered snapshots until
// the queue is empty, then returns ok=false.
func (q *Queue) Pop() (device.Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return device.Snapshot{}, false
	}

	snap := q.items[0]
	q.items = q.items[1:]
	return snap, true
}

// Close marks the queue closed. Subsequent pushes fail with
// ErrQueueClosed; buffered snapshots remain poppable. Safe to call more
// than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of buffered snapshots.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
