// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"sync"
	"sync/atomic"

	gods "github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/tochemey/actorcell/errors"
)

// MessageQueue holds the user messages of a mailbox.
//
// Many goroutines enqueue concurrently while a single goroutine, the one
// holding the cell's execution slot, dequeues.
type MessageQueue interface {
	// Enqueue appends an envelope. It never blocks.
	Enqueue(envelope Envelope) error
	// Dequeue removes the oldest envelope. The boolean is false when the
	// queue is empty.
	Dequeue() (Envelope, bool)
	// Len returns a snapshot of the number of queued envelopes.
	Len() int64
	// IsEmpty reports whether the queue currently holds no envelope.
	IsEmpty() bool
	// Dispose releases the queue resources.
	Dispose()
}

type queueNode struct {
	next     atomic.Pointer[queueNode]
	envelope Envelope
}

var queueNodePool = sync.Pool{New: func() any { return new(queueNode) }}

// UnboundedQueue is the default lock-free multi-producer single-consumer
// MessageQueue. FIFO ordering holds across all producers.
type UnboundedQueue struct {
	head  atomic.Pointer[queueNode] // consumer only
	_pad1 [64]byte
	tail  atomic.Pointer[queueNode] // producers only
	_pad2 [64]byte
}

var _ MessageQueue = (*UnboundedQueue)(nil)

// NewUnboundedQueue creates an UnboundedQueue. It starts with a dummy node
// producers link behind.
func NewUnboundedQueue() *UnboundedQueue {
	dummy := queueNodePool.Get().(*queueNode)
	dummy.next.Store(nil)
	dummy.envelope = Envelope{}
	q := &UnboundedQueue{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Enqueue appends the envelope. Always returns nil.
func (q *UnboundedQueue) Enqueue(envelope Envelope) error {
	node := queueNodePool.Get().(*queueNode)
	node.envelope = envelope
	node.next.Store(nil)

	prev := q.tail.Swap(node)
	prev.next.Store(node)
	return nil
}

// Dequeue removes the oldest envelope. Single consumer only.
func (q *UnboundedQueue) Dequeue() (Envelope, bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return Envelope{}, false
	}

	q.head.Store(next)
	envelope := next.envelope
	// next becomes the new dummy, drop its references
	next.envelope = Envelope{}

	head.next.Store(nil)
	queueNodePool.Put(head)
	return envelope, true
}

// Len walks the queue. Use it for diagnostics only.
func (q *UnboundedQueue) Len() int64 {
	var count int64
	for node := q.head.Load().next.Load(); node != nil; node = node.next.Load() {
		count++
	}
	return count
}

// IsEmpty reports whether the queue is empty.
func (q *UnboundedQueue) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Dispose is a no-op.
func (q *UnboundedQueue) Dispose() {}

// BoundedQueue is a MessageQueue with a fixed capacity backed by a ring
// buffer. Enqueue fails with ErrMailboxFull instead of blocking, so that a
// full mailbox redirects the envelope to dead letters.
type BoundedQueue struct {
	underlying *gods.RingBuffer
}

var _ MessageQueue = (*BoundedQueue)(nil)

// NewBoundedQueue creates a BoundedQueue. The ring buffer rounds the
// capacity up to the next power of two.
func NewBoundedQueue(capacity int) *BoundedQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &BoundedQueue{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue offers the envelope to the ring buffer.
func (q *BoundedQueue) Enqueue(envelope Envelope) error {
	ok, err := q.underlying.Offer(envelope)
	if err != nil {
		return gerrors.ErrMailboxClosed
	}
	if !ok {
		return gerrors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes the oldest envelope without blocking.
func (q *BoundedQueue) Dequeue() (Envelope, bool) {
	if q.underlying.Len() == 0 {
		return Envelope{}, false
	}
	item, err := q.underlying.Get()
	if err != nil {
		return Envelope{}, false
	}
	envelope, ok := item.(Envelope)
	return envelope, ok
}

// Len returns the number of queued envelopes
func (q *BoundedQueue) Len() int64 {
	return int64(q.underlying.Len())
}

// IsEmpty reports whether the queue is empty
func (q *BoundedQueue) IsEmpty() bool {
	return q.underlying.Len() == 0
}

// Dispose releases the ring buffer
func (q *BoundedQueue) Dispose() {
	q.underlying.Dispose()
}
