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
	satomic "sync/atomic"

	"go.uber.org/atomic"
)

// mailbox status word. The two lowest bits carry the open/closed and the
// scheduled flags, the remaining bits count the nested suspensions.
const (
	mailboxOpen      int32 = 0
	mailboxClosed    int32 = 1
	mailboxScheduled int32 = 2

	shouldScheduleMask   int32 = 3
	shouldNotProcessMask int32 = ^2
	suspendMask          int32 = ^3
	suspendUnit          int32 = 4
)

// closedLane replaces the head of the system lane once the mailbox is
// closed. Messages enqueued after that go to dead letters.
var closedLane = &SystemEnvelope{Message: &NoMessage{}}

// messageInvoker is the cell side of a mailbox.
type messageInvoker interface {
	Invoke(envelope Envelope)
	SystemInvoke(head *SystemEnvelope)
}

// mailbox pairs the user MessageQueue of a cell with its lock-free system
// message lane and grants the cell its execution slot. Only the goroutine
// that moved the status to scheduled runs the cell.
type mailbox struct {
	key        string
	invoker    messageInvoker
	dispatcher *Dispatcher
	queue      MessageQueue
	status     *atomic.Int32
	systemLane satomic.Pointer[SystemEnvelope]
	cleanupMu  sync.Mutex
	// deadLetter receives what a closed mailbox cannot deliver. It gets
	// either an Envelope or a SystemMessage.
	deadLetter func(message any)
}

func newMailbox(key string, invoker messageInvoker, dispatcher *Dispatcher, queue MessageQueue, deadLetter func(message any)) *mailbox {
	if queue == nil {
		queue = NewUnboundedQueue()
	}
	return &mailbox{
		key:        key,
		invoker:    invoker,
		dispatcher: dispatcher,
		queue:      queue,
		status:     atomic.NewInt32(mailboxOpen),
		deadLetter: deadLetter,
	}
}

func (m *mailbox) currentStatus() int32 {
	return m.status.Load()
}

func (m *mailbox) shouldProcessMessage() bool {
	return m.currentStatus()&shouldNotProcessMask == 0
}

func (m *mailbox) suspendCount() int {
	return int(m.currentStatus() / suspendUnit)
}

func (m *mailbox) isSuspended() bool {
	return m.currentStatus()&suspendMask != 0
}

func (m *mailbox) isClosed() bool {
	return m.currentStatus() == mailboxClosed
}

func (m *mailbox) isScheduled() bool {
	return m.currentStatus()&mailboxScheduled != 0
}

// resume lifts one suspension. It returns true when the mailbox is no
// longer suspended.
func (m *mailbox) resume() bool {
	for {
		status := m.currentStatus()
		if status == mailboxClosed {
			return false
		}
		next := status
		if status >= suspendUnit {
			next = status - suspendUnit
		}
		if m.status.CompareAndSwap(status, next) {
			return next < suspendUnit
		}
	}
}

// suspend adds one suspension. It returns true when the mailbox was not
// suspended before.
func (m *mailbox) suspend() bool {
	for {
		status := m.currentStatus()
		if status == mailboxClosed {
			return false
		}
		if m.status.CompareAndSwap(status, status+suspendUnit) {
			return status < suspendUnit
		}
	}
}

// becomeClosed returns false when the mailbox was already closed.
func (m *mailbox) becomeClosed() bool {
	for {
		status := m.currentStatus()
		if status == mailboxClosed {
			return false
		}
		if m.status.CompareAndSwap(status, mailboxClosed) {
			return true
		}
	}
}

func (m *mailbox) setAsScheduled() bool {
	for {
		status := m.currentStatus()
		// only an open, unscheduled mailbox can be scheduled, suspended or not
		if status&shouldScheduleMask != mailboxOpen {
			return false
		}
		if m.status.CompareAndSwap(status, status|mailboxScheduled) {
			return true
		}
	}
}

func (m *mailbox) setAsIdle() {
	for {
		status := m.currentStatus()
		if m.status.CompareAndSwap(status, status&^mailboxScheduled) {
			return
		}
	}
}

func (m *mailbox) hasMessages() bool {
	return !m.queue.IsEmpty()
}

func (m *mailbox) hasSystemMessages() bool {
	head := m.systemLane.Load()
	return head != nil && head != closedLane
}

// canBeScheduledForExecution reports whether running the mailbox would make
// progress. A suspended mailbox only runs for system messages.
func (m *mailbox) canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint bool) bool {
	switch m.currentStatus() {
	case mailboxOpen, mailboxScheduled:
		return hasMessageHint || hasSystemMessageHint || m.hasSystemMessages() || m.hasMessages()
	case mailboxClosed:
		return false
	default:
		return hasSystemMessageHint || m.hasSystemMessages()
	}
}

func (m *mailbox) enqueue(envelope Envelope) error {
	return m.queue.Enqueue(envelope)
}

// systemEnqueue pushes the node on the system lane, newest first.
func (m *mailbox) systemEnqueue(node *SystemEnvelope) {
	for {
		head := m.systemLane.Load()
		if head == closedLane {
			node.unlink()
			m.deadLetter(node.Message)
			return
		}
		node.next = head
		if m.systemLane.CompareAndSwap(head, node) {
			return
		}
	}
}

// systemDrain swaps the system lane with newContents and returns what it
// held, newest first. It returns nil once the mailbox is closed.
func (m *mailbox) systemDrain(newContents *SystemEnvelope) *SystemEnvelope {
	for {
		head := m.systemLane.Load()
		if head == closedLane {
			return nil
		}
		if m.systemLane.CompareAndSwap(head, newContents) {
			return head
		}
	}
}

// run is one turn of the execution slot: every pending system message,
// then up to throughput user messages, draining the system lane again after
// each of them.
func (m *mailbox) run() {
	defer func() {
		m.setAsIdle()
		m.dispatcher.registerForExecution(m, false, false)
	}()

	if !m.isClosed() {
		m.processAllSystemMessages()
		m.processMailbox()
	}
}

func (m *mailbox) processMailbox() {
	left := max(m.dispatcher.throughput, 1)
	for left > 0 && m.shouldProcessMessage() {
		envelope, ok := m.queue.Dequeue()
		if !ok {
			return
		}
		m.invoker.Invoke(envelope)
		m.processAllSystemMessages()
		left--
	}
}

func (m *mailbox) processAllSystemMessages() {
	head := m.systemDrain(nil)
	for head != nil && !m.isClosed() {
		m.invoker.SystemInvoke(head)
		if m.isClosed() {
			return
		}
		// never run a user message while a system message is pending
		head = m.systemDrain(nil)
	}
}

// cleanUp seals the system lane and moves every pending message to dead
// letters. It is safe to call more than once.
func (m *mailbox) cleanUp() {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()

	pending := latestFirst{head: m.systemDrain(closedLane)}
	for node := pending.reverse().head; node != nil; {
		next := node.next
		node.unlink()
		m.deadLetter(node.Message)
		node = next
	}

	for {
		envelope, ok := m.queue.Dequeue()
		if !ok {
			break
		}
		m.deadLetter(envelope)
	}
}
