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
	"github.com/tochemey/actorcell/log"
)

// Executor runs mailbox turns. Turns submitted with the same key may run on
// any goroutine; the mailbox status word keeps them from overlapping.
type Executor interface {
	SubmitWorkByKey(key string, task func()) bool
	Stop()
}

// Dispatcher schedules mailboxes on an Executor.
type Dispatcher struct {
	executor   Executor
	throughput int
	logger     log.Logger
}

// NewDispatcher creates a Dispatcher processing up to throughput user
// messages per mailbox turn.
func NewDispatcher(executor Executor, throughput int, logger log.Logger) *Dispatcher {
	return &Dispatcher{
		executor:   executor,
		throughput: max(throughput, 1),
		logger:     logger,
	}
}

// Throughput returns the number of user messages processed per turn
func (d *Dispatcher) Throughput() int {
	return d.throughput
}

func (d *Dispatcher) dispatch(mbox *mailbox, envelope Envelope) error {
	if err := mbox.enqueue(envelope); err != nil {
		return err
	}
	d.registerForExecution(mbox, true, false)
	return nil
}

func (d *Dispatcher) systemDispatch(mbox *mailbox, message SystemMessage) {
	mbox.systemEnqueue(NewSystemEnvelope(message))
	d.registerForExecution(mbox, false, true)
}

// attach schedules the first turn of a new mailbox, the one processing Create.
func (d *Dispatcher) attach(mbox *mailbox) {
	d.registerForExecution(mbox, false, true)
}

// detach closes the mailbox and hands whatever it still holds to dead letters.
func (d *Dispatcher) detach(mbox *mailbox) {
	mbox.becomeClosed()
	mbox.cleanUp()
	mbox.queue.Dispose()
}

func (d *Dispatcher) registerForExecution(mbox *mailbox, hasMessageHint, hasSystemMessageHint bool) bool {
	if !mbox.canBeScheduledForExecution(hasMessageHint, hasSystemMessageHint) {
		return false
	}

	if !mbox.setAsScheduled() {
		return false
	}

	if !d.executor.SubmitWorkByKey(mbox.key, mbox.run) {
		mbox.setAsIdle()
		d.logger.Warnf("executor rejected the turn of %s", mbox.key)
		return false
	}
	return true
}
