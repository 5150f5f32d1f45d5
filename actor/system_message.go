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

import "fmt"

// SystemMessage is a lifecycle or supervision message delivered to a cell
// ahead of any user message. The set is closed: only the variants declared
// in this package implement it.
type SystemMessage interface {
	systemMessage()
}

// stashWhenFailed marks the system messages a suspended cell defers.
type stashWhenFailed interface {
	stashWhenFailed()
}

// stashWhenWaitingForChildren marks the system messages a cell defers while
// it waits for its children to terminate before a restart or a re-creation.
type stashWhenWaitingForChildren interface {
	stashWhenWaitingForChildren()
}

// Create instantiates the actor. A non nil Failure makes the creation fail
// with that error instead.
type Create struct {
	Failure error
}

// Recreate restarts the actor after Cause.
type Recreate struct {
	Cause error
}

// Suspend stops the processing of user messages. Suspensions nest.
type Suspend struct{}

// Resume lifts one suspension. CausedByFailure is set when the resume is
// the supervisor's answer to a failure.
type Resume struct {
	CausedByFailure error
}

// Terminate stops the actor and all its children.
type Terminate struct{}

// Supervise is sent by a child to its parent when it starts and each time
// it completes a restart.
type Supervise struct {
	Child *PID
	// Async is always false for the cells of this package: the children of
	// a restarting actor are stopped and awaited before the restart
	// completes. A parent only logs it.
	Async bool
}

// Watch registers Watcher as interested in the termination of Watchee.
type Watch struct {
	Watchee *PID
	Watcher *PID
}

// Unwatch removes a registration made with Watch.
type Unwatch struct {
	Watchee *PID
	Watcher *PID
}

// Failed reports the failure of Child to its parent. UID identifies the
// incarnation of the child that failed.
type Failed struct {
	Child *PID
	Cause error
	UID   int32
}

// DeathWatchNotification tells a watcher that Actor terminated.
type DeathWatchNotification struct {
	Actor              *PID
	ExistenceConfirmed bool
	AddressTerminated  bool
}

// NoMessage is a placeholder system message. It is never processed.
type NoMessage struct{}

func (*Create) systemMessage()                 {}
func (*Recreate) systemMessage()               {}
func (*Suspend) systemMessage()                {}
func (*Resume) systemMessage()                 {}
func (*Terminate) systemMessage()              {}
func (*Supervise) systemMessage()              {}
func (*Watch) systemMessage()                  {}
func (*Unwatch) systemMessage()                {}
func (*Failed) systemMessage()                 {}
func (*DeathWatchNotification) systemMessage() {}
func (*NoMessage) systemMessage()              {}

func (*Recreate) stashWhenWaitingForChildren() {}
func (*Suspend) stashWhenWaitingForChildren()  {}
func (*Resume) stashWhenWaitingForChildren()   {}
func (*Failed) stashWhenWaitingForChildren()   {}
func (*Failed) stashWhenFailed()               {}

// String implements fmt.Stringer
func (f *Failed) String() string {
	return fmt.Sprintf("Failed(%s, %v, uid=%d)", f.Child, f.Cause, f.UID)
}

// String implements fmt.Stringer
func (d *DeathWatchNotification) String() string {
	return fmt.Sprintf("DeathWatchNotification(%s, existenceConfirmed=%t)", d.Actor, d.ExistenceConfirmed)
}

// SystemEnvelope links system messages into the lists exchanged between a
// mailbox and its cell. A node belongs to exactly one list at a time and is
// unlinked before its message is processed.
type SystemEnvelope struct {
	Message SystemMessage
	next    *SystemEnvelope
}

// NewSystemEnvelope wraps a system message in an unlinked node.
func NewSystemEnvelope(message SystemMessage) *SystemEnvelope {
	return &SystemEnvelope{Message: message}
}

// Next returns the following node or nil at the end of the list.
func (e *SystemEnvelope) Next() *SystemEnvelope {
	return e.next
}

func (e *SystemEnvelope) unlink() {
	e.next = nil
}

func (e *SystemEnvelope) unlinked() bool {
	return e.next == nil
}

// latestFirst is a system message list in reverse arrival order, the order
// the lock-free mailbox lane produces.
type latestFirst struct {
	head *SystemEnvelope
}

func (l latestFirst) isEmpty() bool {
	return l.head == nil
}

func (l latestFirst) size() int {
	count := 0
	for node := l.head; node != nil; node = node.next {
		count++
	}
	return count
}

func (l latestFirst) prepend(node *SystemEnvelope) latestFirst {
	node.next = l.head
	return latestFirst{head: node}
}

func (l latestFirst) reverse() earliestFirst {
	var result *SystemEnvelope
	node := l.head
	for node != nil {
		next := node.next
		node.next = result
		result = node
		node = next
	}
	return earliestFirst{head: result}
}

// reversePrependTo moves the nodes of l in front of other, restoring
// their arrival order.
func (l latestFirst) reversePrependTo(other earliestFirst) earliestFirst {
	result := other.head
	node := l.head
	for node != nil {
		next := node.next
		node.next = result
		result = node
		node = next
	}
	return earliestFirst{head: result}
}

// earliestFirst is a system message list in arrival order.
type earliestFirst struct {
	head *SystemEnvelope
}

func (l earliestFirst) isEmpty() bool {
	return l.head == nil
}

func (l earliestFirst) tail() earliestFirst {
	return earliestFirst{head: l.head.next}
}

func (l earliestFirst) size() int {
	return latestFirst(l).size()
}

func (l earliestFirst) prepend(node *SystemEnvelope) earliestFirst {
	node.next = l.head
	return earliestFirst{head: node}
}

func (l earliestFirst) reverse() latestFirst {
	return latestFirst(latestFirst(l).reverse())
}
