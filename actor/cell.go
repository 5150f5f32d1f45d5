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
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/timer"
	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

// cellState orders the supervision states by how many system messages
// they defer. Each state defers a superset of what a lower one defers.
type cellState int

const (
	defaultState cellState = iota
	suspendedState
	suspendedWaitingForChildrenState
)

// String implements fmt.Stringer
func (s cellState) String() string {
	switch s {
	case defaultState:
		return "Default"
	case suspendedState:
		return "Suspended"
	case suspendedWaitingForChildrenState:
		return "SuspendedWaitingForChildren"
	default:
		return "Unknown"
	}
}

type failureState int

const (
	noFailure failureState = iota
	failedWithPerpetrator
	failedFatally
)

// Cell runs one actor. It hosts the live actor instance, its behaviors,
// children and watch edges, and reacts to the system messages that drive
// its lifecycle.
//
// The mailbox runs a cell on one goroutine at a time. Every unexported
// field below the mailbox is only touched while holding that slot, the
// children registry excepted.
type Cell struct {
	self       *PID
	parent     *PID
	system     *ActorSystem
	props      *Props
	dispatcher *Dispatcher
	mailbox    *mailbox
	logger     log.Logger
	supervisor *supervisor.Supervisor

	actor     Actor
	behaviors *behaviorStack
	current   *Envelope

	children        *childrenRegistry
	pendingRestarts map[*PID]struct{}

	watching         map[*PID]any
	watchedBy        mapset.Set[*PID]
	terminatedQueued map[*PID]any

	failure     failureState
	perpetrator *PID
	stash       latestFirst

	receiveTimeout time.Duration
	reminder       *timer.Reminder

	stopped  chan struct{}
	stopOnce sync.Once
}

var _ process = (*Cell)(nil)

// newCell creates a cell and queues its Create message. The cell does not
// run before start.
func newCell(system *ActorSystem, path *Path, props *Props, parent *PID) *Cell {
	cell := &Cell{
		parent:           parent,
		system:           system,
		props:            props,
		dispatcher:       system.dispatcher,
		logger:           system.logger.With("actor", path.String()),
		supervisor:       props.supervisor,
		behaviors:        newBehaviorStack(),
		children:         newChildrenRegistry(),
		pendingRestarts:  make(map[*PID]struct{}),
		watching:         make(map[*PID]any),
		watchedBy:        mapset.NewThreadUnsafeSet[*PID](),
		terminatedQueued: make(map[*PID]any),
		stopped:          make(chan struct{}),
	}

	if cell.supervisor == nil {
		cell.supervisor = system.supervisor
	}

	cell.self = newPID(path, newUID(), cell)
	cell.mailbox = newMailbox(path.String(), cell, cell.dispatcher, props.newQueue(), cell.deadLetter)
	cell.reminder = timer.NewReminder(func() {
		cell.self.Tell(&ReceiveTimeout{}, nil)
	})

	cell.mailbox.systemEnqueue(NewSystemEnvelope(&Create{}))
	return cell
}

// start announces the cell to its parent and schedules its first turn.
func (c *Cell) start() {
	c.parent.sendSystemMessage(&Supervise{Child: c.self})
	c.dispatcher.attach(c.mailbox)
}

// Self returns the PID of the cell
func (c *Cell) Self() *PID {
	return c.self
}

// Parent returns the PID of the supervising parent
func (c *Cell) Parent() *PID {
	return c.parent
}

// IsTerminated reports whether the cell completed its termination. A
// terminated cell is never restarted.
func (c *Cell) IsTerminated() bool {
	return c.mailbox.isClosed()
}

// Stopped returns a channel closed once the cell is terminated
func (c *Cell) Stopped() <-chan struct{} {
	return c.stopped
}

// SendMessage enqueues a user message. It is safe for concurrent use and
// never runs actor code. Messages for a terminated cell, or refused by a
// full mailbox, go to dead letters.
func (c *Cell) SendMessage(envelope Envelope) {
	if c.mailbox.isClosed() {
		c.deadLetter(envelope)
		return
	}

	if err := c.dispatcher.dispatch(c.mailbox, envelope); err != nil {
		c.logger.Debugf("message %T redirected to dead letters: %v", envelope.Message, err)
		c.deadLetter(envelope)
		return
	}

	// the cell terminated while the envelope was being enqueued
	if c.mailbox.isClosed() {
		c.mailbox.cleanUp()
	}
}

// SendSystemMessage enqueues a system message. It is safe for concurrent use
// and never runs actor code.
func (c *Cell) SendSystemMessage(message SystemMessage) {
	c.dispatcher.systemDispatch(c.mailbox, message)
}

// Invoke processes one user message. The mailbox calls it while holding the
// execution slot of the cell.
func (c *Cell) Invoke(envelope Envelope) {
	message := envelope.Message
	timeoutBefore := c.cancelReceiveTimeoutIfNeeded(message)
	start := time.Now()

	c.current = &envelope
	if err := c.invoke(envelope); err != nil {
		// keep the current message: a restart hands it to PreRestart
		c.handleInvokeFailure(nil, err)
	} else {
		c.current = nil
	}

	c.system.recordProcessed(c.self.path.String(), time.Since(start))
	c.checkReceiveTimeoutIfNeeded(message, timeoutBefore)
}

func (c *Cell) invoke(envelope Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverPanic(r)
		}
	}()

	if _, ok := envelope.Message.(autoReceivedMessage); ok {
		return c.autoReceiveMessage(envelope)
	}
	return c.receiveMessage(envelope)
}

func (c *Cell) autoReceiveMessage(envelope Envelope) error {
	switch msg := envelope.Message.(type) {
	case *Terminated:
		return c.receivedTerminated(msg)
	case *AddressTerminated:
		c.addressTerminated(msg.Address)
	case *Kill:
		return &gerrors.ActorKilledError{Path: c.self.path.String()}
	case *PoisonPill:
		c.self.sendSystemMessage(&Terminate{})
	case *ActorSelectionMessage:
		return c.receiveSelection(msg, envelope.Sender)
	case *Identify:
		if envelope.Sender != nil {
			envelope.Sender.Tell(&ActorIdentity{MessageID: msg.MessageID, Ref: c.self}, c.self)
		}
	}
	return nil
}

// receiveMessage hands the message to the active behavior.
func (c *Cell) receiveMessage(envelope Envelope) error {
	behavior := c.behaviors.Peek()
	if c.actor == nil || behavior == nil {
		c.deadLetter(envelope)
		return nil
	}

	received := newReceiveContext(c, envelope)
	behavior(received)

	if received.unhandled {
		return c.unhandled(envelope)
	}
	return received.err
}

// unhandled publishes the message. An unhandled Terminated breaks the
// death pact between watcher and watchee.
func (c *Cell) unhandled(envelope Envelope) error {
	if terminated, ok := envelope.Message.(*Terminated); ok {
		return &gerrors.DeathPactError{Path: terminated.Actor.path.String()}
	}

	c.system.publishUnhandled(&UnhandledMessage{
		Message:   envelope.Message,
		Sender:    envelope.Sender,
		Recipient: c.self,
	})
	return nil
}

// SystemInvoke processes a batch of system messages. head is the newest
// message of the batch, as drained from the mailbox lane.
func (c *Cell) SystemInvoke(head *SystemEnvelope) {
	messages := latestFirst{head: head}.reverse()
	state := c.calculateState()

	for !messages.isEmpty() {
		node := messages.head
		messages = messages.tail()
		node.unlink()

		if c.shouldStash(node.Message, state) {
			c.stashMessage(node)
		} else if err := c.systemHandle(node.Message); err != nil {
			c.handleInvokeFailure(nil, err)
		}

		newState := c.calculateState()
		// each state defers a subset of what the stricter ones defer
		if newState < state {
			messages = c.unstashAll().reversePrependTo(messages)
		}
		state = newState

		if c.IsTerminated() {
			c.sendAllToDeadLetters(messages)
			return
		}
	}
}

func (c *Cell) systemHandle(message SystemMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverPanic(r)
		}
	}()

	c.logger.Debugf("processing %s", systemMessageName(message))

	switch msg := message.(type) {
	case *Failed:
		return c.handleFailure(msg)
	case *DeathWatchNotification:
		c.watchedActorTerminated(msg.Actor, msg.ExistenceConfirmed, msg.AddressTerminated)
	case *Create:
		return c.create(msg.Failure)
	case *Watch:
		c.addWatcher(msg.Watchee, msg.Watcher)
	case *Unwatch:
		c.remWatcher(msg.Watchee, msg.Watcher)
	case *Recreate:
		c.faultRecreate(msg.Cause)
	case *Suspend:
		c.faultSuspend()
	case *Resume:
		c.faultResume(msg.CausedByFailure)
	case *Terminate:
		c.terminate()
	case *Supervise:
		if msg.Async {
			c.logger.Debugf("%s supervising %s asynchronously", c.self.path, msg.Child)
		}
		c.supervise(msg.Child)
	case *NoMessage:
	}
	return nil
}

// calculateState derives the supervision state. Waiting for dying children
// or for a child restart ordered by this cell is the strictest.
func (c *Cell) calculateState() cellState {
	if _, waiting := c.children.waitingForChildren(); waiting || len(c.pendingRestarts) > 0 {
		return suspendedWaitingForChildrenState
	}
	if c.mailbox.isSuspended() {
		return suspendedState
	}
	return defaultState
}

func (c *Cell) shouldStash(message SystemMessage, state cellState) bool {
	switch state {
	case suspendedState:
		_, ok := message.(stashWhenFailed)
		return ok
	case suspendedWaitingForChildrenState:
		// the outcome of a pending restart must get through
		if failed, ok := message.(*Failed); ok && c.isPendingRestart(failed.Child) {
			return false
		}
		_, ok := message.(stashWhenWaitingForChildren)
		return ok
	default:
		return false
	}
}

func (c *Cell) stashMessage(node *SystemEnvelope) {
	c.logger.Debugf("stashing %s", systemMessageName(node.Message))
	c.stash = c.stash.prepend(node)
	c.system.recordStashed(c.self.path.String())
}

func (c *Cell) unstashAll() latestFirst {
	stashed := c.stash
	c.stash = latestFirst{}
	return stashed
}

func (c *Cell) sendAllToDeadLetters(messages earliestFirst) {
	for !messages.isEmpty() {
		node := messages.head
		messages = messages.tail()
		node.unlink()
		c.deadLetter(node.Message)
	}
}

// deadLetter forwards an undeliverable Envelope or SystemMessage to the
// dead letters of the system.
func (c *Cell) deadLetter(message any) {
	letter := &DeadLetter{Recipient: c.self, Timestamp: time.Now()}
	switch msg := message.(type) {
	case Envelope:
		letter.Message = msg.Message
		letter.Sender = msg.Sender
	default:
		letter.Message = msg
	}
	c.system.deadLetters.Tell(letter, letter.Sender)
}

// newContext creates the context handed to lifecycle hooks
func (c *Cell) newContext(ctx context.Context) *Context {
	return &Context{ctx: ctx, cell: c}
}

// safeCall runs actor code, turning a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverPanic(r)
		}
	}()
	return fn()
}

// recoverPanic turns a recovered value into a PanicError carrying the
// location of the panic. Fatal errors keep panicking.
func recoverPanic(r any) error {
	if err, ok := r.(error); ok && gerrors.IsFatal(err) {
		panic(r)
	}

	pc, fn, line, _ := runtime.Caller(2)
	if err, ok := r.(error); ok {
		return gerrors.NewPanicError(
			fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line),
		)
	}
	return gerrors.NewPanicError(
		fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line),
	)
}

func systemMessageName(message SystemMessage) string {
	switch msg := message.(type) {
	case fmt.Stringer:
		return msg.String()
	default:
		name := fmt.Sprintf("%T", message)
		return name[strings.LastIndexByte(name, '.')+1:]
	}
}

// isInterruption reports whether err comes from a canceled context.
func isInterruption(err error) bool {
	return errors.Is(err, context.Canceled)
}
