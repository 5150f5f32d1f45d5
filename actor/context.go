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
	"time"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/log"
)

// Context gives actor code access to its cell. It is only valid inside the
// call it was handed to: the factory, a lifecycle hook or a behavior.
type Context struct {
	ctx  context.Context
	cell *Cell
}

// Context returns the context.Context of the current call. Lifecycle hooks
// see it canceled when the system shuts down or the init timeout elapses.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the PID of the actor
func (c *Context) Self() *PID {
	return c.cell.self
}

// Parent returns the PID of the parent
func (c *Context) Parent() *PID {
	return c.cell.parent
}

// System returns the actor system
func (c *Context) System() *ActorSystem {
	return c.cell.system
}

// Logger returns the logger of the actor
func (c *Context) Logger() log.Logger {
	return c.cell.logger
}

// Spawn creates a child. An empty name lets the system pick one.
func (c *Context) Spawn(name string, props *Props) (*PID, error) {
	return c.cell.spawn(name, props)
}

// Stop stops a child or the actor itself. Stopping is asynchronous.
func (c *Context) Stop(pid *PID) {
	if pid == nil {
		return
	}
	c.cell.stop(pid)
}

// Children returns the live children
func (c *Context) Children() []*PID {
	return c.cell.children.pids()
}

// Child returns the child called name
func (c *Context) Child(name string) (*PID, bool) {
	return c.cell.children.getByName(name)
}

// Watch delivers a Terminated message when pid terminates.
func (c *Context) Watch(pid *PID) error {
	if pid == nil {
		return gerrors.ErrDead
	}
	return c.cell.watch(pid, nil)
}

// WatchWith delivers message instead of Terminated when pid terminates.
// Changing the message of an existing watch requires an Unwatch first.
func (c *Context) WatchWith(pid *PID, message any) error {
	if pid == nil {
		return gerrors.ErrDead
	}
	return c.cell.watch(pid, message)
}

// Unwatch cancels a watch. A Terminated already queued is dropped.
func (c *Context) Unwatch(pid *PID) {
	c.cell.unwatch(pid)
}

// Become switches the behavior of the actor. With discardOld the current
// behavior is replaced, otherwise it is kept for Unbecome.
func (c *Context) Become(behavior Behavior, discardOld bool) {
	c.cell.behaviors.Become(behavior, discardOld)
}

// Unbecome goes back to the previous behavior, down to Receive.
func (c *Context) Unbecome() {
	var base Behavior
	if c.cell.actor != nil {
		base = c.cell.actor.Receive
	}
	if base == nil && c.cell.behaviors.Len() <= 1 {
		return
	}
	c.cell.behaviors.Unbecome(base)
}

// SetReceiveTimeout makes the actor receive a ReceiveTimeout after staying
// idle for timeout. A non positive timeout disables it.
func (c *Context) SetReceiveTimeout(timeout time.Duration) {
	c.cell.setReceiveTimeout(timeout)
}

// ReceiveTimeout returns the receive timeout in force
func (c *Context) ReceiveTimeout() time.Duration {
	return c.cell.receiveTimeout
}

// ActorSelection selects actors relatively to this one, like "../b" or "workers/*".
func (c *Context) ActorSelection(path string) *ActorSelection {
	return newActorSelection(c.cell.self, path)
}

// ReceiveContext is the Context of a message being processed.
type ReceiveContext struct {
	*Context
	envelope  Envelope
	unhandled bool
	err       error
}

func newReceiveContext(cell *Cell, envelope Envelope) *ReceiveContext {
	return &ReceiveContext{
		Context:  cell.newContext(cell.system.ctx),
		envelope: envelope,
	}
}

// Message returns the message being processed
func (r *ReceiveContext) Message() any {
	return r.envelope.Message
}

// Sender returns the sender of the message, nil when there is none
func (r *ReceiveContext) Sender() *PID {
	return r.envelope.Sender
}

// Tell sends message to pid with this actor as sender
func (r *ReceiveContext) Tell(pid *PID, message any) {
	pid.Tell(message, r.cell.self)
}

// Respond answers the sender. Without sender the answer is a dead letter.
func (r *ReceiveContext) Respond(message any) {
	if r.envelope.Sender == nil {
		r.cell.system.deadLetters.Tell(message, r.cell.self)
		return
	}
	r.envelope.Sender.Tell(message, r.cell.self)
}

// Forward sends the message being processed to pid, keeping its sender
func (r *ReceiveContext) Forward(pid *PID) {
	pid.Tell(r.envelope.Message, r.envelope.Sender)
}

// Unhandled marks the message as not handled by the behavior
func (r *ReceiveContext) Unhandled() {
	r.unhandled = true
}

// Err fails the processing of the message. The actor is suspended and its
// parent decides how to recover once the behavior returns.
func (r *ReceiveContext) Err(err error) {
	r.err = err
}
