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

import "time"

// Envelope carries a user message and its sender through the mailbox.
type Envelope struct {
	Message any
	Sender  *PID
}

// NewEnvelope creates an Envelope. A nil sender means no sender.
func NewEnvelope(message any, sender *PID) Envelope {
	return Envelope{Message: message, Sender: sender}
}

// autoReceivedMessage marks the user messages a cell handles itself before
// the actor's behavior sees them.
type autoReceivedMessage interface {
	autoReceived()
}

// NotInfluenceReceiveTimeout marks messages that must not reset the
// receive timeout of the actor receiving them.
type NotInfluenceReceiveTimeout interface {
	notInfluenceReceiveTimeout()
}

// PoisonPill stops the receiving actor once the messages ahead of it have
// been processed.
type PoisonPill struct{}

// Kill makes the receiving actor fail with an ActorKilledError.
type Kill struct{}

// Identify asks an actor to answer with an ActorIdentity carrying its PID.
type Identify struct {
	MessageID any
}

// ActorIdentity is the answer to Identify. Ref is nil when no actor was found.
type ActorIdentity struct {
	MessageID any
	Ref       *PID
}

// Terminated is delivered to a watcher when a watched actor terminates.
type Terminated struct {
	Actor              *PID
	ExistenceConfirmed bool
	AddressTerminated  bool
}

// AddressTerminated is delivered when every actor living at Address is gone.
type AddressTerminated struct {
	Address string
}

// ReceiveTimeout is delivered when an actor stayed idle for longer than its
// receive timeout.
type ReceiveTimeout struct{}

// ActorSelectionMessage routes Message along Elements, starting at the
// actor receiving it. An element is a child name, ".." or a glob pattern.
type ActorSelectionMessage struct {
	Message  any
	Elements []string
	Wildcard bool
}

// DeadLetter wraps a message that could not be delivered.
type DeadLetter struct {
	Message   any
	Sender    *PID
	Recipient *PID
	Timestamp time.Time
}

// UnhandledMessage is published when an actor's behavior did not handle
// a message.
type UnhandledMessage struct {
	Message   any
	Sender    *PID
	Recipient *PID
}

func (*PoisonPill) autoReceived()            {}
func (*Kill) autoReceived()                  {}
func (*Identify) autoReceived()              {}
func (*Terminated) autoReceived()            {}
func (*AddressTerminated) autoReceived()     {}
func (*ActorSelectionMessage) autoReceived() {}

func (*Identify) notInfluenceReceiveTimeout() {}
