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
	"time"
)

// deadLetters receives what cannot be delivered and publishes it on the
// event stream of the system.
type deadLetters struct {
	system *ActorSystem
	pid    *PID
}

var _ process = (*deadLetters)(nil)

func newDeadLetters(system *ActorSystem, path *Path) *deadLetters {
	sink := &deadLetters{system: system}
	sink.pid = newPID(path, newUID(), sink)
	return sink
}

// SendMessage publishes the message as a DeadLetter
func (d *deadLetters) SendMessage(envelope Envelope) {
	letter, ok := envelope.Message.(*DeadLetter)
	if !ok {
		letter = &DeadLetter{
			Message:   envelope.Message,
			Sender:    envelope.Sender,
			Recipient: d.pid,
		}
	}

	if letter.Timestamp.IsZero() {
		letter.Timestamp = time.Now()
	}

	if d.specialHandle(letter.Message, letter.Sender) {
		return
	}
	d.system.publishDeadLetter(letter)
}

// SendSystemMessage handles a system message addressed to dead letters
func (d *deadLetters) SendSystemMessage(message SystemMessage) {
	if d.specialHandle(message, nil) {
		return
	}
	d.system.publishDeadLetter(&DeadLetter{
		Message:   message,
		Recipient: d.pid,
		Timestamp: time.Now(),
	})
}

// specialHandle answers the messages that expect an answer from a missing
// actor and drops the ones not worth publishing.
func (d *deadLetters) specialHandle(message any, sender *PID) bool {
	switch msg := message.(type) {
	case *Watch:
		// the watchee is gone: tell the watcher right away
		if msg.Watchee != d.pid && msg.Watcher != d.pid {
			msg.Watcher.sendSystemMessage(&DeathWatchNotification{
				Actor:              msg.Watchee,
				ExistenceConfirmed: false,
			})
		}
		return true
	case *Identify:
		if sender != nil {
			sender.Tell(&ActorIdentity{MessageID: msg.MessageID}, d.pid)
		}
		return true
	case *ActorSelectionMessage:
		if identify, ok := msg.Message.(*Identify); ok {
			return d.specialHandle(identify, sender)
		}
		return false
	case *Unwatch, *Terminate, *DeathWatchNotification, *NoMessage, *Terminated:
		return true
	default:
		return false
	}
}
