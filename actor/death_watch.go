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
	"reflect"

	gerrors "github.com/tochemey/actorcell/errors"
)

// watch registers this cell as a watcher of subject. message replaces the
// default Terminated notification when not nil. Watching again with the
// same message is a no-op; with another one it is an error.
func (c *Cell) watch(subject *PID, message any) error {
	if subject == nil || subject == c.self {
		return nil
	}

	if previous, ok := c.watching[subject]; ok {
		if !reflect.DeepEqual(previous, message) {
			return gerrors.NewIllegalStateError(
				"watch(%s, %s) termination message was not overwritten from [%v] to [%v], unwatch first",
				c.self, subject, previous, message)
		}
		return nil
	}

	subject.sendSystemMessage(&Watch{Watchee: subject, Watcher: c.self})
	c.watching[subject] = message
	return nil
}

func (c *Cell) unwatch(subject *PID) {
	if subject == nil {
		return
	}

	if _, ok := c.watching[subject]; ok && subject != c.self {
		subject.sendSystemMessage(&Unwatch{Watchee: subject, Watcher: c.self})
		delete(c.watching, subject)
	}
	delete(c.terminatedQueued, subject)
}

// receivedTerminated delivers a Terminated queued by this cell, or the
// custom message registered with the watch.
func (c *Cell) receivedTerminated(terminated *Terminated) error {
	message, ok := c.terminatedQueued[terminated.Actor]
	if !ok {
		return nil
	}
	delete(c.terminatedQueued, terminated.Actor)

	if message == nil {
		message = terminated
	}
	return c.receiveMessage(NewEnvelope(message, terminated.Actor))
}

// watchedActorTerminated turns a DeathWatchNotification into one
// Terminated message per watch edge.
func (c *Cell) watchedActorTerminated(actor *PID, existenceConfirmed, addressTerminated bool) {
	if message, ok := c.watching[actor]; ok {
		delete(c.watching, actor)
		if !c.children.isTerminating() {
			c.self.Tell(&Terminated{
				Actor:              actor,
				ExistenceConfirmed: existenceConfirmed,
				AddressTerminated:  addressTerminated,
			}, actor)
			c.terminatedQueued[actor] = message
		}
	}

	if _, ok := c.children.getByRef(actor); ok {
		c.handleChildTerminated(actor)
	}
}

func (c *Cell) addWatcher(watchee, watcher *PID) {
	watcheeSelf := watchee == c.self
	watcherSelf := watcher == c.self

	switch {
	case watcheeSelf && !watcherSelf:
		if c.watchedBy.Add(watcher) {
			c.logger.Debugf("%s now watched by %s", c.self.path, watcher)
		}
	case !watcheeSelf && watcherSelf:
		if err := c.watch(watchee, nil); err != nil {
			c.logger.Warn(err)
		}
	default:
		c.logger.Warnf("illegal Watch(%s, %s) for %s", watchee, watcher, c.self)
	}
}

func (c *Cell) remWatcher(watchee, watcher *PID) {
	watcheeSelf := watchee == c.self
	watcherSelf := watcher == c.self

	switch {
	case watcheeSelf && !watcherSelf:
		if c.watchedBy.Contains(watcher) {
			c.watchedBy.Remove(watcher)
			c.logger.Debugf("%s no longer watched by %s", c.self.path, watcher)
		}
	case !watcheeSelf && watcherSelf:
		c.unwatch(watchee)
	default:
		c.logger.Warnf("illegal Unwatch(%s, %s) for %s", watchee, watcher, c.self)
	}
}

// tellWatchersWeDied notifies every watcher but the parent, which gets its
// own notification.
func (c *Cell) tellWatchersWeDied() {
	for _, watcher := range c.watchedBy.ToSlice() {
		if watcher == c.parent {
			continue
		}
		watcher.sendSystemMessage(&DeathWatchNotification{Actor: c.self, ExistenceConfirmed: true})
	}
	c.watchedBy.Clear()
}

func (c *Cell) unwatchWatchedActors() {
	for watchee := range c.watching {
		watchee.sendSystemMessage(&Unwatch{Watchee: watchee, Watcher: c.self})
	}
	clear(c.watching)
	clear(c.terminatedQueued)
}

// addressTerminated drops the watchers living at address and notifies this
// cell about the watchees living there.
func (c *Cell) addressTerminated(address string) {
	for _, watcher := range c.watchedBy.ToSlice() {
		if watcher.path.System() == address {
			c.watchedBy.Remove(watcher)
		}
	}

	for watchee := range c.watching {
		if watchee.path.System() != address {
			continue
		}
		_, isChild := c.children.getByRef(watchee)
		c.self.sendSystemMessage(&DeathWatchNotification{
			Actor:              watchee,
			ExistenceConfirmed: isChild,
			AddressTerminated:  true,
		})
	}
}
