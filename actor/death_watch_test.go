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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorcell/errors"
)

func watcherProps(name string, events *eventLog, watch func(ctx *Context) error) *Props {
	return PropsOf(func() Actor {
		return &probe{name: name, events: events, preStart: watch}
	})
}

// deaf watches its subject and handles nothing.
type deaf struct {
	subject *PID
}

func (d *deaf) PreStart(ctx *Context) error { return ctx.Watch(d.subject) }
func (d *deaf) Receive(ctx *ReceiveContext) { ctx.Unhandled() }
func (d *deaf) PostStop(*Context) error     { return nil }

func TestDeathWatch(t *testing.T) {
	t.Run("With one Terminated per watch", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)

		var watchErr error
		_, err = system.Spawn("w", watcherProps("w", events, func(ctx *Context) error {
			watchErr = ctx.Watch(target)
			if watchErr == nil {
				watchErr = ctx.Watch(target)
			}
			return nil
		}))
		require.NoError(t, err)
		executor.runAll()
		require.NoError(t, watchErr)
		assert.True(t, cellOf(t, target).watchedBy.Cardinality() == 1)

		target.sendSystemMessage(&Terminate{})
		executor.runAll()

		assert.Equal(t, 1, events.count("w saw t terminated"))
	})
	t.Run("With a different termination message refused", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)

		var watchErr error
		_, err = system.Spawn("w", watcherProps("w", events, func(ctx *Context) error {
			if err := ctx.WatchWith(target, "t is gone"); err != nil {
				return err
			}
			watchErr = ctx.Watch(target)
			return nil
		}))
		require.NoError(t, err)
		executor.runAll()

		var illegal *gerrors.IllegalStateError
		require.ErrorAs(t, watchErr, &illegal)

		target.sendSystemMessage(&Terminate{})
		executor.runAll()
		assert.Equal(t, 1, events.count("w received t is gone"))
		assert.Zero(t, events.count("w saw t terminated"))
	})
	t.Run("With unwatch before termination", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		watcher, err := system.Spawn("w", watcherProps("w", events, func(ctx *Context) error {
			return ctx.Watch(target)
		}))
		require.NoError(t, err)
		executor.runAll()

		cellOf(t, watcher).unwatch(target)
		executor.runAll()
		assert.Zero(t, cellOf(t, target).watchedBy.Cardinality())

		target.sendSystemMessage(&Terminate{})
		executor.runAll()
		assert.Zero(t, events.count("w saw t terminated"))
	})
	t.Run("With a dead actor watched", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		target.sendSystemMessage(&Terminate{})
		executor.runAll()

		_, err = system.Spawn("w", watcherProps("w", events, func(ctx *Context) error {
			return ctx.Watch(target)
		}))
		require.NoError(t, err)
		executor.runAll()

		assert.Equal(t, 1, events.count("w saw t terminated"))
	})
	t.Run("With an unhandled Terminated breaking the death pact", func(t *testing.T) {
		system, executor, logger := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		watcher, err := system.Spawn("w", PropsOf(func() Actor { return &deaf{subject: target} }))
		require.NoError(t, err)
		executor.runAll()

		target.sendSystemMessage(&Terminate{})
		executor.runAll()

		assert.True(t, cellOf(t, watcher).IsTerminated())
		assert.GreaterOrEqual(t, logger.indexOf(0, "supervising", "monitored actor", "directive=Stop"), 0)
	})
	t.Run("With watchers notified when the watched actor stops", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		for _, name := range []string{"w1", "w2"} {
			_, err := system.Spawn(name, watcherProps(name, events, func(ctx *Context) error {
				return ctx.Watch(target)
			}))
			require.NoError(t, err)
		}
		executor.runAll()

		target.Tell(&PoisonPill{}, nil)
		executor.runAll()

		assert.Equal(t, 1, events.count("w1 saw t terminated"))
		assert.Equal(t, 1, events.count("w2 saw t terminated"))
		assert.Zero(t, cellOf(t, target).watchedBy.Cardinality())
	})
	t.Run("With a nil actor", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		var watchErr error
		_, err := system.Spawn("w", watcherProps("w", new(eventLog), func(ctx *Context) error {
			watchErr = ctx.Watch(nil)
			return nil
		}))
		require.NoError(t, err)
		executor.runAll()
		assert.ErrorIs(t, watchErr, gerrors.ErrDead)
	})
	t.Run("With the address of a watched actor terminated", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		watcher, err := system.Spawn("w", watcherProps("w", events, func(ctx *Context) error {
			return ctx.Watch(target)
		}))
		require.NoError(t, err)
		executor.runAll()

		watcher.Tell(&AddressTerminated{Address: "test"}, nil)
		executor.runAll()

		assert.Equal(t, 1, events.count("w saw t terminated"))
		assert.Empty(t, cellOf(t, watcher).watching)
	})
}

func TestDeadLetters(t *testing.T) {
	t.Run("With Identify answered without a ref", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		target, err := system.Spawn("t", probeProps("t", events))
		require.NoError(t, err)
		asker, err := system.Spawn("asker", probeProps("asker", events))
		require.NoError(t, err)
		target.sendSystemMessage(&Terminate{})
		executor.runAll()

		target.Tell(&Identify{MessageID: 1}, asker)
		executor.runAll()
		assert.Equal(t, 1, events.count("asker identified false"))
	})
	t.Run("With housekeeping messages not published", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		subscriber, err := system.Subscribe()
		require.NoError(t, err)

		sink := system.DeadLetters()
		sink.sendSystemMessage(&Terminate{})
		sink.sendSystemMessage(&DeathWatchNotification{Actor: sink})
		sink.Tell(&Terminated{Actor: sink}, nil)
		sink.Tell("lost", nil)
		executor.runAll()

		letters := collectDeadLetters(subscriber)
		require.Len(t, letters, 1)
		assert.Equal(t, "lost", letters[0].Message)
		assert.False(t, letters[0].Timestamp.IsZero())
	})
	t.Run("With a full bounded mailbox", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		subscriber, err := system.Subscribe()
		require.NoError(t, err)
		events := new(eventLog)

		pid, err := system.Spawn("p", PropsOf(func() Actor {
			return &probe{name: "p", events: events}
		}, WithBoundedMailbox(2)))
		require.NoError(t, err)
		executor.runAll()

		pid.Tell("1", nil)
		pid.Tell("2", nil)
		pid.Tell("3", nil)
		executor.runAll()

		assert.Equal(t, []string{"p started", "p received 1", "p received 2"}, events.snapshot())
		letters := collectDeadLetters(subscriber)
		require.Len(t, letters, 1)
		assert.Equal(t, "3", letters[0].Message)
		assert.Equal(t, pid, letters[0].Recipient)
	})
	t.Run("With unhandled messages published", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		subscriber, err := system.Subscribe()
		require.NoError(t, err)

		pid, err := system.Spawn("p", probeProps("p", new(eventLog)))
		require.NoError(t, err)
		pid.Tell(42, nil)
		executor.runAll()

		var unhandled []*UnhandledMessage
		for message := range subscriber.Iterator() {
			if msg, ok := message.Payload().(*UnhandledMessage); ok {
				unhandled = append(unhandled, msg)
			}
		}
		require.Len(t, unhandled, 1)
		assert.Equal(t, 42, unhandled[0].Message)
		assert.Equal(t, pid, unhandled[0].Recipient)
	})
}

func TestActorSelection(t *testing.T) {
	t.Run("With Identify through a path", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		events := new(eventLog)

		_, err := system.Spawn("p", probeProps("p", events, "a", "b"))
		require.NoError(t, err)
		asker, err := system.Spawn("asker", probeProps("asker", events))
		require.NoError(t, err)
		executor.runAll()

		system.ActorSelection("/user/p/a").Tell(&Identify{MessageID: "a"}, asker)
		system.ActorSelection("/user/p/missing").Tell(&Identify{MessageID: "missing"}, asker)
		executor.runAll()

		assert.Equal(t, 1, events.count("asker identified true"))
		assert.Equal(t, 1, events.count("asker identified false"))
	})
	t.Run("With a wildcard and a parent element", func(t *testing.T) {
		system, executor, _ := newManualSystem(t)
		subscriber, err := system.Subscribe()
		require.NoError(t, err)
		events := new(eventLog)

		pid, err := system.Spawn("p", probeProps("p", events, "a", "b"))
		require.NoError(t, err)
		executor.runAll()

		system.ActorSelection("/user/p/*").Tell("all", nil)
		a, ok := cellOf(t, pid).children.getByName("a")
		require.True(t, ok)
		newActorSelection(a, "../b").Tell("sibling", nil)
		system.ActorSelection("/user/*/zz").Tell("nobody", nil)
		executor.runAll()

		assert.Equal(t, 1, events.count("a received all"))
		assert.Equal(t, 1, events.count("b received all"))
		assert.Equal(t, 1, events.count("b received sibling"))
		assert.Zero(t, events.count("p received all"))
		assert.Empty(t, collectDeadLetters(subscriber))
		assert.Equal(t, "actorcell://test/user/p/a/../b", newActorSelection(a, "../b").String())
	})
}
