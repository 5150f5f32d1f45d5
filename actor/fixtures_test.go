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
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorcell/internal/eventstream"
	"github.com/tochemey/actorcell/log"
)

// manualExecutor queues the mailbox turns until the test runs them.
type manualExecutor struct {
	mu      sync.Mutex
	tasks   []manualTask
	stopped bool
}

type manualTask struct {
	key string
	run func()
}

var _ Executor = (*manualExecutor)(nil)

func (e *manualExecutor) SubmitWorkByKey(key string, task func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return false
	}
	e.tasks = append(e.tasks, manualTask{key: key, run: task})
	return true
}

func (e *manualExecutor) Stop() {
	e.mu.Lock()
	e.stopped = true
	e.tasks = nil
	e.mu.Unlock()
}

// next pops the oldest task matching the key. An empty key matches any.
func (e *manualExecutor) next(key string) (manualTask, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, task := range e.tasks {
		if key == "" || task.key == key {
			e.tasks = slices.Delete(e.tasks, i, i+1)
			return task, true
		}
	}
	return manualTask{}, false
}

// runAll runs turns until nothing is scheduled anymore
func (e *manualExecutor) runAll() int {
	return e.runKey("")
}

// runKey runs the turns of one mailbox only
func (e *manualExecutor) runKey(key string) int {
	count := 0
	for {
		task, ok := e.next(key)
		if !ok {
			return count
		}
		task.run()
		count++
	}
}

func (e *manualExecutor) pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// recordingLogger keeps the formatted entries. Every child logger shares
// the same record.
type recordingLogger struct {
	log.Logger
	mu    sync.Mutex
	lines []string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{Logger: log.DiscardLogger}
}

func (l *recordingLogger) record(format string, args ...any) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.record(format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.record(format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.record(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.record(format, args...) }
func (l *recordingLogger) Warn(args ...any)                  { l.record("%s", fmt.Sprint(args...)) }
func (l *recordingLogger) With(...any) log.Logger            { return l }

func (l *recordingLogger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.lines)
}

// indexOf returns the position of the first entry, at or after from,
// containing every fragment.
func (l *recordingLogger) indexOf(from int, fragments ...string) int {
	lines := l.snapshot()
	for i := from; i < len(lines); i++ {
		matched := true
		for _, fragment := range fragments {
			if !strings.Contains(lines[i], fragment) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

func (l *recordingLogger) count(fragments ...string) int {
	count := 0
	for from := 0; ; from++ {
		from = l.indexOf(from, fragments...)
		if from < 0 {
			return count
		}
		count++
	}
}

// eventLog records what the test actors observe, in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (e *eventLog) add(format string, args ...any) {
	e.mu.Lock()
	e.events = append(e.events, fmt.Sprintf(format, args...))
	e.mu.Unlock()
}

func (e *eventLog) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.events)
}

func (e *eventLog) index(event string) int {
	return slices.Index(e.snapshot(), event)
}

func (e *eventLog) count(event string) int {
	count := 0
	for _, recorded := range e.snapshot() {
		if recorded == event {
			count++
		}
	}
	return count
}

var errBoom = errors.New("boom")

// probe records its lifecycle and the messages it receives. A "fail"
// message makes it fail, "panic" makes it panic.
type probe struct {
	name     string
	events   *eventLog
	children []string
	preStart func(ctx *Context) error
}

var _ Actor = (*probe)(nil)

func (p *probe) PreStart(ctx *Context) error {
	p.events.add("%s started", p.name)
	for _, child := range p.children {
		if _, err := ctx.Spawn(child, probeProps(child, p.events)); err != nil {
			return err
		}
	}
	if p.preStart != nil {
		return p.preStart(ctx)
	}
	return nil
}

func (p *probe) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case string:
		switch msg {
		case "fail":
			ctx.Err(errBoom)
		case "panic":
			panic("probe panicked")
		case "ping":
			ctx.Respond("pong")
		default:
			p.events.add("%s received %s", p.name, msg)
		}
	case *Terminated:
		p.events.add("%s saw %s terminated", p.name, msg.Actor.Name())
	case *ReceiveTimeout:
		p.events.add("%s timed out", p.name)
	case *ActorIdentity:
		p.events.add("%s identified %v", p.name, msg.Ref != nil)
	default:
		ctx.Unhandled()
	}
}

func (p *probe) PostStop(*Context) error {
	p.events.add("%s stopped", p.name)
	return nil
}

func probeProps(name string, events *eventLog, children ...string) *Props {
	return PropsOf(func() Actor {
		return &probe{name: name, events: events, children: children}
	})
}

// newManualSystem starts a system whose mailboxes only run when the test
// drives the executor.
func newManualSystem(t *testing.T, opts ...Option) (*ActorSystem, *manualExecutor, *recordingLogger) {
	t.Helper()
	executor := new(manualExecutor)
	logger := newRecordingLogger()

	opts = append([]Option{WithExecutor(executor), WithLogger(logger)}, opts...)
	system, err := NewActorSystem("test", opts...)
	require.NoError(t, err)
	require.NoError(t, system.Start(context.Background()))
	executor.runAll()
	return system, executor, logger
}

func cellOf(t *testing.T, pid *PID) *Cell {
	t.Helper()
	cell, ok := pid.cell()
	require.True(t, ok)
	return cell
}

func collectDeadLetters(subscriber eventstream.Subscriber) []*DeadLetter {
	var letters []*DeadLetter
	for message := range subscriber.Iterator() {
		if letter, ok := message.Payload().(*DeadLetter); ok {
			letters = append(letters, letter)
		}
	}
	return letters
}
