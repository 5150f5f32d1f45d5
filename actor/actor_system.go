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
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/chain"
	"github.com/tochemey/actorcell/internal/eventstream"
	"github.com/tochemey/actorcell/internal/metric"
	"github.com/tochemey/actorcell/internal/validation"
	"github.com/tochemey/actorcell/internal/workerpool"
	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

const (
	// DefaultThroughput is the number of user messages a cell processes per turn
	DefaultThroughput = 5
	// DefaultShutdownTimeout bounds Terminate
	DefaultShutdownTimeout = 30 * time.Second

	// TopicDeadLetters is the event stream topic of *DeadLetter
	TopicDeadLetters = "actorcell.deadletters"
	// TopicUnhandled is the event stream topic of *UnhandledMessage
	TopicUnhandled = "actorcell.unhandled"

	userGuardianName = "user"
	deadLettersName  = "deadLetters"
)

var systemNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_]*$`)

// ActorSystem hosts a hierarchy of cells: a root guardian, the user
// guardian every spawned actor descends from, and the dead letters sink.
type ActorSystem struct {
	name            string
	logger          log.Logger
	executor        Executor
	ownsExecutor    bool
	dispatcher      *Dispatcher
	throughput      int
	supervisor      *supervisor.Supervisor
	shutdownTimeout time.Duration
	eventStream     *eventstream.EventsStream
	metric          *metric.CellMetric
	meterProvider   otelmetric.MeterProvider
	metricsEnabled  bool

	root         *Cell
	userGuardian *Cell
	deadLetters  *PID

	ctx            context.Context
	cancel         context.CancelFunc
	started        *atomic.Bool
	terminated     chan struct{}
	terminatedOnce sync.Once
}

// NewActorSystem creates an actor system. Call Start before spawning actors.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if err := validation.NewPatternValidator(systemNamePattern, name, gerrors.NewErrInvalidName(name)).Validate(); err != nil {
		return nil, err
	}

	system := &ActorSystem{
		name:            name,
		logger:          log.DefaultLogger,
		throughput:      DefaultThroughput,
		supervisor:      supervisor.NewSupervisor(),
		shutdownTimeout: DefaultShutdownTimeout,
		eventStream:     eventstream.New(),
		started:         atomic.NewBool(false),
		terminated:      make(chan struct{}),
		ctx:             context.Background(),
		cancel:          func() {},
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(system.shutdownTimeout > 0, gerrors.ErrInvalidTimeout).
		AddAssertion(system.throughput > 0, gerrors.ErrInvalidThroughput).
		Validate(); err != nil {
		return nil, err
	}

	if system.executor == nil {
		system.executor = workerpool.New(
			workerpool.WithNumShards(runtime.NumCPU()),
			workerpool.WithPassivateAfter(time.Second),
		)
		system.ownsExecutor = true
	}

	if system.metricsEnabled {
		cellMetric, err := metric.NewCellMetric(metric.Meter(system.meterProvider))
		if err != nil {
			return nil, err
		}
		system.metric = cellMetric
	}

	system.dispatcher = NewDispatcher(system.executor, system.throughput, system.logger)
	return system, nil
}

// Start creates the guardians. The context only carries values: canceling
// it does not stop the system.
func (s *ActorSystem) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	if pool, ok := s.executor.(*workerpool.WorkerPool); ok && s.ownsExecutor {
		pool.Start()
	}

	rootPath := newRootPath(s.name)
	s.deadLetters = newDeadLetters(s, rootPath.Child(deadLettersName)).pid

	top := newTopParent(s, rootPath)
	rootProps := NewProps(func(*Context) (Actor, error) {
		return &rootGuardian{}, nil
	}, WithSupervisor(supervisor.NewSupervisor(supervisor.WithAnyErrorDirective(supervisor.StopDirective))))

	s.root = newCell(s, rootPath, rootProps, top)

	userProps := NewProps(func(*Context) (Actor, error) {
		return &userGuardian{}, nil
	}, WithSupervisor(s.supervisor))

	pid, err := s.root.spawn(userGuardianName, userProps)
	if err != nil {
		s.started.Store(false)
		return err
	}

	s.userGuardian, _ = pid.cell()
	s.root.start()
	s.logger.Infof("actor system %s started", s.name)
	return nil
}

// Name returns the name of the system
func (s *ActorSystem) Name() string {
	return s.name
}

// Logger returns the system logger
func (s *ActorSystem) Logger() log.Logger {
	return s.logger
}

// DeadLetters returns the PID of the dead letters sink
func (s *ActorSystem) DeadLetters() *PID {
	return s.deadLetters
}

// Running reports whether the system accepts new actors
func (s *ActorSystem) Running() bool {
	return s.started.Load()
}

// Spawn creates a top level actor under the user guardian. An empty name
// lets the system pick one.
func (s *ActorSystem) Spawn(name string, props *Props) (*PID, error) {
	if !s.started.Load() {
		return nil, gerrors.ErrSystemTerminated
	}
	return s.userGuardian.spawn(name, props)
}

// Stop terminates pid and waits until it is stopped or ctx is done.
// It must not be called from an actor.
func (s *ActorSystem) Stop(ctx context.Context, pid *PID) error {
	cell, ok := pid.cell()
	if !ok {
		return gerrors.ErrDead
	}

	pid.sendSystemMessage(&Terminate{})
	select {
	case <-cell.Stopped():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("actor=(%s) did not stop: %w", pid.path, ctx.Err())
	}
}

// ActorSelection selects actors from the root, like "/user/workers/*".
func (s *ActorSystem) ActorSelection(path string) *ActorSelection {
	return newActorSelection(s.root.self, path)
}

// Subscribe returns a subscriber receiving dead letters and unhandled
// messages.
func (s *ActorSystem) Subscribe() (eventstream.Subscriber, error) {
	if !s.started.Load() {
		return nil, gerrors.ErrSystemTerminated
	}
	subscriber := s.eventStream.AddSubscriber()
	s.eventStream.Subscribe(subscriber, TopicDeadLetters)
	s.eventStream.Subscribe(subscriber, TopicUnhandled)
	return subscriber, nil
}

// Unsubscribe removes a subscriber returned by Subscribe
func (s *ActorSystem) Unsubscribe(subscriber eventstream.Subscriber) {
	s.eventStream.RemoveSubscriber(subscriber)
}

// Terminate stops the top level actors concurrently, then the guardians,
// and releases the executor. It must not be called from an actor.
func (s *ActorSystem) Terminate(ctx context.Context) error {
	if !s.started.CompareAndSwap(true, false) {
		return gerrors.ErrSystemTerminated
	}

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	for _, pid := range s.userGuardian.children.pids() {
		group.Go(func() error {
			return s.Stop(gctx, pid)
		})
	}
	err := group.Wait()

	s.userGuardian.self.sendSystemMessage(&Terminate{})
	select {
	case <-s.terminated:
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("actor system %s did not terminate: %w", s.name, ctx.Err()))
	}

	// interrupt hooks still running
	s.cancel()

	return chain.New(chain.WithRunAll()).
		AddStep("guardians", func() error { return err }).
		AddStepIf(s.ownsExecutor, "executor", func() error {
			s.executor.Stop()
			return nil
		}).
		AddStep("event stream", func() error {
			s.eventStream.Close()
			s.logger.Infof("actor system %s terminated", s.name)
			return nil
		}).
		Run()
}

// Terminated returns a channel closed once the root guardian stopped
func (s *ActorSystem) Terminated() <-chan struct{} {
	return s.terminated
}

func (s *ActorSystem) markTerminated() {
	s.terminatedOnce.Do(func() { close(s.terminated) })
}

func (s *ActorSystem) publishDeadLetter(letter *DeadLetter) {
	s.logger.Debugf("dead letter %T from %s to %s", letter.Message, letter.Sender, letter.Recipient)
	if s.metric != nil && letter.Recipient != nil {
		s.metric.RecordDeadLetter(s.ctx, letter.Recipient.path.String())
	}
	s.eventStream.Publish(TopicDeadLetters, letter)
}

func (s *ActorSystem) publishUnhandled(message *UnhandledMessage) {
	s.logger.Debugf("unhandled %T by %s", message.Message, message.Recipient)
	s.eventStream.Publish(TopicUnhandled, message)
}

func (s *ActorSystem) recordProcessed(path string, latency time.Duration) {
	if s.metric != nil {
		s.metric.RecordProcessed(s.ctx, path, latency)
	}
}

func (s *ActorSystem) recordRestart(path string) {
	if s.metric != nil {
		s.metric.RecordRestart(s.ctx, path)
	}
}

func (s *ActorSystem) recordStashed(path string) {
	if s.metric != nil {
		s.metric.RecordStashed(s.ctx, path)
	}
}

// topParent stands above the root guardian. The system is terminated once
// it learns that the root guardian stopped.
type topParent struct {
	system *ActorSystem
	pid    *PID
}

var _ process = (*topParent)(nil)

func newTopParent(system *ActorSystem, rootPath *Path) *PID {
	top := &topParent{system: system}
	top.pid = newPID(rootPath.Child("$top"), newUID(), top)
	return top.pid
}

func (t *topParent) SendMessage(envelope Envelope) {
	t.system.deadLetters.Tell(&DeadLetter{
		Message:   envelope.Message,
		Sender:    envelope.Sender,
		Recipient: t.pid,
	}, envelope.Sender)
}

func (t *topParent) SendSystemMessage(message SystemMessage) {
	switch msg := message.(type) {
	case *Failed:
		t.system.logger.Errorf("root guardian failed, shutting down: %v", msg.Cause)
		msg.Child.sendSystemMessage(&Terminate{})
	case *DeathWatchNotification:
		t.system.markTerminated()
	}
}

// rootGuardian stops itself once the user guardian is gone.
type rootGuardian struct{}

func (*rootGuardian) PreStart(ctx *Context) error {
	if guardian, ok := ctx.Child(userGuardianName); ok {
		return ctx.Watch(guardian)
	}
	return nil
}

func (*rootGuardian) Receive(ctx *ReceiveContext) {
	switch ctx.Message().(type) {
	case *Terminated:
		ctx.Stop(ctx.Self())
	default:
		ctx.Unhandled()
	}
}

func (*rootGuardian) PostStop(*Context) error {
	return nil
}

type userGuardian struct{}

func (*userGuardian) PreStart(*Context) error {
	return nil
}

func (*userGuardian) Receive(ctx *ReceiveContext) {
	ctx.Unhandled()
}

func (*userGuardian) PostStop(*Context) error {
	return nil
}
