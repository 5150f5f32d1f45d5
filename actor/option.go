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

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/actorcell/log"
	"github.com/tochemey/actorcell/supervisor"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *ActorSystem)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(system *ActorSystem)

// Apply applies the option
func (f OptionFunc) Apply(system *ActorSystem) {
	f(system)
}

// WithLogger sets the system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *ActorSystem) {
		if logger != nil {
			system.logger = logger
		}
	})
}

// WithThroughput sets the number of user messages a cell processes before
// giving its goroutine back
func WithThroughput(throughput int) Option {
	return OptionFunc(func(system *ActorSystem) {
		if throughput > 0 {
			system.throughput = throughput
		}
	})
}

// WithExecutor runs the mailboxes on the given executor. The system does not
// stop an executor it does not own.
func WithExecutor(executor Executor) Option {
	return OptionFunc(func(system *ActorSystem) {
		if executor != nil {
			system.executor = executor
			system.ownsExecutor = false
		}
	})
}

// WithMetrics records the cell instruments. A nil provider uses the global
// OpenTelemetry meter provider.
func WithMetrics(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.meterProvider = provider
		system.metricsEnabled = true
	})
}

// WithShutdownTimeout bounds Terminate
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.shutdownTimeout = timeout
	})
}

// WithDefaultSupervisor sets the supervisor of the actors spawned without
// one, the user guardian included.
func WithDefaultSupervisor(s *supervisor.Supervisor) Option {
	return OptionFunc(func(system *ActorSystem) {
		if s != nil {
			system.supervisor = s
		}
	})
}
