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

// Package supervisor decides how a parent cell reacts to the failure of one
// of its children. The cell carries the decision out; this package only
// resolves it from the failure cause.
package supervisor

import (
	"errors"
	"reflect"
	"sync"
	"time"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/xsync"
)

// Strategy represents the type of supervision strategy used by an actor's supervisor.
type Strategy int

const (
	// OneForOneStrategy applies the directive to the failing child only.
	OneForOneStrategy Strategy = iota
	// OneForAllStrategy applies the directive to the failing child and all of
	// its siblings.
	OneForAllStrategy
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case OneForOneStrategy:
		return "OneForOne"
	case OneForAllStrategy:
		return "OneForAll"
	default:
		return ""
	}
}

// Directive defines the action a supervisor takes when a child fails.
type Directive int

const (
	// StopDirective stops the failing actor.
	StopDirective Directive = iota
	// ResumeDirective resumes the failing actor and keeps its state.
	ResumeDirective
	// RestartDirective replaces the failing actor's instance with a fresh one.
	RestartDirective
	// EscalateDirective fails the supervisor itself with the same cause.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

// SupervisorOption defines the various options to apply to a given Supervisor
type SupervisorOption func(*Supervisor)

// WithStrategy sets the supervisor strategy
func WithStrategy(strategy Strategy) SupervisorOption {
	return func(s *Supervisor) {
		s.strategy = strategy
	}
}

// WithDirective sets the mapping between an error type and a given directive
func WithDirective(err error, directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.directives.Set(errorType(err), directive)
	}
}

// WithAnyErrorDirective sets the directive applied to errors without a
// type specific rule.
func WithAnyErrorDirective(directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.anyError = &directive
	}
}

// WithRetry bounds restarts: a child restarted more than maxRetries times
// within timeout is stopped instead. A zero maxRetries disables the bound and
// a non-positive timeout makes the budget last for the child's lifetime.
func WithRetry(maxRetries uint32, timeout time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.maxRetries = maxRetries
		s.timeout = timeout
	}
}

// Supervisor resolves a Directive for a child failure.
//
// Resolution walks the cause chain (errors.Unwrap and joined errors) and uses
// the first error whose concrete type has a rule. When none matches, the
// any-error directive applies, then RestartDirective.
//
// Defaults: initialization failures, killed actors and death pacts stop the child.
type Supervisor struct {
	strategy   Strategy
	maxRetries uint32
	timeout    time.Duration
	anyError   *Directive
	directives *xsync.Map[string, Directive]
}

// NewSupervisor creates a Supervisor with the OneForOne strategy.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		strategy:   OneForOneStrategy,
		timeout:    -1,
		directives: xsync.NewMap[string, Directive](),
	}

	s.directives.Set(errorType(&gerrors.ActorInitializationError{}), StopDirective)
	s.directives.Set(errorType(&gerrors.ActorKilledError{}), StopDirective)
	s.directives.Set(errorType(&gerrors.DeathPactError{}), StopDirective)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the configured supervision strategy.
func (s *Supervisor) Strategy() Strategy {
	return s.strategy
}

// MaxRetries returns the restart budget
func (s *Supervisor) MaxRetries() uint32 {
	return s.maxRetries
}

// Timeout returns the restart window
func (s *Supervisor) Timeout() time.Duration {
	return s.timeout
}

// Decide returns the directive for the given failure cause.
func (s *Supervisor) Decide(cause error) Directive {
	if directive, ok := s.lookup(cause); ok {
		return directive
	}
	if s.anyError != nil {
		return *s.anyError
	}
	return RestartDirective
}

func (s *Supervisor) lookup(err error) (Directive, bool) {
	if err == nil {
		return 0, false
	}

	if directive, ok := s.directives.Get(errorType(err)); ok {
		return directive, true
	}

	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if directive, ok := s.lookup(inner); ok {
				return directive, true
			}
		}
		return 0, false
	default:
		return s.lookup(errors.Unwrap(err))
	}
}

// RestartStatistics tracks the restarts of one child within the current window.
type RestartStatistics struct {
	mu          sync.Mutex
	count       uint32
	windowStart time.Time
}

// Count returns the restarts recorded in the current window
func (r *RestartStatistics) Count() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// RequestRestartPermission records a restart attempt at now and reports
// whether it stays within the retry budget.
func (s *Supervisor) RequestRestartPermission(stats *RestartStatistics, now time.Time) bool {
	if s.maxRetries == 0 {
		return true
	}

	stats.mu.Lock()
	defer stats.mu.Unlock()

	if s.timeout > 0 && (stats.windowStart.IsZero() || now.Sub(stats.windowStart) > s.timeout) {
		stats.windowStart = now
		stats.count = 0
	}

	stats.count++
	return stats.count <= s.maxRetries
}

// errorType returns the concrete type name of an error
func errorType(err error) string {
	if err == nil {
		return "nil"
	}

	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype.String()
}
