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

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/internal/validation"
	"github.com/tochemey/actorcell/supervisor"
)

const (
	// DefaultInitMaxRetries is the number of PreStart attempts
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout bounds all the PreStart attempts
	DefaultInitTimeout = time.Second
)

// Factory builds a new actor instance. It runs inside the cell, so ctx may
// be used to install an initial behavior with Become.
type Factory func(ctx *Context) (Actor, error)

// Props describes how to create and run an actor.
type Props struct {
	factory        Factory
	newQueue       func() MessageQueue
	supervisor     *supervisor.Supervisor
	initMaxRetries int
	initTimeout    time.Duration
}

// NewProps creates Props building actors with factory.
func NewProps(factory Factory, opts ...PropsOption) *Props {
	props := &Props{
		factory:        factory,
		newQueue:       func() MessageQueue { return NewUnboundedQueue() },
		initMaxRetries: DefaultInitMaxRetries,
		initTimeout:    DefaultInitTimeout,
	}

	for _, opt := range opts {
		opt.Apply(props)
	}
	return props
}

// PropsOf creates Props from a plain constructor.
func PropsOf(producer func() Actor, opts ...PropsOption) *Props {
	return NewProps(func(*Context) (Actor, error) {
		return producer(), nil
	}, opts...)
}

// Supervisor returns the supervisor the actor applies to its children.
// Nil means the system default.
func (p *Props) Supervisor() *supervisor.Supervisor {
	return p.supervisor
}

func (p *Props) validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(p.factory != nil, gerrors.ErrUndefinedFactory).
		AddAssertion(p.initTimeout > 0, gerrors.ErrInvalidTimeout).
		Validate()
}

// PropsOption configures Props
type PropsOption interface {
	// Apply sets the option value on the props
	Apply(props *Props)
}

var _ PropsOption = PropsOptionFunc(nil)

// PropsOptionFunc implements PropsOption
type PropsOptionFunc func(props *Props)

// Apply applies the option
func (f PropsOptionFunc) Apply(props *Props) {
	f(props)
}

// WithMailbox sets the user message queue of the actor. The function is
// called once per cell.
func WithMailbox(newQueue func() MessageQueue) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		if newQueue != nil {
			props.newQueue = newQueue
		}
	})
}

// WithBoundedMailbox gives the actor a bounded queue. Messages sent to a
// full mailbox go to dead letters.
func WithBoundedMailbox(capacity int) PropsOption {
	return WithMailbox(func() MessageQueue {
		return NewBoundedQueue(capacity)
	})
}

// WithSupervisor sets how the actor handles the failures of its children
func WithSupervisor(s *supervisor.Supervisor) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		props.supervisor = s
	})
}

// WithInitMaxRetries sets the number of PreStart attempts
func WithInitMaxRetries(maxRetries int) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		if maxRetries > 0 {
			props.initMaxRetries = maxRetries
		}
	})
}

// WithInitTimeout bounds the time spent in PreStart attempts
func WithInitTimeout(timeout time.Duration) PropsOption {
	return PropsOptionFunc(func(props *Props) {
		props.initTimeout = timeout
	})
}
