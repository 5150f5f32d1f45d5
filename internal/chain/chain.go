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

// Package chain runs the named steps of a shutdown sequence and collects
// their failures.
package chain

import (
	"fmt"

	"go.uber.org/multierr"
)

type step struct {
	name string
	run  func() error
}

// Chain holds steps until Run executes them in insertion order.
type Chain struct {
	failFast bool
	steps    []step
}

// Option configures a Chain.
type Option func(*Chain)

// WithFailFast stops the chain at the first failing step.
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// WithRunAll runs every step. This is the default.
func WithRunAll() Option {
	return func(c *Chain) { c.failFast = false }
}

// New creates an empty Chain.
func New(opts ...Option) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddStep appends a step. Its error is reported prefixed with name.
func (c *Chain) AddStep(name string, fn func() error) *Chain {
	c.steps = append(c.steps, step{name: name, run: fn})
	return c
}

// AddStepIf appends the step only when condition holds.
func (c *Chain) AddStepIf(condition bool, name string, fn func() error) *Chain {
	if condition {
		return c.AddStep(name, fn)
	}
	return c
}

// Run executes the steps and returns their combined failures.
func (c *Chain) Run() error {
	var err error
	for _, s := range c.steps {
		stepErr := s.run()
		if stepErr == nil {
			continue
		}
		err = multierr.Append(err, fmt.Errorf("%s: %w", s.name, stepErr))
		if c.failFast {
			break
		}
	}
	return err
}
