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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrInitFailure is returned when the actor's factory or preStart hook fails during initialization.
	ErrInitFailure = errors.New("actor initialization failed")

	// ErrNameAlreadyInUse is returned when a sibling already holds the requested child name.
	ErrNameAlreadyInUse = errors.New("actor name is already in use")

	// ErrInvalidName is returned when an actor name is empty, reserved or contains a path separator.
	ErrInvalidName = errors.New("invalid actor name")

	// ErrMailboxFull is returned when a bounded mailbox has reached its capacity.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMailboxClosed is returned when a message is offered to a closed mailbox.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrSystemTerminated is returned when the actor system is no longer running.
	ErrSystemTerminated = errors.New("actor system is terminated")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidThroughput is returned when the number of messages per mailbox turn is not positive.
	ErrInvalidThroughput = errors.New("invalid throughput")

	// ErrUndefinedFactory is returned when props are created without an actor factory.
	ErrUndefinedFactory = errors.New("actor factory is not defined")

	// ErrInterrupted is the cause recorded when initialization is canceled.
	ErrInterrupted = errors.New("actor initialization interrupted")
)

// NewErrNameAlreadyInUse formats an ErrNameAlreadyInUse for the given child name.
func NewErrNameAlreadyInUse(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrNameAlreadyInUse)
}

// NewErrInvalidName formats an ErrInvalidName for the given name.
func NewErrInvalidName(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrInvalidName)
}

// ActorInitializationError is raised when an actor cannot be constructed
// or its start hook fails. The cell has been cleared when it is returned.
type ActorInitializationError struct {
	// Path is the path of the actor that failed to initialize
	Path string
	err  error
}

var _ error = (*ActorInitializationError)(nil)

// NewActorInitializationError creates an instance of ActorInitializationError
func NewActorInitializationError(path string, cause error) *ActorInitializationError {
	return &ActorInitializationError{
		Path: path,
		err:  errors.Join(ErrInitFailure, cause),
	}
}

// Error implements the standard error interface
func (e *ActorInitializationError) Error() string {
	return fmt.Sprintf("actor=(%s) %v", e.Path, e.err)
}

func (e *ActorInitializationError) Unwrap() error {
	return e.err
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// ActorKilledError is raised inside an actor that received a Kill message.
type ActorKilledError struct {
	// Path is the path of the killed actor
	Path string
}

var _ error = (*ActorKilledError)(nil)

// Error implements the standard error interface
func (e *ActorKilledError) Error() string {
	return fmt.Sprintf("actor=(%s) killed", e.Path)
}

// DeathPactError is raised when an actor does not handle the termination
// notification of an actor it watches.
type DeathPactError struct {
	// Path is the path of the terminated watchee
	Path string
}

var _ error = (*DeathPactError)(nil)

// Error implements the standard error interface
func (e *DeathPactError) Error() string {
	return fmt.Sprintf("monitored actor=(%s) terminated", e.Path)
}

// IllegalStateError reports an operation that is not allowed in the
// actor's current state, like re-watching with a different message.
type IllegalStateError struct {
	msg string
}

var _ error = (*IllegalStateError)(nil)

// NewIllegalStateError creates an instance of IllegalStateError
func NewIllegalStateError(format string, args ...any) *IllegalStateError {
	return &IllegalStateError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the standard error interface
func (e *IllegalStateError) Error() string {
	return "illegal state: " + e.msg
}

// FatalError marks a failure the runtime must not recover from.
// Handlers panicking with a FatalError crash the hosting goroutine.
type FatalError struct {
	err error
}

var _ error = (*FatalError)(nil)

// NewFatalError creates an instance of FatalError
func NewFatalError(err error) *FatalError {
	return &FatalError{err}
}

// Error implements the standard error interface
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.err)
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// IsFatal reports whether err or any error it wraps is a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// AnyError defines the any error type
// this is used to represent any error when handling the supervisor directive
type AnyError struct{}

// interface guard
var _ error = (*AnyError)(nil)

// Error implements error.
func (*AnyError) Error() string {
	return "*"
}
