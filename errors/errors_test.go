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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("something went wrong")

	initErr := NewActorInitializationError("/user/a", cause)
	require.EqualError(t, initErr, "actor=(/user/a) actor initialization failed\nsomething went wrong")
	assert.ErrorIs(t, initErr, ErrInitFailure)
	assert.ErrorIs(t, initErr, cause)

	panicErr := NewPanicError(cause)
	require.EqualError(t, panicErr, "panic: something went wrong")
	assert.ErrorIs(t, panicErr, cause)

	killed := &ActorKilledError{Path: "/user/a"}
	require.EqualError(t, killed, "actor=(/user/a) killed")

	pact := &DeathPactError{Path: "/user/b"}
	require.EqualError(t, pact, "monitored actor=(/user/b) terminated")

	illegal := NewIllegalStateError("watch %s conflicts", "/user/b")
	require.EqualError(t, illegal, "illegal state: watch /user/b conflicts")

	require.ErrorIs(t, NewErrNameAlreadyInUse("a"), ErrNameAlreadyInUse)
	require.ErrorIs(t, NewErrInvalidName(""), ErrInvalidName)

	anyError := &AnyError{}
	require.Equal(t, anyError.Error(), "*")
}

func TestIsFatal(t *testing.T) {
	cause := errors.New("out of memory")
	require.True(t, IsFatal(NewFatalError(cause)))
	require.True(t, IsFatal(fmt.Errorf("wrapped: %w", NewFatalError(cause))))
	require.False(t, IsFatal(cause))
	require.False(t, IsFatal(NewPanicError(cause)))
	require.False(t, IsFatal(nil))
}
