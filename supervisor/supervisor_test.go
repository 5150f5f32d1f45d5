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

package supervisor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorcell/errors"
)

type valueError struct{}

func (valueError) Error() string { return "value error" }

func TestSupervisorOption(t *testing.T) {
	supervisor := NewSupervisor(WithStrategy(OneForAllStrategy), WithRetry(2, time.Second))
	assert.Equal(t, OneForAllStrategy, supervisor.Strategy())
	assert.EqualValues(t, 2, supervisor.MaxRetries())
	assert.Equal(t, time.Second, supervisor.Timeout())
}

func TestNewSupervisorDefaults(t *testing.T) {
	supervisor := NewSupervisor()
	require.Equal(t, OneForOneStrategy, supervisor.Strategy())
	require.Zero(t, supervisor.MaxRetries())
	require.Equal(t, time.Duration(-1), supervisor.Timeout())

	require.Equal(t, StopDirective, supervisor.Decide(gerrors.NewActorInitializationError("/user/a", errors.New("boom"))))
	require.Equal(t, StopDirective, supervisor.Decide(&gerrors.ActorKilledError{Path: "/user/a"}))
	require.Equal(t, StopDirective, supervisor.Decide(&gerrors.DeathPactError{Path: "/user/b"}))
	require.Equal(t, RestartDirective, supervisor.Decide(errors.New("boom")))
}

func TestSupervisorDecide(t *testing.T) {
	t.Run("With a type rule", func(t *testing.T) {
		supervisor := NewSupervisor(WithDirective(valueError{}, ResumeDirective))
		require.Equal(t, ResumeDirective, supervisor.Decide(valueError{}))
	})
	t.Run("With a wrapped cause", func(t *testing.T) {
		supervisor := NewSupervisor(WithDirective(valueError{}, EscalateDirective))
		require.Equal(t, EscalateDirective, supervisor.Decide(fmt.Errorf("handler: %w", valueError{})))
		require.Equal(t, EscalateDirective, supervisor.Decide(gerrors.NewPanicError(valueError{})))
	})
	t.Run("With a joined cause", func(t *testing.T) {
		supervisor := NewSupervisor(WithDirective(valueError{}, ResumeDirective))
		require.Equal(t, ResumeDirective, supervisor.Decide(errors.Join(errors.New("x"), valueError{})))
	})
	t.Run("With a killed actor panicking", func(t *testing.T) {
		supervisor := NewSupervisor()
		require.Equal(t, StopDirective, supervisor.Decide(gerrors.NewPanicError(&gerrors.ActorKilledError{Path: "/user/a"})))
	})
	t.Run("With any error fallback", func(t *testing.T) {
		supervisor := NewSupervisor(
			WithDirective(valueError{}, RestartDirective),
			WithAnyErrorDirective(ResumeDirective))
		require.Equal(t, RestartDirective, supervisor.Decide(valueError{}))
		require.Equal(t, ResumeDirective, supervisor.Decide(errors.New("boom")))
	})
}

func TestRequestRestartPermission(t *testing.T) {
	t.Run("Unbounded", func(t *testing.T) {
		supervisor := NewSupervisor()
		stats := new(RestartStatistics)
		for range 10 {
			require.True(t, supervisor.RequestRestartPermission(stats, time.Now()))
		}
	})
	t.Run("Within a window", func(t *testing.T) {
		supervisor := NewSupervisor(WithRetry(2, time.Minute))
		stats := new(RestartStatistics)
		now := time.Now()
		require.True(t, supervisor.RequestRestartPermission(stats, now))
		require.True(t, supervisor.RequestRestartPermission(stats, now.Add(time.Second)))
		require.False(t, supervisor.RequestRestartPermission(stats, now.Add(2*time.Second)))
		require.EqualValues(t, 3, stats.Count())

		// a new window starts once the previous one elapsed
		require.True(t, supervisor.RequestRestartPermission(stats, now.Add(2*time.Minute)))
		require.EqualValues(t, 1, stats.Count())
	})
	t.Run("Lifetime budget", func(t *testing.T) {
		supervisor := NewSupervisor(WithRetry(1, 0))
		stats := new(RestartStatistics)
		now := time.Now()
		require.True(t, supervisor.RequestRestartPermission(stats, now))
		require.False(t, supervisor.RequestRestartPermission(stats, now.Add(time.Hour)))
	})
}

func TestStrategyString(t *testing.T) {
	require.Equal(t, "OneForOne", OneForOneStrategy.String())
	require.Equal(t, "OneForAll", OneForAllStrategy.String())
	require.Equal(t, "", Strategy(42).String())
}

func TestDirectiveString(t *testing.T) {
	require.Equal(t, "Stop", StopDirective.String())
	require.Equal(t, "Resume", ResumeDirective.String())
	require.Equal(t, "Restart", RestartDirective.String())
	require.Equal(t, "Escalate", EscalateDirective.String())
	require.Equal(t, "", Directive(42).String())
}
