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

package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestChain(t *testing.T) {
	errOne := errors.New("one")
	errTwo := errors.New("two")

	t.Run("With run all", func(t *testing.T) {
		var calls []string
		err := New(WithRunAll()).
			AddStep("a", func() error { calls = append(calls, "a"); return errOne }).
			AddStep("b", func() error { calls = append(calls, "b"); return nil }).
			AddStep("c", func() error { calls = append(calls, "c"); return errTwo }).
			Run()
		require.Error(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, calls)
		assert.Len(t, multierr.Errors(err), 2)
		assert.ErrorIs(t, err, errOne)
		assert.ErrorIs(t, err, errTwo)
		assert.EqualError(t, err, "a: one; c: two")
	})
	t.Run("With fail fast", func(t *testing.T) {
		var calls []string
		err := New(WithFailFast()).
			AddStep("a", func() error { calls = append(calls, "a"); return nil }).
			AddStep("b", func() error { calls = append(calls, "b"); return errOne }).
			AddStep("c", func() error { calls = append(calls, "c"); return errTwo }).
			Run()
		require.ErrorIs(t, err, errOne)
		assert.NotErrorIs(t, err, errTwo)
		assert.Equal(t, []string{"a", "b"}, calls)
	})
	t.Run("Steps are deferred until Run", func(t *testing.T) {
		called := false
		chain := New().
			AddStepIf(false, "skipped", func() error { return errOne }).
			AddStep("deferred", func() error { called = true; return nil })
		require.False(t, called)
		require.NoError(t, chain.Run())
		require.True(t, called)
	})
}
