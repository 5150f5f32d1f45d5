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

package workerpool

import "time"

// Option configures a WorkerPool at creation time.
type Option interface {
	Apply(pool *WorkerPool)
}

// OptionFunc adapts a plain function to Option.
type OptionFunc func(pool *WorkerPool)

var _ Option = OptionFunc(nil)

// Apply calls f with the pool.
func (f OptionFunc) Apply(pool *WorkerPool) { f(pool) }

// WithPassivateAfter sets how long a worker stays parked before it exits.
// Non-positive durations keep the default of one second.
func WithPassivateAfter(idle time.Duration) Option {
	return OptionFunc(func(pool *WorkerPool) {
		if idle > 0 {
			pool.passivateAfter = idle
		}
	})
}

// WithNumShards sets the number of independent shards, clamped to [1, 128].
// A mailbox keyed by its path always lands on the same shard.
func WithNumShards(shards int) Option {
	return OptionFunc(func(pool *WorkerPool) {
		pool.numShards = min(max(shards, 1), maxShards)
	})
}
