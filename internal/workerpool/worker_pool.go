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

// Package workerpool provides the sharded goroutine pool that executes
// mailbox runs on behalf of the dispatcher.
package workerpool

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	"github.com/tochemey/actorcell/internal/ticker"
)

const (
	// maximum number of shards supported by the worker pool
	maxShards = 128
	// idle workers kept per shard before passivation kicks in
	minIdleWorkers = 4
)

// WorkerPool manages goroutines across shards. Idle workers are reused and
// passivated once they stay unused longer than passivateAfter.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	shards         []*shard
	mu             sync.RWMutex
	started        *atomic.Bool
	stopped        *atomic.Bool
	spawnedWorkers *atomic.Int64
	cleaner        *ticker.Ticker
	workers        sync.WaitGroup
	stopCh         chan struct{}
	cleanerDone    chan struct{}
}

type worker struct {
	work     chan func()
	shard    *shard
	lastUsed *atomic.Int64
}

type shard struct {
	pool    *WorkerPool
	mu      sync.Mutex
	idle    []*worker
	stopped bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
		started:        atomic.NewBool(false),
		stopped:        atomic.NewBool(false),
		spawnedWorkers: atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}
	return wp
}

// GetSpawnedWorkers returns the current count of live workers.
func (wp *WorkerPool) GetSpawnedWorkers() int {
	return int(wp.spawnedWorkers.Load())
}

// Start initializes the shards and the passivation loop.
// It's safe to call Start multiple times.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started.Load() {
		return
	}

	wp.shards = make([]*shard, wp.numShards)
	for i := range wp.shards {
		wp.shards[i] = &shard{pool: wp}
	}

	wp.cleaner = ticker.New(wp.passivateAfter)
	wp.cleaner.Start()
	wp.stopCh = make(chan struct{})
	wp.cleanerDone = make(chan struct{})
	go wp.cleanup()
	wp.started.Store(true)
}

// Stop closes every idle worker and waits for busy workers to finish their
// current task. Stop must not be called from a task running on the pool.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		wp.mu.Unlock()
		return
	}

	for _, s := range wp.shards {
		s.mu.Lock()
		s.stopped = true
		for i, w := range s.idle {
			close(w.work)
			s.idle[i] = nil
		}
		s.idle = s.idle[:0]
		s.mu.Unlock()
	}
	wp.mu.Unlock()

	close(wp.stopCh)
	<-wp.cleanerDone
	wp.cleaner.Stop()
	wp.workers.Wait()
}

// SubmitWork hands the task to a worker of a random shard.
// It returns false when the pool is not running.
func (wp *WorkerPool) SubmitWork(task func()) bool {
	wp.mu.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mu.RUnlock()
		return false
	}
	s := wp.shards[rand.IntN(wp.numShards)]
	wp.mu.RUnlock()
	return s.acquire(task)
}

// SubmitWorkByKey hands the task to a worker of the shard owning the key.
// Tasks sharing a key contend on the same shard's idle list.
func (wp *WorkerPool) SubmitWorkByKey(key string, task func()) bool {
	wp.mu.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mu.RUnlock()
		return false
	}
	s := wp.shards[xxh3.HashString(key)%uint64(wp.numShards)]
	wp.mu.RUnlock()
	return s.acquire(task)
}

func (s *shard) acquire(task func()) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}

	if n := len(s.idle); n > 0 {
		w := s.idle[n-1]
		s.idle[n-1] = nil
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		w.work <- task
		return true
	}

	w := &worker{
		work:     make(chan func()),
		shard:    s,
		lastUsed: atomic.NewInt64(time.Now().UnixNano()),
	}
	s.pool.workers.Add(1)
	s.mu.Unlock()

	s.pool.spawnedWorkers.Inc()
	go w.run(task)
	return true
}

// release puts the worker back on the idle list.
// It returns false when the shard has been stopped.
func (s *shard) release(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.idle = append(s.idle, w)
	return true
}

func (w *worker) run(task func()) {
	defer func() {
		w.shard.pool.spawnedWorkers.Dec()
		w.shard.pool.workers.Done()
	}()

	task()
	if !w.shard.release(w) {
		return
	}

	for task := range w.work {
		task()
		if !w.shard.release(w) {
			return
		}
	}
}

// cleanup closes workers idle for longer than passivateAfter. The idle list is
// ordered by release time so expired workers sit at its head.
func (wp *WorkerPool) cleanup() {
	defer close(wp.cleanerDone)
	for {
		select {
		case <-wp.cleaner.Ticks:
		case <-wp.stopCh:
			return
		}

		cutoff := time.Now().Add(-wp.passivateAfter).UnixNano()
		for _, s := range wp.shards {
			s.mu.Lock()
			expired := 0
			for expired < len(s.idle)-minIdleWorkers && s.idle[expired].lastUsed.Load() < cutoff {
				close(s.idle[expired].work)
				s.idle[expired] = nil
				expired++
			}
			if expired > 0 {
				s.idle = append(s.idle[:0], s.idle[expired:]...)
			}
			s.mu.Unlock()
		}
	}
}
