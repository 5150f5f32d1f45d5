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

package timer

import (
	"sync"
	"time"
)

// State represents the current state of a Reminder
type State int

const (
	// StateIdle indicates no reminder is pending.
	StateIdle State = iota
	// StateScheduled indicates a reminder is pending.
	StateScheduled
)

// Reminder runs a callback once after a delay. Scheduling again replaces the
// pending reminder and a canceled reminder never fires, even when its timer
// already expired concurrently.
type Reminder struct {
	mu         sync.Mutex
	timer      *time.Timer
	fire       func()
	generation uint64
	state      State
}

// NewReminder creates an idle Reminder calling fire when it expires.
func NewReminder(fire func()) *Reminder {
	return &Reminder{fire: fire}
}

// Schedule arms the reminder to fire after d, replacing any pending one.
// A non-positive duration cancels the reminder.
func (r *Reminder) Schedule(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	if d <= 0 {
		return
	}

	r.generation++
	generation := r.generation
	r.state = StateScheduled
	r.timer = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.generation != generation || r.state != StateScheduled {
			r.mu.Unlock()
			return
		}
		r.state = StateIdle
		r.timer = nil
		r.mu.Unlock()
		r.fire()
	})
}

// Cancel drops the pending reminder.
// It returns true when a reminder was pending.
func (r *Reminder) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	pending := r.state == StateScheduled
	r.stopLocked()
	return pending
}

// State returns the current state of the reminder
func (r *Reminder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reminder) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.generation++
	r.state = StateIdle
}
