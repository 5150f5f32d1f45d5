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

	"github.com/tochemey/actorcell/internal/timer"
)

func (c *Cell) setReceiveTimeout(timeout time.Duration) {
	c.receiveTimeout = max(timeout, 0)
}

func (c *Cell) cancelReceiveTimeout() {
	c.reminder.Cancel()
}

// checkReceiveTimeout arms the reminder. Without reschedule a pending
// reminder is kept.
func (c *Cell) checkReceiveTimeout(reschedule bool) {
	if c.receiveTimeout <= 0 {
		c.reminder.Cancel()
		return
	}

	if reschedule || c.reminder.State() == timer.StateIdle {
		c.reminder.Schedule(c.receiveTimeout)
	}
}

// cancelReceiveTimeoutIfNeeded runs before a user message and returns the
// timeout in force.
func (c *Cell) cancelReceiveTimeoutIfNeeded(message any) time.Duration {
	if c.receiveTimeout > 0 && influencesReceiveTimeout(message) {
		c.reminder.Cancel()
	}
	return c.receiveTimeout
}

func (c *Cell) checkReceiveTimeoutIfNeeded(message any, before time.Duration) {
	changed := before != c.receiveTimeout
	if c.receiveTimeout > 0 || changed {
		c.checkReceiveTimeout(influencesReceiveTimeout(message) || changed)
	}
}

func influencesReceiveTimeout(message any) bool {
	_, ok := message.(NotInfluenceReceiveTimeout)
	return !ok
}
