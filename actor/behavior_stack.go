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

// Behavior handles the messages of an actor
type Behavior func(ctx *ReceiveContext)

// behaviorStack holds the handlers of an actor, most recent last. Only the
// goroutine holding the cell's execution slot touches it.
type behaviorStack struct {
	behaviors []Behavior
}

func newBehaviorStack() *behaviorStack {
	return &behaviorStack{}
}

// Peek returns the active handler or nil when the stack is empty
func (bs *behaviorStack) Peek() Behavior {
	if len(bs.behaviors) == 0 {
		return nil
	}
	return bs.behaviors[len(bs.behaviors)-1]
}

// Len returns the number of stacked handlers
func (bs *behaviorStack) Len() int {
	return len(bs.behaviors)
}

// IsEmpty checks if stack is empty
func (bs *behaviorStack) IsEmpty() bool {
	return len(bs.behaviors) == 0
}

// Become installs behavior. With discardOld the active handler is replaced,
// otherwise behavior is pushed on top of it.
func (bs *behaviorStack) Become(behavior Behavior, discardOld bool) {
	if discardOld && len(bs.behaviors) > 0 {
		bs.behaviors[len(bs.behaviors)-1] = behavior
		return
	}
	bs.behaviors = append(bs.behaviors, behavior)
}

// Unbecome drops the active handler. When it is the last one the stack
// falls back to base instead of becoming empty.
func (bs *behaviorStack) Unbecome(base Behavior) {
	if len(bs.behaviors) <= 1 {
		bs.behaviors = append(bs.behaviors[:0], base)
		return
	}
	bs.behaviors[len(bs.behaviors)-1] = nil
	bs.behaviors = bs.behaviors[:len(bs.behaviors)-1]
}

// Reset empties the stack
func (bs *behaviorStack) Reset() {
	clear(bs.behaviors)
	bs.behaviors = bs.behaviors[:0]
}
