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

// Actor is the user state machine hosted by a cell.
//
// A cell owns at most one live instance. On restart the instance is
// discarded and the props factory builds a fresh one, so an Actor must not
// share its mutable state with anything outside of it.
type Actor interface {
	// PreStart runs once the instance is created and before it receives any
	// message. A returned error fails the creation: the cell reports an
	// ActorInitializationError to its parent.
	PreStart(ctx *Context) error

	// Receive is the base behavior of the actor. It handles one message at a
	// time, never concurrently with any other code of the same cell.
	Receive(ctx *ReceiveContext)

	// PostStop runs once the actor and all its children are stopped.
	PostStop(ctx *Context) error
}

// PreRestarter lets an actor override what happens to the failed instance
// before a restart. Without it the children are stopped and PostStop runs.
type PreRestarter interface {
	PreRestart(ctx *Context, cause error, message any) error
}

// PostRestarter lets an actor override what runs on the fresh instance
// after a restart. Without it PreStart runs.
type PostRestarter interface {
	PostRestart(ctx *Context, cause error) error
}
