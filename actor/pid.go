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
	"fmt"

	"github.com/google/uuid"
)

// process is whatever can receive messages on behalf of a PID: a cell,
// the dead letters sink or the sentinel above the root guardian.
type process interface {
	SendMessage(envelope Envelope)
	SendSystemMessage(message SystemMessage)
}

// PID references one incarnation of an actor. A restarted actor keeps its
// PID; a new actor spawned under the same name gets a new one.
type PID struct {
	path    *Path
	uid     int32
	process process
}

func newPID(path *Path, uid int32, proc process) *PID {
	return &PID{path: path, uid: uid, process: proc}
}

// newUID returns a random positive identifier.
func newUID() int32 {
	for {
		if uid := int32(uuid.New().ID() & 0x7fffffff); uid != 0 {
			return uid
		}
	}
}

// Path returns the actor path
func (pid *PID) Path() *Path {
	return pid.path
}

// Name returns the actor name
func (pid *PID) Name() string {
	return pid.path.Name()
}

// UID returns the identifier of this incarnation
func (pid *PID) UID() int32 {
	return pid.uid
}

// Tell sends message to the actor without waiting. A nil sender means
// that the message has no sender.
func (pid *PID) Tell(message any, sender *PID) {
	pid.process.SendMessage(NewEnvelope(message, sender))
}

// Equals reports whether both PIDs reference the same incarnation
func (pid *PID) Equals(other *PID) bool {
	if pid == nil || other == nil {
		return pid == other
	}
	return pid.uid == other.uid && pid.path.Equals(other.path)
}

// String implements fmt.Stringer
func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", pid.path.String(), pid.uid)
}

func (pid *PID) sendSystemMessage(message SystemMessage) {
	pid.process.SendSystemMessage(message)
}

// cell returns the local cell behind the PID, if any.
func (pid *PID) cell() (*Cell, bool) {
	c, ok := pid.process.(*Cell)
	return c, ok
}
