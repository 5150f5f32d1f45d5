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
	"strconv"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/supervisor"
)

type childrenState int

const (
	childrenNormal childrenState = iota
	childrenTerminating
	childrenTerminated
)

// suspendReason tells what a cell does once its dying children are gone.
type suspendReason int

const (
	userRequest suspendReason = iota
	recreation
	creation
	termination
)

type terminationReason struct {
	kind  suspendReason
	cause error
}

// waitingForChildren reports whether the reason blocks a restart or a
// re-creation.
func (r terminationReason) waitingForChildren() bool {
	return r.kind == recreation || r.kind == creation
}

// childStats is the registry entry of a child. A nil pid means the name
// is reserved while the child is being created.
type childStats struct {
	name     string
	pid      *PID
	restarts supervisor.RestartStatistics
}

// childrenRegistry maps the children of a cell by name and tracks the ones
// that are expected to die. The owning cell is its only writer except for
// spawning from outside the execution slot, hence the lock.
type childrenRegistry struct {
	mu     sync.RWMutex
	state  childrenState
	stats  map[string]*childStats
	toDie  mapset.Set[*PID]
	reason terminationReason
	names  uint64
	// closed rejects new children once the owner started to terminate
	closed bool
}

func newChildrenRegistry() *childrenRegistry {
	return &childrenRegistry{
		state: childrenNormal,
		stats: make(map[string]*childStats),
		toDie: mapset.NewThreadUnsafeSet[*PID](),
	}
}

// generateName returns a fresh name in the system namespace
func (r *childrenRegistry) generateName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names++
	return generatedNamePrefix + strconv.FormatUint(r.names, 36)
}

func (r *childrenRegistry) reserve(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.state == childrenTerminated:
		return gerrors.NewIllegalStateError("cannot reserve actor name %q: already terminated", name)
	case r.closed:
		return gerrors.NewIllegalStateError("cannot reserve actor name %q: terminating", name)
	}

	if _, ok := r.stats[name]; ok {
		return gerrors.NewErrNameAlreadyInUse(name)
	}
	r.stats[name] = &childStats{name: name}
	return nil
}

func (r *childrenRegistry) unreserve(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stats[name]; ok && stats.pid == nil {
		delete(r.stats, name)
	}
}

// initChild turns a reservation into a live entry. It is idempotent for an
// already registered child and fails for an unknown one.
func (r *childrenRegistry) initChild(pid *PID) (*childStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == childrenTerminated {
		return nil, false
	}

	stats, ok := r.stats[pid.Name()]
	switch {
	case !ok:
		return nil, false
	case stats.pid == nil:
		if r.closed {
			return nil, false
		}
		stats.pid = pid
		return stats, true
	case stats.pid == pid:
		return stats, true
	default:
		return nil, false
	}
}

func (r *childrenRegistry) getByRef(pid *PID) (*childStats, bool) {
	if pid == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.stats[pid.Name()]
	if !ok || stats.pid == nil || !stats.pid.Equals(pid) {
		return nil, false
	}
	return stats, true
}

func (r *childrenRegistry) getByName(name string) (*PID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats, ok := r.stats[name]
	if !ok || stats.pid == nil {
		return nil, false
	}
	return stats.pid, true
}

// all returns the live entries, reservations excluded
func (r *childrenRegistry) all() []*childStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*childStats, 0, len(r.stats))
	for _, stats := range r.stats {
		if stats.pid != nil {
			out = append(out, stats)
		}
	}
	return out
}

func (r *childrenRegistry) pids() []*PID {
	stats := r.all()
	out := make([]*PID, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.pid)
	}
	return out
}

// close rejects further reservations and the completion of the pending
// ones, then returns the live children. A child is either in the returned
// slice or never becomes live.
func (r *childrenRegistry) close() []*PID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	out := make([]*PID, 0, len(r.stats))
	for _, stats := range r.stats {
		if stats.pid != nil {
			out = append(out, stats.pid)
		}
	}
	return out
}

// shallDie records that pid is being stopped.
func (r *childrenRegistry) shallDie(pid *PID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case childrenNormal:
		r.state = childrenTerminating
		r.reason = terminationReason{kind: userRequest}
		r.toDie.Clear()
		r.toDie.Add(pid)
	case childrenTerminating:
		r.toDie.Add(pid)
	}
}

// setTerminationReason updates why the cell waits for its children. It
// returns false when no child is dying, in which case nothing waits.
func (r *childrenRegistry) setTerminationReason(reason terminationReason) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != childrenTerminating {
		return false
	}
	r.reason = reason
	return true
}

func (r *childrenRegistry) setTerminated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = childrenTerminated
	r.toDie.Clear()
	clear(r.stats)
}

// remove drops the entry of a terminated child. When it was the last dying
// child the registry leaves the terminating state and the reason the cell
// was waiting for is returned with true.
func (r *childrenRegistry) remove(pid *PID) (terminationReason, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[pid.Name()]; ok && stats.pid == pid {
		delete(r.stats, pid.Name())
	}

	if r.state != childrenTerminating {
		return terminationReason{}, false
	}

	r.toDie.Remove(pid)
	if r.toDie.Cardinality() > 0 {
		return terminationReason{}, false
	}

	reason := r.reason
	if reason.kind == termination {
		r.state = childrenTerminated
		clear(r.stats)
	} else {
		r.state = childrenNormal
	}
	r.reason = terminationReason{}
	return reason, true
}

// isNormal is true unless the cell waits for children before a restart,
// a re-creation or its own termination.
func (r *childrenRegistry) isNormal() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch r.state {
	case childrenNormal:
		return true
	case childrenTerminating:
		return r.reason.kind == userRequest
	default:
		return false
	}
}

// isTerminating is true once the owning cell started to terminate.
func (r *childrenRegistry) isTerminating() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch r.state {
	case childrenTerminated:
		return true
	case childrenTerminating:
		return r.closed || r.reason.kind == termination
	default:
		return r.closed
	}
}

func (r *childrenRegistry) waitingForChildren() (terminationReason, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == childrenTerminating && r.reason.waitingForChildren() {
		return r.reason, true
	}
	return terminationReason{}, false
}

// spawn creates, registers and starts a child cell.
func (c *Cell) spawn(name string, props *Props) (*PID, error) {
	if props == nil {
		return nil, gerrors.ErrUndefinedFactory
	}

	if err := props.validate(); err != nil {
		return nil, err
	}

	if name == "" {
		name = c.children.generateName()
	} else if err := validateName(name); err != nil {
		return nil, err
	}

	if c.children.isTerminating() {
		return nil, gerrors.NewIllegalStateError("cannot create children while terminating or terminated")
	}

	if err := c.children.reserve(name); err != nil {
		return nil, err
	}

	child := newCell(c.system, c.self.path.Child(name), props, c.self)
	if _, ok := c.children.initChild(child.self); !ok {
		c.children.unreserve(name)
		return nil, gerrors.NewIllegalStateError("cannot create children while terminating or terminated")
	}

	// the child starts as suspended as its parent
	for range c.mailbox.suspendCount() {
		child.SendSystemMessage(&Suspend{})
	}

	child.start()
	return child.self, nil
}

// stop terminates pid, recording it as a dying child when it is one.
func (c *Cell) stop(pid *PID) {
	if _, ok := c.children.getByRef(pid); ok {
		c.children.shallDie(pid)
	}
	pid.sendSystemMessage(&Terminate{})
}

func (c *Cell) suspendChildren(exceptFor mapset.Set[*PID]) {
	for _, child := range c.children.pids() {
		if exceptFor != nil && exceptFor.Contains(child) {
			continue
		}
		child.sendSystemMessage(&Suspend{})
	}
}

func (c *Cell) resumeChildren(causedByFailure error, perpetrator *PID) {
	for _, child := range c.children.pids() {
		var cause error
		if child == perpetrator {
			cause = causedByFailure
		}
		child.sendSystemMessage(&Resume{CausedByFailure: cause})
	}
}

// addPendingRestart holds user processing until child reports that its
// restart completed or terminates.
func (c *Cell) addPendingRestart(child *PID) {
	if _, ok := c.pendingRestarts[child]; ok {
		return
	}
	c.pendingRestarts[child] = struct{}{}
	c.suspendNonRecursive()
}

func (c *Cell) clearPendingRestart(child *PID) bool {
	if _, ok := c.pendingRestarts[child]; !ok {
		return false
	}
	delete(c.pendingRestarts, child)
	c.resumeNonRecursive()
	return true
}

func (c *Cell) isPendingRestart(child *PID) bool {
	_, ok := c.pendingRestarts[child]
	return ok
}
