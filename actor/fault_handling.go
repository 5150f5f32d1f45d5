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
	"context"
	"errors"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"

	gerrors "github.com/tochemey/actorcell/errors"
	"github.com/tochemey/actorcell/supervisor"
)

func (c *Cell) isFailed() bool {
	return c.failure == failedWithPerpetrator
}

func (c *Cell) isFailedFatally() bool {
	return c.failure == failedFatally
}

func (c *Cell) setFailed(perpetrator *PID) {
	if c.failure == failedFatally {
		return
	}
	c.failure = failedWithPerpetrator
	c.perpetrator = perpetrator
}

func (c *Cell) clearFailed() {
	if c.failure == failedWithPerpetrator {
		c.failure = noFailure
		c.perpetrator = nil
	}
}

func (c *Cell) setFailedFatally() {
	c.failure = failedFatally
	c.perpetrator = nil
}

func (c *Cell) suspendNonRecursive() {
	c.mailbox.suspend()
}

func (c *Cell) resumeNonRecursive() {
	c.mailbox.resume()
}

// create builds the actor instance and runs PreStart. On failure the
// instance is dropped and an ActorInitializationError is returned.
func (c *Cell) create(failure error) error {
	if failure != nil {
		return failure
	}

	err := safeCall(func() error {
		if err := c.newActor(); err != nil {
			return err
		}
		return c.preStart()
	})

	if err != nil {
		if c.actor != nil {
			c.clearActorFields()
			c.setFailedFatally()
			c.actor = nil
		}

		if isInterruption(err) {
			c.setFailedFatally()
			err = errors.Join(gerrors.ErrInterrupted, err)
		}

		c.logger.Errorf("%s failed to start: %v", c.self.path, err)
		return gerrors.NewActorInitializationError(c.self.path.String(), err)
	}

	if c.isFailedFatally() {
		c.failure = noFailure
	}

	c.checkReceiveTimeout(true)
	c.logger.Debugf("%s started", c.self.path)
	return nil
}

// newActor resets the behaviors and builds a fresh instance. The factory may
// install a behavior, otherwise Receive is the base one.
func (c *Cell) newActor() error {
	c.behaviors.Reset()
	instance, err := c.props.factory(c.newContext(c.system.ctx))
	if err != nil {
		return err
	}

	if instance == nil {
		return fmt.Errorf("actor factory of %s returned a nil actor", c.self.path)
	}

	c.actor = instance
	if c.behaviors.IsEmpty() {
		c.behaviors.Become(instance.Receive, false)
	}
	return nil
}

// preStart runs PreStart, retried within the init timeout of the props.
func (c *Cell) preStart() error {
	ctx, cancel := context.WithTimeout(c.system.ctx, c.props.initTimeout)
	defer cancel()

	retrier := retry.NewRetrier(c.props.initMaxRetries, time.Millisecond, c.props.initTimeout)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return c.actor.PreStart(c.newContext(ctx))
	})

	// report a shutdown of the system as an interruption
	if err != nil && c.system.ctx.Err() != nil && !isInterruption(err) {
		err = errors.Join(context.Canceled, err)
	}
	return err
}

func (c *Cell) clearActorFields() {
	c.current = nil
	c.behaviors.Reset()
}

// faultRecreate restarts the actor after cause.
func (c *Cell) faultRecreate(cause error) {
	if c.actor == nil {
		c.logger.Errorf("%s changing Recreate into Create after %v", c.self.path, cause)
		c.faultCreate()
		return
	}

	if !c.children.isNormal() {
		// keep the suspend count balanced
		c.faultResume(nil)
		return
	}

	c.logger.Debugf("%s restarting", c.self.path)

	var message any
	if c.current != nil {
		message = c.current.Message
	}

	if !c.isFailedFatally() {
		// best effort: a failing PreRestart is only logged
		if err := safeCall(func() error { return c.preRestart(cause, message) }); err != nil {
			c.logger.Errorf("%s PreRestart failed: %v", c.self.path, err)
		}
	}
	c.clearActorFields()

	if !c.mailbox.isSuspended() {
		c.logger.Warnf("%s restarting with a mailbox that is not suspended", c.self.path)
	}

	if !c.children.setTerminationReason(terminationReason{kind: recreation, cause: cause}) {
		c.finishRecreate(cause)
	}
}

func (c *Cell) preRestart(cause error, message any) error {
	ctx := c.newContext(c.system.ctx)
	if restarter, ok := c.actor.(PreRestarter); ok {
		return restarter.PreRestart(ctx, cause, message)
	}

	for _, child := range c.children.pids() {
		c.unwatch(child)
		c.stop(child)
	}
	return c.actor.PostStop(ctx)
}

func (c *Cell) postRestart(cause error) error {
	if restarter, ok := c.actor.(PostRestarter); ok {
		return restarter.PostRestart(c.newContext(c.system.ctx), cause)
	}
	return c.preStart()
}

func (c *Cell) finishRecreate(cause error) {
	// the children that survived PreRestart, before the fresh instance
	// spawns new ones
	survivors := c.children.pids()

	c.resumeNonRecursive()
	c.clearFailed()

	err := safeCall(func() error {
		if err := c.newActor(); err != nil {
			return err
		}
		return c.postRestart(cause)
	})

	if err != nil {
		c.setFailedFatally()
		c.clearActorFields()
		c.handleInvokeFailure(survivors, fmt.Errorf("actor=(%s) PostRestart failed: %w", c.self.path, err))
		return
	}

	c.checkReceiveTimeout(true)
	c.logger.Debugf("%s restarted", c.self.path)

	for _, child := range survivors {
		c.restartChild(child, cause, false)
	}
	c.reportRecovered()
}

func (c *Cell) faultSuspend() {
	c.suspendNonRecursive()
	c.suspendChildren(nil)
	c.logger.Debugf("%s suspended", c.self.path)
}

func (c *Cell) faultResume(causedByFailure error) {
	if c.actor == nil {
		c.logger.Errorf("%s changing Resume into Create after %v", c.self.path, causedByFailure)
		c.faultCreate()
		return
	}

	if c.isFailedFatally() && causedByFailure != nil {
		c.logger.Errorf("%s changing Resume into Restart after %v", c.self.path, causedByFailure)
		c.faultRecreate(causedByFailure)
		return
	}

	perpetrator := c.perpetrator
	c.resumeNonRecursive()
	if causedByFailure != nil {
		c.clearFailed()
	}
	c.resumeChildren(causedByFailure, perpetrator)
	c.logger.Debugf("%s resumed", c.self.path)
}

// faultCreate re-runs a failed creation once the children are gone.
func (c *Cell) faultCreate() {
	if !c.mailbox.isSuspended() {
		c.logger.Warnf("%s re-creating with a mailbox that is not suspended", c.self.path)
	}

	c.cancelReceiveTimeout()
	for _, child := range c.children.pids() {
		c.stop(child)
	}

	if !c.children.setTerminationReason(terminationReason{kind: creation}) {
		c.finishCreate()
	}
}

func (c *Cell) finishCreate() {
	c.resumeNonRecursive()
	c.clearFailed()

	if err := c.create(nil); err != nil {
		c.handleInvokeFailure(nil, err)
		return
	}
	c.reportRecovered()
}

// reportRecovered tells the parent that a restart ordered after a failure
// completed.
func (c *Cell) reportRecovered() {
	c.system.recordRestart(c.self.path.String())
	c.parent.sendSystemMessage(&Supervise{Child: c.self})
}

// terminate stops the children first. The cell completes its termination
// once the last of them is gone.
func (c *Cell) terminate() {
	c.setReceiveTimeout(0)
	c.cancelReceiveTimeout()

	// no Terminated for the actors this cell watches
	c.unwatchWatchedActors()

	wasTerminating := c.children.isTerminating()
	for _, child := range c.children.close() {
		c.stop(child)
	}

	if c.children.setTerminationReason(terminationReason{kind: termination}) {
		if !wasTerminating {
			// no user message while children terminate
			c.suspendNonRecursive()
			// failures of children are not reported while stopping
			c.setFailed(c.self)
			c.logger.Debugf("%s stopping", c.self.path)
		}
		return
	}

	c.children.setTerminated()
	c.finishTerminate()
}

func (c *Cell) finishTerminate() {
	instance := c.actor
	if instance != nil {
		if err := safeCall(func() error { return instance.PostStop(c.newContext(c.system.ctx)) }); err != nil {
			c.logger.Errorf("%s PostStop failed: %v", c.self.path, err)
		}
	}

	c.dispatcher.detach(c.mailbox)
	c.parent.sendSystemMessage(&DeathWatchNotification{Actor: c.self, ExistenceConfirmed: true})
	c.tellWatchersWeDied()
	c.unwatchWatchedActors()

	c.logger.Debugf("%s stopped", c.self.path)
	c.clearActorFields()
	c.clearFieldsForTermination()
	c.stopOnce.Do(func() { close(c.stopped) })
}

func (c *Cell) clearFieldsForTermination() {
	c.sendAllToDeadLetters(c.unstashAll().reverse())
	c.reminder.Cancel()
	c.actor = nil
	clear(c.pendingRestarts)
}

// handleInvokeFailure suspends the cell and its children and reports the
// failure to the parent. A cell already failed ignores further failures.
func (c *Cell) handleInvokeFailure(childrenNotToSuspend []*PID, cause error) {
	if c.isFailed() {
		c.logger.Debugf("%s ignoring failure while failed: %v", c.self.path, cause)
		return
	}

	c.suspendNonRecursive()

	skip := mapset.NewThreadUnsafeSet(childrenNotToSuspend...)
	if failed, ok := c.currentFailed(); ok {
		c.setFailed(failed.Child)
		skip.Add(failed.Child)
	} else {
		c.setFailed(c.self)
	}
	c.suspendChildren(skip)

	c.logger.Errorf("%s failed: %v", c.self.path, cause)
	c.parent.sendSystemMessage(&Failed{Child: c.self, Cause: cause, UID: c.self.uid})
}

func (c *Cell) currentFailed() (*Failed, bool) {
	if c.current == nil {
		return nil, false
	}
	failed, ok := c.current.Message.(*Failed)
	return failed, ok
}

// handleFailure applies the supervisor decision to a failed child. An
// escalation is returned as an error and fails this cell.
func (c *Cell) handleFailure(failed *Failed) error {
	c.current = &Envelope{Message: failed, Sender: failed.Child}

	stats, ok := c.children.getByRef(failed.Child)
	switch {
	case !ok:
		c.logger.Warnf("%s dropping %s from unknown child", c.self.path, failed)
		c.current = nil
		return nil
	case stats.pid.uid != failed.UID:
		// the child was replaced since it failed
		c.logger.Warnf("%s dropping %s from old child (uid=%d)", c.self.path, failed, stats.pid.uid)
		c.current = nil
		return nil
	}

	// a new failure settles the restart that was pending for this child
	c.clearPendingRestart(failed.Child)

	directive := c.supervisor.Decide(failed.Cause)
	c.logger.Warnf("%s supervising %s: directive=%s", c.self.path, failed, directive)

	switch directive {
	case supervisor.ResumeDirective:
		failed.Child.sendSystemMessage(&Resume{CausedByFailure: failed.Cause})
	case supervisor.RestartDirective:
		c.processFailure(true, failed.Child, failed.Cause, stats)
	case supervisor.StopDirective:
		c.processFailure(false, failed.Child, failed.Cause, stats)
	case supervisor.EscalateDirective:
		return failed.Cause
	}

	c.current = nil
	return nil
}

func (c *Cell) processFailure(restart bool, child *PID, cause error, stats *childStats) {
	now := time.Now()

	if c.supervisor.Strategy() == supervisor.OneForAllStrategy {
		all := c.children.all()
		permitted := restart
		for _, s := range all {
			if !permitted {
				break
			}
			permitted = c.supervisor.RequestRestartPermission(&s.restarts, now)
		}

		for _, s := range all {
			if permitted {
				c.restartChild(s.pid, cause, s.pid != child)
				continue
			}
			c.stop(s.pid)
		}
		return
	}

	if restart && c.supervisor.RequestRestartPermission(&stats.restarts, now) {
		c.restartChild(child, cause, false)
		return
	}
	c.stop(child)
}

// restartChild orders a restart and holds user processing until the child
// reports back.
func (c *Cell) restartChild(child *PID, cause error, suspendFirst bool) {
	if suspendFirst {
		child.sendSystemMessage(&Suspend{})
	}
	c.addPendingRestart(child)
	child.sendSystemMessage(&Recreate{Cause: cause})
}

// supervise registers a child announcing itself or completing a restart.
func (c *Cell) supervise(child *PID) {
	if c.children.isTerminating() {
		return
	}

	if _, ok := c.children.initChild(child); !ok {
		c.logger.Warnf("%s received Supervise from unregistered child %s", c.self.path, child)
		return
	}

	if c.clearPendingRestart(child) {
		c.logger.Debugf("%s restart of %s completed", c.self.path, child)
		return
	}
	c.logger.Debugf("%s now supervising %s", c.self.path, child)
}

// handleChildTerminated removes a terminated child and completes the
// restart, re-creation or termination that was waiting for it.
func (c *Cell) handleChildTerminated(child *PID) {
	reason, changed := c.children.remove(child)
	c.clearPendingRestart(child)

	if !changed {
		return
	}

	switch reason.kind {
	case recreation:
		c.finishRecreate(reason.cause)
	case creation:
		c.finishCreate()
	case termination:
		c.finishTerminate()
	}
}
