/*
 * Copyright 2026 The Roster Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/roster-team/roster/internal/logging"
)

// DeleteStatus is the status of the delete confirmation dialog.
type DeleteStatus int

// Below are the statuses of the delete confirmation dialog.
const (
	DeleteClosed DeleteStatus = iota
	DeleteOpen
	DeleteConfirming
)

// String returns the string representation of the status.
func (s DeleteStatus) String() string {
	switch s {
	case DeleteClosed:
		return "closed"
	case DeleteOpen:
		return "open"
	case DeleteConfirming:
		return "confirming"
	default:
		return fmt.Sprintf("delete_status_%d", int(s))
	}
}

// DeleteState is a snapshot of the delete confirmation dialog.
type DeleteState struct {
	Status DeleteStatus

	// InFlight is true while the delete request is in flight.
	InFlight bool

	// Err is the error of the last attempt. The dialog stays in confirming
	// while it is set.
	Err error
}

// DeleteController is the state machine of the delete confirmation dialog.
// The delete is never sent twice on its own: after a failure the user
// confirms again.
type DeleteController struct {
	mu       sync.Mutex
	id       string
	mutator  Mutator
	navigate func()
	state    DeleteState
	closed   bool
	notifier notifier[DeleteState]
}

// NewDeleteController creates the delete dialog of the member with the given
// id. navigate is called after the member was deleted; it may be nil.
func NewDeleteController(mutator Mutator, id string, navigate func()) *DeleteController {
	return &DeleteController{
		id:       id,
		mutator:  mutator,
		navigate: navigate,
	}
}

// Open opens the dialog.
func (c *DeleteController) Open() error {
	return c.transition("open", func(s *DeleteState) bool {
		if s.Status != DeleteClosed {
			return false
		}
		s.Status = DeleteOpen
		s.Err = nil
		return true
	})
}

// Dismiss closes the dialog without deleting. It is allowed while open and
// after a failed attempt, not while the request is in flight.
func (c *DeleteController) Dismiss() error {
	return c.transition("dismiss", func(s *DeleteState) bool {
		if s.Status == DeleteClosed || s.InFlight {
			return false
		}
		s.Status = DeleteClosed
		s.Err = nil
		return true
	})
}

// Confirm deletes the member. On success the dialog closes and navigate is
// called; on failure the dialog stays in confirming with the error set.
func (c *DeleteController) Confirm(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.MemberID(c.id))
	if err := c.transition("confirm", func(s *DeleteState) bool {
		if s.Status == DeleteClosed || s.InFlight {
			return false
		}
		s.Status = DeleteConfirming
		s.InFlight = true
		s.Err = nil
		return true
	}); err != nil {
		return err
	}

	err := c.mutator.Delete(ctx, c.id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		logging.From(ctx).Debug("discard member delete")
		return ErrClosed
	}
	c.state.InFlight = false
	if err != nil {
		c.state.Err = err
	} else {
		c.state.Status = DeleteClosed
	}
	state := c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	if err != nil {
		return err
	}
	if c.navigate != nil {
		c.navigate()
	}
	return nil
}

// State returns a snapshot of the dialog.
func (c *DeleteController) State() DeleteState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn to be called with every new state.
func (c *DeleteController) Subscribe(fn func(DeleteState)) (unsubscribe func()) {
	return c.notifier.subscribe(fn)
}

// Close tears down the controller. The outcome of a delete in flight is
// discarded and navigate is not called.
func (c *DeleteController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

// transition applies fn if the controller is open. fn reports whether the
// transition is allowed in the current state.
func (c *DeleteController) transition(op string, fn func(*DeleteState) bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !fn(&c.state) {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError(op, status)
	}
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return nil
}
