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

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/pkg/errors"
)

// CreateStatus is the status of the create form.
type CreateStatus int

// Below are the statuses of the create form.
const (
	CreateEditing CreateStatus = iota
	CreateSubmitting
)

// String returns the string representation of the status.
func (s CreateStatus) String() string {
	switch s {
	case CreateEditing:
		return "editing"
	case CreateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("create_status_%d", int(s))
	}
}

// CreateState is a snapshot of the create form.
type CreateState struct {
	Status CreateStatus
	Fields types.CreateMemberFields

	Err         error
	FieldErrors map[string]string

	// Created is the member created by the last successful submit.
	Created *types.Member
}

// CreateController is the state machine of the create form.
type CreateController struct {
	mu       sync.Mutex
	mutator  Mutator
	state    CreateState
	closed   bool
	notifier notifier[CreateState]
}

// NewCreateController creates a create form filled with the default fields.
func NewCreateController(mutator Mutator) *CreateController {
	return &CreateController{
		mutator: mutator,
		state: CreateState{
			Status: CreateEditing,
			Fields: types.DefaultCreateMemberFields(),
		},
	}
}

// SetFields replaces the fields of the form.
func (c *CreateController) SetFields(fields types.CreateMemberFields) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Status != CreateEditing {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError("set fields", status)
	}
	c.state.Fields = fields
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return nil
}

// Submit creates the member. Invalid fields are reported without a network
// call. On success the form is reset to the defaults; on failure the fields
// are kept.
func (c *CreateController) Submit(ctx context.Context) (*types.Member, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.state.Status != CreateEditing {
		status := c.state.Status
		c.mu.Unlock()
		return nil, transitionError("submit", status)
	}

	fields := c.state.Fields
	if err := fields.Validate(); err != nil {
		c.state.Err = err
		c.state.FieldErrors = errors.FieldErrorsOf(err)
		state := c.state
		c.mu.Unlock()
		c.notifier.publish(state)
		return nil, err
	}

	c.state.Status = CreateSubmitting
	c.state.Err = nil
	c.state.FieldErrors = nil
	state := c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	member, err := c.mutator.Create(ctx, &fields)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		logging.From(ctx).Debugf("discard created member")
		return member, ErrClosed
	}
	c.state.Status = CreateEditing
	if err != nil {
		c.state.Err = err
		c.state.FieldErrors = errors.FieldErrorsOf(err)
	} else {
		c.state.Fields = types.DefaultCreateMemberFields()
		c.state.Created = member
	}
	state = c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	return member, err
}

// Reset clears the form back to the default fields.
func (c *CreateController) Reset() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Status != CreateEditing {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError("reset", status)
	}
	c.state = CreateState{
		Status: CreateEditing,
		Fields: types.DefaultCreateMemberFields(),
	}
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return nil
}

// State returns a snapshot of the form.
func (c *CreateController) State() CreateState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn to be called with every new state.
func (c *CreateController) Subscribe(fn func(CreateState)) (unsubscribe func()) {
	return c.notifier.subscribe(fn)
}

// Close tears down the controller. The outcome of a submit in flight is
// discarded.
func (c *CreateController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}
