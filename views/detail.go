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
	"github.com/roster-team/roster/pkg/cache"
	"github.com/roster-team/roster/pkg/errors"
)

// DetailStatus is the status of the member detail screen.
type DetailStatus int

// Below are the statuses of the member detail screen. Loading and Failed
// only occur before the member was fetched once.
const (
	DetailLoading DetailStatus = iota
	DetailFailed
	DetailViewing
	DetailEditing
	DetailSaving
)

// String returns the string representation of the status.
func (s DetailStatus) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailFailed:
		return "failed"
	case DetailViewing:
		return "viewing"
	case DetailEditing:
		return "editing"
	case DetailSaving:
		return "saving"
	default:
		return fmt.Sprintf("detail_status_%d", int(s))
	}
}

// DetailState is a snapshot of the member detail screen.
type DetailState struct {
	Status DetailStatus

	// Member is the last fetched member.
	Member *types.Member

	// Draft holds the edited fields while editing or saving.
	Draft types.CreateMemberFields

	// Err is the error of the last fetch or submit. FieldErrors holds its
	// per-field messages, if any.
	Err         error
	FieldErrors map[string]string

	// Uploading is true while a photo upload is in flight. PhotoErr is the
	// error of the last upload, shown next to the photo.
	Uploading bool
	PhotoErr  error
}

// DetailController is the state machine of the member detail screen with
// its edit form and photo upload.
type DetailController struct {
	mu       sync.Mutex
	id       string
	reader   Reader
	mutator  Mutator
	state    DetailState
	closed   bool
	notifier notifier[DetailState]
}

// NewDetailController creates a detail controller of the member with the
// given id. It starts in loading; call Load to fetch the member.
func NewDetailController(reader Reader, mutator Mutator, id string) *DetailController {
	return &DetailController{
		id:      id,
		reader:  reader,
		mutator: mutator,
		state:   DetailState{Status: DetailLoading},
	}
}

// ID returns the id of the member.
func (c *DetailController) ID() string {
	return c.id
}

// Load fetches the member. A stale copy is shown while the fetch is in
// flight. Fetches while editing or saving only update Member and leave the
// draft untouched.
func (c *DetailController) Load(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.MemberID(c.id))
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Status == DetailFailed {
		c.state.Status = DetailLoading
		c.state.Err = nil
		state := c.state
		c.mu.Unlock()
		c.notifier.publish(state)
	} else {
		c.mu.Unlock()
	}

	entry, err := read(ctx, func(ctx context.Context) (cache.Entry, <-chan cache.Result) {
		return c.reader.RevalidateMember(ctx, c.id)
	}, func(stale cache.Entry) {
		c.update(func(s *DetailState) {
			s.Member = stale.Value.(*types.Member)
			if s.Status == DetailLoading {
				s.Status = DetailViewing
			}
		})
	})

	if !c.update(func(s *DetailState) {
		if err != nil {
			if s.Member == nil {
				s.Status = DetailFailed
			}
			s.Err = err
			return
		}

		s.Member = entry.Value.(*types.Member)
		if s.Status == DetailLoading || s.Status == DetailFailed {
			s.Status = DetailViewing
		}
		if s.Status == DetailViewing {
			s.Err = nil
		}
	}) {
		logging.From(ctx).Debug("discard member")
		return ErrClosed
	}

	return err
}

// Edit starts editing from the last fetched member.
func (c *DetailController) Edit() error {
	return c.transition("edit", DetailViewing, func(s *DetailState) {
		s.Status = DetailEditing
		s.Draft = s.Member.Fields()
		s.Err = nil
		s.FieldErrors = nil
	})
}

// SetDraft replaces the edited fields.
func (c *DetailController) SetDraft(draft types.CreateMemberFields) error {
	return c.transition("set draft", DetailEditing, func(s *DetailState) {
		s.Draft = draft
	})
}

// Cancel discards the edits and reverts to the last fetched member.
func (c *DetailController) Cancel() error {
	return c.transition("cancel", DetailEditing, func(s *DetailState) {
		s.Status = DetailViewing
		s.Draft = types.CreateMemberFields{}
		s.Err = nil
		s.FieldErrors = nil
	})
}

// Submit saves the fields that differ from the last fetched member. Without
// changes it returns to viewing without a network call. On failure the
// controller returns to editing with the draft kept.
func (c *DetailController) Submit(ctx context.Context) error {
	ctx = logging.WithFields(ctx, logging.MemberID(c.id))
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Status != DetailEditing {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError("submit", status)
	}

	diff := types.DiffMemberFields(c.state.Member.Fields(), c.state.Draft)
	if diff.IsEmpty() {
		c.state.Status = DetailViewing
		c.state.Draft = types.CreateMemberFields{}
		c.state.Err = nil
		c.state.FieldErrors = nil
		state := c.state
		c.mu.Unlock()
		c.notifier.publish(state)
		return nil
	}

	c.state.Status = DetailSaving
	c.state.Err = nil
	c.state.FieldErrors = nil
	state := c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	member, err := c.mutator.Update(ctx, c.id, &diff)

	if !c.update(func(s *DetailState) {
		if err != nil {
			s.Status = DetailEditing
			s.Err = err
			s.FieldErrors = errors.FieldErrorsOf(err)
			return
		}

		s.Status = DetailViewing
		s.Member = member
		s.Draft = types.CreateMemberFields{}
	}) {
		logging.From(ctx).Debug("discard member update")
		return ErrClosed
	}

	return err
}

// UploadPhoto replaces the photo of the member. The photo is checked
// locally first; a local failure is shown as PhotoErr without a network
// call.
func (c *DetailController) UploadPhoto(ctx context.Context, photo *types.Photo) error {
	ctx = logging.WithFields(ctx, logging.MemberID(c.id))
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Uploading || (c.state.Status != DetailViewing && c.state.Status != DetailEditing) {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError("upload photo", status)
	}

	if err := photo.Validate(); err != nil {
		c.state.PhotoErr = err
		state := c.state
		c.mu.Unlock()
		c.notifier.publish(state)
		return err
	}

	c.state.Uploading = true
	c.state.PhotoErr = nil
	state := c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	member, err := c.mutator.UploadPhoto(ctx, c.id, photo)

	if !c.update(func(s *DetailState) {
		s.Uploading = false
		if err != nil {
			s.PhotoErr = err
			return
		}

		// the draft, if any, is kept
		s.Member = member
	}) {
		logging.From(ctx).Debug("discard photo upload")
		return ErrClosed
	}

	return err
}

// State returns a snapshot of the detail screen.
func (c *DetailController) State() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn to be called with every new state.
func (c *DetailController) Subscribe(fn func(DetailState)) (unsubscribe func()) {
	return c.notifier.subscribe(fn)
}

// Close tears down the controller. Results arriving afterwards are
// discarded.
func (c *DetailController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

// transition applies fn if the controller is open and in the given status.
func (c *DetailController) transition(op string, from DetailStatus, fn func(*DetailState)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Status != from {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError(op, status)
	}
	fn(&c.state)
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return nil
}

// update applies fn if the controller is open and reports whether it did.
func (c *DetailController) update(fn func(*DetailState)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return true
}
