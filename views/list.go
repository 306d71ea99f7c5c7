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
)

// ListStatus is the status of the member list.
type ListStatus int

// Below are the statuses of the member list.
const (
	ListLoading ListStatus = iota
	ListLoaded
	ListError
)

// String returns the string representation of the status.
func (s ListStatus) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListError:
		return "error"
	default:
		return fmt.Sprintf("list_status_%d", int(s))
	}
}

// ListState is a snapshot of the member list.
type ListState struct {
	Status ListStatus

	// Page is the requested page. On error it is the page that failed, so
	// that Retry requests it again.
	Page     int
	PageSize int

	// Data is the page shown. While loading it is the previous page or the
	// stale copy of the requested one; Stale tells which.
	Data  *types.Page
	Stale bool

	Err error
}

// ListController is the state machine of the paginated member list. Only the
// response of the latest requested page is committed.
type ListController struct {
	mu       sync.Mutex
	reader   Reader
	state    ListState
	seq      uint64
	closed   bool
	notifier notifier[ListState]
}

// NewListController creates a list controller showing pages of the given
// size. It starts in loading; call Load to fetch the first page.
func NewListController(reader Reader, pageSize int) *ListController {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}

	return &ListController{
		reader: reader,
		state: ListState{
			Status:   ListLoading,
			Page:     types.DefaultPage,
			PageSize: pageSize,
		},
	}
}

// Load fetches the current page.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page
	c.mu.Unlock()

	return c.request(ctx, page)
}

// ChangePage moves to the given page. Pages beyond the last known page are
// rejected with ErrInvalidPage.
func (c *ListController) ChangePage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 || (c.state.Data != nil && page > c.state.Data.LastPage()) {
		c.mu.Unlock()
		return fmt.Errorf("page %d: %w", page, ErrInvalidPage)
	}
	c.mu.Unlock()

	return c.request(ctx, page)
}

// Next moves to the next page.
func (c *ListController) Next(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page + 1
	c.mu.Unlock()

	return c.ChangePage(ctx, page)
}

// Prev moves to the previous page.
func (c *ListController) Prev(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page - 1
	c.mu.Unlock()

	return c.ChangePage(ctx, page)
}

// Retry requests the failed page again.
func (c *ListController) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Status != ListError {
		status := c.state.Status
		c.mu.Unlock()
		return transitionError("retry", status)
	}
	page := c.state.Page
	c.mu.Unlock()

	return c.request(ctx, page)
}

// State returns a snapshot of the list.
func (c *ListController) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Subscribe registers fn to be called with every new state.
func (c *ListController) Subscribe(fn func(ListState)) (unsubscribe func()) {
	return c.notifier.subscribe(fn)
}

// Close tears down the controller. Responses arriving afterwards are
// discarded.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

// request fetches the page and commits the response if no later request
// was made in the meantime.
func (c *ListController) request(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	seq := c.seq
	pageSize := c.state.PageSize
	c.state.Status = ListLoading
	c.state.Page = page
	c.state.Err = nil
	state := c.state
	c.mu.Unlock()
	c.notifier.publish(state)

	entry, err := read(ctx, func(ctx context.Context) (cache.Entry, <-chan cache.Result) {
		return c.reader.RevalidateMembers(ctx, page, pageSize)
	}, func(stale cache.Entry) {
		c.commit(seq, func(s *ListState) {
			s.Data = stale.Value.(*types.Page)
			s.Stale = true
		})
	})

	if !c.commit(seq, func(s *ListState) {
		if err != nil {
			s.Status = ListError
			s.Err = err
			return
		}
		s.Status = ListLoaded
		s.Data = entry.Value.(*types.Page)
		s.Stale = false
	}) {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()

		logging.From(ctx).Debugf("discard member list page %d", page)
		if closed {
			return ErrClosed
		}
		return ErrSuperseded
	}

	return err
}

// commit applies fn to the state if seq is the latest request and the
// controller is open. It reports whether fn was applied.
func (c *ListController) commit(seq uint64, fn func(*ListState)) bool {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	state := c.state
	c.mu.Unlock()

	c.notifier.publish(state)
	return true
}
