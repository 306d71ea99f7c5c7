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
// Package views provides the state machines behind the member screens: the
// paginated list, the detail view with its edit form, the delete
// confirmation and the create form.
//
// Controllers read through a Reader and dispatch mutations through a
// Mutator. Their operations block until the network call they issue is done,
// so callers run them on their own goroutines when they need concurrency.
// State is kept under a lock and every change is published to subscribers.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/pkg/cache"
)

var (
	// ErrClosed is returned when a controller was closed before its
	// operation completed. The result of the operation was discarded.
	ErrClosed = errors.New("controller closed")

	// ErrSuperseded is returned when a later request replaced the request of
	// the operation. The result of the operation was discarded.
	ErrSuperseded = errors.New("request superseded")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidPage is returned when a page is out of range.
	ErrInvalidPage = errors.New("invalid page")
)

// maxRefetches bounds how many times a controller re-reads a key whose fetch
// was superseded by an invalidation.
const maxRefetches = 3

// Reader is the read side used by the controllers. Both methods return the
// cached entry immediately and, when it is not fresh, a channel delivering
// the outcome of the fetch.
type Reader interface {
	RevalidateMembers(ctx context.Context, page, pageSize int) (cache.Entry, <-chan cache.Result)
	RevalidateMember(ctx context.Context, id string) (cache.Entry, <-chan cache.Result)
}

// Mutator is the write side used by the controllers.
type Mutator interface {
	Create(ctx context.Context, fields *types.CreateMemberFields) (*types.Member, error)
	Update(ctx context.Context, id string, fields *types.UpdatableMemberFields) (*types.Member, error)
	Delete(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, photo *types.Photo) (*types.Member, error)
}

// revalidate is the signature shared by the Reader methods.
type revalidate func(ctx context.Context) (cache.Entry, <-chan cache.Result)

// read reads a key through fn. onStale is called with a stale value served
// while the fetch is in flight. Reads whose fetch was superseded by an
// invalidation are retried so that the committed value is never older than
// the invalidation.
func read(ctx context.Context, fn revalidate, onStale func(cache.Entry)) (cache.Entry, error) {
	for attempt := 0; ; attempt++ {
		entry, ch := fn(ctx)
		if ch == nil {
			return entry, nil
		}
		if entry.HasValue() && onStale != nil {
			onStale(entry)
		}

		res := <-ch
		if res.Superseded && attempt < maxRefetches && ctx.Err() == nil {
			continue
		}
		if res.Err != nil {
			return res.Entry, res.Err
		}
		return res.Entry, nil
	}
}

// transitionError returns an ErrInvalidTransition naming the operation and
// the state it was attempted in.
func transitionError(op string, state fmt.Stringer) error {
	return fmt.Errorf("%s in %s: %w", op, state, ErrInvalidTransition)
}

// notifier publishes state snapshots to subscribers.
type notifier[S any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(S)
}

// subscribe registers fn and returns a function that unregisters it.
func (n *notifier[S]) subscribe(fn func(S)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func(S))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// publish calls every subscriber with the state. It must be called without
// the controller lock held.
func (n *notifier[S]) publish(state S) {
	n.mu.Lock()
	subs := make([]func(S), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
