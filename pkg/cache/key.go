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

package cache

import (
	"fmt"
	"time"
)

// Kind is the kind of a cache key.
type Kind string

// Below are the kinds of cacheable server data.
const (
	// KindMemberList is the kind of keys of member list pages.
	KindMemberList Kind = "member-list"

	// KindMember is the kind of keys of single members.
	KindMember Kind = "member"
)

// Key identifies a cacheable unit of server data: a list page or a single
// member. Key is comparable and can be used as a map key.
type Key struct {
	Kind     Kind
	Page     int
	PageSize int
	ID       string
}

// MemberListKey returns the key of the given member list page.
func MemberListKey(page, pageSize int) Key {
	return Key{Kind: KindMemberList, Page: page, PageSize: pageSize}
}

// MemberKey returns the key of the member with the given id.
func MemberKey(id string) Key {
	return Key{Kind: KindMember, ID: id}
}

// String returns the string representation of the key.
func (k Key) String() string {
	switch k.Kind {
	case KindMemberList:
		return fmt.Sprintf("%s/%d/%d", k.Kind, k.Page, k.PageSize)
	default:
		return fmt.Sprintf("%s/%s", k.Kind, k.ID)
	}
}

// State is the state of a cache entry.
type State int

// Below are the states of a cache entry.
const (
	// Absent means there is no value and no fetch in flight.
	Absent State = iota

	// Loading means there is no value yet and a fetch is in flight.
	Loading

	// Fresh means the value is authoritative and reads are served from it.
	Fresh

	// Stale means the value is still servable but a refetch is due.
	Stale

	// Error means the last fetch failed. The previous value, if any, is kept.
	Error
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Loading:
		return "loading"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state_%d", int(s))
	}
}

// Entry is a snapshot of a cache entry returned to readers.
type Entry struct {
	Key       Key
	Value     any
	FetchedAt time.Time
	State     State
	Err       error
}

// HasValue returns whether the entry carries a servable value.
func (e Entry) HasValue() bool {
	return e.Value != nil
}

// Result is the outcome of a fetch delivered to a reader.
type Result struct {
	Entry Entry
	Err   error

	// Superseded is true when the key was written or invalidated while the
	// fetch was in flight. The value was returned by the server but it was
	// not committed to the store.
	Superseded bool
}
