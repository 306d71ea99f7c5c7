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
 *
 * This file was written with reference to moby/locker.
 *   https://github.com/moby/locker
 */

/*
Package locker provides keyed mutexes. Each key has its own lock, created on
first use and dropped on Unlock when nobody else is waiting for it.

TryLock never blocks, which lets callers reject work on a busy key instead of
queueing it behind the holder.
*/
package locker

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNoSuchLock is returned when the requested lock does not exist.
var ErrNoSuchLock = errors.New("no such lock")

// Locker provides a locking mechanism based on the passed in key.
type Locker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*lockCtr
}

// lockCtr is used by Locker to represent a lock with a given key.
type lockCtr struct {
	mu sync.Mutex
	// waiters is the number of callers waiting to acquire the lock.
	waiters int32
}

func (l *lockCtr) inc() {
	atomic.AddInt32(&l.waiters, 1)
}

func (l *lockCtr) dec() {
	atomic.AddInt32(&l.waiters, -1)
}

func (l *lockCtr) count() int32 {
	return atomic.LoadInt32(&l.waiters)
}

// New creates a new Locker.
func New[K comparable]() *Locker[K] {
	return &Locker[K]{
		locks: make(map[K]*lockCtr),
	}
}

// Lock locks the mutex of the given key, waiting until it is available.
func (l *Locker[K]) Lock(key K) {
	ctr := l.acquire(key)

	// lock outside the main mutex so that other keys are not blocked.
	ctr.mu.Lock()
	ctr.dec()
}

// TryLock locks the mutex of the given key if it is available and reports
// whether it did.
func (l *Locker[K]) TryLock(key K) bool {
	ctr := l.acquire(key)
	succeeded := ctr.mu.TryLock()
	ctr.dec()

	if !succeeded {
		l.release(key, ctr)
	}
	return succeeded
}

// Unlock unlocks the mutex of the given key. The lock is dropped if nobody
// is waiting for it.
func (l *Locker[K]) Unlock(key K) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctr, exists := l.locks[key]
	if !exists {
		return ErrNoSuchLock
	}

	if ctr.count() == 0 {
		delete(l.locks, key)
	}
	ctr.mu.Unlock()

	return nil
}

// Len returns the number of keys that are locked or waited on.
func (l *Locker[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}

// acquire returns the lock of the key with its waiter count incremented.
// The count keeps the lock from being dropped by a concurrent Unlock.
func (l *Locker[K]) acquire(key K) *lockCtr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[K]*lockCtr)
	}

	ctr, exists := l.locks[key]
	if !exists {
		ctr = &lockCtr{}
		l.locks[key] = ctr
	}
	ctr.inc()

	return ctr
}

// release drops the lock of the key if it is neither held nor waited on.
func (l *Locker[K]) release(key K, ctr *lockCtr) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks[key] != ctr || ctr.count() != 0 {
		return
	}
	if ctr.mu.TryLock() {
		ctr.mu.Unlock()
		delete(l.locks, key)
	}
}
