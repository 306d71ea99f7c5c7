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
package locker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockCounter(t *testing.T) {
	l := &lockCtr{}
	l.inc()
	assert.Equal(t, int32(1), l.count())

	l.dec()
	assert.Equal(t, int32(0), l.count())
}

func TestLockerLock(t *testing.T) {
	l := New[string]()
	l.Lock("test")
	ctr := l.locks["test"]
	assert.Equal(t, int32(0), ctr.count())

	chDone := make(chan struct{})
	go func() {
		l.Lock("test")
		close(chDone)
	}()

	assert.Eventually(t, func() bool {
		return ctr.count() == 1
	}, 3*time.Second, time.Millisecond)

	select {
	case <-chDone:
		t.Fatal("lock should not have returned while it was still held")
	default:
	}

	assert.NoError(t, l.Unlock("test"))

	select {
	case <-chDone:
	case <-time.After(3 * time.Second):
		t.Fatal("lock should have completed")
	}
	assert.Equal(t, int32(0), ctr.count())
}

func TestLockerUnlock(t *testing.T) {
	l := New[string]()

	l.Lock("test")
	assert.NoError(t, l.Unlock("test"))
	assert.ErrorIs(t, l.Unlock("test"), ErrNoSuchLock)

	chDone := make(chan struct{})
	go func() {
		l.Lock("test")
		close(chDone)
	}()

	select {
	case <-chDone:
	case <-time.After(3 * time.Second):
		t.Fatal("lock should not be blocked")
	}
}

func TestLockerConcurrency(t *testing.T) {
	l := New[string]()

	var wg sync.WaitGroup
	for i := 0; i <= 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("test")
			// if there is a concurrency issue, will very likely panic here
			assert.NoError(t, l.Unlock("test"))
		}()
	}
	wg.Wait()

	// Since everything has unlocked this should not exist anymore
	assert.Equal(t, 0, l.Len())
}

func TestTryLock(t *testing.T) {
	t.Run("try lock busy key test", func(t *testing.T) {
		l := New[string]()

		for i := 0; i < 2; i++ {
			assert.True(t, l.TryLock("test"))
			assert.False(t, l.TryLock("test"))
			assert.False(t, l.TryLock("test"))
			assert.NoError(t, l.Unlock("test"))
		}
		assert.Equal(t, 0, l.Len())
	})

	t.Run("try lock distinct keys test", func(t *testing.T) {
		l := New[int]()

		assert.True(t, l.TryLock(1))
		assert.True(t, l.TryLock(2))
		assert.Equal(t, 2, l.Len())

		assert.NoError(t, l.Unlock(1))
		assert.NoError(t, l.Unlock(2))
		assert.Equal(t, 0, l.Len())
	})
}
