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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFetch(t *testing.T) {
	ctx := context.Background()
	key := MemberKey("m1")

	counting := func(calls *int) FetchFunc {
		return func(ctx context.Context) (any, error) {
			*calls++
			return "fetched", nil
		}
	}

	t.Run("committed generation skips fetch test", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		defer s.Close()

		s.Write(key, "written")
		gen := s.gens[key]
		s.inflight[key] = gen

		calls := 0
		res := s.fetch(ctx, key, gen, counting(&calls))
		assert.Equal(t, 0, calls)
		assert.NoError(t, res.Err)
		assert.False(t, res.Superseded)
		assert.Equal(t, Fresh, res.Entry.State)
		assert.Equal(t, "written", res.Entry.Value)
		assert.Equal(t, int64(0), s.Stats().Fetches())
		assert.NotContains(t, s.inflight, key)
	})

	t.Run("late flight after commit skips fetch test", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		defer s.Close()

		calls := 0
		gen := s.gens[key]
		first := s.fetch(ctx, key, gen, counting(&calls))
		assert.Equal(t, Fresh, first.Entry.State)

		// a reader that saw the key absent before the commit
		second := s.fetch(ctx, key, gen, counting(&calls))
		assert.Equal(t, 1, calls)
		assert.Equal(t, Fresh, second.Entry.State)
		assert.Equal(t, "fetched", second.Entry.Value)
	})

	t.Run("stale entry fetches test", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		defer s.Close()

		s.Write(key, "written")
		s.Invalidate(key)

		calls := 0
		res := s.fetch(ctx, key, s.gens[key], counting(&calls))
		assert.Equal(t, 1, calls)
		assert.Equal(t, Fresh, res.Entry.State)
		assert.Equal(t, "fetched", res.Entry.Value)
	})
}
