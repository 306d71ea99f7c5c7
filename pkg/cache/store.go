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

// Package cache provides the keyed store of server responses shared by the
// view controllers. Entries are written by fetches, marked stale by
// invalidation and refetched explicitly on the next read.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/internal/metrics/prometheus"
)

// maxSupersededRetries bounds how many times Get joins a newer fetch after
// its own fetch was superseded.
const maxSupersededRetries = 3

// FetchFunc fetches the value of a key from the server.
type FetchFunc func(ctx context.Context) (any, error)

// Option configures Options.
type Option func(*Options)

// Options configures how we set up the store.
type Options struct {
	// Name is the name of the store used in statistics.
	Name string

	// Logger is the Logger of the store.
	Logger logging.Logger

	// Metrics records cache reads, fetches and invalidations.
	Metrics *prometheus.Metrics

	// Clock returns the current time.
	Clock func() time.Time
}

// WithName configures the name of the store.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithLogger configures the Logger of the store.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics configures the Metrics of the store.
func WithMetrics(metrics *prometheus.Metrics) Option {
	return func(o *Options) { o.Metrics = metrics }
}

// WithClock configures the clock of the store.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) { o.Clock = clock }
}

// entry is the stored form of a cache entry. It is only accessed with the
// store lock held.
type entry struct {
	value     any
	fetchedAt time.Time
	state     State
	err       error
}

// Store is an in-memory keyed store of server responses. It is safe for
// concurrent use.
//
// Every Write, Invalidate and Remove assigns the key a new generation. A fetch
// commits its result only if the generation it started with is still current,
// so a later-issued request always supersedes an earlier one and a response
// fetched before a mutation is never written after the invalidation the
// mutation caused.
type Store struct {
	mu sync.Mutex

	conf    *Config
	entries *expirable.LRU[Key, *entry]

	// seq is the last generation handed out.
	seq uint64
	// gens holds the current generation of each key ever touched.
	gens map[Key]uint64
	// inflight holds the generation of the latest fetch in flight per key.
	inflight map[Key]uint64
	// flights deduplicates concurrent fetches of the same key generation.
	flights singleflight.Group

	name    string
	stats   *Stats
	logger  logging.Logger
	metrics *prometheus.Metrics
	now     func() time.Time
}

// New creates a new instance of Store.
func New(conf *Config, opts ...Option) (*Store, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("validate cache config: %w", err)
	}

	options := Options{Name: "members"}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = logging.New("cache")
	}
	if options.Clock == nil {
		options.Clock = time.Now
	}

	return &Store{
		conf:     conf,
		entries:  expirable.NewLRU[Key, *entry](conf.Size, nil, conf.RetentionDuration()),
		gens:     make(map[Key]uint64),
		inflight: make(map[Key]uint64),
		name:     options.Name,
		stats:    &Stats{},
		logger:   options.Logger,
		metrics:  options.Metrics,
		now:      options.Clock,
	}, nil
}

// Read returns a snapshot of the entry of the given key. It never triggers a
// fetch.
func (s *Store) Read(key Key) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readLocked(key)
}

// Write stores the value as a fresh entry fetched now.
func (s *Store) Write(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGenLocked(key)
	s.entries.Add(key, &entry{
		value:     value,
		fetchedAt: s.now(),
		state:     Fresh,
	})
}

// Invalidate marks the entry of the given key as stale. The stale value is
// still served to readers, and the next Get or Revalidate refetches it. A
// fetch of the key already in flight is superseded.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.invalidateLocked(key) {
		s.metrics.AddCacheInvalidations(string(key.Kind), 1)
	}
}

// InvalidatePrefix invalidates every key of the given kind, including keys
// whose first fetch is still in flight. It returns the number of invalidated
// keys.
func (s *Store) InvalidatePrefix(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[Key]bool)
	for _, key := range s.entries.Keys() {
		if key.Kind == kind {
			seen[key] = true
		}
	}
	for key := range s.inflight {
		if key.Kind == kind {
			seen[key] = true
		}
	}

	count := 0
	for key := range seen {
		if s.invalidateLocked(key) {
			count++
		}
	}

	s.metrics.AddCacheInvalidations(string(kind), count)
	s.logger.Debugf("invalidate %s: %d keys", kind, count)
	return count
}

// Remove drops the entry of the given key entirely. A fetch of the key
// already in flight is superseded.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGenLocked(key)
	s.entries.Remove(key)
}

// Revalidate returns the current entry of the given key immediately. If the
// entry is not fresh, it starts a fetch, or joins the fetch already in flight
// for the key, and returns a channel that delivers the outcome once. The
// channel is nil when the entry is fresh: a fresh read never reaches the
// network.
//
// Stale values are returned as they are so that readers can show them while
// the refetch is in flight. If ctx is done before the fetch completes, the
// channel delivers ctx.Err(); the shared fetch itself keeps running for the
// other readers.
func (s *Store) Revalidate(ctx context.Context, key Key, fetch FetchFunc) (Entry, <-chan Result) {
	s.mu.Lock()
	current := s.readLocked(key)
	s.metrics.AddCacheRead(string(key.Kind), current.State.String())
	if current.State == Fresh {
		atomic.AddInt64(&s.stats.hits, 1)
		s.mu.Unlock()
		return current, nil
	}
	atomic.AddInt64(&s.stats.misses, 1)

	gen := s.gens[key]
	s.inflight[key] = gen
	if current.State == Absent {
		current.State = Loading
	}
	s.mu.Unlock()

	flight := s.flights.DoChan(flightKey(key, gen), func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), key, gen, fetch), nil
	})

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		select {
		case res := <-flight:
			out <- res.Val.(Result)
		case <-ctx.Done():
			out <- Result{Entry: current, Err: ctx.Err()}
		}
	}()

	return current, out
}

// Get returns the value of the given key, fetching it when the entry is not
// fresh. Unlike Revalidate it waits for stale values to be refetched. If the
// fetch is superseded by a write or an invalidation, Get joins the newer
// fetch.
func (s *Store) Get(ctx context.Context, key Key, fetch FetchFunc) (Entry, error) {
	for attempt := 0; ; attempt++ {
		current, ch := s.Revalidate(ctx, key, fetch)
		if ch == nil {
			return current, nil
		}

		res := <-ch
		if res.Superseded && attempt < maxSupersededRetries && ctx.Err() == nil {
			continue
		}
		if res.Err != nil {
			return res.Entry, res.Err
		}
		return res.Entry, nil
	}
}

// Len returns the number of entries in the store.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Stats returns the statistics of the store.
func (s *Store) Stats() *Stats {
	return s.stats
}

// Name returns the name of the store.
func (s *Store) Name() string {
	return s.name
}

// Close drops every entry. Fetches in flight are superseded and their results
// are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.entries.Keys() {
		s.nextGenLocked(key)
	}
	for key := range s.inflight {
		s.nextGenLocked(key)
	}
	s.entries.Purge()
}

// fetch runs the fetch function and commits its outcome if the key
// generation is unchanged. A flight of a generation whose fresh value is
// already committed returns that value without fetching again.
func (s *Store) fetch(ctx context.Context, key Key, gen uint64, fetch FetchFunc) Result {
	s.mu.Lock()
	if current := s.readLocked(key); s.gens[key] == gen && current.State == Fresh {
		if s.inflight[key] == gen {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		return Result{Entry: current}
	}
	s.mu.Unlock()

	atomic.AddInt64(&s.stats.fetches, 1)
	value, err := fetch(ctx)
	s.metrics.AddCacheFetch(string(key.Kind), err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[key] == gen {
		delete(s.inflight, key)
	}

	fetchedAt := s.now()
	if s.gens[key] != gen {
		s.logger.Debugf("discard superseded fetch of %s", key)
		return Result{
			Entry:      Entry{Key: key, Value: value, FetchedAt: fetchedAt, State: Stale, Err: err},
			Err:        err,
			Superseded: true,
		}
	}

	if err != nil {
		e, ok := s.entries.Peek(key)
		if !ok {
			e = &entry{}
			s.entries.Add(key, e)
		}
		e.state = Error
		e.err = err
		return Result{Entry: s.readLocked(key), Err: err}
	}

	s.entries.Add(key, &entry{
		value:     value,
		fetchedAt: fetchedAt,
		state:     Fresh,
	})
	return Result{Entry: Entry{Key: key, Value: value, FetchedAt: fetchedAt, State: Fresh}}
}

func (s *Store) readLocked(key Key) Entry {
	if e, ok := s.entries.Peek(key); ok {
		state := e.state
		if state == Fresh && s.expiredLocked(key.Kind, e.fetchedAt) {
			state = Stale
		}
		return Entry{
			Key:       key,
			Value:     e.value,
			FetchedAt: e.fetchedAt,
			State:     state,
			Err:       e.err,
		}
	}

	if _, ok := s.inflight[key]; ok {
		return Entry{Key: key, State: Loading}
	}

	return Entry{Key: key, State: Absent}
}

// invalidateLocked supersedes fetches of the key in flight and marks its
// entry stale. It returns whether there was anything to invalidate.
func (s *Store) invalidateLocked(key Key) bool {
	_, inflight := s.inflight[key]
	e, ok := s.entries.Peek(key)
	if !ok && !inflight {
		return false
	}

	s.nextGenLocked(key)
	if ok && e.value != nil {
		e.state = Stale
	}
	return true
}

func (s *Store) expiredLocked(kind Kind, fetchedAt time.Time) bool {
	staleTime := s.conf.StaleTime(kind)
	if staleTime <= 0 {
		return false
	}
	return s.now().Sub(fetchedAt) >= staleTime
}

func (s *Store) nextGenLocked(key Key) {
	s.seq++
	s.gens[key] = s.seq
}

func flightKey(key Key, gen uint64) string {
	return fmt.Sprintf("%s#%d", key, gen)
}
