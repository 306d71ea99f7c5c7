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
// Package mutation provides the coordinator of member mutations. It
// serializes mutations per member, invokes the client and invalidates the
// cache entries each mutation makes stale.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/internal/metrics/prometheus"
	"github.com/roster-team/roster/pkg/cache"
	"github.com/roster-team/roster/pkg/locker"
)

// ErrMutationInFlight is returned when a mutation of the same member, or
// another create, is already in flight.
var ErrMutationInFlight = errors.New("mutation already in flight")

// Kind is the kind of a mutation.
type Kind string

// Below are the kinds of mutations.
const (
	KindCreate      Kind = "create"
	KindUpdate      Kind = "update"
	KindDelete      Kind = "delete"
	KindUploadPhoto Kind = "upload-photo"
)

// Client is the part of the member API client used by the coordinator.
type Client interface {
	CreateMember(ctx context.Context, fields *types.CreateMemberFields) (*types.Member, error)
	UpdateMember(ctx context.Context, id string, fields *types.UpdatableMemberFields) (*types.Member, error)
	DeleteMember(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, id string, photo *types.Photo) (*types.Member, error)
}

// Invalidator is the part of the cache store used by the coordinator.
type Invalidator interface {
	Invalidate(key cache.Key)
	InvalidatePrefix(kind cache.Kind) int
	Remove(key cache.Key)
}

// lockKey is the key of the per-member lock. Creates share one key.
type lockKey struct {
	create bool
	id     string
}

// Option configures Options.
type Option func(*Options)

// Options configures how we set up the coordinator.
type Options struct {
	// Logger is the Logger of the coordinator.
	Logger logging.Logger

	// Metrics counts mutations by kind and result.
	Metrics *prometheus.Metrics
}

// WithLogger configures the Logger of the coordinator.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics configures the Metrics of the coordinator.
func WithMetrics(metrics *prometheus.Metrics) Option {
	return func(o *Options) { o.Metrics = metrics }
}

// Coordinator runs mutations against the member API. It is safe for
// concurrent use.
type Coordinator struct {
	client  Client
	store   Invalidator
	locks   *locker.Locker[lockKey]
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// New creates a new instance of Coordinator.
func New(client Client, store Invalidator, opts ...Option) *Coordinator {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = logging.New("mutation")
	}

	return &Coordinator{
		client:  client,
		store:   store,
		locks:   locker.New[lockKey](),
		logger:  options.Logger,
		metrics: options.Metrics,
	}
}

// Create creates a member and invalidates every member list page.
func (c *Coordinator) Create(ctx context.Context, fields *types.CreateMemberFields) (*types.Member, error) {
	var member *types.Member
	err := c.run(KindCreate, lockKey{create: true}, func() error {
		var err error
		member, err = c.client.CreateMember(ctx, fields)
		if err != nil {
			return err
		}

		c.store.InvalidatePrefix(cache.KindMemberList)
		return nil
	})
	return member, err
}

// Update updates the given fields of a member and invalidates the member.
func (c *Coordinator) Update(
	ctx context.Context,
	id string,
	fields *types.UpdatableMemberFields,
) (*types.Member, error) {
	var member *types.Member
	err := c.run(KindUpdate, lockKey{id: id}, func() error {
		var err error
		member, err = c.client.UpdateMember(ctx, id, fields)
		if err != nil {
			return err
		}

		c.store.Invalidate(cache.MemberKey(id))
		return nil
	})
	return member, err
}

// Delete deletes a member, drops its entry and invalidates every member list
// page.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	return c.run(KindDelete, lockKey{id: id}, func() error {
		if err := c.client.DeleteMember(ctx, id); err != nil {
			return err
		}

		c.store.Remove(cache.MemberKey(id))
		c.store.InvalidatePrefix(cache.KindMemberList)
		return nil
	})
}

// UploadPhoto replaces the photo of a member and invalidates the member.
func (c *Coordinator) UploadPhoto(ctx context.Context, id string, photo *types.Photo) (*types.Member, error) {
	var member *types.Member
	err := c.run(KindUploadPhoto, lockKey{id: id}, func() error {
		var err error
		member, err = c.client.UploadPhoto(ctx, id, photo)
		if err != nil {
			return err
		}

		c.store.Invalidate(cache.MemberKey(id))
		return nil
	})
	return member, err
}

// InFlight returns the number of members with a mutation in flight,
// counting creates as one.
func (c *Coordinator) InFlight() int {
	return c.locks.Len()
}

// run runs fn while holding the lock of the key. The error of fn is
// returned unchanged; failed mutations invalidate nothing.
func (c *Coordinator) run(kind Kind, key lockKey, fn func() error) error {
	if !c.locks.TryLock(key) {
		if key.create {
			return fmt.Errorf("%s: %w", kind, ErrMutationInFlight)
		}
		return fmt.Errorf("%s member %s: %w", kind, key.id, ErrMutationInFlight)
	}
	defer func() {
		if err := c.locks.Unlock(key); err != nil {
			c.logger.Errorf("unlock %s: %v", kind, err)
		}
	}()

	start := time.Now()
	err := fn()
	c.metrics.AddMutation(string(kind), err)

	logger := c.logger.Desugar()
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		logging.MemberID(key.id),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		logger.Warn("mutation failed", append(fields, zap.Error(err))...)
		return err
	}
	logger.Debug("mutation done", fields...)

	return nil
}
