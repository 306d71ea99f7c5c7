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
// Package roster provides the runtime of the member directory. It wires the
// member API client, the cache store shared by the views and the mutation
// coordinator, and creates the view controllers on top of them.
package roster

import (
	"context"
	"errors"
	gosync "sync"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/client"
	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/internal/metrics/prometheus"
	"github.com/roster-team/roster/internal/profiling"
	"github.com/roster-team/roster/mutation"
	"github.com/roster-team/roster/pkg/cache"
	"github.com/roster-team/roster/views"
)

// ErrClosed is returned when the runtime is used after Close.
var ErrClosed = errors.New("roster closed")

// Roster is the runtime of the member directory. Reads go through the cache
// store and writes go through the mutation coordinator, which invalidates the
// store after each successful mutation.
type Roster struct {
	lock gosync.Mutex

	conf            *Config
	metrics         *prometheus.Metrics
	client          *client.Client
	store           *cache.Store
	manager         *cache.Manager
	coordinator     *mutation.Coordinator
	profilingServer *profiling.Server
	logger          logging.Logger

	cancel  context.CancelFunc
	started bool
	closed  bool
}

// New creates a new instance of Roster.
func New(conf *Config) (*Roster, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	metrics, err := prometheus.NewMetrics()
	if err != nil {
		return nil, err
	}

	cli, err := client.NewFromConfig(
		conf.Client,
		client.WithLogger(logging.New("client")),
		client.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(
		conf.Cache,
		cache.WithName("members"),
		cache.WithLogger(logging.New("cache")),
		cache.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	manager := cache.NewManager(conf.Cache.StatsIntervalDuration(), logging.New("cache"))
	manager.Register(store)

	coordinator := mutation.New(
		cli,
		store,
		mutation.WithLogger(logging.New("mutation")),
		mutation.WithMetrics(metrics),
	)

	var profilingServer *profiling.Server
	if conf.Profiling != nil {
		profilingServer = profiling.NewServer(conf.Profiling, metrics)
	}

	return &Roster{
		conf:            conf,
		metrics:         metrics,
		client:          cli,
		store:           store,
		manager:         manager,
		coordinator:     coordinator,
		profilingServer: profilingServer,
		logger:          logging.New("roster"),
	}, nil
}

// Start starts the periodic cache statistics log and the profiling server.
func (r *Roster) Start() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.started {
		return nil
	}

	if r.profilingServer != nil {
		if err := r.profilingServer.Start(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	go r.manager.Run(ctx)

	r.started = true
	r.logger.Debugf("roster started against %s", r.conf.Client.APIURL)
	return nil
}

// Close stops the runtime and drops every cached entry. Fetches in flight
// are discarded.
func (r *Roster) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}
	r.manager.Stop()
	if r.profilingServer != nil && r.started {
		r.profilingServer.Shutdown(true)
	}
	r.store.Close()

	r.closed = true
	return nil
}

// Metrics returns the metrics of the runtime.
func (r *Roster) Metrics() *prometheus.Metrics {
	return r.metrics
}

// Store returns the cache store of the runtime.
func (r *Roster) Store() *cache.Store {
	return r.store
}

// ProfilingAddr returns the address of the profiling server, or "" when it
// is disabled or not started.
func (r *Roster) ProfilingAddr() string {
	if r.profilingServer == nil {
		return ""
	}
	return r.profilingServer.Addr()
}

// Members returns the given page of members. A fresh cached page is returned
// without a request; otherwise the page is fetched.
func (r *Roster) Members(ctx context.Context, page, pageSize int) (*types.Page, error) {
	page, pageSize = normalizePage(page, pageSize)
	entry, err := r.store.Get(ctx, cache.MemberListKey(page, pageSize), r.fetchMembers(page, pageSize))
	if err != nil {
		return nil, err
	}

	return entry.Value.(*types.Page).DeepCopy(), nil
}

// Member returns the member of the given id. A fresh cached member is
// returned without a request; otherwise the member is fetched.
func (r *Roster) Member(ctx context.Context, id string) (*types.Member, error) {
	if id == "" {
		return nil, client.ErrEmptyID
	}

	entry, err := r.store.Get(ctx, cache.MemberKey(id), r.fetchMember(id))
	if err != nil {
		return nil, err
	}

	return entry.Value.(*types.Member).DeepCopy(), nil
}

// RevalidateMembers returns the cached entry of the given page immediately,
// and when it is not fresh a channel delivering the outcome of its refetch.
func (r *Roster) RevalidateMembers(ctx context.Context, page, pageSize int) (cache.Entry, <-chan cache.Result) {
	page, pageSize = normalizePage(page, pageSize)
	entry, ch := r.store.Revalidate(ctx, cache.MemberListKey(page, pageSize), r.fetchMembers(page, pageSize))
	return copyEntry(entry), copyResults(ch)
}

// RevalidateMember returns the cached entry of the given member immediately,
// and when it is not fresh a channel delivering the outcome of its refetch.
func (r *Roster) RevalidateMember(ctx context.Context, id string) (cache.Entry, <-chan cache.Result) {
	entry, ch := r.store.Revalidate(ctx, cache.MemberKey(id), r.fetchMember(id))
	return copyEntry(entry), copyResults(ch)
}

// Create creates a member.
func (r *Roster) Create(ctx context.Context, fields *types.CreateMemberFields) (*types.Member, error) {
	return r.coordinator.Create(ctx, fields)
}

// Update updates the given fields of a member.
func (r *Roster) Update(
	ctx context.Context,
	id string,
	fields *types.UpdatableMemberFields,
) (*types.Member, error) {
	return r.coordinator.Update(ctx, id, fields)
}

// Delete deletes a member.
func (r *Roster) Delete(ctx context.Context, id string) error {
	return r.coordinator.Delete(ctx, id)
}

// UploadPhoto uploads the photo of a member.
func (r *Roster) UploadPhoto(ctx context.Context, id string, photo *types.Photo) (*types.Member, error) {
	return r.coordinator.UploadPhoto(ctx, id, photo)
}

// NewListController creates a controller of the member list.
func (r *Roster) NewListController(pageSize int) *views.ListController {
	return views.NewListController(r, pageSize)
}

// NewDetailController creates a controller of the detail view of a member.
func (r *Roster) NewDetailController(id string) *views.DetailController {
	return views.NewDetailController(r, r, id)
}

// NewDeleteController creates a controller of the delete confirmation of a
// member. navigate is called after the member was deleted.
func (r *Roster) NewDeleteController(id string, navigate func()) *views.DeleteController {
	return views.NewDeleteController(r, id, navigate)
}

// NewCreateController creates a controller of the create form.
func (r *Roster) NewCreateController() *views.CreateController {
	return views.NewCreateController(r)
}

func (r *Roster) fetchMembers(page, pageSize int) cache.FetchFunc {
	return func(ctx context.Context) (any, error) {
		result, err := r.client.ListMembers(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (r *Roster) fetchMember(id string) cache.FetchFunc {
	return func(ctx context.Context) (any, error) {
		if id == "" {
			return nil, client.ErrEmptyID
		}

		member, err := r.client.GetMember(ctx, id)
		if err != nil {
			return nil, err
		}
		return member, nil
	}
}

// copyEntry returns the entry with a copy of its value, so that values
// handed to the controllers never alias the store.
func copyEntry(entry cache.Entry) cache.Entry {
	switch value := entry.Value.(type) {
	case *types.Page:
		entry.Value = value.DeepCopy()
	case *types.Member:
		entry.Value = value.DeepCopy()
	}
	return entry
}

// copyResults relays the results of ch with their values copied.
func copyResults(ch <-chan cache.Result) <-chan cache.Result {
	if ch == nil {
		return nil
	}

	out := make(chan cache.Result, 1)
	go func() {
		defer close(out)
		for res := range ch {
			res.Entry = copyEntry(res.Entry)
			out <- res
		}
	}()
	return out
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = types.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}
	return page, pageSize
}
