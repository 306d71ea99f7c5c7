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
package roster_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/client"
	"github.com/roster-team/roster/internal/profiling"
	"github.com/roster-team/roster/pkg/cache"
	rerrors "github.com/roster-team/roster/pkg/errors"
	"github.com/roster-team/roster/roster"
	"github.com/roster-team/roster/test/helper"
	"github.com/roster-team/roster/views"
)

func newRoster(t *testing.T, api *helper.FakeAPI) *roster.Roster {
	conf := roster.NewConfig()
	conf.Client.APIURL = api.URL()
	conf.Client.APIKey = helper.TestAPIKey

	r, err := roster.New(conf)
	require.NoError(t, err)
	require.NoError(t, r.Start())
	t.Cleanup(func() { assert.NoError(t, r.Close()) })
	return r
}

func TestRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("list pages test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 10)
		r := newRoster(t, api)

		page, err := r.Members(ctx, 1, 4)
		require.NoError(t, err)
		assert.Len(t, page.Data, 4)
		assert.Equal(t, 10, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)

		page, err = r.Members(ctx, 3, 4)
		require.NoError(t, err)
		assert.Len(t, page.Data, 2)

		_, err = r.Members(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 2, api.Requests(helper.RouteListMembers))
	})

	t.Run("default page test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 12)
		r := newRoster(t, api)

		page, err := r.Members(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, types.DefaultPage, page.Page)
		assert.Len(t, page.Data, types.DefaultPageSize)
		assert.Equal(t, cache.Fresh, r.Store().Read(cache.MemberListKey(1, 10)).State)
	})

	t.Run("create refetches list pages test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 10)
		r := newRoster(t, api)

		_, err := r.Members(ctx, 1, 4)
		require.NoError(t, err)

		created, err := r.Create(ctx, helper.TestMemberFields(t, 42))
		require.NoError(t, err)
		assert.Equal(t, cache.Stale, r.Store().Read(cache.MemberListKey(1, 4)).State)

		page, err := r.Members(ctx, 1, 4)
		require.NoError(t, err)
		assert.Equal(t, 11, page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, created.ID, page.Data[0].ID)
		assert.Equal(t, 2, api.Requests(helper.RouteListMembers))
	})

	t.Run("update then read test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 2)
		r := newRoster(t, api)

		before, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)

		firstName := "Grace"
		updated, err := r.Update(ctx, members[0].ID, &types.UpdatableMemberFields{FirstName: &firstName})
		require.NoError(t, err)
		assert.Equal(t, "Grace", updated.FirstName)

		after, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "Grace", after.FirstName)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
		assert.Equal(t, 2, api.Requests(helper.RouteGetMember))
	})

	t.Run("delete then read test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 2)
		r := newRoster(t, api)

		_, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)
		require.NoError(t, r.Delete(ctx, members[0].ID))

		_, err = r.Member(ctx, members[0].ID)
		assert.True(t, rerrors.IsNotFound(err))
	})

	t.Run("empty id test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		r := newRoster(t, api)

		_, err := r.Member(ctx, "")
		assert.ErrorIs(t, err, client.ErrEmptyID)
		assert.Equal(t, 0, api.Requests(helper.RouteGetMember))
	})

	t.Run("returned values are copies test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 1)
		r := newRoster(t, api)

		member, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)
		member.FirstName = "changed"

		again, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)
		assert.Equal(t, members[0].FirstName, again.FirstName)
	})

	t.Run("controller states are copies test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 2)
		r := newRoster(t, api)

		list := r.NewListController(10)
		defer list.Close()
		require.NoError(t, list.Load(ctx))
		list.State().Data.Data[0].FirstName = "changed"

		page, err := r.Members(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, members[1].FirstName, page.Data[0].FirstName)

		// a second controller reads the fresh cached page without a fetch
		other := r.NewListController(10)
		defer other.Close()
		require.NoError(t, other.Load(ctx))
		assert.Equal(t, members[1].FirstName, other.State().Data.Data[0].FirstName)
		assert.Equal(t, 1, api.Requests(helper.RouteListMembers))

		detail := r.NewDetailController(members[0].ID)
		defer detail.Close()
		require.NoError(t, detail.Load(ctx))
		detail.State().Member.Status = types.StatusPaused

		member, err := r.Member(ctx, members[0].ID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusActive, member.Status)

		again := r.NewDetailController(members[0].ID)
		defer again.Close()
		require.NoError(t, again.Load(ctx))
		assert.Equal(t, types.StatusActive, again.State().Member.Status)
		assert.Equal(t, 1, api.Requests(helper.RouteGetMember))
	})
}

func TestControllers(t *testing.T) {
	ctx := context.Background()

	t.Run("list controller test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 10)
		r := newRoster(t, api)

		list := r.NewListController(4)
		defer list.Close()

		require.NoError(t, list.Load(ctx))
		state := list.State()
		assert.Equal(t, views.ListLoaded, state.Status)
		assert.Len(t, state.Data.Data, 4)

		require.NoError(t, list.ChangePage(ctx, 3))
		state = list.State()
		assert.Equal(t, 3, state.Page)
		assert.Len(t, state.Data.Data, 2)

		assert.ErrorIs(t, list.ChangePage(ctx, 4), views.ErrInvalidPage)
	})

	t.Run("detail controller test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 1)
		r := newRoster(t, api)

		detail := r.NewDetailController(members[0].ID)
		defer detail.Close()

		require.NoError(t, detail.Load(ctx))
		assert.Equal(t, views.DetailViewing, detail.State().Status)
		assert.Equal(t, members[0].ID, detail.State().Member.ID)

		require.NoError(t, detail.Edit())
		draft := detail.State().Draft
		draft.LastName = "Lovelace"
		require.NoError(t, detail.SetDraft(draft))
		require.NoError(t, detail.Submit(ctx))

		assert.Equal(t, views.DetailViewing, detail.State().Status)
		assert.Equal(t, "Lovelace", detail.State().Member.LastName)
		assert.Equal(t, "Lovelace", api.Member(members[0].ID).LastName)
	})

	t.Run("delete controller test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 1)
		r := newRoster(t, api)

		navigated := false
		dialog := r.NewDeleteController(members[0].ID, func() { navigated = true })
		defer dialog.Close()

		require.NoError(t, dialog.Open())
		require.NoError(t, dialog.Confirm(ctx))
		assert.True(t, navigated)
		assert.Equal(t, views.DeleteClosed, dialog.State().Status)
		assert.Equal(t, 0, api.Len())
	})

	t.Run("create controller test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		r := newRoster(t, api)

		form := r.NewCreateController()
		defer form.Close()

		require.NoError(t, form.SetFields(*helper.TestMemberFields(t, 1)))
		created, err := form.Submit(ctx)
		require.NoError(t, err)
		assert.Equal(t, created.ID, api.Member(created.ID).ID)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("profiling server test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		conf := roster.NewConfig()
		conf.Client.APIURL = api.URL()
		conf.Client.APIKey = helper.TestAPIKey
		conf.Profiling = &profiling.Config{Port: 0}

		r, err := roster.New(conf)
		require.NoError(t, err)
		require.NoError(t, r.Start())

		_, err = r.Members(context.Background(), 1, 10)
		require.NoError(t, err)

		resp, err := http.Get("http://" + r.ProfilingAddr() + "/metrics")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		assert.Contains(t, string(body), "roster_cache_reads_total")

		require.NoError(t, r.Close())
		require.NoError(t, r.Close())
		assert.ErrorIs(t, r.Start(), roster.ErrClosed)
	})

	t.Run("invalid config test", func(t *testing.T) {
		conf := roster.NewConfig()
		conf.Client.APIURL = "localhost:3000"
		_, err := roster.New(conf)
		assert.ErrorIs(t, err, client.ErrInvalidAPIURL)
	})
}

func TestConfig(t *testing.T) {
	t.Run("load config file test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yml")
		content := []byte(`
Client:
  APIURL: https://members.example.com
  APIKey: secret
Cache:
  Size: 50
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		conf, err := roster.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.NoError(t, conf.Validate())
		assert.Equal(t, "https://members.example.com", conf.Client.APIURL)
		assert.Equal(t, "secret", conf.Client.APIKey)
		assert.Equal(t, 50, conf.Cache.Size)
		assert.Equal(t, cache.DefaultListStaleTime, conf.Cache.StaleTime(cache.KindMemberList))
		assert.Nil(t, conf.Profiling)
	})

	t.Run("empty config file test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yml")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

		conf, err := roster.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, client.DefaultAPIURL, conf.Client.APIURL)
		assert.Equal(t, cache.DefaultSize, conf.Cache.Size)
	})

	t.Run("missing config file test", func(t *testing.T) {
		_, err := roster.NewConfigFromFile(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("invalid profiling port test", func(t *testing.T) {
		conf := roster.NewConfig()
		conf.Profiling = &profiling.Config{Port: -1}
		assert.ErrorIs(t, conf.Validate(), profiling.ErrInvalidProfilingPort)
	})
}
