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
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/pkg/errors"
	"github.com/roster-team/roster/test/helper"
)

// execute runs the CLI with the given input and arguments and returns what
// it printed.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		printError(cmd, err)
	}
	return out.String(), errOut.String(), err
}

func apiFlags(api *helper.FakeAPI) []string {
	return []string{"--api-url", api.URL(), "--api-key", helper.TestAPIKey}
}

func TestListCommand(t *testing.T) {
	t.Run("table output test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 10)

		out, _, err := execute(t, "", append(apiFlags(api), "ls", "--size", "4")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Page 1 of 3 (10 members)")
		assert.Contains(t, out, members[9].FullName())
		assert.NotContains(t, out, members[0].FullName())
	})

	t.Run("json output test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 10)

		out, _, err := execute(t, "", append(apiFlags(api), "ls", "--size", "4", "-o", "json")...)
		require.NoError(t, err)

		var page types.Page
		require.NoError(t, json.Unmarshal([]byte(out), &page))
		assert.Len(t, page.Data, 4)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("yaml output of a later page test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		members := api.Seed(t, 10)

		out, _, err := execute(t, "", append(apiFlags(api), "ls", "--size", "4", "--page", "3", "-o", "yaml")...)
		require.NoError(t, err)

		var page types.Page
		require.NoError(t, yaml.Unmarshal([]byte(out), &page))
		assert.Equal(t, 3, page.Page)
		require.Len(t, page.Data, 2)
		assert.Equal(t, members[0].ID, page.Data[1].ID)
	})

	t.Run("unknown output test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		_, _, err := execute(t, "", append(apiFlags(api), "ls", "-o", "xml")...)
		assert.ErrorContains(t, err, "unknown output format")
	})

	t.Run("invalid page test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		_, _, err := execute(t, "", append(apiFlags(api), "ls", "--page", "0")...)
		assert.Error(t, err)
		assert.Equal(t, 0, api.Requests(helper.RouteListMembers))
	})
}

func TestMemberCommands(t *testing.T) {
	t.Run("get test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		out, _, err := execute(t, "", append(apiFlags(api), "get", member.ID)...)
		require.NoError(t, err)
		assert.Contains(t, out, member.FullName())
		assert.Contains(t, out, "("+member.Initials()+")")
	})

	t.Run("get missing member test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		_, errOut, err := execute(t, "", append(apiFlags(api), "get", "missing")...)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, errOut, "Member not found")
	})

	t.Run("create test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		out, _, err := execute(t, "", append(apiFlags(api),
			"create",
			"--first-name", "Ada",
			"--last-name", "Lovelace",
			"--date-of-birth", "1815-12-10",
			"-o", "json",
		)...)
		require.NoError(t, err)

		var created types.Member
		require.NoError(t, json.Unmarshal([]byte(out), &created))
		assert.Equal(t, "Ada", created.FirstName)
		assert.Equal(t, types.SexFemale, created.Sex)
		assert.Equal(t, types.StatusActive, created.Status)
		assert.Equal(t, 1, api.Len())
	})

	t.Run("create with invalid fields test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		_, errOut, err := execute(t, "", append(apiFlags(api),
			"create",
			"--first-name", "Ada",
			"--date-of-birth", "10/12/1815",
		)...)
		assert.Equal(t, errors.KindValidationFailed, errors.KindOf(err))
		assert.Contains(t, errOut, "  dateOfBirth: ")
		assert.Contains(t, errOut, "  lastName: ")
		assert.Equal(t, 0, api.Requests(helper.RouteCreateMember))
	})

	t.Run("update test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		out, _, err := execute(t, "", append(apiFlags(api), "update", member.ID, "--status", "PAUSED")...)
		require.NoError(t, err)
		assert.Contains(t, out, "PAUSED")
		assert.Equal(t, types.StatusPaused, api.Member(member.ID).Status)
		assert.Equal(t, member.FirstName, api.Member(member.ID).FirstName)
	})

	t.Run("update without changes test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		_, _, err := execute(t, "", append(apiFlags(api), "update", member.ID)...)
		require.NoError(t, err)
		assert.Equal(t, 0, api.Requests(helper.RouteUpdateMember))
	})
}

func TestDeleteCommand(t *testing.T) {
	t.Run("declined test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		out, _, err := execute(t, "n\n", append(apiFlags(api), "delete", member.ID)...)
		assert.ErrorIs(t, err, errAborted)
		assert.Contains(t, out, "[y/N]")
		assert.Equal(t, 1, api.Len())
		assert.Equal(t, 0, api.Requests(helper.RouteDeleteMember))
	})

	t.Run("confirmed test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		out, _, err := execute(t, "y\n", append(apiFlags(api), "delete", member.ID)...)
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted "+member.FullName())
		assert.Equal(t, 0, api.Len())
	})

	t.Run("yes flag test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		_, _, err := execute(t, "", append(apiFlags(api), "rm", member.ID, "--yes")...)
		require.NoError(t, err)
		assert.Equal(t, 0, api.Len())
	})
}

func TestPhotoCommand(t *testing.T) {
	t.Run("upload test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		path := filepath.Join(t.TempDir(), "avatar.png")
		content := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 128)...)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		out, _, err := execute(t, "", append(apiFlags(api), "photo", member.ID, path)...)
		require.NoError(t, err)
		assert.Contains(t, out, api.URL()+"/photos/")
		assert.True(t, api.Member(member.ID).HasPhoto())
	})

	t.Run("unsupported type test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		member := api.Seed(t, 1)[0]

		path := filepath.Join(t.TempDir(), "anim.gif")
		require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o600))

		_, _, err := execute(t, "", append(apiFlags(api), "photo", member.ID, path)...)
		assert.Equal(t, errors.KindInvalidPhoto, errors.KindOf(err))
		assert.Equal(t, 0, api.Requests(helper.RouteUploadPhoto))
	})
}

func TestSettings(t *testing.T) {
	t.Run("api key from environment test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 1)
		t.Setenv("ROSTER_API_KEY", helper.TestAPIKey)

		_, _, err := execute(t, "", "--api-url", api.URL(), "ls")
		require.NoError(t, err)
	})

	t.Run("missing api key test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)

		_, errOut, err := execute(t, "", "--api-url", api.URL(), "ls")
		assert.Equal(t, errors.KindRequestFailed, errors.KindOf(err))
		assert.Contains(t, errOut, "Invalid API key")
	})

	t.Run("config file test", func(t *testing.T) {
		api := helper.NewFakeAPI(t)
		api.Seed(t, 2)

		path := filepath.Join(t.TempDir(), "roster.yml")
		content := "Client:\n  APIURL: " + api.URL() + "\n  APIKey: " + helper.TestAPIKey + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		out, _, err := execute(t, "", "--config", path, "ls")
		require.NoError(t, err)
		assert.Contains(t, out, "Page 1 of 1 (2 members)")
	})

	t.Run("invalid log level test", func(t *testing.T) {
		_, _, err := execute(t, "", "--log-level", "loud", "version")
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("version test", func(t *testing.T) {
		out, _, err := execute(t, "", "version", "-o", "json")
		require.NoError(t, err)

		var info types.VersionInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.NotEmpty(t, info.RosterVersion)
		assert.NotEmpty(t, info.GoVersion)
	})
}
