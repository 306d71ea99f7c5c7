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
package profiling_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-team/roster/internal/metrics/prometheus"
	"github.com/roster-team/roster/internal/profiling"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		conf := &profiling.Config{Port: profiling.DefaultPort}
		assert.NoError(t, conf.Validate())

		conf.Port = 0
		assert.NoError(t, conf.Validate())

		conf.Port = 70000
		assert.ErrorIs(t, conf.Validate(), profiling.ErrInvalidProfilingPort)
	})
}

func TestServer(t *testing.T) {
	t.Run("serve metrics test", func(t *testing.T) {
		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)
		metrics.AddMutation("create", nil)

		server := profiling.NewServer(&profiling.Config{Port: 0}, metrics)
		require.NoError(t, server.Start())
		defer server.Shutdown(true)

		resp, err := http.Get("http://" + server.Addr() + "/metrics")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "roster_mutation_total")
	})
}
