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

package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roster-team/roster/internal/logging"
)

func TestLogging(t *testing.T) {
	t.Run("set log level test", func(t *testing.T) {
		assert.Error(t, logging.SetLogLevel("verbose"))

		assert.NoError(t, logging.SetLogLevel("debug"))
		assert.True(t, logging.Enabled(zapcore.DebugLevel))

		assert.NoError(t, logging.SetLogLevel("warn"))
		assert.False(t, logging.Enabled(zapcore.InfoLevel))
		assert.True(t, logging.Enabled(zapcore.ErrorLevel))

		assert.NoError(t, logging.SetLogLevel("info"))
	})

	t.Run("context carriage test", func(t *testing.T) {
		logger := logging.New("test", logging.NewField("member_id", "m1"))
		ctx := logging.With(context.Background(), logger)
		assert.Equal(t, logger, logging.From(ctx))
		assert.Equal(t, logging.DefaultLogger(), logging.From(context.Background()))
	})

	t.Run("context fields test", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		ctx := logging.With(context.Background(), zap.New(core).Sugar())
		ctx = logging.WithFields(ctx, logging.APIHost("api.example.com"))
		ctx = logging.WithFields(ctx, logging.MemberID("m1"))

		logging.From(ctx).Debug("discard member")

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, map[string]interface{}{
			logging.KeyAPIHost:  "api.example.com",
			logging.KeyMemberID: "m1",
		}, entries[0].ContextMap())
	})
}
