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

package types_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/pkg/errors"
)

func TestPhotoValidate(t *testing.T) {
	t.Run("accept 2 MiB png test", func(t *testing.T) {
		photo := &types.Photo{
			Name:    "avatar.png",
			Size:    2 * 1024 * 1024,
			Content: bytes.NewReader(nil),
		}
		assert.NoError(t, photo.Validate())
	})

	t.Run("reject 4 MiB file test", func(t *testing.T) {
		photo := &types.Photo{
			Name:    "avatar.jpg",
			Size:    4 * 1024 * 1024,
			Content: bytes.NewReader(nil),
		}
		err := photo.Validate()
		assert.True(t, errors.IsKind(err, errors.KindInvalidPhoto))
		assert.Equal(t, "File size must be less than 3MB", err.Error())
	})

	t.Run("reject gif test", func(t *testing.T) {
		photo := &types.Photo{
			Name:    "avatar.gif",
			Size:    1024,
			Content: bytes.NewReader(nil),
		}
		assert.True(t, errors.IsKind(photo.Validate(), errors.KindInvalidPhoto))
	})

	t.Run("declared type wins over extension test", func(t *testing.T) {
		photo := &types.Photo{
			Name:        "avatar",
			ContentType: "image/webp",
			Size:        1024,
			Content:     bytes.NewReader(nil),
		}
		assert.NoError(t, photo.Validate())
		assert.Equal(t, "image/webp", photo.ResolveContentType())
	})

	t.Run("missing content test", func(t *testing.T) {
		photo := &types.Photo{Name: "avatar.png"}
		assert.True(t, errors.IsKind(photo.Validate(), errors.KindInvalidPhoto))
	})
}

func TestOpenPhoto(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	path := filepath.Join(t.TempDir(), "photo")
	require.NoError(t, os.WriteFile(path, append(pngHeader, make([]byte, 64)...), 0600))

	photo, closer, err := types.OpenPhoto(path)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, int64(72), photo.Size)
	assert.NoError(t, photo.Validate())
}
