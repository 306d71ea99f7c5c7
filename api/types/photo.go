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

package types

import (
	"bufio"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/roster-team/roster/pkg/errors"
)

// MaxPhotoSize is the maximum size of a member photo, 3 MiB.
const MaxPhotoSize = 3 * 1024 * 1024

// allowedPhotoTypes is the set of MIME types accepted for member photos.
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo is an image file to be attached to a member.
type Photo struct {
	// Name is the file name sent to the server.
	Name string

	// ContentType is the declared MIME type. When empty it is resolved from
	// the file extension.
	ContentType string

	// Size is the size of the content in bytes.
	Size int64

	// Content is the image data.
	Content io.Reader
}

// OpenPhoto opens the photo file at the given path. The caller must close
// the returned closer after the upload.
func OpenPhoto(path string) (*Photo, io.Closer, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open photo: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("stat photo: %w", err)
	}

	reader := bufio.NewReader(file)
	photo := &Photo{
		Name:    filepath.Base(path),
		Size:    info.Size(),
		Content: reader,
	}
	if photo.ResolveContentType() == "" {
		// NOTE: sniffing needs at most 512 bytes and Peek does not consume them.
		head, _ := reader.Peek(512)
		photo.ContentType = http.DetectContentType(head)
	}

	return photo, file, nil
}

// ResolveContentType returns the declared content type, or the type implied
// by the file extension.
func (p *Photo) ResolveContentType() string {
	if p.ContentType != "" {
		mediaType, _, err := mime.ParseMediaType(p.ContentType)
		if err != nil {
			return strings.ToLower(p.ContentType)
		}
		return mediaType
	}

	ext := strings.ToLower(filepath.Ext(p.Name))
	if ext == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil {
		return ""
	}
	return mediaType
}

// Validate checks the local preconditions of a photo upload: the MIME type
// must be JPEG, PNG or WEBP and the size must not exceed MaxPhotoSize.
func (p *Photo) Validate() error {
	if p == nil || p.Content == nil {
		return &errors.InvalidPhotoError{Reason: "No file selected"}
	}

	if !allowedPhotoTypes[p.ResolveContentType()] {
		return &errors.InvalidPhotoError{Reason: "Only JPEG, PNG, or WEBP images are allowed."}
	}

	if p.Size > MaxPhotoSize {
		return &errors.InvalidPhotoError{Reason: "File size must be less than 3MB"}
	}

	return nil
}
