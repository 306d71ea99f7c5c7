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
package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/roster-team/roster/api/types"
	rerrors "github.com/roster-team/roster/pkg/errors"
)

// photoField is the multipart field that carries the photo.
const photoField = "file"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodePhoto encodes the photo as a multipart form. The content is read at
// most up to types.MaxPhotoSize so that a photo whose declared size was wrong
// is still rejected locally.
func encodePhoto(photo *types.Photo) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	name := photo.Name
	if name == "" {
		name = "photo"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		photoField,
		quoteEscaper.Replace(name),
	))
	header.Set("Content-Type", photo.ResolveContentType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create photo part: %w", err)
	}

	n, err := io.Copy(part, io.LimitReader(photo.Content, types.MaxPhotoSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	if n > types.MaxPhotoSize {
		return nil, "", &rerrors.InvalidPhotoError{Reason: "File size must be less than 3MB"}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close photo form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
