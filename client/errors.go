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
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	rerrors "github.com/roster-team/roster/pkg/errors"
)

// MsgRequestFailed is the message of errors whose body cannot be read.
const MsgRequestFailed = "Request failed"

// maxErrorBodySize is the maximum size of an error body that is read.
const maxErrorBodySize = 64 * 1024

// errorBody is the body of a non-2xx response of the member API.
type errorBody struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// toError converts a non-2xx response into an error of pkg/errors. The
// server message is used verbatim when the body carries one.
func toError(resp *http.Response, id string) error {
	body, ok := readErrorBody(resp.Body)

	message := MsgRequestFailed
	if ok {
		message = body.Error
		if message == "" {
			message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && id != "":
		return &rerrors.NotFoundError{ID: id, Message: body.Error}
	case (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity) &&
		len(body.FieldErrors) > 0:
		return &rerrors.ValidationFailedError{
			Status:      resp.StatusCode,
			Message:     message,
			FieldErrors: body.FieldErrors,
		}
	default:
		return &rerrors.RequestFailedError{Status: resp.StatusCode, Message: message}
	}
}

// readErrorBody decodes the error body. It reports false when the body
// cannot be read or is not an error object.
func readErrorBody(r io.Reader) (errorBody, bool) {
	var body errorBody

	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return body, false
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return errorBody{}, false
	}

	return body, true
}
