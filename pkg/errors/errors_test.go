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

package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"Transport", KindTransport, "transport_error"},
		{"RequestFailed", KindRequestFailed, "request_failed"},
		{"ValidationFailed", KindValidationFailed, "validation_failed"},
		{"NotFound", KindNotFound, "not_found"},
		{"InvalidPhoto", KindInvalidPhoto, "invalid_photo"},
		{"Unknown", Kind(999), "kind_999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, Kind(0), KindOf(nil))
	})

	t.Run("standard error", func(t *testing.T) {
		assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	})

	t.Run("wrapped errors keep their kind", func(t *testing.T) {
		err := fmt.Errorf("get member: %w", &NotFoundError{ID: "m1"})
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "get member: member m1 not found", err.Error())

		err = fmt.Errorf("list: %w", &TransportError{Op: "GET /members", Err: context.DeadlineExceeded})
		assert.Equal(t, KindTransport, KindOf(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("local kinds", func(t *testing.T) {
		assert.True(t, KindInvalidPhoto.IsLocal())
		assert.True(t, KindValidationFailed.IsLocal())
		assert.False(t, KindRequestFailed.IsLocal())
	})
}

func TestValidationFailedError(t *testing.T) {
	err := &ValidationFailedError{
		Status:  422,
		Message: "invalid member",
		FieldErrors: map[string]string{
			"lastName":  "lastName is a required field",
			"firstName": "firstName is a required field",
		},
	}

	assert.Equal(
		t,
		"invalid member (firstName: firstName is a required field; lastName: lastName is a required field)",
		err.Error(),
	)
	assert.Len(t, FieldErrorsOf(fmt.Errorf("create: %w", err)), 2)
	assert.Nil(t, FieldErrorsOf(&RequestFailedError{Status: 500, Message: "HTTP 500"}))
}

func TestInfoOf(t *testing.T) {
	assert.Equal(t, Info{}, InfoOf(nil))

	info := InfoOf(fmt.Errorf("delete: %w", &RequestFailedError{Status: 409, Message: "member is locked"}))
	assert.Equal(t, KindRequestFailed, info.Kind)
	assert.Equal(t, 409, info.Status)
	assert.Equal(t, "member is locked", info.Message)

	info = InfoOf(&InvalidPhotoError{Reason: "File size must be less than 3MB"})
	assert.Equal(t, KindInvalidPhoto, info.Kind)
	assert.Equal(t, "File size must be less than 3MB", info.Message)
}
