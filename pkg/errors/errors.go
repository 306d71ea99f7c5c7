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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// KindError represents an error that carries a failure kind.
type KindError interface {
	error
	Kind() Kind
}

// TransportError is returned when no response reached the client.
type TransportError struct {
	Op  string
	Err error
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("transport: %s", e.Err)
	}
	return fmt.Sprintf("%s: transport: %s", e.Op, e.Err)
}

// Kind returns KindTransport.
func (e *TransportError) Kind() Kind { return KindTransport }

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// RequestFailedError is returned when the server answers with a non-2xx
// status that is not otherwise classified.
type RequestFailedError struct {
	Status  int
	Message string
}

// Error returns the server message.
func (e *RequestFailedError) Error() string { return e.Message }

// Kind returns KindRequestFailed.
func (e *RequestFailedError) Kind() Kind { return KindRequestFailed }

// ValidationFailedError is returned when fields are rejected. Status is zero
// when the violation was detected before sending the request.
type ValidationFailedError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
}

// Error returns the message followed by the field errors in field order.
func (e *ValidationFailedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if len(e.FieldErrors) == 0 {
		return msg
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.FieldErrors[field])
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// Kind returns KindValidationFailed.
func (e *ValidationFailedError) Kind() Kind { return KindValidationFailed }

// NotFoundError is returned when the requested member does not exist.
type NotFoundError struct {
	ID      string
	Message string
}

// Error returns the server message, or a default one naming the id.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("member %s not found", e.ID)
}

// Kind returns KindNotFound.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// InvalidPhotoError is returned when a photo violates the local preconditions.
type InvalidPhotoError struct {
	Reason string
}

// Error returns the reason.
func (e *InvalidPhotoError) Error() string { return e.Reason }

// Kind returns KindInvalidPhoto.
func (e *InvalidPhotoError) Kind() Kind { return KindInvalidPhoto }

// KindOf extracts the failure kind from an error, looking through wrapping.
// It returns 0 for nil and for errors outside the taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}

	var kindErr KindError
	if errors.As(err, &kindErr) {
		return kindErr.Kind()
	}

	return 0
}

// IsKind checks if the given error has the specified kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound checks if the given error is a NotFoundError.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// FieldErrorsOf returns the field errors of a ValidationFailedError, or nil.
func FieldErrorsOf(err error) map[string]string {
	var validationErr *ValidationFailedError
	if errors.As(err, &validationErr) {
		return validationErr.FieldErrors
	}
	return nil
}

// Info provides the user-visible information about an error.
type Info struct {
	Kind        Kind
	Message     string
	FieldErrors map[string]string
	Status      int
}

// InfoOf extracts the user-visible information from an error.
func InfoOf(err error) Info {
	if err == nil {
		return Info{}
	}

	info := Info{
		Kind:        KindOf(err),
		Message:     err.Error(),
		FieldErrors: FieldErrorsOf(err),
	}

	var requestErr *RequestFailedError
	var validationErr *ValidationFailedError
	switch {
	case errors.As(err, &requestErr):
		info.Status = requestErr.Status
		info.Message = requestErr.Message
	case errors.As(err, &validationErr):
		info.Status = validationErr.Status
	}

	return info
}
