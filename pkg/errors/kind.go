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

// Package errors provides the error taxonomy of the member directory client.
// Every failure surfaced by the client, the mutation coordinator and the view
// controllers carries one of the kinds below.
package errors

import "fmt"

// Kind represents the kind of a failure.
type Kind int

const (
	// KindTransport indicates that no response reached the client.
	KindTransport Kind = iota + 1

	// KindRequestFailed indicates that the server rejected the request.
	KindRequestFailed

	// KindValidationFailed indicates that the given fields were rejected with
	// per-field detail, either locally or by the server.
	KindValidationFailed

	// KindNotFound indicates that the requested member does not exist.
	KindNotFound

	// KindInvalidPhoto indicates that a photo failed the local preconditions.
	// It never reaches the network.
	KindInvalidPhoto
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport_error"
	case KindRequestFailed:
		return "request_failed"
	case KindValidationFailed:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindInvalidPhoto:
		return "invalid_photo"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

// IsLocal returns true if errors of this kind can be produced without
// contacting the server.
func (k Kind) IsLocal() bool {
	return k == KindInvalidPhoto || k == KindValidationFailed
}
