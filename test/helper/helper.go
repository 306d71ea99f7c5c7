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
// Package helper provides helper functions for testing.
package helper

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roster-team/roster/api/types"
)

// TestAPIKey is the API key accepted by the fake member API.
const TestAPIKey = "test-api-key"

// Below are the timings used when tests wait for asynchronous results.
var (
	WaitTimeout  = 3 * time.Second
	PollInterval = 5 * time.Millisecond
)

// TestMemberFields returns valid fields of a member for testing. The index
// makes the names of members created in one test distinct.
func TestMemberFields(t testing.TB, index int) *types.CreateMemberFields {
	name := t.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	return &types.CreateMemberFields{
		FirstName:   fmt.Sprintf("First%d", index),
		LastName:    strings.ReplaceAll(name, " ", "-"),
		DateOfBirth: fmt.Sprintf("19%02d-01-%02d", 50+index%50, 1+index%28),
		Sex:         types.SexOther,
		Status:      types.StatusActive,
	}
}

// NewRangeSlice returns a slice of integers from start to end.
func NewRangeSlice(start, end int) []int {
	var slice []int
	if start < end {
		for i := start; i <= end; i++ {
			slice = append(slice, i)
		}
		return slice
	}

	for i := start; i >= end; i-- {
		slice = append(slice, i)
	}
	return slice
}

// Eventually asserts that the condition becomes true within WaitTimeout.
func Eventually(t assert.TestingT, condition func() bool, msgAndArgs ...any) bool {
	return assert.Eventually(t, condition, WaitTimeout, PollInterval, msgAndArgs...)
}

// StrPtr returns a pointer to the given string.
func StrPtr(s string) *string {
	return &s
}
