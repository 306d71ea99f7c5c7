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

// Package types provides the types of the member directory.
package types

import (
	"time"
)

// Sex is the sex of a member.
type Sex string

// Below are the sexes a member can have.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// Status is the status of a member.
type Status string

// Below are the statuses a member can have.
const (
	StatusActive Status = "ACTIVE"
	StatusPaused Status = "PAUSED"
)

// Member is a person in the directory. The server assigns ID, CreatedAt and
// UpdatedAt; the client never sets them.
type Member struct {
	// ID is the opaque, immutable identifier of the member.
	ID string `json:"id" yaml:"id"`

	// FirstName is the first name of the member.
	FirstName string `json:"firstName" yaml:"firstName"`

	// LastName is the last name of the member.
	LastName string `json:"lastName" yaml:"lastName"`

	// DateOfBirth is the calendar date of birth in YYYY-MM-DD form.
	DateOfBirth string `json:"dateOfBirth" yaml:"dateOfBirth"`

	// Sex is the sex of the member.
	Sex Sex `json:"sex" yaml:"sex"`

	// Status is the status of the member.
	Status Status `json:"status" yaml:"status"`

	// PhotoURL is the reference of the member photo. It is nil when the
	// member has no photo.
	PhotoURL *string `json:"photoUrl" yaml:"photoUrl"`

	// CreatedAt is the time when the member was created.
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`

	// UpdatedAt is the time when the member was last updated.
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// FullName returns the first and last name of the member.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Initials returns the initials shown in place of a missing photo.
func (m *Member) Initials() string {
	var initials string
	if r := []rune(m.FirstName); len(r) > 0 {
		initials += string(r[0])
	}
	if r := []rune(m.LastName); len(r) > 0 {
		initials += string(r[0])
	}
	return initials
}

// HasPhoto returns whether the member has a photo.
func (m *Member) HasPhoto() bool {
	return m.PhotoURL != nil && *m.PhotoURL != ""
}

// DeepCopy returns a copy of the member that shares no memory with it.
func (m *Member) DeepCopy() *Member {
	if m == nil {
		return nil
	}

	clone := *m
	if m.PhotoURL != nil {
		photoURL := *m.PhotoURL
		clone.PhotoURL = &photoURL
	}
	return &clone
}

// Fields returns the editable fields of the member.
func (m *Member) Fields() CreateMemberFields {
	return CreateMemberFields{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Sex:         m.Sex,
		Status:      m.Status,
	}
}
