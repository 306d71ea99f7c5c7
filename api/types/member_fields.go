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
	"errors"

	"github.com/roster-team/roster/internal/validation"
	rerrors "github.com/roster-team/roster/pkg/errors"
)

// ErrEmptyMemberFields is returned when all the fields are empty.
var ErrEmptyMemberFields = errors.New("UpdatableMemberFields is empty")

// CreateMemberFields is a set of fields that use to create a member.
type CreateMemberFields struct {
	// FirstName is the first name of the member.
	FirstName string `json:"firstName" yaml:"firstName" validate:"required,not_blank"`

	// LastName is the last name of the member.
	LastName string `json:"lastName" yaml:"lastName" validate:"required,not_blank"`

	// DateOfBirth is the date of birth in YYYY-MM-DD form.
	DateOfBirth string `json:"dateOfBirth" yaml:"dateOfBirth" validate:"required,iso_date"`

	// Sex is the sex of the member.
	Sex Sex `json:"sex" yaml:"sex" validate:"required,sex"`

	// Status is the status of the member.
	Status Status `json:"status" yaml:"status" validate:"required,member_status"`
}

// DefaultCreateMemberFields returns the initial values of a new member form.
func DefaultCreateMemberFields() CreateMemberFields {
	return CreateMemberFields{
		Sex:    SexFemale,
		Status: StatusActive,
	}
}

// Validate validates the CreateMemberFields.
func (f *CreateMemberFields) Validate() error {
	return toValidationFailed(validation.ValidateStruct(f))
}

// UpdatableMemberFields is a set of fields that use to update a member. Nil
// fields are left unchanged by the server.
type UpdatableMemberFields struct {
	// FirstName is the first name of the member.
	FirstName *string `json:"firstName,omitempty" yaml:"firstName,omitempty" validate:"omitempty,not_blank"`

	// LastName is the last name of the member.
	LastName *string `json:"lastName,omitempty" yaml:"lastName,omitempty" validate:"omitempty,not_blank"`

	// DateOfBirth is the date of birth in YYYY-MM-DD form.
	DateOfBirth *string `json:"dateOfBirth,omitempty" yaml:"dateOfBirth,omitempty" validate:"omitempty,iso_date"`

	// Sex is the sex of the member.
	Sex *Sex `json:"sex,omitempty" yaml:"sex,omitempty" validate:"omitempty,sex"`

	// Status is the status of the member.
	Status *Status `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,member_status"`
}

// IsEmpty returns whether no field is set.
func (f *UpdatableMemberFields) IsEmpty() bool {
	return f.FirstName == nil &&
		f.LastName == nil &&
		f.DateOfBirth == nil &&
		f.Sex == nil &&
		f.Status == nil
}

// Validate validates the UpdatableMemberFields.
func (f *UpdatableMemberFields) Validate() error {
	if f.IsEmpty() {
		return ErrEmptyMemberFields
	}

	return toValidationFailed(validation.ValidateStruct(f))
}

// DiffMemberFields returns the fields of next that differ from prev.
func DiffMemberFields(prev, next CreateMemberFields) UpdatableMemberFields {
	var diff UpdatableMemberFields
	if prev.FirstName != next.FirstName {
		diff.FirstName = &next.FirstName
	}
	if prev.LastName != next.LastName {
		diff.LastName = &next.LastName
	}
	if prev.DateOfBirth != next.DateOfBirth {
		diff.DateOfBirth = &next.DateOfBirth
	}
	if prev.Sex != next.Sex {
		diff.Sex = &next.Sex
	}
	if prev.Status != next.Status {
		diff.Status = &next.Status
	}
	return diff
}

// ApplyTo returns a copy of the member with the set fields applied.
func (f *UpdatableMemberFields) ApplyTo(m *Member) *Member {
	updated := m.DeepCopy()
	if f.FirstName != nil {
		updated.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		updated.LastName = *f.LastName
	}
	if f.DateOfBirth != nil {
		updated.DateOfBirth = *f.DateOfBirth
	}
	if f.Sex != nil {
		updated.Sex = *f.Sex
	}
	if f.Status != nil {
		updated.Status = *f.Status
	}
	return updated
}

func toValidationFailed(err error) error {
	if err == nil {
		return nil
	}

	var structErr *validation.StructError
	if errors.As(err, &structErr) {
		return &rerrors.ValidationFailedError{
			Message:     "invalid member fields",
			FieldErrors: structErr.FieldErrors(),
		}
	}

	return err
}
