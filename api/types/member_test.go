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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/pkg/errors"
)

func TestCreateMemberFields(t *testing.T) {
	t.Run("validation test", func(t *testing.T) {
		fields := &types.CreateMemberFields{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DateOfBirth: "1815-12-10",
			Sex:         types.SexFemale,
			Status:      types.StatusActive,
		}
		assert.NoError(t, fields.Validate())
	})

	t.Run("all fields are required test", func(t *testing.T) {
		fields := &types.CreateMemberFields{}
		err := fields.Validate()
		assert.True(t, errors.IsKind(err, errors.KindValidationFailed))

		fieldErrors := errors.FieldErrorsOf(err)
		assert.Len(t, fieldErrors, 5)
		assert.Equal(t, "firstName is a required field", fieldErrors["firstName"])
	})

	t.Run("enum and date format test", func(t *testing.T) {
		fields := &types.CreateMemberFields{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DateOfBirth: "10.12.1815",
			Sex:         "unknown",
			Status:      "RETIRED",
		}
		fieldErrors := errors.FieldErrorsOf(fields.Validate())
		assert.Len(t, fieldErrors, 3)
		assert.Contains(t, fieldErrors, "dateOfBirth")
		assert.Contains(t, fieldErrors, "sex")
		assert.Contains(t, fieldErrors, "status")
	})

	t.Run("default form values test", func(t *testing.T) {
		fields := types.DefaultCreateMemberFields()
		assert.Equal(t, types.SexFemale, fields.Sex)
		assert.Equal(t, types.StatusActive, fields.Status)
		assert.Empty(t, fields.FirstName)
	})
}

func TestUpdatableMemberFields(t *testing.T) {
	t.Run("empty fields test", func(t *testing.T) {
		fields := &types.UpdatableMemberFields{}
		assert.ErrorIs(t, fields.Validate(), types.ErrEmptyMemberFields)
	})

	t.Run("partial fields test", func(t *testing.T) {
		status := types.StatusPaused
		fields := &types.UpdatableMemberFields{Status: &status}
		assert.NoError(t, fields.Validate())

		blank := " "
		fields = &types.UpdatableMemberFields{FirstName: &blank}
		assert.Contains(t, errors.FieldErrorsOf(fields.Validate()), "firstName")
	})

	t.Run("diff and apply test", func(t *testing.T) {
		member := &types.Member{
			ID:          "m1",
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DateOfBirth: "1815-12-10",
			Sex:         types.SexFemale,
			Status:      types.StatusActive,
		}

		next := member.Fields()
		next.LastName = "Byron"
		next.Status = types.StatusPaused

		diff := types.DiffMemberFields(member.Fields(), next)
		assert.Nil(t, diff.FirstName)
		assert.Nil(t, diff.Sex)
		assert.Equal(t, "Byron", *diff.LastName)
		assert.Equal(t, types.StatusPaused, *diff.Status)

		updated := diff.ApplyTo(member)
		assert.Equal(t, "Byron", updated.LastName)
		assert.Equal(t, "Lovelace", member.LastName)

		unchanged := types.DiffMemberFields(member.Fields(), member.Fields())
		assert.True(t, unchanged.IsEmpty())
	})
}

func TestPage(t *testing.T) {
	assert.Equal(t, 3, types.TotalPagesFor(10, 4))
	assert.Equal(t, 3, types.TotalPagesFor(11, 4))
	assert.Equal(t, 3, types.TotalPagesFor(12, 4))
	assert.Equal(t, 0, types.TotalPagesFor(0, 4))

	page := &types.Page{Page: 1, PageSize: 4, TotalItems: 10, TotalPages: 3}
	assert.True(t, page.Valid(1))
	assert.True(t, page.Valid(3))
	assert.False(t, page.Valid(0))
	assert.False(t, page.Valid(4))
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrev())

	empty := &types.Page{Page: 1, PageSize: 4}
	assert.Equal(t, 1, empty.LastPage())
	assert.True(t, empty.Valid(1))
}

func TestMember(t *testing.T) {
	photoURL := "https://cdn.example.com/m1.png"
	member := &types.Member{FirstName: "Ada", LastName: "Lovelace", PhotoURL: &photoURL}
	assert.Equal(t, "AL", member.Initials())
	assert.Equal(t, "Ada Lovelace", member.FullName())
	assert.True(t, member.HasPhoto())

	clone := member.DeepCopy()
	*clone.PhotoURL = "changed"
	assert.Equal(t, "https://cdn.example.com/m1.png", *member.PhotoURL)
}
