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

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	t.Run("ValidateValue test", func(t *testing.T) {
		assert.NoError(t, ValidateValue("male", "required,sex"))
		assert.NoError(t, ValidateValue("other", "required,sex"))

		err := ValidateValue("unknown", "required,sex")
		assert.Equal(t, "sex", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("PAUSED", "member_status"))
		err = ValidateValue("active", "member_status")
		assert.Equal(t, "member_status", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("1990-02-28", "iso_date"))
		err = ValidateValue("1990-02-30", "iso_date")
		assert.Equal(t, "iso_date", err.(Violation).Tag)
		err = ValidateValue("28/02/1990", "iso_date")
		assert.Equal(t, "iso_date", err.(Violation).Tag)

		err = ValidateValue("   ", "required,not_blank")
		assert.Equal(t, "not_blank", err.(Violation).Tag)
	})

	t.Run("ValidateStruct test", func(t *testing.T) {
		type person struct {
			FirstName string `json:"firstName" validate:"required,not_blank"`
			Sex       string `json:"sex" validate:"required,sex"`
		}

		err := ValidateStruct(person{FirstName: "", Sex: "unknown"})
		structError := &StructError{}
		assert.True(t, errors.As(err, &structError))
		assert.Len(t, structError.Violations, 2)

		fieldErrors := structError.FieldErrors()
		assert.Contains(t, fieldErrors, "firstName")
		assert.Equal(t, "sex must be one of male, female, other", fieldErrors["sex"])

		assert.NoError(t, ValidateStruct(person{FirstName: "Ada", Sex: "female"}))
	})

	t.Run("custom rule test", func(t *testing.T) {
		_ = RegisterValidation("custom", func(v FieldLevel) bool {
			return v.Field().String() == "custom"
		})

		myError := errors.New("custom error")
		_ = RegisterTranslation("custom", myError.Error())

		err := ValidateValue("not-custom", "custom")
		assert.Equal(t, myError.Error(), err.(Violation).Description)
	})
}
