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
package main

import (
	"github.com/spf13/cobra"

	"github.com/roster-team/roster/api/types"
)

// memberFlags are the flags of the editable member fields shared by create
// and update.
type memberFlags struct {
	firstName   string
	lastName    string
	dateOfBirth string
	sex         string
	status      string
}

func (f *memberFlags) register(cmd *cobra.Command, defaults types.CreateMemberFields) {
	cmd.Flags().StringVar(&f.firstName, "first-name", defaults.FirstName, "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", defaults.LastName, "Last name")
	cmd.Flags().StringVar(&f.dateOfBirth, "date-of-birth", defaults.DateOfBirth, "Date of birth, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.sex, "sex", string(defaults.Sex), "Sex: male, female, other")
	cmd.Flags().StringVar(&f.status, "status", string(defaults.Status), "Status: ACTIVE, PAUSED")
}

// apply sets the fields whose flag was given on the command line.
func (f *memberFlags) apply(cmd *cobra.Command, fields *types.CreateMemberFields) {
	if cmd.Flags().Changed("first-name") {
		fields.FirstName = f.firstName
	}
	if cmd.Flags().Changed("last-name") {
		fields.LastName = f.lastName
	}
	if cmd.Flags().Changed("date-of-birth") {
		fields.DateOfBirth = f.dateOfBirth
	}
	if cmd.Flags().Changed("sex") {
		fields.Sex = types.Sex(f.sex)
	}
	if cmd.Flags().Changed("status") {
		fields.Status = types.Status(f.status)
	}
}
