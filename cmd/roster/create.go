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
	"github.com/spf13/viper"

	"github.com/roster-team/roster/api/types"
)

func newCreateCmd(v *viper.Viper) *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "create [options]",
		Short: "Create a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := types.DefaultCreateMemberFields()
			flags.apply(cmd, &fields)

			r, err := newRoster(v)
			if err != nil {
				return err
			}
			defer closeRoster(r)

			form := r.NewCreateController()
			defer form.Close()

			if err := form.SetFields(fields); err != nil {
				return err
			}
			member, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}

			return printMember(cmd, v.GetString("output"), member)
		},
	}
	flags.register(cmd, types.DefaultCreateMemberFields())

	return cmd
}
