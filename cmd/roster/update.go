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

func newUpdateCmd(v *viper.Viper) *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "update [member id] [options]",
		Short: "Update the given fields of a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRoster(v)
			if err != nil {
				return err
			}
			defer closeRoster(r)

			detail := r.NewDetailController(args[0])
			defer detail.Close()

			ctx := cmd.Context()
			if err := detail.Load(ctx); err != nil {
				return err
			}
			if err := detail.Edit(); err != nil {
				return err
			}

			draft := detail.State().Draft
			flags.apply(cmd, &draft)
			if err := detail.SetDraft(draft); err != nil {
				return err
			}

			// NOTE: only the fields that differ from the fetched member are sent.
			if err := detail.Submit(ctx); err != nil {
				return err
			}

			return printMember(cmd, v.GetString("output"), detail.State().Member)
		},
	}
	flags.register(cmd, types.CreateMemberFields{})

	return cmd
}
