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

func newListCmd(v *viper.Viper) *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List members, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRoster(v)
			if err != nil {
				return err
			}
			defer closeRoster(r)

			list := r.NewListController(pageSize)
			defer list.Close()

			if page == types.DefaultPage {
				err = list.Load(cmd.Context())
			} else {
				err = list.ChangePage(cmd.Context(), page)
			}
			if err != nil {
				return err
			}

			return printMembers(cmd, v.GetString("output"), list.State().Data)
		},
	}

	cmd.Flags().IntVar(
		&page,
		"page",
		types.DefaultPage,
		"The page to output, starting from 1",
	)
	cmd.Flags().IntVar(
		&pageSize,
		"size",
		types.DefaultPageSize,
		"The number of members to output per page",
	)

	return cmd
}
