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
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/internal/version"
)

func newVersionCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := types.VersionInfo{
				RosterVersion: version.Version,
				GitCommit:     version.GitCommit,
				GoVersion:     runtime.Version(),
				BuildDate:     version.BuildDate,
				UserAgent:     version.UserAgent(),
			}

			output := v.GetString("output")
			if output != "" {
				return printStructured(cmd, output, info)
			}

			cmd.Printf("Roster: %s\n", info.RosterVersion)
			cmd.Printf("Go: %s\n", info.GoVersion)
			if info.GitCommit != "" {
				cmd.Printf("Commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" {
				cmd.Printf("Build Date: %s\n", info.BuildDate)
			}
			return nil
		},
	}
}
