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
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errAborted is returned when the user declines the confirmation.
var errAborted = errors.New("aborted")

func newDeleteCmd(v *viper.Viper) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete [member id]",
		Aliases: []string{"rm"},
		Short:   "Delete a member",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			r, err := newRoster(v)
			if err != nil {
				return err
			}
			defer closeRoster(r)

			ctx := cmd.Context()
			member, err := r.Member(ctx, id)
			if err != nil {
				return err
			}

			dialog := r.NewDeleteController(id, func() {
				cmd.Printf("Deleted %s (%s)\n", member.FullName(), id)
			})
			defer dialog.Close()

			if err := dialog.Open(); err != nil {
				return err
			}

			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %s (%s)?", member.FullName(), id))
				if err != nil {
					return err
				}
				if !ok {
					if err := dialog.Dismiss(); err != nil {
						return err
					}
					return errAborted
				}
			}

			return dialog.Confirm(ctx)
		},
	}

	cmd.Flags().BoolVarP(
		&yes,
		"yes",
		"y",
		false,
		"Delete without confirmation",
	)

	return cmd
}

// confirm asks a yes/no question on the input of the command.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	cmd.Printf("%s [y/N]: ", question)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
