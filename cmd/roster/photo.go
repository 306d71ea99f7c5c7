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

func newPhotoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "photo [member id] [file]",
		Short: "Upload the photo of a member (JPEG, PNG or WebP, up to 3MB)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, closer, err := types.OpenPhoto(args[1])
			if err != nil {
				return err
			}
			defer func() {
				_ = closer.Close()
			}()

			// the photo is checked before any request is sent
			if err := photo.Validate(); err != nil {
				return err
			}

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
			if err := detail.UploadPhoto(ctx, photo); err != nil {
				return err
			}

			return printMember(cmd, v.GetString("output"), detail.State().Member)
		},
	}
}
