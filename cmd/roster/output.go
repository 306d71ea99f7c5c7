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
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roster-team/roster/api/types"
)

const timeLayout = "2006-01-02 15:04"

var memberHeader = table.Row{
	"ID",
	"NAME",
	"DATE OF BIRTH",
	"SEX",
	"STATUS",
	"PHOTO",
	"UPDATED AT",
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

func memberRow(member *types.Member) table.Row {
	photo := "(" + member.Initials() + ")"
	if member.HasPhoto() {
		photo = *member.PhotoURL
	}

	return table.Row{
		member.ID,
		member.FullName(),
		member.DateOfBirth,
		member.Sex,
		member.Status,
		photo,
		member.UpdatedAt.Local().Format(timeLayout),
	}
}

func printMembers(cmd *cobra.Command, output string, page *types.Page) error {
	if output != "" {
		return printStructured(cmd, output, page)
	}

	tw := newTableWriter()
	tw.AppendHeader(memberHeader)
	for _, member := range page.Data {
		tw.AppendRow(memberRow(member))
	}
	cmd.Printf("%s\n", tw.Render())
	cmd.Printf("Page %d of %d (%d members)\n", page.Page, page.TotalPages, page.TotalItems)
	return nil
}

func printMember(cmd *cobra.Command, output string, member *types.Member) error {
	if output != "" {
		return printStructured(cmd, output, member)
	}

	tw := newTableWriter()
	tw.AppendHeader(memberHeader)
	tw.AppendRow(memberRow(member))
	cmd.Printf("%s\n", tw.Render())
	return nil
}

func printStructured(cmd *cobra.Command, output string, value any) error {
	switch output {
	case "json":
		jsonOutput, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Print(string(yamlOutput))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}

	return nil
}
