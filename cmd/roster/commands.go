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
// Package main is the entry point of the roster CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roster-team/roster/client"
	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/pkg/errors"
	"github.com/roster-team/roster/roster"
)

// envPrefix is the prefix of the environment variables read by the CLI,
// e.g. ROSTER_API_URL for --api-url.
const envPrefix = "ROSTER"

// newRootCmd creates the root command. Every call returns an independent
// command tree with its own flag bindings.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "roster",
		Short:         "Browse and manage the members of the directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetLogLevel(v.GetString("log-level"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", client.DefaultAPIURL, "URL of the member API")
	flags.String("api-key", "", "API key sent with every request")
	flags.String("request-timeout", "", "Timeout of each request, e.g. 10s")
	flags.StringP("config", "c", "", "Config path")
	flags.StringP("log-level", "l", "warn", "Log level: debug, info, warn, error, panic, fatal")
	flags.StringP("output", "o", "", "One of 'yaml' or 'json'")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newListCmd(v))
	rootCmd.AddCommand(newGetCmd(v))
	rootCmd.AddCommand(newCreateCmd(v))
	rootCmd.AddCommand(newUpdateCmd(v))
	rootCmd.AddCommand(newDeleteCmd(v))
	rootCmd.AddCommand(newPhotoCmd(v))
	rootCmd.AddCommand(newVersionCmd(v))

	return rootCmd
}

// Run executes CLI.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(rootCmd, err)
		return 1
	}

	return 0
}

// printError prints the error and, for validation failures, every field
// error on its own line.
func printError(cmd *cobra.Command, err error) {
	cmd.PrintErrln("Error:", err)

	fieldErrors := errors.FieldErrorsOf(err)
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		cmd.PrintErrf("  %s: %s\n", field, fieldErrors[field])
	}
}

// newRoster creates and starts the runtime. The config file is read first;
// flags and environment variables that are set override it.
func newRoster(v *viper.Viper) (*roster.Roster, error) {
	conf := roster.NewConfig()
	if path := v.GetString("config"); path != "" {
		parsed, err := roster.NewConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		conf = parsed
	}

	if v.IsSet("api-url") || v.GetString("config") == "" {
		conf.Client.APIURL = v.GetString("api-url")
	}
	if v.IsSet("api-key") {
		conf.Client.APIKey = v.GetString("api-key")
	}
	if v.IsSet("request-timeout") {
		conf.Client.RequestTimeout = v.GetString("request-timeout")
	}

	r, err := roster.New(conf)
	if err != nil {
		return nil, fmt.Errorf("create roster: %w", err)
	}
	if err := r.Start(); err != nil {
		return nil, err
	}

	return r, nil
}

func closeRoster(r *roster.Roster) {
	if err := r.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close roster: %v\n", err)
	}
}
