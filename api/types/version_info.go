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
package types

// VersionInfo represents the version information of the roster CLI.
type VersionInfo struct {
	// RosterVersion is the version of roster.
	RosterVersion string `json:"rosterVersion" yaml:"rosterVersion"`

	// GitCommit is the commit roster was built from.
	GitCommit string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`

	// GoVersion
	GoVersion string `json:"goVersion" yaml:"goVersion"`

	// BuildDate
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`

	// UserAgent is the User-Agent sent to the member API.
	UserAgent string `json:"userAgent" yaml:"userAgent"`
}
