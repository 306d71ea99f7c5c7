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

package cache

import (
	"errors"
	"fmt"
	"time"
)

// Below are the default values of the cache config.
const (
	DefaultSize            = 1000
	DefaultRetention       = 30 * time.Minute
	DefaultListStaleTime   = 5 * time.Minute
	DefaultMemberStaleTime = 0
	DefaultStatsInterval   = 0
)

var (
	// ErrInvalidSize occurs when the size in the config is negative.
	ErrInvalidSize = errors.New("cache size must be >= 0")

	// ErrInvalidDuration occurs when a duration in the config is invalid.
	ErrInvalidDuration = errors.New("invalid duration")
)

// Config is the configuration for creating a Store.
type Config struct {
	// Size is the maximum number of entries. Zero means unbounded.
	Size int `yaml:"Size"`

	// Retention is how long an entry is kept after its last write.
	Retention string `yaml:"Retention"`

	// ListStaleTime is the age after which a list page turns stale. Zero
	// means list pages only turn stale by invalidation.
	ListStaleTime string `yaml:"ListStaleTime"`

	// MemberStaleTime is the age after which a member turns stale. Zero
	// means members only turn stale by invalidation.
	MemberStaleTime string `yaml:"MemberStaleTime"`

	// StatsInterval is the interval of the cache statistics log. Zero
	// disables it.
	StatsInterval string `yaml:"StatsInterval"`
}

// NewConfig returns a Config with the default values.
func NewConfig() *Config {
	return &Config{
		Size:            DefaultSize,
		Retention:       DefaultRetention.String(),
		ListStaleTime:   DefaultListStaleTime.String(),
		MemberStaleTime: time.Duration(DefaultMemberStaleTime).String(),
		StatsInterval:   time.Duration(DefaultStatsInterval).String(),
	}
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("given %d: %w", c.Size, ErrInvalidSize)
	}

	for name, value := range map[string]string{
		"Retention":       c.Retention,
		"ListStaleTime":   c.ListStaleTime,
		"MemberStaleTime": c.MemberStaleTime,
		"StatsInterval":   c.StatsInterval,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s %q: %w", name, value, ErrInvalidDuration)
		}
		if d < 0 {
			return fmt.Errorf("%s %q must not be negative: %w", name, value, ErrInvalidDuration)
		}
	}

	return nil
}

// RetentionDuration returns the parsed Retention.
func (c *Config) RetentionDuration() time.Duration {
	return parseDuration(c.Retention)
}

// StaleTime returns the parsed stale time of the given kind.
func (c *Config) StaleTime(kind Kind) time.Duration {
	switch kind {
	case KindMemberList:
		return parseDuration(c.ListStaleTime)
	case KindMember:
		return parseDuration(c.MemberStaleTime)
	default:
		return 0
	}
}

// StatsIntervalDuration returns the parsed StatsInterval.
func (c *Config) StatsIntervalDuration() time.Duration {
	return parseDuration(c.StatsInterval)
}

// parseDuration parses a duration validated by Validate. Empty strings and
// invalid values yield zero.
func parseDuration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
