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
package client

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultAPIURL is the member API the client talks to when none is given.
const DefaultAPIURL = "http://localhost:3000"

var (
	// ErrEmptyAPIURL occurs when the API URL is empty.
	ErrEmptyAPIURL = errors.New("API URL is required")

	// ErrInvalidAPIURL occurs when the API URL is not an absolute http(s) URL.
	ErrInvalidAPIURL = errors.New("invalid API URL")

	// ErrInvalidRequestTimeout occurs when the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout")
)

// Config is the configuration for creating a Client.
type Config struct {
	// APIURL is the base URL of the member API.
	APIURL string `yaml:"APIURL"`

	// APIKey is the static key of the member API.
	APIKey string `yaml:"APIKey"`

	// RequestTimeout is the timeout of each request, e.g. "10s". Empty or
	// "0s" means no timeout.
	RequestTimeout string `yaml:"RequestTimeout"`
}

// NewConfig returns a Config with the default values.
func NewConfig() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		RequestTimeout: "0s",
	}
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrEmptyAPIURL
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%s: %w", c.APIURL, ErrInvalidAPIURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: %w", c.APIURL, ErrInvalidAPIURL)
	}

	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil || d < 0 {
			return fmt.Errorf("%q: %w", c.RequestTimeout, ErrInvalidRequestTimeout)
		}
	}

	return nil
}

// RequestTimeoutDuration returns the parsed RequestTimeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Options returns the client options implied by this config.
func (c *Config) Options() []Option {
	return []Option{
		WithAPIKey(c.APIKey),
		WithRequestTimeout(c.RequestTimeoutDuration()),
	}
}
