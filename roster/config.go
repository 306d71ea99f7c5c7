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
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roster-team/roster/client"
	"github.com/roster-team/roster/internal/profiling"
	"github.com/roster-team/roster/pkg/cache"
)

// Config is the configuration for creating a Roster instance.
type Config struct {
	Client *client.Config `yaml:"Client"`
	Cache  *cache.Config  `yaml:"Cache"`

	// Profiling is optional. The profiling server is not started when it
	// is nil.
	Profiling *profiling.Config `yaml:"Profiling"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return &Config{
		Client: client.NewConfig(),
		Cache:  cache.NewConfig(),
	}
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
	}

	return nil
}

func (c *Config) ensureDefaultValue() {
	if c.Client == nil {
		c.Client = client.NewConfig()
	}
	if c.Client.APIURL == "" {
		c.Client.APIURL = client.DefaultAPIURL
	}

	if c.Cache == nil {
		c.Cache = cache.NewConfig()
	}
	if c.Cache.Retention == "" {
		c.Cache.Retention = cache.DefaultRetention.String()
	}
	if c.Cache.ListStaleTime == "" {
		c.Cache.ListStaleTime = cache.DefaultListStaleTime.String()
	}
	if c.Cache.MemberStaleTime == "" {
		c.Cache.MemberStaleTime = time.Duration(cache.DefaultMemberStaleTime).String()
	}
}
