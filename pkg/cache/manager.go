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
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roster-team/roster/internal/logging"
)

// Manager manages multiple stores and periodically logs their statistics.
type Manager struct {
	stores   []StatsProvider
	interval time.Duration
	logger   logging.Logger
	stopCh   chan struct{}
}

// StatsProvider is implemented by stores that provide statistics.
type StatsProvider interface {
	Name() string
	Stats() *Stats
	Len() int
}

// NewManager creates a new cache manager. A zero interval disables periodic
// logging.
func NewManager(interval time.Duration, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.New("cache")
	}

	return &Manager{
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Register registers a store for monitoring.
func (m *Manager) Register(provider StatsProvider) {
	m.stores = append(m.stores, provider)
}

// Run logs statistics every interval until ctx is done or Stop is called.
func (m *Manager) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.LogStats()
		}
	}
}

// LogStats logs the current statistics of every registered store once.
func (m *Manager) LogStats() {
	for _, provider := range m.stores {
		stats := provider.Stats()
		m.logger.Desugar().Info(
			"cache statistics",
			zap.String("name", provider.Name()),
			zap.Int("len", provider.Len()),
			zap.Int64("hits", stats.Hits()),
			zap.Int64("misses", stats.Misses()),
			zap.Int64("fetches", stats.Fetches()),
			zap.Float64("hit_rate", stats.HitRate()),
		)
	}
}

// Stop stops the periodic logging.
func (m *Manager) Stop() {
	close(m.stopCh)
}
