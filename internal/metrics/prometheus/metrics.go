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

// Package prometheus provides the Prometheus metrics of the roster client.
package prometheus

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace   = "roster"
	kindLabel   = "kind"
	stateLabel  = "state"
	resultLabel = "result"
	methodLabel = "method"
	routeLabel  = "route"
	codeLabel   = "code"
)

// Below are the values of the result label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics manages the metric information that the roster client measures.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	cacheReadsTotal         *prometheus.CounterVec
	cacheFetchesTotal       *prometheus.CounterVec
	cacheInvalidationsTotal *prometheus.CounterVec

	mutationsTotal *prometheus.CounterVec

	requestDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	return &Metrics{
		registry: reg,
		cacheReadsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "The total count of cache reads by key kind and entry state.",
		}, []string{kindLabel, stateLabel}),
		cacheFetchesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "The total count of network fetches issued by the cache.",
		}, []string{kindLabel, resultLabel}),
		cacheInvalidationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "The total count of invalidated cache entries.",
		}, []string{kindLabel}),
		mutationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mutation",
			Name:      "total",
			Help:      "The total count of mutations by kind and result.",
		}, []string{kindLabel, resultLabel}),
		requestDurationSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "The response time of requests to the member API.",
		}, []string{methodLabel, routeLabel, codeLabel}),
	}, nil
}

// AddCacheRead adds the number of cache reads.
func (m *Metrics) AddCacheRead(kind, state string) {
	if m == nil {
		return
	}
	m.cacheReadsTotal.WithLabelValues(kind, state).Inc()
}

// AddCacheFetch adds the number of cache fetches.
func (m *Metrics) AddCacheFetch(kind string, err error) {
	if m == nil {
		return
	}
	m.cacheFetchesTotal.WithLabelValues(kind, resultOf(err)).Inc()
}

// AddCacheInvalidations adds the number of invalidated entries.
func (m *Metrics) AddCacheInvalidations(kind string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.cacheInvalidationsTotal.WithLabelValues(kind).Add(float64(count))
}

// AddMutation adds the number of mutations.
func (m *Metrics) AddMutation(kind string, err error) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(kind, resultOf(err)).Inc()
}

// ObserveRequest records the duration of a request. code is 0 when no
// response was received.
func (m *Metrics) ObserveRequest(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDurationSeconds.WithLabelValues(method, route, strconv.Itoa(code)).Observe(duration.Seconds())
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func resultOf(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
