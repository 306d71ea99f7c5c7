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
	"net/http"
	"time"

	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/internal/metrics/prometheus"
)

// Option configures Options.
type Option func(*Options)

// Options configures how we set up the client.
type Options struct {
	// APIKey is the static key sent in the X-Api-Key header of every request.
	APIKey string

	// UserAgent is the User-Agent of every request.
	UserAgent string

	// RequestTimeout is the timeout of each request. Zero means no timeout
	// beyond the transport's own.
	RequestTimeout time.Duration

	// HTTPClient is the HTTP client used to send requests.
	HTTPClient *http.Client

	// Logger is the Logger of the client.
	Logger logging.Logger

	// Metrics records the duration of requests.
	Metrics *prometheus.Metrics
}

// WithAPIKey configures the API key of the client.
func WithAPIKey(apiKey string) Option {
	return func(o *Options) { o.APIKey = apiKey }
}

// WithUserAgent configures the User-Agent of the client.
func WithUserAgent(userAgent string) Option {
	return func(o *Options) { o.UserAgent = userAgent }
}

// WithRequestTimeout configures the timeout of each request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.RequestTimeout = timeout }
}

// WithHTTPClient configures the HTTP client used to send requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) { o.HTTPClient = httpClient }
}

// WithLogger configures the Logger of the client.
func WithLogger(logger logging.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithMetrics configures the Metrics of the client.
func WithMetrics(metrics *prometheus.Metrics) Option {
	return func(o *Options) { o.Metrics = metrics }
}
