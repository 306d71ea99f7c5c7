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
// Package client provides the client of the member API. It maps every
// response to a member type or to an error of pkg/errors and never touches
// the cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/roster-team/roster/api/types"
	"github.com/roster-team/roster/internal/logging"
	"github.com/roster-team/roster/internal/version"
	rerrors "github.com/roster-team/roster/pkg/errors"
)

// Below are the headers sent with every request.
const (
	APIKeyHeader    = "X-Api-Key"
	RequestIDHeader = "X-Request-Id"
)

// Below are the routes of the member API, used as metric labels.
const (
	routeMembers     = "/members"
	routeMember      = "/members/{id}"
	routeMemberPhoto = "/members/{id}/photo"
)

// ErrEmptyID is returned when an id-targeted operation is given no id.
var ErrEmptyID = errors.New("member id is required")

// Client is a client of the member API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	options    Options
	logger     logging.Logger
}

// New creates an instance of Client for the member API at the given URL.
func New(apiURL string, opts ...Option) (*Client, error) {
	conf := &Config{APIURL: apiURL}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API URL: %w", err)
	}

	options := Options{UserAgent: version.UserAgent()}
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.New("client")
	}
	logger = logger.With(logging.APIHost(baseURL.Host))

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		options:    options,
		logger:     logger,
	}, nil
}

// NewFromConfig creates an instance of Client from the given config.
func NewFromConfig(conf *Config, opts ...Option) (*Client, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("validate client config: %w", err)
	}

	return New(conf.APIURL, append(conf.Options(), opts...)...)
}

// ListMembers returns the given page of members. Zero page and pageSize fall
// back to types.DefaultPage and types.DefaultPageSize.
func (c *Client) ListMembers(ctx context.Context, page, pageSize int) (*types.Page, error) {
	if page <= 0 {
		page = types.DefaultPage
	}
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(pageSize))

	req, err := c.newRequest(ctx, http.MethodGet, "/members", query, nil)
	if err != nil {
		return nil, err
	}

	res := &types.Page{}
	if err := c.send(req, "list members", routeMembers, "", res); err != nil {
		return nil, err
	}

	if res.PageSize == 0 {
		res.PageSize = pageSize
	}
	if res.TotalPages == 0 {
		res.TotalPages = types.TotalPagesFor(res.TotalItems, res.PageSize)
	}
	return res, nil
}

// GetMember returns the member of the given id.
func (c *Client) GetMember(ctx context.Context, id string) (*types.Member, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	req, err := c.newRequest(ctx, http.MethodGet, memberPath(id), nil, nil)
	if err != nil {
		return nil, err
	}

	res := &types.Member{}
	if err := c.send(req, "get member", routeMember, id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// CreateMember creates a new member with the given fields. The fields are
// validated before the request is sent.
func (c *Client) CreateMember(ctx context.Context, fields *types.CreateMemberFields) (*types.Member, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/members", fields)
	if err != nil {
		return nil, err
	}

	res := &types.Member{}
	if err := c.send(req, "create member", routeMembers, "", res); err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateMember updates the given fields of the member of the given id. Unset
// fields are left unchanged.
func (c *Client) UpdateMember(
	ctx context.Context,
	id string,
	fields *types.UpdatableMemberFields,
) (*types.Member, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	req, err := c.newJSONRequest(ctx, http.MethodPatch, memberPath(id), fields)
	if err != nil {
		return nil, err
	}

	res := &types.Member{}
	if err := c.send(req, "update member", routeMember, id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteMember deletes the member of the given id. It is never retried.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	req, err := c.newRequest(ctx, http.MethodDelete, memberPath(id), nil, nil)
	if err != nil {
		return err
	}

	return c.send(req, "delete member", routeMember, id, nil)
}

// UploadPhoto replaces the photo of the member of the given id. The photo is
// checked locally first and an InvalidPhotoError is returned without
// contacting the server when it is not acceptable.
func (c *Client) UploadPhoto(ctx context.Context, id string, photo *types.Photo) (*types.Member, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if err := photo.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodePhoto(photo)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, memberPath(id)+"/photo", nil, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	res := &types.Member{}
	if err := c.send(req, "upload photo", routeMemberPhoto, id, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, nil, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawPath = c.baseURL.EscapedPath() + escapedPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, xid.New().String())
	if c.options.UserAgent != "" {
		req.Header.Set("User-Agent", c.options.UserAgent)
	}
	if c.options.APIKey != "" {
		req.Header.Set(APIKeyHeader, c.options.APIKey)
	}

	return req, nil
}

// send sends the request and decodes a 2xx response into out. id is the
// target of id-targeted operations, used to map 404 to NotFound.
func (c *Client) send(req *http.Request, op, route, id string, out any) error {
	if c.options.RequestTimeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), c.options.RequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	logger := c.logger.With(logging.RequestID(req.Header.Get(RequestIDHeader)))
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.options.Metrics.ObserveRequest(req.Method, route, 0, time.Since(start))
		logger.Debugf("%s %s: %v", req.Method, req.URL.Path, err)
		return &rerrors.TransportError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("close response body: %v", err)
		}
	}()

	c.options.Metrics.ObserveRequest(req.Method, route, resp.StatusCode, time.Since(start))
	logger.Debugf("%s %s: %d", req.Method, req.URL.Path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return toError(resp, id)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return &rerrors.TransportError{Op: op, Err: ctxErr}
		}
		return &rerrors.RequestFailedError{Status: resp.StatusCode, Message: MsgRequestFailed}
	}

	return nil
}

func memberPath(id string) string {
	return "/members/" + id
}

// escapedPath escapes the id segments of the given path.
func escapedPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
