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
package helper

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roster-team/roster/api/types"
	rerrors "github.com/roster-team/roster/pkg/errors"
)

// Below are the routes of the fake member API, used to count, hold and fail
// requests.
const (
	RouteListMembers  = "GET /members"
	RouteCreateMember = "POST /members"
	RouteGetMember    = "GET /members/{id}"
	RouteUpdateMember = "PATCH /members/{id}"
	RouteDeleteMember = "DELETE /members/{id}"
	RouteUploadPhoto  = "POST /members/{id}/photo"
)

// failure is a canned response returned instead of handling a request.
type failure struct {
	status int
	body   string
}

// FakeAPI is an in-memory implementation of the member API for tests. It
// lists members newest first.
type FakeAPI struct {
	server *httptest.Server
	apiKey string

	db *memberDB

	mu       sync.Mutex
	seq      uint64
	requests map[string]int
	holds    map[string]chan struct{}
	failures map[string][]failure
	lastTime time.Time
}

// NewFakeAPI starts a fake member API that accepts TestAPIKey. It is closed
// when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	db, err := newMemberDB()
	if err != nil {
		t.Fatal(err)
	}

	f := &FakeAPI{
		apiKey:   TestAPIKey,
		db:       db,
		requests: make(map[string]int),
		holds:    make(map[string]chan struct{}),
		failures: make(map[string][]failure),
	}

	r := chi.NewRouter()
	r.Use(f.authenticate)
	r.Get("/members", f.handle(RouteListMembers, f.listMembers))
	r.Post("/members", f.handle(RouteCreateMember, f.createMember))
	r.Get("/members/{id}", f.handle(RouteGetMember, f.getMember))
	r.Patch("/members/{id}", f.handle(RouteUpdateMember, f.updateMember))
	r.Delete("/members/{id}", f.handle(RouteDeleteMember, f.deleteMember))
	r.Post("/members/{id}/photo", f.handle(RouteUploadPhoto, f.uploadPhoto))

	f.server = httptest.NewServer(r)
	t.Cleanup(func() {
		f.ReleaseAll()
		f.server.Close()
	})

	return f
}

// URL returns the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Seed creates n members directly in the store and returns them oldest
// first.
func (f *FakeAPI) Seed(t testing.TB, n int) []*types.Member {
	members := make([]*types.Member, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, f.Add(TestMemberFields(t, i)))
	}
	return members
}

// Add creates a member directly in the store.
func (f *FakeAPI) Add(fields *types.CreateMemberFields) *types.Member {
	f.mu.Lock()
	now := f.nowLocked()
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	member := &types.Member{
		ID:          uuid.New().String(),
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		DateOfBirth: fields.DateOfBirth,
		Sex:         fields.Sex,
		Status:      fields.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.db.insert(seq, member); err != nil {
		panic(err)
	}
	return member
}

// Member returns a copy of the stored member of the given id, or nil.
func (f *FakeAPI) Member(id string) *types.Member {
	return f.db.find(id)
}

// Len returns the number of stored members.
func (f *FakeAPI) Len() int {
	members, err := f.db.list()
	if err != nil {
		panic(err)
	}
	return len(members)
}

// Requests returns the number of requests received on the given route.
func (f *FakeAPI) Requests(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.requests[route]
}

// Hold makes requests on the given route block until the returned release
// function is called. Requests are counted before they block.
func (f *FakeAPI) Hold(route string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if prev, ok := f.holds[route]; ok {
		close(prev)
	}
	ch := make(chan struct{})
	f.holds[route] = ch

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.holds[route] == ch {
			delete(f.holds, route)
			close(ch)
		}
	}
}

// ReleaseAll releases every held route.
func (f *FakeAPI) ReleaseAll() {
	f.mu.Lock()
	holds := f.holds
	f.holds = make(map[string]chan struct{})
	f.mu.Unlock()

	for _, ch := range holds {
		close(ch)
	}
}

// FailNext makes the next request on the given route answer with the given
// status and raw body.
func (f *FakeAPI) FailNext(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures[route] = append(f.failures[route], failure{status: status, body: body})
}

func (f *FakeAPI) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != f.apiKey {
			writeError(w, http.StatusUnauthorized, "Invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handle counts the request, waits while the route is held and answers with
// a queued failure if there is one.
func (f *FakeAPI) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests[route]++
		hold := f.holds[route]
		var fail *failure
		if queue := f.failures[route]; len(queue) > 0 {
			fail = &queue[0]
			f.failures[route] = queue[1:]
		}
		f.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if fail != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			_, _ = w.Write([]byte(fail.body))
			return
		}

		next(w, r)
	}
}

func (f *FakeAPI) listMembers(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", types.DefaultPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page", nil)
		return
	}
	limit, err := queryInt(r, "limit", types.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit", nil)
		return
	}

	members, err := f.db.list()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	data := []*types.Member{}
	if start := (page - 1) * limit; start < len(members) {
		end := start + limit
		if end > len(members) {
			end = len(members)
		}
		data = members[start:end]
	}

	writeJSON(w, http.StatusOK, &types.Page{
		Data:       data,
		Page:       page,
		PageSize:   limit,
		TotalItems: len(members),
		TotalPages: types.TotalPagesFor(len(members), limit),
	})
}

func (f *FakeAPI) createMember(w http.ResponseWriter, r *http.Request) {
	var fields types.CreateMemberFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	if err := fields.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, f.Add(&fields))
}

func (f *FakeAPI) getMember(w http.ResponseWriter, r *http.Request) {
	member := f.Member(chi.URLParam(r, "id"))
	if member == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func (f *FakeAPI) updateMember(w http.ResponseWriter, r *http.Request) {
	var fields types.UpdatableMemberFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if f.Member(id) == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	if err := fields.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	updated, ok := f.update(id, func(m *types.Member) *types.Member {
		return fields.ApplyTo(m)
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (f *FakeAPI) deleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ok, err := f.db.delete(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if f.Member(id) == nil {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*types.MaxPhotoSize)
	if err := r.ParseMultipartForm(types.MaxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", nil)
		return
	}
	defer func() { _ = file.Close() }()

	photo := &types.Photo{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	if err := photo.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	photoURL := f.URL() + "/photos/" + uuid.New().String()
	updated, ok := f.update(id, func(m *types.Member) *types.Member {
		m.PhotoURL = &photoURL
		return m
	})
	if !ok {
		writeError(w, http.StatusNotFound, "Member not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// update applies fn to a copy of the member and stores the result with a
// new UpdatedAt.
func (f *FakeAPI) update(id string, fn func(*types.Member) *types.Member) (*types.Member, bool) {
	updated, ok, err := f.db.update(id, func(m *types.Member) *types.Member {
		m = fn(m)

		f.mu.Lock()
		m.UpdatedAt = f.nowLocked()
		f.mu.Unlock()
		return m
	})
	if err != nil {
		panic(err)
	}
	return updated, ok
}

// nowLocked returns the current time, strictly after any time it returned
// before.
func (f *FakeAPI) nowLocked() time.Time {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if !now.After(f.lastTime) {
		now = f.lastTime.Add(time.Millisecond)
	}
	f.lastTime = now
	return now
}

func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

func writeValidationError(w http.ResponseWriter, err error) {
	var validationErr *rerrors.ValidationFailedError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", validationErr.FieldErrors)
		return
	}

	writeError(w, http.StatusBadRequest, err.Error(), nil)
}

func writeError(w http.ResponseWriter, status int, message string, fieldErrors map[string]string) {
	writeJSON(w, status, map[string]any{
		"error":       message,
		"fieldErrors": fieldErrors,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
