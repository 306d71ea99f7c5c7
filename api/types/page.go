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

const (
	// DefaultPage is the page requested when none is given.
	DefaultPage = 1

	// DefaultPageSize is the page size requested when none is given.
	DefaultPageSize = 10
)

// Page is one page of members with its pagination metadata.
type Page struct {
	// Data is the members of this page in server order.
	Data []*Member `json:"data" yaml:"data"`

	// Page is the 1-indexed number of this page.
	Page int `json:"page" yaml:"page"`

	// PageSize is the maximum number of members per page.
	PageSize int `json:"pageSize" yaml:"pageSize"`

	// TotalItems is the number of members in the directory.
	TotalItems int `json:"totalItems" yaml:"totalItems"`

	// TotalPages is the number of pages, ceil(TotalItems / PageSize).
	TotalPages int `json:"totalPages" yaml:"totalPages"`
}

// TotalPagesFor returns ceil(totalItems / pageSize).
func TotalPagesFor(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// LastPage returns the highest valid page number, max(TotalPages, 1).
func (p *Page) LastPage() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

// Valid returns whether the given page number is within 1..LastPage.
func (p *Page) Valid(page int) bool {
	return page >= 1 && page <= p.LastPage()
}

// HasNext returns whether there is a page after this one.
func (p *Page) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev returns whether there is a page before this one.
func (p *Page) HasPrev() bool {
	return p.Page > 1
}

// DeepCopy returns a copy of the page that shares no memory with it.
func (p *Page) DeepCopy() *Page {
	if p == nil {
		return nil
	}

	clone := *p
	clone.Data = make([]*Member, len(p.Data))
	for i, m := range p.Data {
		clone.Data[i] = m.DeepCopy()
	}
	return &clone
}
