/*
 * Copyright 2025 tomoncle.
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

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidArgument is returned, wrapped, for requests rejected before any
// query is issued.
var ErrInvalidArgument = errors.New("invalid argument")

// Order is a single sort key, e.g. {"username", DESC}.
type Order struct {
	Property  string
	Direction Direction
}

func Asc(property string) Order { return Order{Property: property, Direction: ASC} }

func Desc(property string) Order { return Order{Property: property, Direction: DESC} }

func (o Order) String() string {
	return o.Property + " " + o.Direction.Name()
}

// ParseOrder parses "username", "username desc" or "username,desc".
func ParseOrder(s string) (Order, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 || len(fields) > 2 {
		return Order{}, fmt.Errorf("%w: malformed sort %q", ErrInvalidArgument, s)
	}
	order := Order{Property: fields[0], Direction: ASC}
	if len(fields) == 2 {
		dir, ok := ParseDirection(fields[1])
		if !ok {
			return Order{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, fields[1])
		}
		order.Direction = dir
	}
	return order, nil
}

// PageRequest describes the window of a paged query: a row offset, a page
// size and an optional ordering. Values are immutable once constructed.
type PageRequest struct {
	offset   int
	pageSize int
	orders   []Order
	err      error
}

// NewPageRequest constructs a PageRequest from a raw row offset.
func NewPageRequest(offset int, pageSize int, orders ...Order) PageRequest {
	o := make([]Order, len(orders))
	copy(o, orders)
	return PageRequest{offset: offset, pageSize: pageSize, orders: o}
}

// OfPage constructs a PageRequest from a zero-based page number. A page
// whose offset does not fit in an int yields a request Validate rejects.
func OfPage(page int, pageSize int, orders ...Order) PageRequest {
	if pageSize > 0 && page > math.MaxInt/pageSize {
		p := NewPageRequest(0, pageSize, orders...)
		p.err = fmt.Errorf("%w: page %d of size %d overflows the row offset", ErrInvalidArgument, page, pageSize)
		return p
	}
	return NewPageRequest(page*pageSize, pageSize, orders...)
}

func (p PageRequest) GetOffset() int { return p.offset }

func (p PageRequest) GetPageSize() int { return p.pageSize }

// GetPageNumber returns the zero-based page number the offset falls into.
func (p PageRequest) GetPageNumber() int {
	if p.pageSize <= 0 {
		return 0
	}
	return p.offset / p.pageSize
}

func (p PageRequest) GetOrders() []Order {
	o := make([]Order, len(p.orders))
	copy(o, p.orders)
	return o
}

func (p PageRequest) IsSorted() bool { return len(p.orders) > 0 }

// Validate enforces offset >= 0 and pageSize > 0 and rejects an overflowed
// OfPage.
func (p PageRequest) Validate() error {
	if p.err != nil {
		return p.err
	}
	if p.offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidArgument, p.offset)
	}
	if p.pageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, p.pageSize)
	}
	for _, o := range p.orders {
		if o.Property == "" {
			return fmt.Errorf("%w: sort property cannot be empty", ErrInvalidArgument)
		}
		if !o.Direction.IsValid() {
			return fmt.Errorf("%w: invalid sort direction for %q", ErrInvalidArgument, o.Property)
		}
	}
	return nil
}

func (p PageRequest) String() string {
	parts := make([]string, len(p.orders))
	for i, o := range p.orders {
		parts[i] = o.String()
	}
	return fmt.Sprintf("offset=%d size=%d sort=[%s]", p.offset, p.pageSize, strings.Join(parts, ", "))
}

// Page is one slice of an ordered result set plus the total number of
// elements matching the query.
type Page[T any] struct {
	Content  []*T        `json:"content"`
	Pageable PageRequest `json:"-"`
	Total    int         `json:"totalElements"`
}

// NewPage builds a Page. A nil content slice becomes empty.
func NewPage[T any](content []*T, pageable PageRequest, total int) *Page[T] {
	if content == nil {
		content = make([]*T, 0)
	}
	return &Page[T]{Content: content, Pageable: pageable, Total: total}
}

func (p *Page[T]) Number() int { return p.Pageable.GetPageNumber() }

func (p *Page[T]) Size() int { return p.Pageable.GetPageSize() }

func (p *Page[T]) NumberOfElements() int { return len(p.Content) }

func (p *Page[T]) TotalPages() int {
	size := p.Size()
	if size <= 0 {
		return 1
	}
	return (p.Total + size - 1) / size
}

func (p *Page[T]) HasContent() bool { return len(p.Content) > 0 }

func (p *Page[T]) HasNext() bool {
	return p.Pageable.GetOffset()+len(p.Content) < p.Total
}

func (p *Page[T]) IsFirst() bool { return p.Pageable.GetOffset() == 0 }

func (p *Page[T]) IsLast() bool { return !p.HasNext() }

// Ptr returns a pointer to v; handy for sparse search conditions.
func Ptr[T any](v T) *T {
	return &v
}
