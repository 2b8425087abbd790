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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Direction is the sort direction of an Order.
type Direction int

const (
	ASC Direction = iota
	DESC
)

var _ BaseEnum = ASC

func (d Direction) IsValid() bool { return d == ASC || d == DESC }

func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d Direction) Name() string {
	switch d {
	case ASC:
		return "ASC"
	case DESC:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d Direction) String() string { return d.Name() }

func (d Direction) Desc() string {
	switch d {
	case ASC:
		return "ascending"
	case DESC:
		return "descending"
	default:
		return IllegalDesc
	}
}

// ParseDirection accepts "asc"/"desc" in any case; anything else is invalid.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC", "":
		return ASC, true
	case "DESC":
		return DESC, true
	default:
		return Direction(IllegalValue), false
	}
}

// PageMode selects how a paged search resolves its total element count.
type PageMode int

const (
	// PageModeSimple always issues a count query next to the content query.
	PageModeSimple PageMode = iota
	// PageModeOptimized skips the count query when the first page is short.
	PageModeOptimized
)

var _ BaseEnum = PageModeSimple

func (m PageMode) IsValid() bool { return m == PageModeSimple || m == PageModeOptimized }

func (m PageMode) Number() int {
	if !m.IsValid() {
		return IllegalValue
	}
	return int(m)
}

func (m PageMode) Name() string {
	switch m {
	case PageModeSimple:
		return "simple"
	case PageModeOptimized:
		return "optimized"
	default:
		return IllegalName
	}
}

func (m PageMode) String() string { return m.Name() }

func (m PageMode) Desc() string {
	switch m {
	case PageModeSimple:
		return "content query plus count query"
	case PageModeOptimized:
		return "content query, count query only when the total cannot be inferred"
	default:
		return IllegalDesc
	}
}

// ParsePageMode maps a mode name to its PageMode.
func ParsePageMode(s string) (PageMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return PageModeSimple, true
	case "optimized", "":
		return PageModeOptimized, true
	default:
		return PageMode(IllegalValue), false
	}
}
