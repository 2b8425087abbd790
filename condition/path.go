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

package condition

import (
	"sort"
	"strings"

	"github.com/tomoncle/roster/model"
)

const (
	memberTable = "members"
	memberAlias = "member"
	teamTable   = "teams"
	teamAlias   = "team"
)

// Path is a named column of the member/team join.
type Path struct {
	name   string
	column string
	value  func(row *model.MemberTeam) (any, bool)
}

var (
	MemberID = Path{name: "id", column: "member.id", value: func(r *model.MemberTeam) (any, bool) {
		return r.MemberID, true
	}}
	Username = Path{name: "username", column: "member.username", value: func(r *model.MemberTeam) (any, bool) {
		// username is nullzero: empty means NULL
		if r.Username == "" {
			return nil, false
		}
		return r.Username, true
	}}
	Age = Path{name: "age", column: "member.age", value: func(r *model.MemberTeam) (any, bool) {
		return r.Age, true
	}}
	TeamID = Path{name: "teamId", column: "team.id", value: func(r *model.MemberTeam) (any, bool) {
		if r.TeamID == nil {
			return nil, false
		}
		return *r.TeamID, true
	}}
	TeamName = Path{name: "teamName", column: "team.name", value: func(r *model.MemberTeam) (any, bool) {
		if r.TeamName == nil {
			return nil, false
		}
		return *r.TeamName, true
	}}
)

var pathsByName = map[string]Path{
	MemberID.name: MemberID,
	Username.name: Username,
	Age.name:      Age,
	TeamID.name:   TeamID,
	TeamName.name: TeamName,
}

// PathOf resolves a sort or filter property name.
func PathOf(name string) (Path, bool) {
	p, ok := pathsByName[name]
	return p, ok
}

// PathNames lists every resolvable property name, sorted.
func PathNames() []string {
	names := make([]string, 0, len(pathsByName))
	for name := range pathsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Path) Name() string { return p.name }

// Column returns the alias-qualified column, e.g. "member.age".
func (p Path) Column() string { return p.column }

func (p Path) alias() string {
	alias, _, _ := strings.Cut(p.column, ".")
	return alias
}

// Value reads the path from a projection row; ok is false for NULL.
func (p Path) Value(row *model.MemberTeam) (v any, ok bool) {
	if p.value == nil || row == nil {
		return nil, false
	}
	return p.value(row)
}

// Compare orders two rows by this path. NULLs sort after every value.
func (p Path) Compare(a, b *model.MemberTeam) int {
	va, okA := p.Value(a)
	vb, okB := p.Value(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	c, _ := compare(va, vb)
	return c
}
