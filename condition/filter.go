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
	"fmt"
	"strings"

	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

// Filter is an AND-set of conditions. The zero value matches every row.
type Filter struct {
	conds []Condition
}

// MatchAll returns the empty filter.
func MatchAll() Filter { return Filter{} }

// All combines conditions with AND, skipping nil ones.
func All(conds ...*Condition) Filter {
	f := Filter{conds: make([]Condition, 0, len(conds))}
	for _, c := range conds {
		if c != nil {
			f.conds = append(f.conds, *c)
		}
	}
	return f
}

// And returns a copy of f narrowed by c. A nil c returns f unchanged.
func (f Filter) And(c *Condition) Filter {
	if c == nil {
		return f
	}
	conds := make([]Condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return Filter{conds: append(conds, *c)}
}

func (f Filter) Len() int { return len(f.conds) }

func (f Filter) IsMatchAll() bool { return len(f.conds) == 0 }

func (f Filter) Conditions() []Condition {
	conds := make([]Condition, len(f.conds))
	copy(conds, f.conds)
	return conds
}

// Apply narrows a single-table query over members or teams. On members, a
// condition on a team path LEFT JOINs teams as "team". On teams, only team
// paths are allowed. Any other use fails the query with ErrInvalidArgument.
// Queries that already join both tables use AppendWhere.
func (f Filter) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.IsMatchAll() {
		return q
	}
	switch table := q.GetTableName(); table {
	case memberTable:
		if f.readsTable(teamAlias) {
			q = q.Join("LEFT JOIN ? AS ? ON ? = ?",
				bun.Ident(teamTable), bun.Ident(teamAlias), bun.Ident(TeamID.column), bun.Ident("member.team_id"))
		}
	case teamTable:
		if f.readsTable(memberAlias) {
			return q.Err(fmt.Errorf("%w: filter %s reads member columns of a teams query", types.ErrInvalidArgument, f))
		}
	default:
		return q.Err(fmt.Errorf("%w: filter %s cannot be applied to table %q", types.ErrInvalidArgument, f, table))
	}
	return f.AppendWhere(q)
}

// AppendWhere adds every condition of f to q, which must already expose the
// "member" and "team" aliases the conditions read.
func (f Filter) AppendWhere(q *bun.SelectQuery) *bun.SelectQuery {
	for _, c := range f.conds {
		q = c.AppendQuery(q)
	}
	return q
}

func (f Filter) readsTable(alias string) bool {
	for _, c := range f.conds {
		if c.path.alias() == alias {
			return true
		}
	}
	return false
}

func (f Filter) Matches(row *model.MemberTeam) bool {
	for _, c := range f.conds {
		if !c.Matches(row) {
			return false
		}
	}
	return true
}

func (f Filter) String() string {
	if f.IsMatchAll() {
		return "TRUE"
	}
	parts := make([]string, len(f.conds))
	for i, c := range f.conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
