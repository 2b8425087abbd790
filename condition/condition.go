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
	"github.com/uptrace/bun"
)

type Operator int

const (
	Eq Operator = iota
	Goe
	Loe
)

func (o Operator) symbol() string {
	switch o {
	case Eq:
		return "="
	case Goe:
		return ">="
	case Loe:
		return "<="
	default:
		return "?"
	}
}

// Condition is a single predicate over the member/team join. Conditions are
// immutable and safe to share between goroutines.
type Condition struct {
	path  Path
	op    Operator
	value any
}

func newCondition(path Path, op Operator, value any) *Condition {
	return &Condition{path: path, op: op, value: value}
}

func (c Condition) Path() Path { return c.path }

func (c Condition) Operator() Operator { return c.op }

func (c Condition) Value() any { return c.value }

// AppendQuery adds the condition to q as an AND-ed WHERE clause.
func (c Condition) AppendQuery(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Where("? "+c.op.symbol()+" ?", bun.Ident(c.path.column), c.value)
}

// Matches evaluates the condition against a projection row. A NULL column
// never matches, as in SQL.
func (c Condition) Matches(row *model.MemberTeam) bool {
	v, ok := c.path.Value(row)
	if !ok {
		return false
	}
	cmp, ok := compare(v, c.value)
	if !ok {
		return false
	}
	switch c.op {
	case Eq:
		return cmp == 0
	case Goe:
		return cmp >= 0
	case Loe:
		return cmp <= 0
	default:
		return false
	}
}

func (c Condition) String() string {
	if s, ok := c.value.(string); ok {
		return fmt.Sprintf("%s %s '%s'", c.path.column, c.op.symbol(), strings.ReplaceAll(s, "'", "''"))
	}
	return fmt.Sprintf("%s %s %v", c.path.column, c.op.symbol(), c.value)
}

func compare(a, b any) (int, bool) {
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(sa, sb), true
	}
	ia, okA := toInt64(a)
	ib, okB := toInt64(b)
	if !okA || !okB {
		return 0, false
	}
	switch {
	case ia < ib:
		return -1, true
	case ia > ib:
		return 1, true
	default:
		return 0, true
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
