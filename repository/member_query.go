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

package repository

import (
	"context"
	"fmt"

	"github.com/tomoncle/roster/condition"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

// MemberTeamQuery selects a window of the member/team projection. A Limit of
// zero means no limit.
type MemberTeamQuery struct {
	Filter condition.Filter
	Orders []types.Order
	Offset int
	Limit  int
}

// MemberQueryRepository runs the member LEFT JOIN team queries behind member
// search. Every query aliases the tables as "member" and "team", the names
// condition paths are written against.
type MemberQueryRepository struct {
	db bun.IDB
}

func NewMemberQueryRepository(db bun.IDB) *MemberQueryRepository {
	return &MemberQueryRepository{db: db}
}

func (r *MemberQueryRepository) joined() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*model.Member)(nil)).
		Join("LEFT JOIN ? AS ? ON ? = ?", bun.Ident("teams"), bun.Ident("team"), bun.Ident("team.id"), bun.Ident("member.team_id"))
}

// FindMemberTeams returns the projection rows selected by q. Orders render
// with NULLs last; member.id ascending breaks ties.
func (r *MemberQueryRepository) FindMemberTeams(ctx context.Context, q MemberTeamQuery) ([]*model.MemberTeam, error) {
	query := r.joined().
		ColumnExpr("? AS member_id", bun.Ident("member.id")).
		ColumnExpr("? AS username", bun.Ident("member.username")).
		ColumnExpr("? AS age", bun.Ident("member.age")).
		ColumnExpr("? AS team_id", bun.Ident("team.id")).
		ColumnExpr("? AS team_name", bun.Ident("team.name"))
	query = q.Filter.AppendWhere(query)

	query, err := applyOrders(query, q.Orders)
	if err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	rows := make([]*model.MemberTeam, 0)
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountMemberTeams counts the projection rows matching filter.
func (r *MemberQueryRepository) CountMemberTeams(ctx context.Context, filter condition.Filter) (int, error) {
	return filter.AppendWhere(r.joined()).Count(ctx)
}

// FindMembersWithTeam loads members matching filter with their team fetched
// in the same query.
func (r *MemberQueryRepository) FindMembersWithTeam(ctx context.Context, q MemberTeamQuery) ([]*model.Member, error) {
	members := make([]*model.Member, 0)
	query := r.db.NewSelect().Model(&members).Relation("Team")
	query = q.Filter.AppendWhere(query)

	query, err := applyOrders(query, q.Orders)
	if err != nil {
		return nil, err
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return members, nil
}

// FindByUsername returns every member whose username equals username.
func (r *MemberQueryRepository) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	return r.FindMembersWithTeam(ctx, MemberTeamQuery{
		Filter: condition.All(condition.UsernameEq(&username)),
	})
}

func applyOrders(query *bun.SelectQuery, orders []types.Order) (*bun.SelectQuery, error) {
	for _, order := range orders {
		path, ok := condition.PathOf(order.Property)
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort property %q", types.ErrInvalidArgument, order.Property)
		}
		col := bun.Ident(path.Column())
		query = query.OrderExpr("? IS NULL, ? "+order.Direction.Name(), col, col)
	}
	return query.OrderExpr("? ASC", bun.Ident("member.id")), nil
}
