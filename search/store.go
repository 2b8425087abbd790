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

package search

import (
	"context"

	"github.com/tomoncle/roster/condition"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
)

// Store is the storage side of a search. repository.MemberQueryRepository
// implements it against Bun.
type Store interface {
	// FindMemberTeams returns the projection rows selected by q.
	FindMemberTeams(ctx context.Context, q repository.MemberTeamQuery) ([]*model.MemberTeam, error)
	// CountMemberTeams counts the rows matching filter, ignoring order and window.
	CountMemberTeams(ctx context.Context, filter condition.Filter) (int, error)
	// FindMembersWithTeam is FindMemberTeams returning entities with their
	// team fetched in the same query.
	FindMembersWithTeam(ctx context.Context, q repository.MemberTeamQuery) ([]*model.Member, error)
}

var _ Store = (*repository.MemberQueryRepository)(nil)
