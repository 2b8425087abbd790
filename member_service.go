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

package roster

import (
	"context"
	"sync"

	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

// RegisterModels registers Team and Member for migration, Team first so the
// members.team_id reference can be added once both tables exist.
func RegisterModels() {
	database.RegisteredModel(database.NewModelAdapter((*model.Team)(nil), 1))
	database.RegisteredModel(database.NewModelAdapter((*model.Member)(nil), 2,
		database.Index("idx_members_team_id", "team_id"),
		database.Index("idx_members_username", "username"),
		database.Index("idx_members_age", "age"),
	))
	database.RegisterForeignKey(database.ForeignKeyConstraint{
		Table:           "members",
		Column:          "team_id",
		ReferenceTable:  "teams",
		ReferenceColumn: "id",
		OnDelete:        "SET NULL",
		OnUpdate:        "CASCADE",
	})
}

// MemberService adds member lookups and searches to the generic Service.
type MemberService struct {
	Service[model.Member]

	db       *bun.DB
	opts     []search.Option
	once     sync.Once
	queries  *repository.MemberQueryRepository
	searcher *search.MemberSearch
}

// NewMemberService returns a MemberService on the global database connection.
func NewMemberService(opts ...search.Option) *MemberService {
	return &MemberService{Service: NewService[model.Member](), opts: opts}
}

// NewMemberServiceWithDB returns a MemberService bound to db.
func NewMemberServiceWithDB(db *bun.DB, opts ...search.Option) *MemberService {
	return &MemberService{Service: NewServiceWithDB[model.Member](db), db: db, opts: opts}
}

func (s *MemberService) init() {
	s.once.Do(func() {
		db := s.db
		if db == nil {
			db = database.GetDB()
		}
		s.queries = repository.NewMemberQueryRepository(db)
		s.searcher = search.NewMemberSearch(s.queries, s.opts...)
	})
}

// FindByUsername returns the members named username, team loaded.
func (s *MemberService) FindByUsername(ctx context.Context, username string) ([]*model.Member, error) {
	s.init()
	return s.queries.FindByUsername(ctx, username)
}

func (s *MemberService) Search(ctx context.Context, cond model.SearchCondition) ([]*model.MemberTeam, error) {
	s.init()
	return s.searcher.Search(ctx, cond)
}

func (s *MemberService) SearchMembers(ctx context.Context, cond model.SearchCondition) ([]*model.Member, error) {
	s.init()
	return s.searcher.SearchMembers(ctx, cond)
}

func (s *MemberService) SearchPage(ctx context.Context, cond model.SearchCondition, req types.PageRequest, mode types.PageMode) (*types.Page[model.MemberTeam], error) {
	s.init()
	return s.searcher.SearchPage(ctx, cond, req, mode)
}

func (s *MemberService) SearchPageSimple(ctx context.Context, cond model.SearchCondition, req types.PageRequest) (*types.Page[model.MemberTeam], error) {
	return s.SearchPage(ctx, cond, req, types.PageModeSimple)
}

func (s *MemberService) SearchPageOptimized(ctx context.Context, cond model.SearchCondition, req types.PageRequest) (*types.Page[model.MemberTeam], error) {
	return s.SearchPage(ctx, cond, req, types.PageModeOptimized)
}
