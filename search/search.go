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
	"fmt"
	"time"

	"github.com/tomoncle/roster/condition"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/repository"
	"github.com/tomoncle/roster/types"
)

// MemberSearch runs member searches against a Store. It keeps no per-call
// state and is safe for concurrent use.
type MemberSearch struct {
	store   Store
	logger  database.Logger
	metrics *Metrics
}

type Option func(*MemberSearch)

func WithLogger(logger database.Logger) Option {
	return func(s *MemberSearch) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *MemberSearch) {
		s.metrics = metrics
	}
}

func NewMemberSearch(store Store, opts ...Option) *MemberSearch {
	s := &MemberSearch{
		store:  store,
		logger: database.NewLogger("SEARCH"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns every row matching cond in member id order.
func (s *MemberSearch) Search(ctx context.Context, cond model.SearchCondition) ([]*model.MemberTeam, error) {
	start := time.Now()
	s.metrics.request(nil)
	defer func() { s.metrics.observe(nil, time.Since(start).Seconds()) }()

	filter := condition.ComposeList(cond)
	rows, err := s.store.FindMemberTeams(ctx, repository.MemberTeamQuery{Filter: filter})
	if err != nil {
		return nil, s.fail(PhaseContent, filter, err)
	}
	s.logger.Debug("search", "filter", filter.String(), "rows", len(rows))
	return rows, nil
}

// SearchMembers returns the members matching cond with their team loaded in
// the same query, for callers that go on to read team data.
func (s *MemberSearch) SearchMembers(ctx context.Context, cond model.SearchCondition) ([]*model.Member, error) {
	start := time.Now()
	s.metrics.request(nil)
	defer func() { s.metrics.observe(nil, time.Since(start).Seconds()) }()

	filter := condition.ComposeList(cond)
	members, err := s.store.FindMembersWithTeam(ctx, repository.MemberTeamQuery{Filter: filter})
	if err != nil {
		return nil, s.fail(PhaseContent, filter, err)
	}
	return members, nil
}

// SearchPageSimple fetches the page and always runs the count query.
func (s *MemberSearch) SearchPageSimple(ctx context.Context, cond model.SearchCondition, req types.PageRequest) (*types.Page[model.MemberTeam], error) {
	return s.SearchPage(ctx, cond, req, types.PageModeSimple)
}

// SearchPageOptimized fetches the page and runs the count query only when the
// total cannot be read off the page itself.
func (s *MemberSearch) SearchPageOptimized(ctx context.Context, cond model.SearchCondition, req types.PageRequest) (*types.Page[model.MemberTeam], error) {
	return s.SearchPage(ctx, cond, req, types.PageModeOptimized)
}

// SearchPage returns one page of rows matching cond. The request and mode are
// validated before any query runs. A failure in either query returns a
// *StorageError and no page.
func (s *MemberSearch) SearchPage(ctx context.Context, cond model.SearchCondition, req types.PageRequest, mode types.PageMode) (*types.Page[model.MemberTeam], error) {
	if err := validate(req, mode); err != nil {
		return nil, err
	}

	start := time.Now()
	s.metrics.request(&mode)
	defer func() { s.metrics.observe(&mode, time.Since(start).Seconds()) }()

	filter := condition.ComposeList(cond)
	content, err := s.store.FindMemberTeams(ctx, repository.MemberTeamQuery{
		Filter: filter,
		Orders: req.GetOrders(),
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		return nil, s.fail(PhaseContent, filter, err)
	}

	if mode == types.PageModeOptimized && canElideCount(req, len(content)) {
		s.metrics.count(true)
		s.logger.Debug("search page", "mode", mode, "filter", filter.String(), "page", req.String(), "total", len(content), "count_query", false)
		return types.NewPage(content, req, len(content)), nil
	}

	total, err := s.store.CountMemberTeams(ctx, filter)
	if err != nil {
		return nil, s.fail(PhaseCount, filter, err)
	}
	s.metrics.count(false)

	if present := req.GetOffset() + len(content); len(content) > 0 && total < present {
		s.logger.Warn("count below rows present, raising total", "count", total, "present", present)
		total = present
	}

	s.logger.Debug("search page", "mode", mode, "filter", filter.String(), "page", req.String(), "total", total, "count_query", true)
	return types.NewPage(content, req, total), nil
}

// canElideCount reports whether a page fetched at offset 0 is short of a full
// page, which makes it the only page and its length the total.
func canElideCount(req types.PageRequest, contentLen int) bool {
	return req.GetOffset() == 0 && contentLen < req.GetPageSize()
}

func validate(req types.PageRequest, mode types.PageMode) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown page mode %d", types.ErrInvalidArgument, int(mode))
	}
	for _, order := range req.GetOrders() {
		if _, ok := condition.PathOf(order.Property); !ok {
			return fmt.Errorf("%w: unknown sort property %q, expected one of %v", types.ErrInvalidArgument, order.Property, condition.PathNames())
		}
	}
	return nil
}

func (s *MemberSearch) fail(phase Phase, filter condition.Filter, err error) error {
	s.metrics.storageError(phase)
	storageErr := newStorageError(phase, err)
	s.logger.Error("search failed", "phase", phase, "kind", storageErr.Kind, "filter", filter.String(), "error", err)
	return storageErr
}
