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
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/search"
	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
)

func openSQLite(t *testing.T) (*bun.DB, *database.QueryCounter) {
	t.Helper()
	RegisterModels()

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:roster_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.MaxOpenConns = 1
	cfg.ConnectionConfig.SlowQueryTime = 0
	cfg.DataMigrateConfig.EnableForeignKey = true

	counter := database.NewQueryCounter()
	manager := database.NewDatabaseManager(cfg, counter)
	manager.SetLogger(database.NopLogger{})

	ctx := context.Background()
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx))
	return manager.GetDB(), counter
}

func seed(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	teamA, teamB := model.NewTeam("TeamA"), model.NewTeam("TeamB")
	require.NoError(t, NewServiceWithDB[model.Team](db).Save(ctx, teamA, teamB))
	require.NoError(t, NewServiceWithDB[model.Member](db).Save(ctx,
		model.NewMember("member1", 10, teamA),
		model.NewMember("member2", 20, teamA),
		model.NewMember("member3", 30, teamB),
		model.NewMember("member4", 40, teamB),
	))
}

func rowNames(rows []*model.MemberTeam) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Username
	}
	return out
}

func TestMemberServiceSearch(t *testing.T) {
	db, _ := openSQLite(t)
	seed(t, db)
	ctx := context.Background()
	svc := NewMemberServiceWithDB(db, search.WithLogger(database.NopLogger{}))

	all, err := svc.Search(ctx, model.SearchCondition{})
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "member3", "member4"}, rowNames(all))

	cond := model.SearchCondition{AgeGoe: types.Ptr(20), AgeLoe: types.Ptr(45), TeamName: types.Ptr("TeamB")}
	rows, err := svc.Search(ctx, cond)
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member4"}, rowNames(rows))

	page, err := svc.SearchPageSimple(ctx, cond, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	members, err := svc.SearchMembers(ctx, cond)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "TeamB", members[0].Team.Name)

	found, err := svc.FindByUsername(ctx, "member1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 10, found[0].Age)
}

func TestMemberServiceCountElision(t *testing.T) {
	db, counter := openSQLite(t)
	seed(t, db)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	metrics := search.NewMetrics(reg)
	svc := NewMemberServiceWithDB(db, search.WithLogger(database.NopLogger{}), search.WithMetrics(metrics))

	counter.Reset()
	page, err := svc.SearchPageOptimized(ctx, model.SearchCondition{}, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Content, 4)
	snap := counter.Snapshot()
	assert.EqualValues(t, 1, snap.Selects)
	assert.Zero(t, snap.Counts)

	counter.Reset()
	page, err = svc.SearchPageOptimized(ctx, model.SearchCondition{}, types.NewPageRequest(1, 2, types.Desc("username")))
	require.NoError(t, err)
	assert.Equal(t, []string{"member3", "member2"}, rowNames(page.Content))
	assert.Equal(t, 4, page.Total)
	assert.EqualValues(t, 1, counter.Snapshot().Counts)

	counter.Reset()
	page, err = svc.SearchPageOptimized(ctx, model.SearchCondition{}, types.NewPageRequest(8, 2))
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, 4, page.Total)
	assert.EqualValues(t, 1, counter.Snapshot().Counts)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CountQueries.WithLabelValues("elided")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CountQueries.WithLabelValues("issued")))
}

func TestServicePage(t *testing.T) {
	db, _ := openSQLite(t)
	seed(t, db)

	page, err := NewServiceWithDB[model.Team](db).Page(context.Background(), nil, types.OfPage(0, 1, types.Desc("name")))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "TeamB", page.Content[0].Name)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages())
}

func TestRegisterModelsIsIdempotent(t *testing.T) {
	RegisterModels()
	RegisterModels()
	models := database.RegisteredModelInstances()
	require.Len(t, models, 2)
	assert.IsType(t, (*model.Team)(nil), models[0])
	assert.IsType(t, (*model.Member)(nil), models[1])
}
