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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/database"
	"github.com/tomoncle/roster/model"
	"github.com/uptrace/bun"
)

// openSQLite migrates a private in-memory database and returns it with a
// query counter reset after the migrations.
func openSQLite(t *testing.T) (*bun.DB, *database.QueryCounter) {
	t.Helper()
	database.RegisteredModel(database.NewModelAdapter((*model.Team)(nil), 1))
	database.RegisteredModel(database.NewModelAdapter((*model.Member)(nil), 2))

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.MaxOpenConns = 1
	cfg.ConnectionConfig.SlowQueryTime = 0

	counter := database.NewQueryCounter()
	manager := database.NewDatabaseManager(cfg, counter)
	manager.SetLogger(database.NopLogger{})

	ctx := context.Background()
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx))

	counter.Reset()
	return manager.GetDB(), counter
}

// seedMembers stores TeamA{member1 10, member2 20}, TeamB{member3 30,
// member4 40} in that order.
func seedMembers(t *testing.T, db *bun.DB) (teamA, teamB *model.Team) {
	t.Helper()
	ctx := context.Background()
	teamA, teamB = model.NewTeam("TeamA"), model.NewTeam("TeamB")
	require.NoError(t, NewRepository[model.Team](db).Create(ctx, teamA, teamB))
	require.NotZero(t, teamA.ID)

	require.NoError(t, NewRepository[model.Member](db).Create(ctx,
		model.NewMember("member1", 10, teamA),
		model.NewMember("member2", 20, teamA),
		model.NewMember("member3", 30, teamB),
		model.NewMember("member4", 40, teamB),
	))
	return teamA, teamB
}
