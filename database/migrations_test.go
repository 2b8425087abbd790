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

package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/model"
)

func registerTestModels() {
	RegisteredModel(NewModelAdapter((*model.Member)(nil), 2, Index("idx_members_team_id", "team_id")))
	RegisteredModel(NewModelAdapter((*model.Team)(nil), 1))
}

func TestModelRegistryOrderAndDedupe(t *testing.T) {
	r := newModelRegistry()
	r.Register(NewModelAdapter((*model.Member)(nil), 2, Index("idx_members_age", "age")))
	r.Register(NewModelAdapter((*model.Team)(nil), 1))
	r.Register(NewModelAdapter((*model.Member)(nil), 0))

	models := r.Models()
	require.Len(t, models, 2)
	assert.IsType(t, (*model.Team)(nil), models[0].Instance())
	assert.IsType(t, (*model.Member)(nil), models[1].Instance())

	indexed, ok := models[1].(IndexedModel)
	require.True(t, ok)
	assert.Equal(t, []ModelIndex{{Name: "idx_members_age", Columns: []string{"age"}}}, indexed.Indexes())
}

func TestRunMigrations(t *testing.T) {
	registerTestModels()
	ctx := context.Background()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "common", "001_teams.sql"), "INSERT INTO teams (name) VALUES ('TeamA') ON CONFLICT (name) DO NOTHING;")
	writeFile(t, filepath.Join(root, "environments", "test", "001_members.sql"),
		"INSERT INTO members (username, age, team_id) VALUES ('member1', 10, 1);")

	cfg := sqliteConfig(t)
	cfg.DataMigrateConfig.EnableForeignKey = true
	cfg.DataInitConfig.AutoInitOnMigration = true
	cfg.DataInitConfig.Filepath = root
	cfg.DataInitConfig.Environment = "test"
	db := openTestDB(t, cfg)

	mm := NewMigrationManager(db, NopLogger{}, cfg)
	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	versions := make([]string, len(applied))
	for i, m := range applied {
		versions[i] = m.Version
	}
	// foreign keys are not added on SQLite
	assert.Equal(t, []string{"001", "003"}, versions)

	n, err := db.NewSelect().Model((*model.Member)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	indexes, err := db.NewSelect().
		TableExpr("sqlite_master").
		Where("type = 'index' AND name = ?", "idx_members_team_id").
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, indexes)

	require.NoError(t, mm.InitData(ctx))
	n, err = db.NewSelect().Model((*model.Member)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunMigrationsWithoutDB(t *testing.T) {
	mm := NewMigrationManager(nil, nil, nil)
	assert.Error(t, mm.RunMigrations(context.Background()))
	assert.Error(t, mm.InitData(context.Background()))
}
