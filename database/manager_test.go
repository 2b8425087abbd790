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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func sqliteConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:db_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.MaxOpenConns = 1
	cfg.ConnectionConfig.SlowQueryTime = 0
	return cfg
}

// openTestDB connects a private in-memory SQLite database. A nil cfg uses
// sqliteConfig.
func openTestDB(t *testing.T, cfg *Config, hooks ...bun.QueryHook) *bun.DB {
	t.Helper()
	if cfg == nil {
		cfg = sqliteConfig(t)
	}
	manager := NewDatabaseManager(cfg, hooks...)
	manager.SetLogger(NopLogger{})
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager.GetDB()
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN(""))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x?mode=memory", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "data/roster.db", sqliteDSN("data/roster"))
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	manager := NewDatabaseManager(sqliteConfig(t))
	manager.SetLogger(NopLogger{})

	assert.Error(t, manager.Ping(ctx))
	status := manager.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.Equal(t, &DBStats{}, manager.GetStats())

	require.NoError(t, manager.Connect(ctx))
	require.NoError(t, manager.Connect(ctx))
	require.NoError(t, manager.Ping(ctx))
	assert.NotNil(t, manager.GetSQLDB())

	status = manager.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 1, manager.GetStats().MaxOpenConns)

	require.NoError(t, manager.Disconnect())
	assert.Nil(t, manager.GetDB())
	require.NoError(t, manager.Disconnect())
}

func TestManagerUnsupportedType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "oracle"
	err := NewDatabaseManager(cfg).Connect(context.Background())
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestFactoryCreateFromConfig(t *testing.T) {
	factory := NewDatabaseFactory()
	factory.SetLogger(NopLogger{})

	_, err := factory.CreateFromConfig(nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "mongodb"
	_, err = factory.CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	assert.Error(t, factory.InitializeDatabase(context.Background(), false))
	assert.False(t, factory.GetHealthStatus(context.Background()).Healthy)
	assert.Nil(t, factory.GetDB())

	require.NoError(t, factory.Close())
}

func TestOverrideFromEnv(t *testing.T) {
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "roster")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")
	t.Setenv("DB_ENABLE_QUERY_LOG", "true")

	cfg := DefaultConnectionConfig()
	overrideFromEnv(cfg)
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "roster", cfg.DBName)
	assert.Equal(t, 7, cfg.MaxOpenConns)
	assert.Equal(t, "250ms", cfg.SlowQueryTime.String())
	assert.True(t, cfg.EnableQueryLog)
}

func TestGlobalLifecycle(t *testing.T) {
	ctx := context.Background()
	InitLogger(NopLogger{})
	assert.Nil(t, GetDB())
	assert.Error(t, RunMigrations(ctx))
	assert.False(t, GetHealthStatus(ctx).Healthy)

	cfg := sqliteConfig(t)
	cfg.DataMigrateConfig.EnableMigrateOnStartup = true
	db, err := InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })

	assert.Same(t, db, GetDB())
	assert.True(t, GetHealthStatus(ctx).Healthy)
	assert.Equal(t, 1, GetDatabaseStats().MaxOpenConns)
	require.NoError(t, RunMigrations(ctx))

	require.NoError(t, CloseDB())
	assert.Nil(t, GetDB())
}

func TestQueryCounter(t *testing.T) {
	counter := NewQueryCounter()
	db := openTestDB(t, nil, counter)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "CREATE TABLE things (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	counter.Reset()

	_, err = db.NewSelect().Table("things").Count(ctx)
	require.NoError(t, err)
	var ids []int64
	require.NoError(t, db.NewSelect().Table("things").Column("id").Scan(ctx, &ids))
	_, err = db.NewSelect().Table("missing").Count(ctx)
	require.Error(t, err)

	snap := counter.Snapshot()
	assert.EqualValues(t, 3, snap.Queries)
	assert.EqualValues(t, 3, snap.Selects)
	assert.EqualValues(t, 2, snap.Counts)
	assert.EqualValues(t, 1, snap.Errors)
}
