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
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// MigrationManager coordinates schema migrations and data initialization.
type MigrationManager struct {
	db     *bun.DB
	logger Logger
	config *Config
}

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:schema_migrations"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// NewMigrationManager constructs a MigrationManager. A nil cfg behaves like
// DefaultConfig and a nil logger discards output.
func NewMigrationManager(db *bun.DB, logger Logger, cfg *Config) *MigrationManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &MigrationManager{
		db:     db,
		logger: logger,
		config: cfg,
	}
}

// RunMigrations creates the migration tracking table if needed and executes
// every pending migration in ascending version order. Applied versions are
// skipped, so running it twice is harmless.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := mm.getAllMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed!")
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (mm *MigrationManager) getAllMigrations() []MigrationItem {
	migrations := []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create base table structure",
			Up:          mm.createBaseTables,
		},
	}
	// SQLite cannot add constraints with ALTER TABLE.
	if mm.config.DataMigrateConfig.EnableForeignKey && mm.db.Dialect().Name() != dialect.SQLite {
		migrations = append(migrations, MigrationItem{
			Version:     "002",
			Name:        "add_foreign_keys",
			Description: "Add table foreign key constraints",
			Up:          mm.addForeignKeys,
		})
	}
	if mm.config.DataInitConfig.AutoInitOnMigration {
		migrations = append(migrations, MigrationItem{
			Version:     "003",
			Name:        "seed_initial_data",
			Description: "Seed initial data",
			Up:          mm.seedInitialData,
		})
	}
	return migrations
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		mm.logger.Debug("Migration already applied", "version", migration.Version)
		return nil
	}

	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	for _, model := range GetRegisteredModels() {
		instance := model.Instance()
		_, err := db.NewCreateTable().
			Model(instance).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table %T: %w", instance, err)
		}
		if indexed, ok := model.(IndexedModel); ok {
			for _, index := range indexed.Indexes() {
				if err := mm.createIndex(ctx, db, instance, index); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// createIndex creates index on the model's table. MySQL has no CREATE INDEX
// IF NOT EXISTS, so an existing index is detected from the error instead.
func (mm *MigrationManager) createIndex(ctx context.Context, db bun.IDB, instance interface{}, index ModelIndex) error {
	if index.Name == "" || len(index.Columns) == 0 {
		return fmt.Errorf("invalid index on %T: name and columns are required", instance)
	}
	query := db.NewCreateIndex().
		Model(instance).
		Index(index.Name).
		Column(index.Columns...)
	if mm.db.Dialect().Name() != dialect.MySQL {
		query = query.IfNotExists()
	}
	if _, err := query.Exec(ctx); err != nil {
		if _, kind := IsSqlError(err); kind == ExistIndexErr {
			return nil
		}
		return fmt.Errorf("failed to create index %s: %w", index.Name, err)
	}
	mm.logger.Debug("Index created", "index", index.Name, "columns", index.Columns)
	return nil
}

func (mm *MigrationManager) addForeignKeys(ctx context.Context, db bun.IDB) error {
	configPath := mm.config.DataMigrateConfig.ForeignKeyFile
	fkManager := NewConfigurableForeignKeyManager(mm.logger, configPath)

	if errs := fkManager.ValidateConstraints(); len(errs) > 0 {
		for _, err := range errs {
			mm.logger.Warn("Foreign key constraint validation failed", "error", err.Error())
		}
		return fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}

	mm.logger.Debug("Adding foreign key constraints", "config_path", configPath, "count", len(fkManager.ListAllConstraints()))
	return fkManager.AddAllForeignKeys(ctx, db)
}

// InitData executes the seed SQL files outside of the migration bookkeeping.
func (mm *MigrationManager) InitData(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return mm.seedInitialData(ctx, mm.db)
}

func (mm *MigrationManager) seedInitialData(ctx context.Context, db bun.IDB) error {
	initCfg := mm.config.DataInitConfig
	sqlManager := NewSQLInitManager(db, initCfg.Environment)
	sqlManager.SetLogger(mm.logger)
	if initCfg.Filepath != "" {
		sqlManager.SetSQLRootPath(initCfg.Filepath)
	}

	mm.logger.Info("Starting data initialization using SQL files", "environment", initCfg.Environment)
	if _, err := sqlManager.ExecuteInitialization(ctx); err != nil {
		return fmt.Errorf("SQL file initialization failed: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}
