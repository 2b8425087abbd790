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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeignKeyConstraintSQL(t *testing.T) {
	fk := ForeignKeyConstraint{
		Table:           "members",
		Column:          "team_id",
		ReferenceTable:  "teams",
		ReferenceColumn: "id",
		OnDelete:        "SET NULL",
		OnUpdate:        "CASCADE",
	}
	assert.Equal(t, "fk_members_team_id", fk.GenerateConstraintName())
	assert.Equal(t,
		"ALTER TABLE members ADD CONSTRAINT fk_members_team_id FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE SET NULL ON UPDATE CASCADE",
		fk.GenerateSQL())
}

func TestValidateConstraints(t *testing.T) {
	m := &ForeignKeyManager{constraints: []ForeignKeyConstraint{
		{Table: "members", Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id", OnDelete: "cascade"},
		{Table: "members", Column: "", ReferenceTable: "teams", ReferenceColumn: "id", OnUpdate: "EXPLODE"},
	}}
	errs := m.ValidateConstraints()
	assert.Len(t, errs, 2)
	assert.Len(t, m.GetConstraintsByTable("MEMBERS"), 2)
	assert.Empty(t, m.GetConstraintsByTable("teams"))
}

func TestConfigurableForeignKeyManager(t *testing.T) {
	RegisterForeignKey(ForeignKeyConstraint{Table: "members", Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id"})
	RegisterForeignKey(ForeignKeyConstraint{Table: "members", Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id"})

	fallback := NewConfigurableForeignKeyManager(NopLogger{}, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Len(t, fallback.ListAllConstraints(), 1)
	assert.Error(t, fallback.ReloadConfig())

	path := filepath.Join(t.TempDir(), "fk", "foreign_keys.yaml")
	require.NoError(t, fallback.ExportToConfig(path))

	loaded := NewConfigurableForeignKeyManager(NopLogger{}, path)
	assert.Equal(t, path, loaded.GetConfigPath())
	require.NoError(t, loaded.ReloadConfig())
	require.Len(t, loaded.ListAllConstraints(), 1)
	assert.Equal(t, "teams", loaded.ListAllConstraints()[0].ReferenceTable)
	assert.Empty(t, loaded.ValidateConstraints())
}
