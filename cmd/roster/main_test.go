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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/roster/model"
	"github.com/tomoncle/roster/types"
)

func runCLI(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCLIFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sqlDir := filepath.Join(dir, "sql")
	require.NoError(t, os.MkdirAll(filepath.Join(sqlDir, "common"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(sqlDir, "environments", "test"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sqlDir, "common", "001_teams.sql"),
		[]byte("INSERT INTO teams (name) VALUES ('TeamA');\nINSERT INTO teams (name) VALUES ('TeamB');\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sqlDir, "environments", "test", "001_members.sql"), []byte(`
INSERT INTO members (username, age, team_id) VALUES ('member1', 10, 1);
INSERT INTO members (username, age, team_id) VALUES ('member2', 20, 1);
INSERT INTO members (username, age, team_id) VALUES ('member3', 30, 2);
INSERT INTO members (username, age, team_id) VALUES ('member4', 40, 2);
`), 0o644))

	cfg := fmt.Sprintf(`
database:
  connection:
    type: sqlite
    dbname: %s
  init:
    filepath: %s
    environment: test
log:
  level: error
`, filepath.Join(dir, "roster"), sqlDir)
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestCLI(t *testing.T) {
	cfgPath := writeCLIFixtures(t)

	out, err := runCLI("migrate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"Version": "001"`)

	_, err = runCLI("seed", "-c", cfgPath)
	require.NoError(t, err)

	out, err = runCLI("search", "-c", cfgPath, "--team", "TeamB", "--sort", "age,desc", "--size", "1")
	require.NoError(t, err)
	var page pageJSON
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "member4", page.Content[0].Username)
	assert.Equal(t, 2, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)

	out, err = runCLI("search", "-c", cfgPath, "--all", "--age-goe", "20", "--age-loe", "30")
	require.NoError(t, err)
	var rows []*model.MemberTeam
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "member2", rows[0].Username)
	assert.Equal(t, "TeamA", *rows[0].TeamName)

	out, err = runCLI("search", "-c", cfgPath, "--members", "--username", "member3")
	require.NoError(t, err)
	var members []*model.Member
	require.NoError(t, json.Unmarshal([]byte(out), &members))
	require.Len(t, members, 1)
	assert.Equal(t, "TeamB", members[0].Team.Name)

	_, err = runCLI("search", "-c", cfgPath, "--sort", "height")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = runCLI("search", "-c", cfgPath, "--mode", "fast")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
