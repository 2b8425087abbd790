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
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSqlError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		is     bool
		expect SQLError
	}{
		{"nil", nil, false, UnknownErr},
		{"no rows", fmt.Errorf("get member: %w", sql.ErrNoRows), true, NoRowsErr},
		{"conn done", sql.ErrConnDone, true, ConnectionErr},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true, DuplicateKeyErr},
		{"mysql missing table", &mysql.MySQLError{Number: 1146}, true, NoTableErr},
		{"mysql fk", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1452}), true, ForeignKeyViolationErr},
		{"mysql other", &mysql.MySQLError{Number: 9999}, true, UnknownErr},
		{"pq unique", &pq.Error{Code: "23505"}, true, DuplicateKeyErr},
		{"pq undefined table", &pq.Error{Code: "42P01"}, true, NoTableErr},
		{"pq connection", &pq.Error{Code: "08006"}, true, ConnectionErr},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: teams.name (2067)"), true, DuplicateKeyErr},
		{"sqlite no table", errors.New("SQL logic error: no such table: members (1)"), true, NoTableErr},
		{"sqlite not null", errors.New("NOT NULL constraint failed: members.age"), true, NotNullViolationErr},
		{"closed", errors.New("sql: database is closed"), true, ConnectionErr},
		{"other", errors.New("boom"), false, UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, kind := IsSqlError(tt.err)
			assert.Equal(t, tt.is, is)
			assert.Equal(t, tt.expect, kind, kind.String())
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "duplicate_key", DuplicateKeyErr.String())
	assert.Equal(t, "connection", ConnectionErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
