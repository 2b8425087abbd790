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
	"fmt"

	"github.com/tomoncle/roster/database"
)

// Phase names the query a storage failure happened in.
type Phase string

const (
	PhaseContent Phase = "content"
	PhaseCount   Phase = "count"
)

// StorageError reports a failed storage call. No partial page accompanies it.
type StorageError struct {
	Phase Phase
	Kind  database.SQLError
	Err   error
}

func newStorageError(phase Phase, err error) *StorageError {
	_, kind := database.IsSqlError(err)
	return &StorageError{Phase: phase, Kind: kind, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("search %s query failed (%s): %v", e.Phase, e.Kind, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
