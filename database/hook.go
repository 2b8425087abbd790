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
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
)

var (
	selectColor = color.New(color.FgGreen)
	insertColor = color.New(color.FgBlue)
	updateColor = color.New(color.FgYellow)
	deleteColor = color.New(color.FgMagenta)
	otherColor  = color.New(color.FgRed)
)

func formatOperationColor(event *bun.QueryEvent) string {
	switch event.Operation() {
	case "SELECT":
		return selectColor.Sprint(event.Query)
	case "INSERT":
		return insertColor.Sprint(event.Query)
	case "UPDATE":
		return updateColor.Sprint(event.Query)
	case "DELETE":
		return deleteColor.Sprint(event.Query)
	default:
		return otherColor.Sprint(event.Query)
	}
}

// SlowQueryHook logs successful queries that ran longer than slowTime.
type SlowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*SlowQueryHook)(nil)

func NewSlowQueryHook(slowTime time.Duration, logger Logger) *SlowQueryHook {
	return &SlowQueryHook{slowTime: slowTime, logger: logger}
}

func (h *SlowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn(color.New(color.FgYellow, color.BlinkSlow).Sprint("Database slow query detected"),
			"duration", duration.Round(time.Microsecond),
			"slow_threshold", h.slowTime,
			"query", formatOperationColor(event),
		)
	}
}

// QueryCounts is a snapshot of a QueryCounter.
type QueryCounts struct {
	Queries int64
	Selects int64
	Counts  int64
	Errors  int64
}

// QueryCounter counts the statements a bun.DB executes. Count queries are
// SELECTs whose text contains count(*).
type QueryCounter struct {
	queries atomic.Int64
	selects atomic.Int64
	counts  atomic.Int64
	errors  atomic.Int64
}

var _ bun.QueryHook = (*QueryCounter)(nil)

func NewQueryCounter() *QueryCounter {
	return &QueryCounter{}
}

func (c *QueryCounter) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (c *QueryCounter) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	c.queries.Add(1)
	if event.Err != nil {
		c.errors.Add(1)
	}
	if event.Operation() != "SELECT" {
		return
	}
	c.selects.Add(1)
	if strings.Contains(strings.ToLower(event.Query), "count(*)") {
		c.counts.Add(1)
	}
}

func (c *QueryCounter) Snapshot() QueryCounts {
	return QueryCounts{
		Queries: c.queries.Load(),
		Selects: c.selects.Load(),
		Counts:  c.counts.Load(),
		Errors:  c.errors.Load(),
	}
}

func (c *QueryCounter) Reset() {
	c.queries.Store(0)
	c.selects.Store(0)
	c.counts.Store(0)
	c.errors.Store(0)
}
