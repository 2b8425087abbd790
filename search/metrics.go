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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tomoncle/roster/types"
)

const (
	countIssued = "issued"
	countElided = "elided"
)

// Metrics counts searches and the count queries they issue or skip. A nil
// *Metrics records nothing.
type Metrics struct {
	Requests      *prometheus.CounterVec
	CountQueries  *prometheus.CounterVec
	StorageErrors *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// NewMetrics creates the search metrics and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_search_requests_total",
				Help: "Total number of member searches",
			},
			[]string{"mode"},
		),
		CountQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_search_count_queries_total",
				Help: "Count queries issued or elided by paged searches",
			},
			[]string{"outcome"},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_search_storage_errors_total",
				Help: "Storage failures by query phase",
			},
			[]string{"phase"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roster_search_duration_seconds",
				Help:    "Member search latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
	}
}

func modeLabel(mode *types.PageMode) string {
	if mode == nil {
		return "unpaged"
	}
	return mode.Name()
}

func (m *Metrics) request(mode *types.PageMode) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(modeLabel(mode)).Inc()
}

func (m *Metrics) observe(mode *types.PageMode, seconds float64) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(modeLabel(mode)).Observe(seconds)
}

func (m *Metrics) count(elided bool) {
	if m == nil {
		return
	}
	if elided {
		m.CountQueries.WithLabelValues(countElided).Inc()
		return
	}
	m.CountQueries.WithLabelValues(countIssued).Inc()
}

func (m *Metrics) storageError(phase Phase) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(string(phase)).Inc()
}
