// Copyright 2024 The uztadh/P Authors
// This file is part of uztadh/P.
//
// uztadh/P is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// uztadh/P is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with uztadh/P. If not, see <http://www.gnu.org/licenses/>.

package scheduler

import "github.com/rcrowley/go-metrics"

// SearchStats is the scheduler's own "searchStats" (spec §3.5). Collection
// is gated on config.Options.CollectStats > 0 at every increment site in
// internal/scheduler (scheduler.go, search.go, step.go), the same
// if-guarded-increment idiom core/state/statedb.go uses around
// metrics.EnabledExpensive; CollectStats == 0 means the counters stay at
// zero for the whole run instead of paying for atomic increments nobody
// reads. Grounded on the same rcrowley/go-metrics registry style
// probe/downloader/metrics.go uses.
type SearchStats struct {
	Depth          metrics.Counter
	Events         metrics.Counter
	DistinctStates metrics.Counter
	CreateSteps    metrics.Counter
	SyncSteps      metrics.Counter
	SleptSenders   metrics.Counter
}

func newSearchStats() *SearchStats {
	return &SearchStats{
		Depth:          metrics.NewCounter(),
		Events:         metrics.NewCounter(),
		DistinctStates: metrics.NewCounter(),
		CreateSteps:    metrics.NewCounter(),
		SyncSteps:      metrics.NewCounter(),
		SleptSenders:   metrics.NewCounter(),
	}
}

// Snapshot is a point-in-time, plain-value copy suitable for logging or
// for the end-of-run summary printed by cmd/symsched.
type Snapshot struct {
	Depth          int64
	Events         int64
	DistinctStates int64
	CreateSteps    int64
	SyncSteps      int64
	SleptSenders   int64
}

func (s *SearchStats) Snapshot() Snapshot {
	return Snapshot{
		Depth:          s.Depth.Count(),
		Events:         s.Events.Count(),
		DistinctStates: s.DistinctStates.Count(),
		CreateSteps:    s.CreateSteps.Count(),
		SyncSteps:      s.SyncSteps.Count(),
		SleptSenders:   s.SleptSenders.Count(),
	}
}
