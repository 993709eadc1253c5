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

package guard

import "github.com/rcrowley/go-metrics"

// Stats holds the per-Engine call counters required by spec §4.1: every
// And/Or/Not/IsSat call increments its counter once, independent of whether
// the apply cache served the answer.
type Stats struct {
	and, or, not, isSat metrics.Counter
}

// Counts returns a snapshot of the call counters.
func (e *Engine) Counts() (and, or, not, isSat int64) {
	return e.stats.and.Count(), e.stats.or.Count(), e.stats.not.Count(), e.stats.isSat.Count()
}

// NodeCount returns the number of BDD nodes in the engine's unique table,
// including the two terminals; nodes are never freed. The scheduler's
// memory check samples process RSS and does not read this count.
func (e *Engine) NodeCount() int { return len(e.nodes) }
