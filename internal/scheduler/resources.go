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

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ResourceSampler reads wall-clock elapsed time and process memory usage,
// the two quantities spec §5/§6.3 gate timeouts and memouts on. Sampling is
// read-only and background-safe (spec §5: "resource monitoring... is read
// from a sampler").
type ResourceSampler struct {
	start time.Time
	proc  *process.Process
}

func NewResourceSampler() *ResourceSampler {
	s := &ResourceSampler{start: time.Now()}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = p
	}
	return s
}

// ElapsedSeconds is the wall-clock time since the sampler was created.
func (s *ResourceSampler) ElapsedSeconds() float64 {
	return time.Since(s.start).Seconds()
}

// MemoryMB is the process's current resident set size, in megabytes. Zero
// if the sampler could not attach to the process (platform without
// /proc, or gopsutil init failure) — callers must treat 0 as "unknown",
// not "no memory in use".
func (s *ResourceSampler) MemoryMB() float64 {
	if s.proc == nil {
		return 0
	}
	info, err := s.proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return float64(info.RSS) / (1024 * 1024)
}

// CheckTimeout implements spec §5's checkTimeout: exceeding memLimit (MB) or
// timeLimit (seconds) — either 0 meaning unlimited — raises the
// corresponding fault.
func (s *ResourceSampler) CheckTimeout(memLimitMB, timeLimitSecs int) error {
	if timeLimitSecs > 0 && s.ElapsedSeconds() > float64(timeLimitSecs) {
		return ErrTimeout
	}
	if memLimitMB > 0 && s.MemoryMB() > float64(memLimitMB) {
		return ErrMemout
	}
	return nil
}

// NearMemoryLimit reports whether memory use has crossed 80% of memLimitMB,
// the threshold at which DoSearch purges its distinct-state cache. The guard
// engine's node table is not cleaned.
func (s *ResourceSampler) NearMemoryLimit(memLimitMB int) bool {
	if memLimitMB <= 0 {
		return false
	}
	return s.MemoryMB() > 0.8*float64(memLimitMB)
}
