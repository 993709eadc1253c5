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
	mapset "github.com/deckarep/golang-set"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/vs"
)

// ChoiceKind tags the kind of nondeterministic decision recorded at a given
// choiceDepth (spec §3.4).
type ChoiceKind uint8

const (
	ChoiceBool ChoiceKind = iota
	ChoiceInteger
	ChoiceElement
	ChoiceSender
)

// ChoiceRecord is one entry of the Schedule (spec §3.4): the kind of
// decision and the VS of possible outcomes it was drawn from, so replay can
// reconstruct the same choice.
type ChoiceRecord struct {
	Kind       ChoiceKind
	Candidates vs.Any
}

// BacktrackFrame snapshots everything restoreState needs (spec §4.5):
// per-machine local state and the per-class allocation counters, taken at
// the start of a step.
type BacktrackFrame struct {
	MachineStates map[common.MachineHandle][]vs.Any
	Counters      map[string]vs.PrimitiveVS[int64]
}

// Schedule is the linear record of choices made so far (spec §3.4): the
// choice log, backtrack frames keyed by choiceDepth, and sleep sets keyed by
// choiceDepth. The grounding for "snapshot now, revert later, replay by
// walking from index 0" is ProbeChain's core/state/statedb.go
// Snapshot/RevertToSnapshot plus journal.go's revert-by-replaying-entries
// idiom; this Schedule plays the role of that journal, except a full
// per-field snapshot rather than an undo-log, because VS values here are
// cheap, value-semantic structs rather than large trie-backed accounts.
type Schedule struct {
	Choices   []ChoiceRecord
	Frames    map[int]*BacktrackFrame
	SleepSets map[int]mapset.Set
}

func NewSchedule() *Schedule {
	return &Schedule{
		Frames:    make(map[int]*BacktrackFrame),
		SleepSets: make(map[int]mapset.Set),
	}
}

// Append records a choice at the current depth (= len(Choices) before the
// append) and returns that depth.
func (s *Schedule) Append(kind ChoiceKind, candidates vs.Any) int {
	depth := len(s.Choices)
	s.Choices = append(s.Choices, ChoiceRecord{Kind: kind, Candidates: candidates})
	return depth
}

// Depth is the current choiceDepth (number of choices recorded so far).
func (s *Schedule) Depth() int { return len(s.Choices) }

func (s *Schedule) HasFrame(depth int) bool {
	_, ok := s.Frames[depth]
	return ok
}

func (s *Schedule) SetFrame(depth int, frame *BacktrackFrame) {
	s.Frames[depth] = frame
}

func (s *Schedule) Frame(depth int) (*BacktrackFrame, bool) {
	f, ok := s.Frames[depth]
	return f, ok
}

// SleptAt reports whether key (a clock-value digest) is in the sleep set
// recorded at depth.
func (s *Schedule) SleptAt(depth int, key string) bool {
	set, ok := s.SleepSets[depth]
	return ok && set.Contains(key)
}

// SleepAt adds key to the sleep set at depth, creating it if necessary.
func (s *Schedule) SleepAt(depth int, key string) {
	set, ok := s.SleepSets[depth]
	if !ok {
		set = mapset.NewSet()
		s.SleepSets[depth] = set
	}
	set.Add(key)
}

// Truncate drops every choice, frame, and sleep set at or past depth — used
// when restoreState rewinds the run to resume exploration from depth (spec
// §4.5).
func (s *Schedule) Truncate(depth int) {
	if depth < len(s.Choices) {
		s.Choices = s.Choices[:depth]
	}
	for d := range s.Frames {
		if d >= depth {
			delete(s.Frames, d)
		}
	}
	for d := range s.SleepSets {
		if d >= depth {
			delete(s.SleepSets, d)
		}
	}
}
