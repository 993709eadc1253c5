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

// Package scheduler implements the step loop described in spec §4.4: at
// each step it computes candidate senders, applies reduction filters,
// picks one symbolically, dequeues and delivers a message, and bookkeeps.
// It owns the machine arena, the schedule, and the search statistics (spec
// §3.5).
package scheduler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/config"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/obslog"
	"github.com/uztadh/P/internal/program"
	"github.com/uztadh/P/internal/vs"
)

// Scheduler is the exploration engine (spec §2, §3.5, §4.4).
type Scheduler struct {
	Engine  *guard.Engine
	Program program.Program
	Config  config.Options
	Log     *obslog.Logger

	Stats     *SearchStats
	Resources *ResourceSampler

	Schedule *Schedule
	depth    int

	machines    []*machine.Machine
	byHandle    map[common.MachineHandle]*machine.Machine
	counters    map[string]uint64
	nextSeq     map[common.MachineHandle]int64
	monitors    []program.Monitor
	listeners   map[common.EventTag][]program.Monitor

	receiverOrder   Order
	interleaveOrder Order
	syncEvents      map[common.EventTag]bool

	distinctStateGuard    guard.Guard
	hasDistinctStateGuard bool
	distinctStates        *lru.Cache

	replaying     bool
	replayIndex   int
	replayChoices []ChoiceRecord

	Result Result
}

// New builds a Scheduler around prog, configured by cfg. The program's
// Start machine is NOT yet allocated; call DoSearch to run the search from
// scratch (it calls initializeSearch internally, spec §2).
func New(e *guard.Engine, prog program.Program, cfg config.Options, log *obslog.Logger) *Scheduler {
	s := &Scheduler{
		Engine:     e,
		Program:    prog,
		Config:     cfg,
		Log:        log,
		Stats:      newSearchStats(),
		Resources:  NewResourceSampler(),
		Schedule:   NewSchedule(),
		byHandle:   make(map[common.MachineHandle]*machine.Machine),
		counters:   make(map[string]uint64),
		nextSeq:    make(map[common.MachineHandle]int64),
		monitors:   prog.Monitors(),
		listeners:  prog.Listeners(),
		syncEvents: make(map[common.EventTag]bool),
	}
	if cfg.UseReceiverQueueSemantics || cfg.IsDpor {
		s.receiverOrder = ReceiverQueueOrder{}
	}
	if cfg.UseFilters {
		s.interleaveOrder = InterleaveOrder{}
	}
	if cfg.UseStateCaching {
		c, _ := lru.New(1 << 16)
		s.distinctStates = c
	}
	return s
}

// ReplayFrom arms replay mode (spec §4.5): distinct from Backtrack's in-place
// rewind of the same run, replay drives a fresh DoSearch call against a
// schedule recorded by a prior one, so NextBool/NextInt/NextElement stop
// drawing fresh split variables and instead walk choices from index 0,
// constraining each call's result to exactly the VS recorded at that
// position. The machine population itself still reconstructs the normal
// way, through AllocateMachine/initializeSearch — replay only pins the
// nondeterministic choices a create/general step's Handler makes, which is
// what the grounded "replay" of spec §8 Testable Property #9 requires.
func (s *Scheduler) ReplayFrom(choices []ChoiceRecord) {
	s.replaying = true
	s.replayIndex = 0
	s.replayChoices = choices
}

// nextReplay returns the next recorded choice of kind, if replay mode is
// armed and the next entry in replayChoices matches kind; otherwise (replay
// finished, or the caller's kind diverges from what was recorded) it reports
// false, and the caller falls back to drawing a fresh choice.
func (s *Scheduler) nextReplay(kind ChoiceKind) (vs.Any, bool) {
	if !s.replaying || s.replayIndex >= len(s.replayChoices) {
		return nil, false
	}
	rec := s.replayChoices[s.replayIndex]
	if rec.Kind != kind {
		return nil, false
	}
	s.replayIndex++
	return rec.Candidates, true
}

// AllocateMachine implements spec §6.2's allocateMachine(pc, class,
// constructor): it bumps class's per-class instance counter and constructs
// a fresh arena-owned Machine under pc.
//
// The counter itself is tracked as a plain Go uint64 rather than the
// fully-symbolic PrimitiveVS[int64] spec §3.3 describes: a genuinely
// guard-dependent allocation count would mean two branches of the same run
// disagree about how many instances of a class exist, which this engine's
// single-arena-slot-per-handle model (spec §9, "scheduler owns a vector of
// Machine, handles are indices") cannot represent without per-branch arena
// slots. Every allocation under a non-true pc still only ever allocates one
// concrete Machine, whose fields already carry pc as their universe.
func (s *Scheduler) AllocateMachine(pc guard.Guard, class string, kind common.BufferKind, fieldCount int, hotStates map[string]bool, handler machine.Step) *machine.Machine {
	idx := s.counters[class]
	s.counters[class] = idx + 1
	handle := common.MachineHandle{Class: class, Index: idx}
	m := machine.New(s.Engine, pc, handle, kind, fieldCount, hotStates)
	m.Handler = handler
	s.machines = append(s.machines, m)
	s.byHandle[handle] = m
	return m
}

// NextBool implements spec §4.3's nextBool(pc): a fresh guard variable g
// splits pc into a true branch and a false branch.
func (s *Scheduler) NextBool(pc guard.Guard) vs.PrimitiveVS[bool] {
	if cand, ok := s.nextReplay(ChoiceBool); ok {
		out := cand.(vs.PrimitiveVS[bool]).Restrict(pc)
		s.Schedule.Append(ChoiceBool, out)
		return out
	}
	v := s.Engine.NewVar()
	g := s.Engine.And(pc, v)
	ng := s.Engine.And(pc, s.Engine.Not(v))
	out := vs.EmptyPrimitive[bool](s.Engine)
	out = out.Merge(vs.NewPrimitive(s.Engine, g, true), vs.NewPrimitive(s.Engine, ng, false))
	s.Schedule.Append(ChoiceBool, out)
	return out
}

// NextInt implements spec §4.3's nextInt(bound, pc): a uniform choice over
// [0, maxValue(bound)) per branch, treating a zero bound as 1 (spec §9
// Open Question (a): preserved verbatim from the source's behavior).
func (s *Scheduler) NextInt(bound vs.PrimitiveVS[int64], pc guard.Guard) vs.PrimitiveVS[int64] {
	if cand, ok := s.nextReplay(ChoiceInteger); ok {
		out := cand.(vs.PrimitiveVS[int64]).Restrict(pc)
		s.Schedule.Append(ChoiceInteger, out)
		return out
	}
	out := vs.EmptyPrimitive[int64](s.Engine)
	bound.ForEach(func(bg guard.Guard, n int64) {
		g0 := s.Engine.And(bg, pc)
		if g0.IsFalse() {
			return
		}
		if n <= 0 {
			n = 1
		}
		remaining := g0
		for i := int64(0); i < n-1; i++ {
			v := s.Engine.NewVar()
			out = out.Merge(vs.NewPrimitive(s.Engine, s.Engine.And(remaining, v), i))
			remaining = s.Engine.And(remaining, s.Engine.Not(v))
		}
		out = out.Merge(vs.NewPrimitive(s.Engine, remaining, n-1))
	})
	s.Schedule.Append(ChoiceInteger, out)
	return out
}

// NextElement implements spec §4.3's nextElement(container, pc): pick one
// index in [0, size) the same way NextInt splits its range, except that a
// size of 0 contributes no index, recording the choice as ChoiceElement
// instead of ChoiceInteger so replay can distinguish the two call sites.
func (s *Scheduler) NextElement(size vs.PrimitiveVS[int64], pc guard.Guard) vs.PrimitiveVS[int64] {
	if cand, ok := s.nextReplay(ChoiceElement); ok {
		out := cand.(vs.PrimitiveVS[int64]).Restrict(pc)
		s.Schedule.Append(ChoiceElement, out)
		return out
	}
	out := vs.EmptyPrimitive[int64](s.Engine)
	size.ForEach(func(bg guard.Guard, n int64) {
		g0 := s.Engine.And(bg, pc)
		if g0.IsFalse() || n <= 0 {
			return
		}
		remaining := g0
		for i := int64(0); i < n-1; i++ {
			v := s.Engine.NewVar()
			out = out.Merge(vs.NewPrimitive(s.Engine, s.Engine.And(remaining, v), i))
			remaining = s.Engine.And(remaining, s.Engine.Not(v))
		}
		out = out.Merge(vs.NewPrimitive(s.Engine, remaining, n-1))
	})
	s.Schedule.Append(ChoiceElement, out)
	return out
}

// MarkSynchronous registers event tags as sync-marked (spec §4.4 step 3b).
// Programs declare sync-marking through this explicit opt-in set rather
// than through any implicit naming convention.
func (s *Scheduler) MarkSynchronous(tags ...common.EventTag) {
	for _, t := range tags {
		s.syncEvents[t] = true
	}
}

// Announce implements spec §6.2's announce(event, payload): broadcasts to
// monitors only (never to machines), under the run's current universe.
func (s *Scheduler) Announce(g guard.Guard, event common.EventTag, payload vs.Any) error {
	for _, mon := range s.listeners[event] {
		if err := mon.ProcessEventToCompletion(g, event, payload); err != nil {
			return err
		}
	}
	if s.Config.CollectStats > 0 {
		s.Stats.Events.Inc(1)
	}
	return nil
}

func sortedHandleKeys(byHandle map[common.MachineHandle]*machine.Machine) []common.MachineHandle {
	keys := make([]common.MachineHandle, 0, len(byHandle))
	for h := range byHandle {
		keys = append(keys, h)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Class != keys[j].Class {
			return keys[i].Class < keys[j].Class
		}
		return keys[i].Index < keys[j].Index
	})
	return keys
}

// concreteStateDigest hashes a coarse, deterministic summary of the current
// machine population — used by the state-caching filter (spec §4.4 step
// 2). A full "enumerate every satisfying assignment of the source universe"
// concretizer is out of scope for this core's budget; this engine
// approximates it with the canon() digest of every machine's current-state
// VS and local-state VSs, which already folds in every guarded branch's
// distinct concrete values (spec's canon-string equality stands in for the
// "hash the concrete state" step).
func (s *Scheduler) concreteStateDigest() string {
	h := sha256.New()
	for _, handle := range sortedHandleKeys(s.byHandle) {
		m := s.byHandle[handle]
		fmt.Fprintf(h, "%s|", handle.String())
		for _, gv := range m.CurrentState.GuardedValues() {
			fmt.Fprintf(h, "cs:%s=%v;", gv.Guard.String(), gv.Value)
		}
		for i, f := range m.LocalState {
			if f == nil {
				continue
			}
			fmt.Fprintf(h, "f%d:%s;", i, vsCanonOf(f))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// vsCanonOf exposes an Any's canon digest to this package (canon is
// unexported within internal/vs deliberately, to close the Any interface to
// that package's own variants — GuardedValues plus a re-join is the
// supported external substitute for a structural digest).
func vsCanonOf(a vs.Any) string {
	parts := a.GuardedValues()
	out := ""
	for _, gv := range parts {
		out += gv.Guard.String() + "=" + fmt.Sprintf("%v", gv.Value) + ";"
	}
	return out
}
