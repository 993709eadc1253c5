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
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/vs"
)

// stepKind tags which branch of getNextSenderChoices produced a step, for
// logging and for the create/sync counters in SearchStats.
type stepKind uint8

const (
	stepGeneral stepKind = iota
	stepCreate
	stepSync
)

// bagCandidates enumerates one candidate per buffered index of m's Bag-kind
// buffer, each guarded by pc intersected with "index i is in range" (spec
// §3.3's Bag buffer: delivery order is the scheduler's to choose, not the
// enqueue order).
func (s *Scheduler) bagCandidates(m *machine.Machine, pc guard.Guard) []Candidate {
	size := m.Buffer.Size()
	var maxN int64
	size.ForEach(func(_ guard.Guard, n int64) {
		if n > maxN {
			maxN = n
		}
	})
	var out []Candidate
	for i := int64(0); i < maxN; i++ {
		inRange := vs.LessThanInt64(vs.NewPrimitive(s.Engine, s.Engine.True(), i), size, pc)
		g := s.Engine.And(inRange, pc)
		if g.IsFalse() {
			continue
		}
		head := m.Buffer.At(g, int(i))
		out = append(out, Candidate{Machine: m, Guard: g, Head: head, SeqNum: s.nextSeq[m.Handle]})
	}
	return out
}

// candidateSenders implements spec §4.4 step 3 (getNextSenderChoices).
func (s *Scheduler) candidateSenders(pc guard.Guard) (cands []Candidate, kind stepKind, executionFinished bool) {
	// 3a: create steps first.
	for _, m := range s.machines {
		head := m.Buffer.Head(pc)
		head.Event().ForEach(func(g guard.Guard, tag common.EventTag) {
			if tag != common.EventCreateMachine {
				return
			}
			ng := s.Engine.And(g, pc)
			if ng.IsFalse() {
				return
			}
			cands = []Candidate{{Machine: m, Guard: ng, Head: head, SeqNum: s.nextSeq[m.Handle]}}
		})
		if cands != nil {
			return cands, stepCreate, false
		}
	}

	// 3b: synchronous steps.
	for _, m := range s.machines {
		head := m.Buffer.Head(pc)
		head.Event().ForEach(func(g guard.Guard, tag common.EventTag) {
			if !s.syncEvents[tag] {
				return
			}
			ng := s.Engine.And(g, pc)
			if ng.IsFalse() {
				return
			}
			cands = []Candidate{{Machine: m, Guard: ng, Head: head, SeqNum: s.nextSeq[m.Handle]}}
		})
		if cands != nil {
			return cands, stepSync, false
		}
	}

	// 3c: purge halted targets (single pass; see DESIGN.md for why a
	// repeating-until-fixpoint pass isn't needed here).
	for _, m := range s.machines {
		head := m.Buffer.Head(pc)
		head.Target().ForEach(func(tg guard.Guard, target common.MachineHandle) {
			tm, ok := s.byHandle[target]
			if !ok {
				return
			}
			halted := vs.TrueGuardOf(tm.HasHalted())
			g := s.Engine.And(s.Engine.And(tg, pc), halted)
			if g.IsFalse() {
				return
			}
			m.Buffer.Dequeue(g, 0)
		})
	}

	// 3d: general case. A Bag-kind buffer (common.BufferBag) under
	// UseBagSemantics contributes one candidate per buffered index, not just
	// the head: the scheduler, not the buffer, is what's free to pick any
	// element, so index selection happens here.
	var general []Candidate
	for _, m := range s.machines {
		if m.Buffer.Kind == common.BufferBag && s.Config.UseBagSemantics {
			general = append(general, s.bagCandidates(m, pc)...)
			continue
		}
		nonEmpty := s.Engine.Not(m.Buffer.IsEmpty(s.Engine, s.Engine.True()))
		g := s.Engine.And(nonEmpty, pc)
		if g.IsFalse() {
			continue
		}
		head := m.Buffer.Head(g)
		general = append(general, Candidate{Machine: m, Guard: g, Head: head, SeqNum: s.nextSeq[m.Handle]})
	}

	preSleep := len(general) == 0

	preOrder := candidateSenderHandles(general)

	// 3e: receiver-queue filter.
	if s.receiverOrder != nil {
		general = applyOrderFilter(s.Engine, general, s.receiverOrder, pc)
	}
	// 3f: interleave filter.
	if s.interleaveOrder != nil {
		general = applyOrderFilter(s.Engine, general, s.interleaveOrder, pc)
	}

	// Senders dropped by 3e/3f were skipped in favor of an order-dominant
	// candidate at this depth (spec §4.4 step h). This engine explores every
	// surviving candidate within one symbolic step rather than one ordering
	// at a time via backtracking DFS, so there is no separate visit to "wake"
	// a slept sender on a dependent event; instead a skipped sender stays
	// asleep for as long as its own SeqNum doesn't advance (it hasn't been
	// dequeued), which is exactly the condition under which re-trying it
	// immediately would just re-explore the same preempted ordering.
	if s.Config.UseSleepSets {
		dropped := preOrder.Difference(candidateSenderHandles(general))
		for h := range dropped.Iter() {
			handle := h.(common.MachineHandle)
			key := fmt.Sprintf("%s@%d", handle.String(), s.nextSeq[handle])
			s.Schedule.SleepAt(s.depth+1, key)
		}
	}

	// 3g: state-cache filter.
	if s.hasDistinctStateGuard && s.Config.UseStateCaching {
		var kept []Candidate
		for _, c := range general {
			g := s.Engine.And(c.Guard, s.distinctStateGuard)
			if !g.IsFalse() {
				c.Guard = g
				kept = append(kept, c)
			}
		}
		general = kept
	}

	preSleep = preSleep || len(general) == 0

	// 3h: sleep-set filter.
	if s.Config.UseSleepSets {
		var kept []Candidate
		for _, c := range general {
			key := fmt.Sprintf("%s@%d", c.Machine.Handle.String(), c.SeqNum)
			if s.Schedule.SleptAt(s.depth, key) {
				if s.Config.CollectStats > 0 {
					s.Stats.SleptSenders.Inc(1)
				}
				continue
			}
			kept = append(kept, c)
		}
		general = kept
	}

	return general, stepGeneral, preSleep
}

// applyOrderFilter drops, from each candidate's guard, the portion under
// which some other candidate's order.LessThan holds (spec §4.4 step e/f):
// "under the guard order.lessThan(a,b) remove b; under lessThan(b,a) remove
// a".
func applyOrderFilter(e *guard.Engine, cands []Candidate, order Order, pc guard.Guard) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)
	for i := range out {
		for j := range out {
			if i == j {
				continue
			}
			lt := order.LessThan(e, pc, cands[i], cands[j])
			if lt.IsFalse() {
				continue
			}
			out[j].Guard = e.And(out[j].Guard, e.Not(lt))
		}
	}
	var kept []Candidate
	for _, c := range out {
		if !c.Guard.IsFalse() {
			kept = append(kept, c)
		}
	}
	return kept
}

// pickSender implements spec §4.4 step 4's nextSender: a symbolic choice
// among the candidates, recorded on the schedule. It returns the chosen
// sub-guard for each candidate (guards still pairwise disjoint, since a
// fresh split variable partitions the combined universe).
func (s *Scheduler) pickSender(cands []Candidate, pc guard.Guard) []Candidate {
	if len(cands) == 0 {
		return nil
	}
	if len(cands) == 1 {
		s.Schedule.Append(ChoiceSender, candidateUniverse(s.Engine, cands))
		return cands
	}
	remaining := pc
	out := make([]Candidate, 0, len(cands))
	for i, c := range cands {
		if i == len(cands)-1 {
			g := s.Engine.And(remaining, c.Guard)
			if !g.IsFalse() {
				out = append(out, Candidate{Machine: c.Machine, Guard: g, Head: c.Head, SeqNum: c.SeqNum})
			}
			break
		}
		v := s.Engine.NewVar()
		chosen := s.Engine.And(s.Engine.And(remaining, c.Guard), v)
		if !chosen.IsFalse() {
			out = append(out, Candidate{Machine: c.Machine, Guard: chosen, Head: c.Head, SeqNum: c.SeqNum})
		}
		remaining = s.Engine.And(remaining, s.Engine.Not(v))
	}
	s.Schedule.Append(ChoiceSender, candidateUniverse(s.Engine, cands))
	return out
}

func candidateUniverse(e *guard.Engine, cands []Candidate) vs.PrimitiveVS[common.MachineHandle] {
	out := vs.EmptyPrimitive[common.MachineHandle](e)
	for _, c := range cands {
		out = out.Merge(vs.NewPrimitive(e, c.Guard, c.Machine.Handle))
	}
	return out
}

// candidateSenderHandles is the set of distinct machines with a live
// candidate in cands, used to detect which senders a filtering pass dropped
// entirely (sleep-set bookkeeping, see candidateSenders' 3e/3f handling).
func candidateSenderHandles(cands []Candidate) mapset.Set {
	out := mapset.NewSet()
	for _, c := range cands {
		out.Add(c.Machine.Handle)
	}
	return out
}
