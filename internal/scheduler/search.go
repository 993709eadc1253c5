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
	"errors"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/vs"
)

// initializeSearch allocates the program's start machine under the whole
// universe (spec §2: "initializeSearch... allocates the entry machine").
func (s *Scheduler) initializeSearch() {
	start := s.Program.Start(s.Engine, s.Engine.True())
	s.byHandle[start.Handle] = start
	s.machines = append(s.machines, start)
}

// DoSearch runs the step loop to completion (spec §4.4), then, when the loop
// stopped because no sender was left enabled (not because of the step bound),
// checks liveness (spec §4.7). It is the scheduler's equivalent of ProbeChain's
// Downloader.synchronise: a single top-level driver that owns its own
// termination conditions (step bound, resource limits, no candidates left).
func (s *Scheduler) DoSearch() (Result, error) {
	s.initializeSearch()
	finished := false
	for {
		if err := s.Resources.CheckTimeout(s.Config.MemLimitMB, s.Config.TimeLimitSecs); err != nil {
			s.Result = resultFor(err)
			return s.Result, err
		}
		if s.Config.MaxStepBound > 0 && s.depth >= s.Config.MaxStepBound {
			break
		}

		pc := s.Engine.True()

		// Step 1: snapshot for backtracking, before any mutation at this depth.
		if s.Config.UseBacktrack && !s.Schedule.HasFrame(s.depth) {
			s.Schedule.SetFrame(s.depth, s.snapshot())
		}

		// Step 2: state caching — compute the "new" guard before senders are
		// computed, so candidateSenders's step 3g can restrict to it.
		if s.Config.UseStateCaching {
			s.computeDistinctStateGuard(pc)
		}

		cands, kind, done := s.candidateSenders(pc)
		if len(cands) == 0 {
			finished = done
			break
		}
		chosen := s.pickSender(cands, pc)
		if len(chosen) == 0 {
			break
		}

		if err := s.step(chosen, kind); err != nil {
			s.Result = resultFor(err)
			return s.Result, err
		}

		if s.Resources.NearMemoryLimit(s.Config.MemLimitMB) && s.distinctStates != nil {
			s.distinctStates.Purge()
		}

		s.depth++
		if s.Config.CollectStats > 0 {
			s.Stats.Depth.Inc(1)
		}
	}

	if finished {
		if err := s.checkLiveness(); err != nil {
			s.Result = ResultBug
			return s.Result, err
		}
	}
	s.Result = ResultOK
	return s.Result, nil
}

// resultFor classifies a step-loop error into spec §6.4's Result taxonomy.
func resultFor(err error) Result {
	switch {
	case errors.Is(err, ErrTimeout):
		return ResultTimeout
	case errors.Is(err, ErrMemout):
		return ResultMemout
	default:
		return ResultBug
	}
}

// step dequeues and delivers the chosen candidates (spec §4.4 steps 5-6):
// each candidate's sender dequeues its head message under its own guard, the
// message is announced to listening monitors, then delivered to its target
// machine(s) via ProcessEventToCompletion. Disjoint candidate guards mean
// every machine ends this call having advanced under exactly the guard it
// was chosen under, and no machine is touched twice.
func (s *Scheduler) step(chosen []Candidate, kind stepKind) error {
	if s.Config.CollectStats > 0 {
		switch kind {
		case stepCreate:
			s.Stats.CreateSteps.Inc(1)
		case stepSync:
			s.Stats.SyncSteps.Inc(1)
		}
	}

	for _, c := range chosen {
		msg := c.Head.Restrict(c.Guard)
		c.Machine.Buffer.Dequeue(c.Guard, 0)
		s.nextSeq[c.Machine.Handle]++

		var dispatchErr error
		msg.Event().ForEach(func(eg guard.Guard, tag common.EventTag) {
			if dispatchErr != nil {
				return
			}
			g := s.Engine.And(eg, c.Guard)
			if g.IsFalse() {
				return
			}
			if err := s.Announce(g, tag, msg.Payload()); err != nil {
				s.Log.Error(s.depth, c.Machine.Handle.String(), string(tag), "monitor announce failed", err, nil)
				dispatchErr = err
			}
		})
		if dispatchErr != nil {
			return dispatchErr
		}

		msg.Target().ForEach(func(tg guard.Guard, target common.MachineHandle) {
			if dispatchErr != nil {
				return
			}
			g := s.Engine.And(tg, c.Guard)
			if g.IsFalse() {
				return
			}
			tm, ok := s.byHandle[target]
			if !ok {
				return
			}
			if err := tm.ProcessEventToCompletion(g, msg, s.Config.MaxInternalSteps); err != nil {
				s.Log.Error(s.depth, target.String(), "", "dispatch failed", err, nil)
				dispatchErr = err
			}
		})
		if dispatchErr != nil {
			return dispatchErr
		}
	}
	return nil
}

// computeDistinctStateGuard implements spec §4.4 step 2: hash the current
// concrete state and consult the state-cache table, recording (in
// s.distinctStateGuard) the sub-guard of pc under which this state has not
// been seen before. See concreteStateDigest's doc comment for how "concrete
// state" is approximated here.
func (s *Scheduler) computeDistinctStateGuard(pc guard.Guard) {
	digest := s.concreteStateDigest()
	if _, seen := s.distinctStates.Get(digest); seen {
		s.distinctStateGuard = s.Engine.False()
		s.hasDistinctStateGuard = true
		return
	}
	s.distinctStates.Add(digest, struct{}{})
	if s.Config.CollectStats > 0 {
		s.Stats.DistinctStates.Inc(1)
	}
	s.distinctStateGuard = pc
	s.hasDistinctStateGuard = true
}

// snapshot captures a BacktrackFrame of every machine's local state and the
// per-class allocation counters (spec §4.5, restoreState's counterpart).
func (s *Scheduler) snapshot() *BacktrackFrame {
	frame := &BacktrackFrame{
		MachineStates: make(map[common.MachineHandle][]vs.Any, len(s.machines)),
		Counters:      make(map[string]vs.PrimitiveVS[int64], len(s.counters)),
	}
	for _, m := range s.machines {
		fields := make([]vs.Any, len(m.LocalState))
		copy(fields, m.LocalState)
		frame.MachineStates[m.Handle] = fields
	}
	for class, n := range s.counters {
		frame.Counters[class] = vs.NewPrimitive(s.Engine, s.Engine.True(), int64(n))
	}
	return frame
}

// restoreState implements spec §4.5's restoreState(frame): every machine
// present in the frame has its local state fields replaced verbatim; every
// machine allocated after the frame was taken (absent from it) is reset to
// its zero-valued state and kept in the arena. The per-class allocation
// counters are restored from the frame as well.
func (s *Scheduler) restoreState(depth int) error {
	frame, ok := s.Schedule.Frame(depth)
	if !ok {
		return ErrInvariant
	}
	for _, m := range s.machines {
		if fields, present := frame.MachineStates[m.Handle]; present {
			copy(m.LocalState, fields)
		} else {
			m.Reset(s.Engine, s.Engine.True())
		}
	}
	for class, n := range frame.Counters {
		v, _ := n.Get(s.Engine.True())
		s.counters[class] = uint64(v)
	}
	s.depth = depth
	s.Schedule.Truncate(depth)
	return nil
}

// Backtrack rewinds the scheduler to toDepth using the frame recorded at
// exactly that depth, restoring machine state (spec §4.5); it returns
// ErrInvariant when backtracking is disabled or no frame exists at toDepth,
// and it runs no further steps itself. It is the explicit-backtrack counterpart to DoSearch's
// single forward pass, for callers exploring multiple branches of the same
// run without rebuilding the Scheduler from scratch.
func (s *Scheduler) Backtrack(toDepth int) error {
	if !s.Config.UseBacktrack {
		return ErrInvariant
	}
	return s.restoreState(toDepth)
}

// checkLiveness implements spec §4.7: once no sender remains enabled (the
// run has reached a quiescent point, which is how DoSearch's loop above
// exits normally), every monitor's current state is inspected; any branch
// where a hot state holds is a liveness violation.
func (s *Scheduler) checkLiveness() error {
	for _, mon := range s.monitors {
		cs := mon.CurrentState()
		var violation guard.Guard = s.Engine.False()
		cs.ForEach(func(g guard.Guard, st common.StateHandle) {
			if mon.IsHot(st) {
				violation = s.Engine.Or(violation, g)
			}
		})
		if !violation.IsFalse() {
			return &AssertionError{
				Message: "monitor " + mon.Name() + " ended in a hot state",
				Guard:   violation,
			}
		}
	}
	return nil
}
