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

// Package machine implements the per-machine execution layer (spec §3.3):
// local state slots, a symbolic send buffer (FIFO or bag), a vector clock,
// and event-to-completion dispatch. Machines are arena-owned by the
// scheduler (spec §9, "cyclic references") — this package never imports
// internal/scheduler, only internal/common, internal/guard and internal/vs.
package machine

import (
	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/vs"
)

// Step is a single unit of per-machine internal work, the way ProbeChain's
// register VM exposes Step() beneath Run() (probe-lang/lang/vm/vm.go):
// ProcessEventToCompletion below is this package's Run, bounded by
// maxInternalSteps. done reports whether msg has been fully dispatched; a
// Handler that still has internal work left for this same message (e.g. it
// ran a sub-step that itself enqueued a local, synchronous continuation)
// returns done=false and is invoked again with the same g and msg.
type Step func(m *Machine, g guard.Guard, msg vs.MessageVS) (done bool, err error)

// Machine is one instance of a state-machine class: identity, local state
// vector, send buffer, vector clock and finite state set (spec §3.3).
type Machine struct {
	Handle common.MachineHandle

	// LocalState is addressable by field index; every field is itself a VS
	// since different guarded branches may hold different concrete values.
	LocalState []vs.Any

	// CurrentState is the machine's symbolic control state (spec §3.3,
	// "finite set; one is hot").
	CurrentState vs.PrimitiveVS[common.StateHandle]
	HotStates    map[string]bool

	Buffer *Buffer

	Clock vs.VectorClockVS

	// Handler dispatches one event; the program-under-test sets it when it
	// constructs the machine (program.Program.Start, or the handler argument
	// of the scheduler's AllocateMachine).
	Handler Step

	halted vs.PrimitiveVS[bool]
}

// New allocates a fresh machine with an empty buffer and a zero-valued
// vector clock, under universe g.
func New(e *guard.Engine, g guard.Guard, handle common.MachineHandle, kind common.BufferKind, fieldCount int, hotStates map[string]bool) *Machine {
	m := &Machine{
		Handle:     handle,
		LocalState: make([]vs.Any, fieldCount),
		Buffer:     NewBuffer(e, g, kind),
		Clock:      vs.NewVectorClock(e, g),
		HotStates:  hotStates,
		halted:     vs.NewPrimitive(e, g, false),
	}
	return m
}

// GetLocalState returns field i's current VS.
func (m *Machine) GetLocalState(i int) vs.Any { return m.LocalState[i] }

// SetLocalState replaces field i's VS under the entire universe of v; callers
// that need a guarded partial update should build v via UpdateUnderGuard on
// the existing value first.
func (m *Machine) SetLocalState(i int, v vs.Any) { m.LocalState[i] = v }

// HasHalted reports, per branch, whether the machine has reached a halt
// state.
func (m *Machine) HasHalted() vs.PrimitiveVS[bool] { return m.halted }

// SetHalted updates the halted flag under g (spec §4.4 step c, "purge
// halted targets" relies on this being accurate before a dequeue).
func (m *Machine) SetHalted(e *guard.Engine, g guard.Guard, halted bool) {
	m.halted = m.halted.UpdateUnderGuard(g, vs.NewPrimitive(e, g, halted))
}

// Reset restores a machine to its zero-valued, buffer-empty state, keeping
// its handle and field count — used when backtracking to a snapshot that
// predates this machine's allocation (spec §4.5, restoreState).
func (m *Machine) Reset(e *guard.Engine, g guard.Guard) {
	for i := range m.LocalState {
		m.LocalState[i] = nil
	}
	m.Buffer = NewBuffer(e, g, m.Buffer.Kind)
	m.Clock = vs.NewVectorClock(e, g)
	m.halted = vs.NewPrimitive(e, g, false)
}

// ProcessEventToCompletion dispatches msg (valid under g) to the machine's
// handler, re-invoking it with the same g and msg until it reports done or
// maxInternalSteps is exhausted (spec §6.3). A nil Handler is a no-op, which
// lets tests build bare machines with only a buffer and no behavior. A
// Handler that never reports done runs exactly maxInternalSteps times and
// ProcessEventToCompletion returns without error — the bound exists to cap
// pathological handlers, not to signal failure.
func (m *Machine) ProcessEventToCompletion(g guard.Guard, msg vs.MessageVS, maxInternalSteps int) error {
	if m.Handler == nil {
		return nil
	}
	steps := maxInternalSteps
	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		done, err := m.Handler(m, g, msg)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return nil
}
