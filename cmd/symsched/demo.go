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

package main

import (
	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/program"
	"github.com/uztadh/P/internal/vs"
)

const demoTick common.EventTag = "tick"

const demoTickBound = int64(3)

var counterState = common.StateHandle{Machine: "Counter", Name: "Counting"}

// demoProgram is a one-machine, self-ticking counter with a single observer
// monitor: enough to drive general steps, announce, dispatch, halt and the
// liveness check without a source-language front end. It sends no create
// messages, so create steps are not exercised.
func demoProgram() *program.Static {
	observer := &demoObserver{}
	return &program.Static{
		StartFn: func(e *guard.Engine, g guard.Guard) *machine.Machine {
			observer.e = e
			handle := common.MachineHandle{Class: "Counter", Index: 0}
			m := machine.New(e, g, handle, common.BufferFIFO, 1, nil)
			m.CurrentState = vs.NewPrimitive(e, g, counterState)
			m.SetLocalState(0, vs.NewPrimitive(e, g, int64(0)))
			m.Handler = counterStep
			m.Buffer.Enqueue(g, vs.NewMessage(e, g, demoTick, handle, nil, m.Clock))
			return m
		},
		MonitorList: []program.Monitor{observer},
		ListenersMap: map[common.EventTag][]program.Monitor{
			demoTick: {observer},
		},
	}
}

// counterStep increments the machine's own counter on every tick it
// receives, re-enqueuing another tick to itself while under demoTickBound,
// then halting without enqueuing another tick, so its buffer is empty and it
// stops appearing as a candidate sender.
func counterStep(m *machine.Machine, g guard.Guard, msg vs.MessageVS) (bool, error) {
	e := m.Clock.Engine()
	cur, _ := m.GetLocalState(0).(vs.PrimitiveVS[int64])
	n, ok := cur.Get(g)
	if !ok {
		n = 0
	}
	next := n + 1
	m.SetLocalState(0, cur.UpdateUnderGuard(g, vs.NewPrimitive(e, g, next)))
	m.Clock = m.Clock.Increment(g, m.Handle)

	if next < demoTickBound {
		m.Buffer.Enqueue(g, vs.NewMessage(e, g, demoTick, m.Handle, nil, m.Clock))
	} else {
		m.SetHalted(e, g, true)
	}
	return true, nil
}

// demoObserver listens for ticks and ignores them; it never enters a hot state, so
// it never fails liveness — a minimal Monitor satisfying spec §6.1.
type demoObserver struct {
	e *guard.Engine
}

func (d *demoObserver) Name() string { return "Observer" }

func (d *demoObserver) ProcessEventToCompletion(g guard.Guard, event common.EventTag, payload vs.Any) error {
	return nil
}

func (d *demoObserver) CurrentState() vs.PrimitiveVS[common.StateHandle] {
	idle := common.StateHandle{Machine: "Observer", Name: "Idle"}
	return vs.NewPrimitive(d.e, d.e.True(), idle)
}

func (d *demoObserver) IsHot(state common.StateHandle) bool { return false }
