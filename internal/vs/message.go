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

package vs

import (
	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
)

// MessageVS bundles the event tag, target machine, payload and sending
// machine's vector clock that together make up one buffered message (spec
// §3.2, Machine send buffer).
type MessageVS struct {
	e       *guard.Engine
	event   PrimitiveVS[common.EventTag]
	target  PrimitiveVS[common.MachineHandle]
	payload Any
	clock   VectorClockVS
}

func NewMessage(e *guard.Engine, g guard.Guard, event common.EventTag, target common.MachineHandle, payload Any, clock VectorClockVS) MessageVS {
	return MessageVS{
		e:       e,
		event:   NewPrimitive(e, g, event),
		target:  NewPrimitive(e, g, target),
		payload: restrictAny(payload, g),
		clock:   clock.Restrict(g),
	}
}

func (m MessageVS) Engine() *guard.Engine { return m.e }

func (m MessageVS) Universe() guard.Guard { return m.event.Universe() }

func (m MessageVS) IsEmptyVS() bool { return m.Universe().IsFalse() }

func (m MessageVS) GuardedValues() []GuardedValue { return m.event.GuardedValues() }

func (m MessageVS) canon() string {
	s := "Msg|" + m.event.canon() + "|" + m.target.canon()
	if m.payload != nil {
		s += "|" + m.payload.canon()
	}
	return s + "|" + m.clock.canon()
}

func (m MessageVS) Event() PrimitiveVS[common.EventTag] { return m.event }

func (m MessageVS) Target() PrimitiveVS[common.MachineHandle] { return m.target }

func (m MessageVS) Payload() Any { return m.payload }

func (m MessageVS) Clock() VectorClockVS { return m.clock }

func (m MessageVS) Restrict(g guard.Guard) MessageVS {
	return MessageVS{
		e:       m.e,
		event:   m.event.Restrict(g),
		target:  m.target.Restrict(g),
		payload: restrictAny(m.payload, g),
		clock:   m.clock.Restrict(g),
	}
}

func (m MessageVS) Merge(others ...MessageVS) MessageVS {
	out := m
	events := []PrimitiveVS[common.EventTag]{m.event}
	targets := []PrimitiveVS[common.MachineHandle]{m.target}
	clocks := []VectorClockVS{m.clock}
	for _, o := range others {
		out.payload = mergeAnyUnchecked(out.payload, o.payload)
		events = append(events, o.event)
		targets = append(targets, o.target)
		clocks = append(clocks, o.clock)
	}
	out.event = m.event.Merge(events[1:]...)
	out.target = m.target.Merge(targets[1:]...)
	out.clock = m.clock.Merge(clocks[1:]...)
	return out
}

func (m MessageVS) UpdateUnderGuard(g guard.Guard, u MessageVS) MessageVS {
	return m.Restrict(m.e.Not(g)).Merge(u.Restrict(g))
}
