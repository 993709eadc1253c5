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

// VectorClockVS maps machine handles to guarded counters. It is a thin
// MachineHandle-keyed specialization of MapVS (spec §3.2, vector clock).
// Increment bumps one machine's own entry; there is no entrywise-max join,
// and Merge is the ordinary guarded merge of two clocks.
type VectorClockVS struct {
	m MapVS
}

func NewVectorClock(e *guard.Engine, g guard.Guard) VectorClockVS {
	return VectorClockVS{m: NewMap(e, g)}
}

func (v VectorClockVS) Engine() *guard.Engine { return v.m.Engine() }

func (v VectorClockVS) Universe() guard.Guard { return v.m.Universe() }

func (v VectorClockVS) IsEmptyVS() bool { return v.m.IsEmptyVS() }

func (v VectorClockVS) GuardedValues() []GuardedValue { return v.m.GuardedValues() }

func (v VectorClockVS) canon() string { return "Clock:" + v.m.canon() }

func (v VectorClockVS) Restrict(g guard.Guard) VectorClockVS {
	return VectorClockVS{m: v.m.Restrict(g)}
}

func (v VectorClockVS) Merge(others ...VectorClockVS) VectorClockVS {
	ms := make([]MapVS, len(others))
	for i, o := range others {
		ms[i] = o.m
	}
	return VectorClockVS{m: v.m.Merge(ms...)}
}

func (v VectorClockVS) UpdateUnderGuard(g guard.Guard, u VectorClockVS) VectorClockVS {
	return VectorClockVS{m: v.m.UpdateUnderGuard(g, u.m)}
}

// At returns the guarded counter value for handle, 0 where absent. MapVS.Get
// always returns a concrete PrimitiveVS[int64] (empty when no entry
// matches), so absence shows up as a narrowed universe, not a failed type
// assertion: the zero branch is whatever of pc the present value's universe
// doesn't cover.
func (v VectorClockVS) At(pc guard.Guard, handle common.MachineHandle) PrimitiveVS[int64] {
	e := v.m.Engine()
	key := NewPrimitive(e, e.True(), handle)
	got := v.m.Get(pc, key).(PrimitiveVS[int64])
	zeroG := e.And(pc, e.Not(got.Universe()))
	if zeroG.IsFalse() {
		return got
	}
	return got.Merge(NewPrimitive(e, zeroG, int64(0)))
}

// Increment bumps handle's own counter by one under g. Sending a message
// does not call it; the sending machine's handler does.
func (v VectorClockVS) Increment(g guard.Guard, handle common.MachineHandle) VectorClockVS {
	e := v.m.Engine()
	cur := v.At(g, handle)
	next := EmptyPrimitive[int64](e)
	cur.ForEach(func(cg guard.Guard, n int64) {
		next = next.Merge(NewPrimitive(e, e.And(cg, g), n+1))
	})
	zeroG := e.And(g, e.Not(cur.Universe()))
	if !zeroG.IsFalse() {
		next = next.Merge(NewPrimitive(e, zeroG, int64(1)))
	}
	key := NewPrimitive(e, e.True(), handle)
	return VectorClockVS{m: v.m.Put(g, key, next)}
}
