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
	"github.com/holiman/uint256"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
)

// restrictAny, mergeAnyUnchecked and anyEquals dispatch Restrict/Merge/
// SymbolicEquals across the concrete Any implementations. A type switch
// stands in for the covariant-return interface method Go cannot express: a
// List's Restrict returns ListVS, a Map's returns MapVS, and so on, so no
// single Any.Restrict(Guard) Any could be both type-safe and ergonomic for
// callers working with a concrete variant directly.

func restrictAny(v Any, g guard.Guard) Any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case PrimitiveVS[bool]:
		return t.Restrict(g)
	case PrimitiveVS[int64]:
		return t.Restrict(g)
	case PrimitiveVS[string]:
		return t.Restrict(g)
	case PrimitiveVS[common.MachineHandle]:
		return t.Restrict(g)
	case PrimitiveVS[common.EventTag]:
		return t.Restrict(g)
	case PrimitiveVS[common.StateHandle]:
		return t.Restrict(g)
	case PrimitiveVS[uint256.Int]:
		return t.Restrict(g)
	case ListVS:
		return t.Restrict(g)
	case SetVS:
		return t.Restrict(g)
	case MapVS:
		return t.Restrict(g)
	case TupleVS:
		return t.Restrict(g)
	case UnionVS:
		return t.Restrict(g)
	case MessageVS:
		return t.Restrict(g)
	case VectorClockVS:
		return t.Restrict(g)
	default:
		panic("vs: restrictAny: unsupported Any implementation")
	}
}

// mergeAnyUnchecked merges two Any values of (assumed) the same concrete
// type; either may be nil, standing in for "no value contributed on this
// branch yet".
func mergeAnyUnchecked(a, b Any) Any {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	switch ta := a.(type) {
	case PrimitiveVS[bool]:
		return ta.Merge(b.(PrimitiveVS[bool]))
	case PrimitiveVS[int64]:
		return ta.Merge(b.(PrimitiveVS[int64]))
	case PrimitiveVS[string]:
		return ta.Merge(b.(PrimitiveVS[string]))
	case PrimitiveVS[common.MachineHandle]:
		return ta.Merge(b.(PrimitiveVS[common.MachineHandle]))
	case PrimitiveVS[common.EventTag]:
		return ta.Merge(b.(PrimitiveVS[common.EventTag]))
	case PrimitiveVS[common.StateHandle]:
		return ta.Merge(b.(PrimitiveVS[common.StateHandle]))
	case PrimitiveVS[uint256.Int]:
		return ta.Merge(b.(PrimitiveVS[uint256.Int]))
	case ListVS:
		return ta.Merge(b.(ListVS))
	case SetVS:
		return ta.Merge(b.(SetVS))
	case MapVS:
		return ta.Merge(b.(MapVS))
	case TupleVS:
		return ta.Merge(b.(TupleVS))
	case UnionVS:
		return ta.Merge(b.(UnionVS))
	case MessageVS:
		return ta.Merge(b.(MessageVS))
	case VectorClockVS:
		return ta.Merge(b.(VectorClockVS))
	default:
		panic("vs: mergeAnyUnchecked: unsupported Any implementation")
	}
}

// anyEquals computes structural equality between two Any values under pc. A
// type mismatch is definitionally unequal everywhere both are defined.
func anyEquals(e *guard.Engine, a, b Any, pc guard.Guard) PrimitiveVS[bool] {
	switch ta := a.(type) {
	case PrimitiveVS[bool]:
		if tb, ok := b.(PrimitiveVS[bool]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[int64]:
		if tb, ok := b.(PrimitiveVS[int64]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[string]:
		if tb, ok := b.(PrimitiveVS[string]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[common.MachineHandle]:
		if tb, ok := b.(PrimitiveVS[common.MachineHandle]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[common.EventTag]:
		if tb, ok := b.(PrimitiveVS[common.EventTag]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[common.StateHandle]:
		if tb, ok := b.(PrimitiveVS[common.StateHandle]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	case PrimitiveVS[uint256.Int]:
		if tb, ok := b.(PrimitiveVS[uint256.Int]); ok {
			return ta.SymbolicEquals(tb, pc)
		}
	default:
		// Composite Any values (List/Set/Map/Tuple/Union/Message) are
		// compared structurally via canon(): the scheduler only ever
		// needs equality on primitives and state-handle digests, so a
		// canon-string comparison (equal everywhere both are defined) is
		// sufficient rather than a fully symbolic per-element equality.
		universe := e.And(pc, e.And(a.Universe(), b.Universe()))
		if universe.IsFalse() {
			return EmptyPrimitive[bool](e)
		}
		if a.canon() == b.canon() {
			return NewPrimitive(e, universe, true)
		}
		return NewPrimitive(e, universe, false)
	}
	universe := e.And(pc, e.And(a.Universe(), b.Universe()))
	if universe.IsFalse() {
		return EmptyPrimitive[bool](e)
	}
	return NewPrimitive(e, universe, false)
}
