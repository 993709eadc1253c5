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

	"github.com/uztadh/P/internal/guard"
)

// WideIntVS is a guarded disjunction of 256-bit integers, for model fields
// declared with a range too wide for a plain int64 (e.g. a field that must
// hold an arbitrary uint256 word, the way core/vm's interpreter stack holds
// uint256.Int rather than int64/big.Int). uint256.Int is a plain [4]uint64
// array, so it satisfies PrimitiveVS's `comparable` constraint directly —
// WideIntVS only needs to supply constructors in terms of the library's own
// type rather than a new implementation.
type WideIntVS = PrimitiveVS[uint256.Int]

// NewWideInt builds a single-valued WideIntVS from a uint64, under g.
func NewWideInt(e *guard.Engine, g guard.Guard, v uint64) WideIntVS {
	return NewPrimitive(e, g, *uint256.NewInt(v))
}

// EmptyWideInt is the empty WideIntVS (universe = false).
func EmptyWideInt(e *guard.Engine) WideIntVS {
	return EmptyPrimitive[uint256.Int](e)
}

// WideIntLessThan returns the guard (subset of pc ∧ both universes) under
// which a < b, mirroring LessThanInt64 for the wide-integer domain.
func WideIntLessThan(a, b WideIntVS, pc guard.Guard) guard.Guard {
	e := a.Engine()
	lt := e.False()
	a.ForEach(func(ga guard.Guard, va uint256.Int) {
		b.ForEach(func(gb guard.Guard, vb uint256.Int) {
			if va.Cmp(&vb) < 0 {
				lt = e.Or(lt, e.And(pc, e.And(ga, gb)))
			}
		})
	})
	return lt
}

// WideIntAdd adds two WideIntVS entrywise under pc, the guarded-arithmetic
// counterpart to a program's `x + y` over a wide-integer field.
func WideIntAdd(a, b WideIntVS, pc guard.Guard) WideIntVS {
	e := a.Engine()
	out := EmptyWideInt(e)
	a.ForEach(func(ga guard.Guard, va uint256.Int) {
		b.ForEach(func(gb guard.Guard, vb uint256.Int) {
			g := e.And(pc, e.And(ga, gb))
			if g.IsFalse() {
				return
			}
			var sum uint256.Int
			sum.Add(&va, &vb)
			out = out.Merge(NewPrimitive(e, g, sum))
		})
	})
	return out
}
