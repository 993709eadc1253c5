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

import "github.com/uztadh/P/internal/guard"

// TupleVS is a fixed-arity product of Anys. Unlike List/Set/Map, arity is
// part of the type's shape, not a symbolic quantity: every branch of a given
// TupleVS has the same number of components.
type TupleVS struct {
	e     *guard.Engine
	elems []Any
}

func NewTuple(e *guard.Engine, elems ...Any) TupleVS {
	return TupleVS{e: e, elems: elems}
}

func (t TupleVS) Engine() *guard.Engine { return t.e }

// Universe is the conjunction of every component's universe: the tuple as a
// whole only exists where all of its components do.
func (t TupleVS) Universe() guard.Guard {
	u := t.e.True()
	for _, el := range t.elems {
		if el == nil {
			return t.e.False()
		}
		u = t.e.And(u, el.Universe())
	}
	return u
}

func (t TupleVS) IsEmptyVS() bool { return t.Universe().IsFalse() }

func (t TupleVS) GuardedValues() []GuardedValue {
	if len(t.elems) == 0 || t.elems[0] == nil {
		return nil
	}
	return t.elems[0].GuardedValues()
}

func (t TupleVS) canon() string {
	out := "Tuple"
	for _, el := range t.elems {
		if el == nil {
			out += "|_"
			continue
		}
		out += "|" + el.canon()
	}
	return out
}

func (t TupleVS) Arity() int { return len(t.elems) }

func (t TupleVS) Get(i int) Any { return t.elems[i] }

func (t TupleVS) Restrict(g guard.Guard) TupleVS {
	out := TupleVS{e: t.e, elems: make([]Any, len(t.elems))}
	for i, el := range t.elems {
		out.elems[i] = restrictAny(el, g)
	}
	return out
}

func (t TupleVS) Merge(others ...TupleVS) TupleVS {
	out := TupleVS{e: t.e, elems: append([]Any{}, t.elems...)}
	for _, o := range others {
		for i := range out.elems {
			if i < len(o.elems) {
				out.elems[i] = mergeAnyUnchecked(out.elems[i], o.elems[i])
			}
		}
	}
	return out
}

func (t TupleVS) UpdateUnderGuard(g guard.Guard, u TupleVS) TupleVS {
	return t.Restrict(t.e.Not(g)).Merge(u.Restrict(g))
}
