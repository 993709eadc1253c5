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

// SetVS is a ListVS with the no-duplicates invariant maintained by Add:
// adding a value already present under a given guard is a no-op there.
type SetVS struct {
	list ListVS
}

func NewSet(e *guard.Engine, g guard.Guard) SetVS { return SetVS{list: NewList(e, g)} }

func (s SetVS) Engine() *guard.Engine { return s.list.e }

func (s SetVS) Universe() guard.Guard { return s.list.Universe() }

func (s SetVS) IsEmptyVS() bool { return s.list.IsEmptyVS() }

func (s SetVS) GuardedValues() []GuardedValue { return s.list.GuardedValues() }

func (s SetVS) canon() string { return "Set:" + s.list.canon() }

func (s SetVS) Size() PrimitiveVS[int64] { return s.list.size }

func (s SetVS) Restrict(g guard.Guard) SetVS { return SetVS{list: s.list.Restrict(g)} }

func (s SetVS) Merge(others ...SetVS) SetVS {
	lists := make([]ListVS, len(others))
	for i, o := range others {
		lists[i] = o.list
	}
	return SetVS{list: s.list.Merge(lists...)}
}

func (s SetVS) UpdateUnderGuard(g guard.Guard, u SetVS) SetVS {
	return s.Restrict(s.list.e.Not(g)).Merge(u.Restrict(g))
}

// Contains returns true under exactly the guard (subset of pc) where x
// occurs somewhere in the set.
func (s SetVS) Contains(pc guard.Guard, x Any) PrimitiveVS[bool] {
	e := s.list.e
	trueG := e.False()
	for i, el := range s.list.elems {
		if el == nil {
			continue
		}
		rg := e.And(s.list.inRangeGuard(i), pc)
		if rg.IsFalse() {
			continue
		}
		eq := anyEquals(e, el, x, rg)
		for _, en := range eq.entries {
			if en.Value {
				trueG = e.Or(trueG, en.Guard)
			}
		}
	}
	universe := e.And(pc, e.And(s.list.Universe(), x.Universe()))
	out := EmptyPrimitive[bool](e)
	falseG := e.And(universe, e.Not(trueG))
	if !trueG.IsFalse() {
		out.entries = append(out.entries, pentry[bool]{Guard: trueG, Value: true})
	}
	if !falseG.IsFalse() {
		out.entries = append(out.entries, pentry[bool]{Guard: falseG, Value: false})
	}
	return out
}

// Add inserts x under g, restricted to the branches where x is not already a
// member (the no-duplicates invariant).
func (s SetVS) Add(g guard.Guard, x Any) SetVS {
	e := s.list.e
	notThere := e.Not(trueGuard(s.Contains(g, x)))
	addGuard := e.And(g, notThere)
	return SetVS{list: s.list.Add(addGuard, x)}
}
