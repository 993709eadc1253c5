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

// MapVS is a pair of parallel ListVS (keys and values): key and value are
// separate VS-of-Any lists with matching indices (spec §3.2), rather than a
// native Go map, since keys are themselves guarded and a single physical Go
// map key cannot represent that.
type MapVS struct {
	keys ListVS
	vals ListVS
}

func NewMap(e *guard.Engine, g guard.Guard) MapVS {
	return MapVS{keys: NewList(e, g), vals: NewList(e, g)}
}

func (m MapVS) Engine() *guard.Engine { return m.keys.e }

func (m MapVS) Universe() guard.Guard { return m.keys.Universe() }

func (m MapVS) IsEmptyVS() bool { return m.keys.IsEmptyVS() }

func (m MapVS) GuardedValues() []GuardedValue { return m.keys.GuardedValues() }

func (m MapVS) canon() string { return "Map:" + m.keys.canon() + "=>" + m.vals.canon() }

func (m MapVS) Size() PrimitiveVS[int64] { return m.keys.size }

func (m MapVS) Restrict(g guard.Guard) MapVS {
	return MapVS{keys: m.keys.Restrict(g), vals: m.vals.Restrict(g)}
}

func (m MapVS) Merge(others ...MapVS) MapVS {
	ks := make([]ListVS, len(others))
	vsl := make([]ListVS, len(others))
	for i, o := range others {
		ks[i] = o.keys
		vsl[i] = o.vals
	}
	return MapVS{keys: m.keys.Merge(ks...), vals: m.vals.Merge(vsl...)}
}

func (m MapVS) UpdateUnderGuard(g guard.Guard, u MapVS) MapVS {
	return m.Restrict(m.keys.e.Not(g)).Merge(u.Restrict(g))
}

// ContainsKey returns true under exactly the guard (subset of pc) where k
// occurs as a key.
func (m MapVS) ContainsKey(pc guard.Guard, k Any) PrimitiveVS[bool] {
	e := m.keys.e
	trueG := e.False()
	for i, el := range m.keys.elems {
		if el == nil {
			continue
		}
		rg := e.And(m.keys.inRangeGuard(i), pc)
		if rg.IsFalse() {
			continue
		}
		eq := anyEquals(e, el, k, rg)
		for _, en := range eq.entries {
			if en.Value {
				trueG = e.Or(trueG, en.Guard)
			}
		}
	}
	return trueGuardAsVS(e, trueG, e.And(pc, e.And(m.keys.Universe(), k.Universe())))
}

// Get returns the value associated with k, merged over every branch where k
// is present as a key (absent branches contribute nothing, matching List.Get
// on an out-of-range index).
func (m MapVS) Get(pc guard.Guard, k Any) Any {
	e := m.keys.e
	var acc Any
	for i, el := range m.keys.elems {
		if el == nil || m.vals.elems[i] == nil {
			continue
		}
		rg := e.And(m.keys.inRangeGuard(i), pc)
		if rg.IsFalse() {
			continue
		}
		eq := anyEquals(e, el, k, rg)
		matchG := trueGuard(eq)
		if matchG.IsFalse() {
			continue
		}
		acc = mergeAnyUnchecked(acc, restrictAny(m.vals.elems[i], matchG))
	}
	if acc == nil {
		return EmptyPrimitive[int64](e)
	}
	return acc
}

// Put inserts or updates the binding k -> v under g: where k is already a
// key, the paired value slot is overwritten there; elsewhere under g, a new
// (k, v) pair is appended to both parallel lists.
func (m MapVS) Put(g guard.Guard, k, v Any) MapVS {
	e := m.keys.e
	hasKeyG := e.And(g, trueGuard(m.ContainsKey(g, k)))
	newKeys := m.keys
	newVals := m.vals
	newVals.elems = append([]Any{}, m.vals.elems...)
	if !hasKeyG.IsFalse() {
		for i, el := range newKeys.elems {
			if el == nil {
				continue
			}
			rg := e.And(newKeys.inRangeGuard(i), hasKeyG)
			if rg.IsFalse() {
				continue
			}
			eq := anyEquals(e, el, k, rg)
			matchG := trueGuard(eq)
			if matchG.IsFalse() {
				continue
			}
			newVals.elems[i] = mergeAnyUnchecked(restrictAny(newVals.elems[i], e.Not(matchG)), restrictAny(v, matchG))
		}
	}
	appendG := e.And(g, e.Not(hasKeyG))
	newKeys = newKeys.Add(appendG, k)
	newVals = newVals.Add(appendG, v)
	return MapVS{keys: newKeys, vals: newVals}
}

func trueGuardAsVS(e *guard.Engine, trueG, universe guard.Guard) PrimitiveVS[bool] {
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
