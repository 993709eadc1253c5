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
	"strconv"

	"github.com/uztadh/P/internal/guard"
)

// ListVS is a guarded integer size plus an indexed sequence of elements.
// Element i is only meaningful under the guard that size > i; elems[i]
// itself is a full Any, i.e. it already folds together whatever value
// occupies slot i across every branch where that slot exists.
type ListVS struct {
	e     *guard.Engine
	size  PrimitiveVS[int64]
	elems []Any
}

// NewList builds an empty list under g (size = 0 under g).
func NewList(e *guard.Engine, g guard.Guard) ListVS {
	return ListVS{e: e, size: NewPrimitive(e, g, int64(0))}
}

func (l ListVS) Engine() *guard.Engine { return l.e }

func (l ListVS) Universe() guard.Guard { return l.size.Universe() }

func (l ListVS) IsEmptyVS() bool { return l.Universe().IsFalse() }

func (l ListVS) GuardedValues() []GuardedValue { return l.size.GuardedValues() }

func (l ListVS) canon() string {
	entries := make([]GuardedValue, 0, len(l.elems)+1)
	entries = append(entries, l.size.GuardedValues()...)
	for i, el := range l.elems {
		if el == nil || el.IsEmptyVS() {
			continue
		}
		entries = append(entries, GuardedValue{Guard: el.Universe(), Value: strconv.Itoa(i) + ":" + el.canon()})
	}
	return joinCanon("List", entries)
}

// Size returns the guarded length.
func (l ListVS) Size() PrimitiveVS[int64] { return l.size }

// inRangeGuard returns the guard under which size > i.
func (l ListVS) inRangeGuard(i int) guard.Guard {
	g := l.e.False()
	for _, en := range l.size.entries {
		if int(en.Value) > i {
			g = l.e.Or(g, en.Guard)
		}
	}
	return g
}

// Restrict conjoins every guard (size entries and element guards) with g.
func (l ListVS) Restrict(g guard.Guard) ListVS {
	out := ListVS{e: l.e, size: l.size.Restrict(g), elems: make([]Any, len(l.elems))}
	for i, el := range l.elems {
		if el != nil {
			out.elems[i] = restrictAny(el, g)
		}
	}
	return out
}

// Merge unions the receiver with others; like Restrict, disjointness across
// sources is the caller's responsibility (spec §4.2).
func (l ListVS) Merge(others ...ListVS) ListVS {
	out := ListVS{e: l.e, size: l.size.Merge()}
	maxLen := len(l.elems)
	for _, o := range others {
		if len(o.elems) > maxLen {
			maxLen = len(o.elems)
		}
	}
	out.elems = make([]Any, maxLen)
	copy(out.elems, l.elems)
	sizes := []PrimitiveVS[int64]{l.size}
	for _, o := range others {
		for i := 0; i < len(o.elems); i++ {
			out.elems[i] = mergeAnyUnchecked(out.elems[i], o.elems[i])
		}
		sizes = append(sizes, o.size)
	}
	out.size = l.size.Merge(tailSizes(sizes)...)
	return out
}

// tailSizes drops the head of a merged-size slice, which Merge's PrimitiveVS
// signature (receiver + variadic) wants for its "others" argument.
func tailSizes(sizes []PrimitiveVS[int64]) []PrimitiveVS[int64] {
	if len(sizes) <= 1 {
		return nil
	}
	return sizes[1:]
}

// UpdateUnderGuard is Restrict(¬g).Merge(u.Restrict(g)).
func (l ListVS) UpdateUnderGuard(g guard.Guard, u ListVS) ListVS {
	return l.Restrict(l.e.Not(g)).Merge(u.Restrict(g))
}

// Get implements List.get(indexVS): for each (g, i) in indexVS, take the
// element at i restricted to g, then merge. An out-of-range index under some
// guard yields an empty contribution for that guard (caller's responsibility
// to restrict first per spec §4.2).
func (l ListVS) Get(indexVS PrimitiveVS[int64]) Any {
	var acc Any
	indexVS.ForEach(func(g guard.Guard, i int64) {
		if i < 0 || int(i) >= len(l.elems) || l.elems[i] == nil {
			return
		}
		placed := restrictAny(l.elems[i], g)
		acc = mergeAnyUnchecked(acc, placed)
	})
	if acc == nil {
		return EmptyPrimitive[int64](l.e)
	}
	return acc
}

// Add appends x at the current size, under g. Differing size values across
// branches land x at different physical slots, each restricted to the branch
// guard; size is incremented only on the branches g actually applies to.
func (l ListVS) Add(g guard.Guard, x Any) ListVS {
	out := ListVS{e: l.e, elems: append([]Any{}, l.elems...)}
	var kept []pentry[int64]
	for _, en := range l.size.entries {
		sg := l.e.And(en.Guard, g)
		if !sg.IsFalse() {
			idx := int(en.Value)
			for len(out.elems) <= idx {
				out.elems = append(out.elems, nil)
			}
			out.elems[idx] = mergeAnyUnchecked(out.elems[idx], restrictAny(x, sg))
			kept = append(kept, pentry[int64]{Guard: sg, Value: en.Value + 1})
		}
		ng := l.e.And(en.Guard, l.e.Not(g))
		if !ng.IsFalse() {
			kept = append(kept, pentry[int64]{Guard: ng, Value: en.Value})
		}
	}
	out.size = PrimitiveVS[int64]{e: l.e, entries: kept}.Merge()
	return out
}

// RemoveAt removes the element at concrete index i under guard g, shifting
// later elements down by one and decrementing size wherever size > i.
func (l ListVS) RemoveAt(g guard.Guard, i int) ListVS {
	out := ListVS{e: l.e, elems: append([]Any{}, l.elems...)}
	rg := l.e.And(g, l.inRangeGuard(i))
	if !rg.IsFalse() && i < len(out.elems) {
		for j := i; j+1 < len(out.elems); j++ {
			shifted := restrictAny(out.elems[j+1], rg)
			kept := restrictAny(out.elems[j], l.e.Not(rg))
			out.elems[j] = mergeAnyUnchecked(kept, shifted)
		}
		if n := len(out.elems); n > 0 {
			out.elems[n-1] = restrictAny(out.elems[n-1], l.e.Not(rg))
		}
	}
	var kept []pentry[int64]
	for _, en := range l.size.entries {
		dg := l.e.And(en.Guard, rg)
		if !dg.IsFalse() {
			kept = append(kept, pentry[int64]{Guard: dg, Value: en.Value - 1})
		}
		sg := l.e.And(en.Guard, l.e.Not(rg))
		if !sg.IsFalse() {
			kept = append(kept, pentry[int64]{Guard: sg, Value: en.Value})
		}
	}
	out.size = PrimitiveVS[int64]{e: l.e, entries: kept}.Merge()
	return out
}

// InsertAt inserts x at concrete index i under guard g, shifting elements at
// or past i up by one and incrementing size wherever size >= i.
func (l ListVS) InsertAt(g guard.Guard, i int, x Any) ListVS {
	atLeastI := l.e.False()
	for _, en := range l.size.entries {
		if int(en.Value) >= i {
			atLeastI = l.e.Or(atLeastI, en.Guard)
		}
	}
	ig := l.e.And(g, atLeastI)

	n := len(l.elems) + 1
	out := ListVS{e: l.e, elems: make([]Any, n)}
	for j := n - 1; j > i; j-- {
		if j-1 < len(l.elems) {
			out.elems[j] = restrictAny(l.elems[j-1], ig)
		}
	}
	if i < len(l.elems) {
		out.elems[i] = mergeAnyUnchecked(out.elems[i], restrictAny(x, ig))
	} else if i == len(l.elems) {
		out.elems[i] = restrictAny(x, ig)
	}
	for j, el := range l.elems {
		if j < i && el != nil {
			out.elems[j] = mergeAnyUnchecked(out.elems[j], restrictAny(el, l.e.Not(ig)))
		} else if j >= i && el != nil {
			if j+1 < len(out.elems) {
				out.elems[j+1] = mergeAnyUnchecked(out.elems[j+1], restrictAny(el, l.e.Not(ig)))
			}
		}
	}

	var kept []pentry[int64]
	for _, en := range l.size.entries {
		bg := l.e.And(en.Guard, ig)
		if !bg.IsFalse() {
			kept = append(kept, pentry[int64]{Guard: bg, Value: en.Value + 1})
		}
		sg := l.e.And(en.Guard, l.e.Not(ig))
		if !sg.IsFalse() {
			kept = append(kept, pentry[int64]{Guard: sg, Value: en.Value})
		}
	}
	out.size = PrimitiveVS[int64]{e: l.e, entries: kept}.Merge()
	return out
}
