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

// UnionVS is a tagged sum: a guarded tag string plus, per tag, a payload
// Any valid under the guard where that tag holds.
type UnionVS struct {
	e       *guard.Engine
	tag     PrimitiveVS[string]
	payload map[string]Any
}

func NewUnion(e *guard.Engine, g guard.Guard, tag string, payload Any) UnionVS {
	u := UnionVS{e: e, tag: NewPrimitive(e, g, tag), payload: map[string]Any{}}
	if !g.IsFalse() {
		u.payload[tag] = restrictAny(payload, g)
	}
	return u
}

func (u UnionVS) Engine() *guard.Engine { return u.e }

func (u UnionVS) Universe() guard.Guard { return u.tag.Universe() }

func (u UnionVS) IsEmptyVS() bool { return u.Universe().IsFalse() }

func (u UnionVS) GuardedValues() []GuardedValue { return u.tag.GuardedValues() }

func (u UnionVS) canon() string {
	s := "Union"
	for _, gv := range u.tag.GuardedValues() {
		tag := gv.Value.(string)
		s += "|" + gv.Guard.String() + "=" + tag
		if p, ok := u.payload[tag]; ok && p != nil {
			s += ":" + p.canon()
		}
	}
	return s
}

// Tag returns the guarded tag discriminator.
func (u UnionVS) Tag() PrimitiveVS[string] { return u.tag }

// Payload returns the Any stored for tag, or nil if tag was never set.
func (u UnionVS) Payload(tag string) Any { return u.payload[tag] }

func (u UnionVS) Restrict(g guard.Guard) UnionVS {
	out := UnionVS{e: u.e, tag: u.tag.Restrict(g), payload: map[string]Any{}}
	for tag, p := range u.payload {
		if p != nil {
			out.payload[tag] = restrictAny(p, g)
		}
	}
	return out
}

func (u UnionVS) Merge(others ...UnionVS) UnionVS {
	out := UnionVS{e: u.e, payload: map[string]Any{}}
	for tag, p := range u.payload {
		out.payload[tag] = p
	}
	tags := []PrimitiveVS[string]{u.tag}
	for _, o := range others {
		for tag, p := range o.payload {
			out.payload[tag] = mergeAnyUnchecked(out.payload[tag], p)
		}
		tags = append(tags, o.tag)
	}
	out.tag = u.tag.Merge(tags[1:]...)
	return out
}

func (u UnionVS) UpdateUnderGuard(g guard.Guard, v UnionVS) UnionVS {
	return u.Restrict(u.e.Not(g)).Merge(v.Restrict(g))
}
