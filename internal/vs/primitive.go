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
	"github.com/uztadh/P/internal/guard"
)

// pentry is one (guard, value) pair of a PrimitiveVS.
type pentry[T comparable] struct {
	Guard guard.Guard
	Value T
}

// PrimitiveVS is a guarded disjunction of concrete scalars: booleans,
// integers, strings, machine handles, event tags, or state handles. It is
// generic (rather than boxed through the Any interface) because primitives
// are the hottest path in the engine — every nondet choice and every
// equality check bottoms out here — and spec's design notes call for static
// dispatch on the hot path.
type PrimitiveVS[T comparable] struct {
	e       *guard.Engine
	entries []pentry[T]
}

// NewPrimitive builds a single-valued VS, or the empty VS if g is false.
func NewPrimitive[T comparable](e *guard.Engine, g guard.Guard, v T) PrimitiveVS[T] {
	p := PrimitiveVS[T]{e: e}
	if !g.IsFalse() {
		p.entries = append(p.entries, pentry[T]{Guard: g, Value: v})
	}
	return p
}

// EmptyPrimitive builds the empty VS (universe = false).
func EmptyPrimitive[T comparable](e *guard.Engine) PrimitiveVS[T] {
	return PrimitiveVS[T]{e: e}
}

// Engine returns the boolean algebra this VS's guards belong to.
func (p PrimitiveVS[T]) Engine() *guard.Engine { return p.e }

// Universe returns the disjunction of every entry's guard.
func (p PrimitiveVS[T]) Universe() guard.Guard {
	return universeOf(p.e, p.genericEntries())
}

// IsEmptyVS reports whether the universe is false.
func (p PrimitiveVS[T]) IsEmptyVS() bool { return p.Universe().IsFalse() }

func (p PrimitiveVS[T]) genericEntries() []GuardedValue {
	out := make([]GuardedValue, len(p.entries))
	for i, en := range p.entries {
		out[i] = GuardedValue{Guard: en.Guard, Value: en.Value}
	}
	return out
}

// GuardedValues enumerates the (guard, value) pairs. Iteration order is the
// order entries were appended (construction or Merge/Restrict order); tests
// that need a fixed order should sort explicitly.
func (p PrimitiveVS[T]) GuardedValues() []GuardedValue { return p.genericEntries() }

func (p PrimitiveVS[T]) canon() string { return joinCanon("Prim", p.genericEntries()) }

// Restrict conjoins every entry's guard with g, dropping entries that become
// false. Restrict(true) is the identity and Restrict is idempotent under
// re-application of an implied guard (spec §4.2 law 1, 2).
func (p PrimitiveVS[T]) Restrict(g guard.Guard) PrimitiveVS[T] {
	if g.IsTrue() {
		return p
	}
	out := PrimitiveVS[T]{e: p.e}
	for _, en := range p.entries {
		ng := p.e.And(en.Guard, g)
		if !ng.IsFalse() {
			out.entries = append(out.entries, pentry[T]{Guard: ng, Value: en.Value})
		}
	}
	return out
}

// Merge unions the receiver with others, canonicalizing entries whose values
// coincide. Overlapping guards across disjoint-looking values are the
// caller's bug (spec §4.2): Restrict(g)/Restrict(¬g) is the required idiom
// to avoid it, so Merge does not itself re-check disjointness.
func (p PrimitiveVS[T]) Merge(others ...PrimitiveVS[T]) PrimitiveVS[T] {
	all := append([]GuardedValue{}, p.genericEntries()...)
	for _, o := range others {
		all = append(all, o.genericEntries()...)
	}
	canon := canonicalize(p.e, all)
	out := PrimitiveVS[T]{e: p.e, entries: make([]pentry[T], len(canon))}
	for i, gv := range canon {
		out.entries[i] = pentry[T]{Guard: gv.Guard, Value: gv.Value.(T)}
	}
	return out
}

// UpdateUnderGuard is self.Restrict(¬g).Merge(u.Restrict(g)) (spec §4.2 law
// 4): everywhere g holds, adopt u's value; everywhere it doesn't, keep self.
func (p PrimitiveVS[T]) UpdateUnderGuard(g guard.Guard, u PrimitiveVS[T]) PrimitiveVS[T] {
	return p.Restrict(p.e.Not(g)).Merge(u.Restrict(g))
}

// SymbolicEquals returns true under exactly the guard (subset of pc ∧
// self.universe ∧ other.universe) where the two scalars are equal, and false
// elsewhere in the intersected universe.
func (p PrimitiveVS[T]) SymbolicEquals(other PrimitiveVS[T], pc guard.Guard) PrimitiveVS[bool] {
	universe := p.e.And(pc, p.e.And(p.Universe(), other.Universe()))
	trueG := p.e.False()
	for _, a := range p.entries {
		for _, b := range other.entries {
			if a.Value == b.Value {
				g := p.e.And(p.e.And(a.Guard, b.Guard), universe)
				trueG = p.e.Or(trueG, g)
			}
		}
	}
	falseG := p.e.And(universe, p.e.Not(trueG))
	out := EmptyPrimitive[bool](p.e)
	if !trueG.IsFalse() {
		out.entries = append(out.entries, pentry[bool]{Guard: trueG, Value: true})
	}
	if !falseG.IsFalse() {
		out.entries = append(out.entries, pentry[bool]{Guard: falseG, Value: false})
	}
	return out
}

// Get returns the concrete value that holds under g, assuming g entails
// exactly one entry's guard (the scheduler only calls this after a nondet
// choice has already pinned the universe down to a single disjunct).
func (p PrimitiveVS[T]) Get(g guard.Guard) (T, bool) {
	for _, en := range p.entries {
		if !p.e.And(en.Guard, g).IsFalse() {
			return en.Value, true
		}
	}
	var zero T
	return zero, false
}

// ForEach calls f once per (guard, value) entry.
func (p PrimitiveVS[T]) ForEach(f func(g guard.Guard, v T)) {
	for _, en := range p.entries {
		f(en.Guard, en.Value)
	}
}

// trueGuard ORs together the guards of every entry whose value is true. It is
// a free function rather than a PrimitiveVS[bool] method because Go generics
// cannot specialize a method to a single instantiation of T.
func trueGuard(p PrimitiveVS[bool]) guard.Guard {
	g := p.e.False()
	for _, en := range p.entries {
		if en.Value {
			g = p.e.Or(g, en.Guard)
		}
	}
	return g
}

// LessThanInt64 returns the guard (subset of pc ∧ both universes) under
// which a < b. It exists alongside SymbolicEquals because the scheduler's
// Bag-buffer candidate enumeration (internal/scheduler/step.go) needs an
// ordering relation, not just equality, over guarded integers (an index
// below the buffer's size).
func LessThanInt64(a, b PrimitiveVS[int64], pc guard.Guard) guard.Guard {
	e := a.e
	lt := e.False()
	for _, ea := range a.entries {
		for _, eb := range b.entries {
			if ea.Value < eb.Value {
				lt = e.Or(lt, e.And(pc, e.And(ea.Guard, eb.Guard)))
			}
		}
	}
	return lt
}

// falseGuard is trueGuard's complement.
func falseGuard(p PrimitiveVS[bool]) guard.Guard {
	g := p.e.False()
	for _, en := range p.entries {
		if !en.Value {
			g = p.e.Or(g, en.Guard)
		}
	}
	return g
}

// TrueGuardOf is trueGuard exported for callers outside this package (e.g.
// internal/scheduler's message orders, which need "the guard under which
// this boolean VS holds true" without exposing PrimitiveVS's entries).
func TrueGuardOf(p PrimitiveVS[bool]) guard.Guard { return trueGuard(p) }

// FalseGuardOf is falseGuard exported likewise.
func FalseGuardOf(p PrimitiveVS[bool]) guard.Guard { return falseGuard(p) }
