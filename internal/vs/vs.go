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

// Package vs implements Value Summaries: the guard-indexed disjunctions that
// represent every piece of symbolic program state (spec §3.2, §4.2).
//
// A Value Summary of some type T is a finite set of (guard, value) pairs with
// pairwise-disjoint guards; the "capability set" every variant implements —
// Restrict, Merge, UpdateUnderGuard, Universe, IsEmptyVS, GuardedValues — is
// a conceptual contract rather than a single Go interface, since
// Restrict/Merge are naturally typed per variant (a List's Merge takes and
// returns ListVS, not some covariant Any). SymbolicEquals exists on
// PrimitiveVS only; container elements are compared through canon(). Primitive
// VSs are therefore implemented with a generic type (static dispatch, the hot
// path per spec's design notes); containers hold their elements as the Any
// interface below (virtual dispatch), matching the "avoid deep inheritance, a
// shared trait/interface suffices" guidance for the non-hot cases.
package vs

import (
	"fmt"
	"sort"

	"github.com/uztadh/P/internal/guard"
)

// GuardedValue is one disjunct of a Value Summary: a value together with the
// guard under which it holds. Value is `any` because containers hold
// heterogeneous element types (an Any implementation, or a primitive
// comparable).
type GuardedValue struct {
	Guard guard.Guard
	Value any
}

// Any is satisfied by every VS variant. It exists so that containers (List,
// Set, Map, Tuple, Union, Message) can hold other VSs as elements without
// knowing their concrete type ahead of time. canon is unexported, which
// closes the interface to this package's own variants.
type Any interface {
	Universe() guard.Guard
	IsEmptyVS() bool
	GuardedValues() []GuardedValue
	canon() string
}

// valueCanon produces a stable string key for a single element value, used to
// decide whether two guarded values are "structurally equal" during Merge
// canonicalization (spec §4.2, law 3) and during SymbolicEquals. Composite
// values (anything implementing Any) delegate to their own canon(); scalars
// fall back to a type-qualified %v, which is exact for the comparable
// primitive types this engine ever stores (bool, int64, string, and the
// handle types in internal/common).
func valueCanon(v any) string {
	if a, ok := v.(Any); ok {
		return a.canon()
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// canonicalize groups entries by valueCanon, ORing the guards of any entries
// whose values are structurally equal, and drops false-guarded entries. The
// caller is responsible for ensuring the input guards were pairwise disjoint
// *within* each source VS (restrict(g) / restrict(¬g) is the idiom spec §4.2
// calls for); canonicalize itself makes that true across sources too, since
// two equal values occurring under disjoint guards are folded into one entry
// under their union.
func canonicalize(e *guard.Engine, entries []GuardedValue) []GuardedValue {
	order := make([]string, 0, len(entries))
	byKey := make(map[string]GuardedValue, len(entries))
	for _, gv := range entries {
		if gv.Guard.IsFalse() {
			continue
		}
		k := valueCanon(gv.Value)
		if prev, ok := byKey[k]; ok {
			prev.Guard = e.Or(prev.Guard, gv.Guard)
			byKey[k] = prev
		} else {
			byKey[k] = gv
			order = append(order, k)
		}
	}
	out := make([]GuardedValue, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}

// universeOf ORs together the guards of a set of entries.
func universeOf(e *guard.Engine, entries []GuardedValue) guard.Guard {
	u := e.False()
	for _, gv := range entries {
		u = e.Or(u, gv.Guard)
	}
	return u
}

// joinCanon builds a canon() body for a composite VS out of its entries: a
// type tag plus, per entry, the entry's guard id and its value's canon key.
// The per-entry parts are sorted, so two VSs that differ only by entry order
// but agree on every (guard, value) pair compare canon-equal.
func joinCanon(tag string, entries []GuardedValue) string {
	parts := make([]string, 0, len(entries)+1)
	parts = append(parts, tag)
	for _, gv := range entries {
		parts = append(parts, gv.Guard.String()+"="+valueCanon(gv.Value))
	}
	sort.Strings(parts[1:])
	out := tag
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}
