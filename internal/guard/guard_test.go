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

package guard

import "testing"

func TestTerminals(t *testing.T) {
	e := New()
	if !e.True().IsTrue() {
		t.Fatal("True() is not true")
	}
	if !e.False().IsFalse() {
		t.Fatal("False() is not false")
	}
	if e.IsSat(e.False()) {
		t.Fatal("False() reported satisfiable")
	}
	if !e.IsSat(e.True()) {
		t.Fatal("True() reported unsatisfiable")
	}
}

func TestVarAndNot(t *testing.T) {
	e := New()
	v := e.NewVar()
	nv := e.Not(v)

	if !Equal(e.And(v, nv), e.False()) {
		t.Fatal("v AND !v should be false")
	}
	if !Equal(e.Or(v, nv), e.True()) {
		t.Fatal("v OR !v should be true")
	}
	if !Equal(e.Not(nv), v) {
		t.Fatal("double negation should be identity (hash-consed)")
	}
}

func TestAndOrCommuteAndShareNodes(t *testing.T) {
	e := New()
	a := e.NewVar()
	b := e.NewVar()

	ab1 := e.And(a, b)
	ab2 := e.And(b, a)
	if !Equal(ab1, ab2) {
		t.Fatal("AND should be commutative under hash-consing")
	}

	orTrue := e.Or(a, e.Not(a))
	if !orTrue.IsTrue() {
		t.Fatal("a OR !a should be the constant-true node")
	}
}

func TestDistinctEnginesNeverEqual(t *testing.T) {
	e1 := New()
	e2 := New()
	v1 := e1.NewVar()
	v2 := e2.NewVar()
	if Equal(v1, v2) {
		t.Fatal("guards from different engines must never compare equal")
	}
}

func TestCountersIncrementPerCall(t *testing.T) {
	e := New()
	a := e.NewVar()
	b := e.NewVar()

	e.And(a, b)
	e.And(a, b) // cache hit, still counts
	e.Or(a, b)
	e.Not(a)
	e.IsSat(a)

	and, or, not, isSat := e.Counts()
	if and != 2 {
		t.Fatalf("and count = %d, want 2", and)
	}
	if or != 1 {
		t.Fatalf("or count = %d, want 1", or)
	}
	if not != 1 {
		t.Fatalf("not count = %d, want 1", not)
	}
	if isSat != 1 {
		t.Fatalf("isSat count = %d, want 1", isSat)
	}
}
