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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uztadh/P/internal/guard"
)

// TestRestrictTrueIsIdentity covers spec §8 law 1: Restrict(true) == self.
func TestRestrictTrueIsIdentity(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	p := NewPrimitive(e, v, int64(7))

	got := p.Restrict(e.True())
	assert.Equal(t, p.canon(), got.canon())
}

// TestRestrictFalseIsEmpty covers spec §8 law 2: Restrict(false) == empty.
func TestRestrictFalseIsEmpty(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	p := NewPrimitive(e, v, int64(7))

	got := p.Restrict(e.False())
	assert.True(t, got.IsEmptyVS())
}

// TestMergeCanonicalizesEqualValues covers spec §8 law 3: merging a value
// under disjoint guards that happen to coincide folds into one entry whose
// guard is the union.
func TestMergeCanonicalizesEqualValues(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	a := NewPrimitive(e, v, int64(42))
	b := NewPrimitive(e, e.Not(v), int64(42))

	merged := a.Merge(b)
	assert.Equal(t, 1, len(merged.GuardedValues()))
	assert.True(t, merged.Universe().IsTrue())
}

// TestUpdateUnderGuardLaw covers spec §8 law 4: UpdateUnderGuard(g, u) equals
// Restrict(¬g).Merge(u.Restrict(g)).
func TestUpdateUnderGuardLaw(t *testing.T) {
	e := guard.New()
	g := e.NewVar()
	orig := NewPrimitive(e, e.True(), int64(1))
	upd := NewPrimitive(e, e.True(), int64(2))

	got := orig.UpdateUnderGuard(g, upd)
	want := orig.Restrict(e.Not(g)).Merge(upd.Restrict(g))
	assert.Equal(t, want.canon(), got.canon())

	gv, ok := got.Get(g)
	assert.True(t, ok)
	assert.Equal(t, int64(2), gv)

	gv, ok = got.Get(e.Not(g))
	assert.True(t, ok)
	assert.Equal(t, int64(1), gv)
}

// TestSymbolicEqualsPartitionsUniverse covers spec §8 law 5: SymbolicEquals
// returns true/false guards that partition the intersected universe.
func TestSymbolicEqualsPartitionsUniverse(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	x := NewPrimitive(e, v, int64(1)).Merge(NewPrimitive(e, e.Not(v), int64(2)))
	y := NewPrimitive(e, e.True(), int64(1))

	eq := x.SymbolicEquals(y, e.True())
	trueG := TrueGuardOf(eq)
	falseG := FalseGuardOf(eq)

	assert.True(t, guard.Equal(trueG, v))
	assert.True(t, guard.Equal(falseG, e.Not(v)))
}

// TestMergeIsCommutativeUpToCanon covers spec §8 law 6.
func TestMergeIsCommutativeUpToCanon(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	a := NewPrimitive(e, v, int64(1))
	b := NewPrimitive(e, e.Not(v), int64(2))

	ab := a.Merge(b)
	ba := b.Merge(a)
	assert.Equal(t, ab.canon(), ba.canon())
}

// TestEmptyIsMergeIdentity covers spec §8 law 7: merging with the empty VS is
// a no-op.
func TestEmptyIsMergeIdentity(t *testing.T) {
	e := guard.New()
	p := NewPrimitive(e, e.True(), int64(5))
	empty := EmptyPrimitive[int64](e)

	got := p.Merge(empty)
	assert.Equal(t, p.canon(), got.canon())
}

func TestLessThanInt64(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	a := NewPrimitive(e, v, int64(1)).Merge(NewPrimitive(e, e.Not(v), int64(9)))
	b := NewPrimitive(e, e.True(), int64(5))

	lt := LessThanInt64(a, b, e.True())
	assert.True(t, guard.Equal(lt, v))
}
