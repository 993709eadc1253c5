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

func TestListAddGetSize(t *testing.T) {
	e := guard.New()
	l := NewList(e, e.True())
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(10)))
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(20)))

	n, ok := l.Size().Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	v0 := l.Get(NewPrimitive(e, e.True(), int64(0)))
	p0, ok := v0.(PrimitiveVS[int64])
	assert.True(t, ok)
	got, ok := p0.Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(10), got)
}

// TestListBranchDependentSize exercises a list whose length differs across
// guarded branches, spec §4.2's core list-summary scenario.
func TestListBranchDependentSize(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	l := NewList(e, e.True())
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(1)))
	l = l.Add(v, NewPrimitive(e, v, int64(2)))

	sizeV, ok := l.Size().Get(v)
	assert.True(t, ok)
	assert.Equal(t, int64(2), sizeV)

	sizeNotV, ok := l.Size().Get(e.Not(v))
	assert.True(t, ok)
	assert.Equal(t, int64(1), sizeNotV)
}

func TestListRemoveAtShifts(t *testing.T) {
	e := guard.New()
	l := NewList(e, e.True())
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(1)))
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(2)))
	l = l.Add(e.True(), NewPrimitive(e, e.True(), int64(3)))

	l = l.RemoveAt(e.True(), 0)

	n, _ := l.Size().Get(e.True())
	assert.Equal(t, int64(2), n)

	v0 := l.Get(NewPrimitive(e, e.True(), int64(0))).(PrimitiveVS[int64])
	got, _ := v0.Get(e.True())
	assert.Equal(t, int64(2), got)
}

func TestSetContainsAndAddIsNoOpWhenPresent(t *testing.T) {
	e := guard.New()
	s := NewSet(e, e.True())
	x := NewPrimitive(e, e.True(), int64(1))
	s = s.Add(e.True(), x)

	containsTrue := TrueGuardOf(s.Contains(e.True(), x))
	assert.True(t, containsTrue.IsTrue())

	n, _ := s.Size().Get(e.True())
	s = s.Add(e.True(), x)
	n2, _ := s.Size().Get(e.True())
	assert.Equal(t, n, n2)
}

func TestMapPutGetContainsKey(t *testing.T) {
	e := guard.New()
	m := NewMap(e, e.True())
	key := NewPrimitive(e, e.True(), int64(1))
	val := NewPrimitive(e, e.True(), int64(100))

	m = m.Put(e.True(), key, val)

	containsTrue := TrueGuardOf(m.ContainsKey(e.True(), key))
	assert.True(t, containsTrue.IsTrue())

	got := m.Get(e.True(), key).(PrimitiveVS[int64])
	v, ok := got.Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(100), v)
}
