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

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
)

func TestTupleUniverseIsConjunctionOfComponents(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	a := NewPrimitive(e, v, int64(1))
	b := NewPrimitive(e, e.True(), int64(2))

	tup := NewTuple(e, a, b)
	assert.True(t, guard.Equal(tup.Universe(), v))

	got0 := tup.Get(0).(PrimitiveVS[int64])
	n0, ok := got0.Get(v)
	assert.True(t, ok)
	assert.Equal(t, int64(1), n0)
}

func TestTupleRestrictAndMerge(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	tup := NewTuple(e, NewPrimitive(e, e.True(), int64(1)), NewPrimitive(e, e.True(), "x"))

	restricted := tup.Restrict(v)
	assert.True(t, guard.Equal(restricted.Universe(), v))

	other := NewTuple(e, NewPrimitive(e, e.Not(v), int64(9)), NewPrimitive(e, e.Not(v), "y"))
	merged := restricted.Merge(other)
	assert.True(t, merged.Universe().IsTrue())
}

func TestUnionTagAndPayload(t *testing.T) {
	e := guard.New()
	payload := NewPrimitive(e, e.True(), int64(42))
	u := NewUnion(e, e.True(), "ok", payload)

	assert.Equal(t, "ok", u.payloadTagForTest())
	got := u.Payload("ok").(PrimitiveVS[int64])
	n, ok := got.Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)
}

func TestUnionMergeKeepsBothTagsUnderDisjointGuards(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	okPayload := NewPrimitive(e, v, int64(1))
	errPayload := NewPrimitive(e, e.Not(v), "bad")

	a := NewUnion(e, v, "ok", okPayload)
	b := NewUnion(e, e.Not(v), "err", errPayload)

	merged := a.Merge(b)
	assert.True(t, merged.Universe().IsTrue())
	assert.NotNil(t, merged.Payload("ok"))
	assert.NotNil(t, merged.Payload("err"))
}

func TestMessageEventTargetPayload(t *testing.T) {
	e := guard.New()
	target := common.MachineHandle{Class: "T", Index: 0}
	payload := NewPrimitive(e, e.True(), int64(7))
	clock := NewVectorClock(e, e.True())

	msg := NewMessage(e, e.True(), common.EventTag("ping"), target, payload, clock)

	ev, ok := msg.Event().Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, common.EventTag("ping"), ev)

	tg, ok := msg.Target().Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, target, tg)

	p := msg.Payload().(PrimitiveVS[int64])
	n, ok := p.Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
}

func TestMessageRestrictNarrowsUniverse(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	target := common.MachineHandle{Class: "T", Index: 0}
	clock := NewVectorClock(e, e.True())
	msg := NewMessage(e, e.True(), common.EventTag("tick"), target, nil, clock)

	restricted := msg.Restrict(v)
	assert.True(t, guard.Equal(restricted.Universe(), v))
}

func TestVectorClockIncrementAndAt(t *testing.T) {
	e := guard.New()
	handle := common.MachineHandle{Class: "A", Index: 0}
	clock := NewVectorClock(e, e.True())

	zero, ok := clock.At(e.True(), handle).Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(0), zero)

	clock = clock.Increment(e.True(), handle)
	one, ok := clock.At(e.True(), handle).Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(1), one)

	clock = clock.Increment(e.True(), handle)
	two, ok := clock.At(e.True(), handle).Get(e.True())
	assert.True(t, ok)
	assert.Equal(t, int64(2), two)
}

func TestVectorClockIncrementIsBranchLocal(t *testing.T) {
	e := guard.New()
	v := e.NewVar()
	handle := common.MachineHandle{Class: "A", Index: 0}
	clock := NewVectorClock(e, e.True())
	clock = clock.Increment(v, handle)

	onBranch, ok := clock.At(v, handle).Get(v)
	assert.True(t, ok)
	assert.Equal(t, int64(1), onBranch)

	offBranch, ok := clock.At(e.Not(v), handle).Get(e.Not(v))
	assert.True(t, ok)
	assert.Equal(t, int64(0), offBranch)
}

// payloadTagForTest exposes the single tag of a union built with exactly one
// NewUnion call, for assertions above; UnionVS itself has no single-tag
// accessor since a merged union may carry several.
func (u UnionVS) payloadTagForTest() string {
	tag, _ := u.tag.Get(u.e.True())
	return tag
}
