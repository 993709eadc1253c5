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

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/vs"
)

func newTestCandidate(e *guard.Engine, g guard.Guard, from, to common.MachineHandle, seq int64) Candidate {
	m := machine.New(e, g, from, common.BufferFIFO, 0, nil)
	clock := vs.NewVectorClock(e, g)
	msg := vs.NewMessage(e, g, common.EventDefault, to, nil, clock)
	return Candidate{Machine: m, Guard: g, Head: msg, SeqNum: seq}
}

// TestReceiverQueueOrderPrefersEarlierSeqNum covers spec §4.6: among two
// candidates targeting the same machine, the one that entered the queue
// earlier orders before the other.
func TestReceiverQueueOrderPrefersEarlierSeqNum(t *testing.T) {
	e := guard.New()
	target := common.MachineHandle{Class: "T", Index: 0}
	a := newTestCandidate(e, e.True(), common.MachineHandle{Class: "A", Index: 0}, target, 1)
	b := newTestCandidate(e, e.True(), common.MachineHandle{Class: "B", Index: 0}, target, 2)

	o := ReceiverQueueOrder{}
	lt := o.LessThan(e, e.True(), a, b)
	assert.True(t, lt.IsTrue())

	ltRev := o.LessThan(e, e.True(), b, a)
	assert.True(t, ltRev.IsFalse())
}

// TestReceiverQueueOrderIgnoresDifferentTargets covers the "only orders
// same-target candidates" half of spec §4.6.
func TestReceiverQueueOrderIgnoresDifferentTargets(t *testing.T) {
	e := guard.New()
	a := newTestCandidate(e, e.True(), common.MachineHandle{Class: "A", Index: 0}, common.MachineHandle{Class: "T1", Index: 0}, 1)
	b := newTestCandidate(e, e.True(), common.MachineHandle{Class: "B", Index: 0}, common.MachineHandle{Class: "T2", Index: 0}, 2)

	o := ReceiverQueueOrder{}
	assert.True(t, o.LessThan(e, e.True(), a, b).IsFalse())
}

// TestInterleaveOrderIdentityWhenUnconfigured covers spec §9 Open Question
// (b): with no Forbidden pairs, the interleave filter is a no-op.
func TestInterleaveOrderIdentityWhenUnconfigured(t *testing.T) {
	e := guard.New()
	a := newTestCandidate(e, e.True(), common.MachineHandle{Class: "A", Index: 0}, common.MachineHandle{Class: "T", Index: 0}, 1)
	b := newTestCandidate(e, e.True(), common.MachineHandle{Class: "B", Index: 0}, common.MachineHandle{Class: "T", Index: 0}, 2)

	o := InterleaveOrder{}
	assert.True(t, o.LessThan(e, e.True(), a, b).IsFalse())
}

func TestApplyOrderFilterDropsLaterCandidate(t *testing.T) {
	e := guard.New()
	target := common.MachineHandle{Class: "T", Index: 0}
	a := newTestCandidate(e, e.True(), common.MachineHandle{Class: "A", Index: 0}, target, 1)
	b := newTestCandidate(e, e.True(), common.MachineHandle{Class: "B", Index: 0}, target, 2)

	kept := applyOrderFilter(e, []Candidate{a, b}, ReceiverQueueOrder{}, e.True())
	assert.Len(t, kept, 1)
	assert.Equal(t, a.Machine.Handle, kept[0].Machine.Handle)
}
