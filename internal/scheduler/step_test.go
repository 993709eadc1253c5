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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/config"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/obslog"
	"github.com/uztadh/P/internal/program"
	"github.com/uztadh/P/internal/vs"
)

// TestSleepSetPrunesPreviouslyDroppedSender covers spec §4.4 step h end to
// end: a sender dropped by the receiver-queue order at one depth is slept
// for the next, so even once the order filter alone would no longer drop
// it, the sleep-set filter (3h) still does.
func TestSleepSetPrunesPreviouslyDroppedSender(t *testing.T) {
	e := guard.New()
	cfg := config.Default()
	cfg.UseReceiverQueueSemantics = true
	cfg.UseSleepSets = true
	prog := &program.Static{ListenersMap: map[common.EventTag][]program.Monitor{}}
	sched := New(e, prog, cfg, obslog.New(nil, "error"))

	target := common.MachineHandle{Class: "T", Index: 0}
	aHandle := common.MachineHandle{Class: "A", Index: 0}
	bHandle := common.MachineHandle{Class: "B", Index: 0}

	mA := machine.New(e, e.True(), aHandle, common.BufferFIFO, 0, nil)
	mB := machine.New(e, e.True(), bHandle, common.BufferFIFO, 0, nil)
	clock := vs.NewVectorClock(e, e.True())
	mA.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("x"), target, nil, clock))
	mB.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("x"), target, nil, clock))

	sched.machines = []*machine.Machine{mA, mB}
	sched.byHandle[aHandle] = mA
	sched.byHandle[bHandle] = mB
	sched.nextSeq[aHandle] = 0
	sched.nextSeq[bHandle] = 1

	// First pass: both target the same machine, A entered the queue first
	// (lower SeqNum), so the receiver-queue order drops B in favor of A.
	cands, kind, _ := sched.candidateSenders(e.True())
	assert.Equal(t, stepGeneral, kind)
	assert.Len(t, cands, 1)
	assert.Equal(t, aHandle, cands[0].Machine.Handle)

	bKey := fmt.Sprintf("%s@%d", bHandle.String(), sched.nextSeq[bHandle])
	assert.True(t, sched.Schedule.SleptAt(sched.depth+1, bKey))

	// Advance to the depth the sleep entry was recorded for, and disable the
	// receiver-queue order so it can no longer explain dropping B on its
	// own: only the sleep-set filter can still exclude it.
	sched.depth++
	sched.receiverOrder = nil

	before := sched.Stats.Snapshot().SleptSenders
	cands2, _, _ := sched.candidateSenders(e.True())
	for _, c := range cands2 {
		assert.NotEqual(t, bHandle, c.Machine.Handle)
	}
	assert.Equal(t, before+1, sched.Stats.Snapshot().SleptSenders)
}

// TestCandidateSendersBagSemanticsEnumeratesEveryIndex covers spec §3.3's
// Bag buffer under UseBagSemantics: every buffered message is a distinct
// candidate, not just the head, since a Bag places no order on delivery.
func TestCandidateSendersBagSemanticsEnumeratesEveryIndex(t *testing.T) {
	e := guard.New()
	cfg := config.Default()
	cfg.UseBagSemantics = true
	prog := &program.Static{ListenersMap: map[common.EventTag][]program.Monitor{}}
	sched := New(e, prog, cfg, obslog.New(nil, "error"))

	target := common.MachineHandle{Class: "T", Index: 0}
	bagHandle := common.MachineHandle{Class: "Bag", Index: 0}
	mBag := machine.New(e, e.True(), bagHandle, common.BufferBag, 0, nil)
	clock := vs.NewVectorClock(e, e.True())
	mBag.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("x"), target, nil, clock))
	mBag.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("y"), target, nil, clock))
	mBag.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("z"), target, nil, clock))

	sched.machines = []*machine.Machine{mBag}
	sched.byHandle[bagHandle] = mBag
	sched.nextSeq[bagHandle] = 0

	cands, kind, _ := sched.candidateSenders(e.True())
	assert.Equal(t, stepGeneral, kind)
	assert.Len(t, cands, 3)

	seen := map[common.EventTag]bool{}
	for _, c := range cands {
		ev, ok := c.Head.Event().Get(c.Guard)
		assert.True(t, ok)
		seen[ev] = true
	}
	assert.True(t, seen[common.EventTag("x")])
	assert.True(t, seen[common.EventTag("y")])
	assert.True(t, seen[common.EventTag("z")])
}

// TestCandidateSendersFIFOIgnoresBagSemanticsFlag confirms UseBagSemantics
// only changes behavior for a BufferBag-kind machine: a FIFO machine still
// contributes only its head as a candidate.
func TestCandidateSendersFIFOIgnoresBagSemanticsFlag(t *testing.T) {
	e := guard.New()
	cfg := config.Default()
	cfg.UseBagSemantics = true
	prog := &program.Static{ListenersMap: map[common.EventTag][]program.Monitor{}}
	sched := New(e, prog, cfg, obslog.New(nil, "error"))

	target := common.MachineHandle{Class: "T", Index: 0}
	fifoHandle := common.MachineHandle{Class: "Fifo", Index: 0}
	mFifo := machine.New(e, e.True(), fifoHandle, common.BufferFIFO, 0, nil)
	clock := vs.NewVectorClock(e, e.True())
	mFifo.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("x"), target, nil, clock))
	mFifo.Buffer.Enqueue(e.True(), vs.NewMessage(e, e.True(), common.EventTag("y"), target, nil, clock))

	sched.machines = []*machine.Machine{mFifo}
	sched.byHandle[fifoHandle] = mFifo
	sched.nextSeq[fifoHandle] = 0

	cands, _, _ := sched.candidateSenders(e.True())
	assert.Len(t, cands, 1)
	ev, ok := cands[0].Head.Event().Get(cands[0].Guard)
	assert.True(t, ok)
	assert.Equal(t, common.EventTag("x"), ev)
}
