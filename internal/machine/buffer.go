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

package machine

import (
	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/vs"
)

// Buffer is a machine's pending-message store: a symbolic FIFO (Queue) or an
// unordered Bag, selected per-machine by common.BufferKind (spec §3.3). Both
// are represented the same way underneath — a vs.ListVS of vs.MessageVS —
// because the VS layer already carries the "element i exists under guard
// size > i" structure a real queue needs; Bag semantics only change how the
// scheduler is permitted to pick a head (any element, not just index 0).
type Buffer struct {
	Kind common.BufferKind
	list vs.ListVS
}

func NewBuffer(e *guard.Engine, g guard.Guard, kind common.BufferKind) *Buffer {
	return &Buffer{Kind: kind, list: vs.NewList(e, g)}
}

// Size is the guarded pending-message count.
func (b *Buffer) Size() vs.PrimitiveVS[int64] { return b.list.Size() }

// IsEmpty reports, per branch, whether the buffer has no pending message.
func (b *Buffer) IsEmpty(e *guard.Engine, g guard.Guard) guard.Guard {
	empty := e.False()
	b.list.Size().ForEach(func(sg guard.Guard, n int64) {
		if n == 0 {
			empty = e.Or(empty, sg)
		}
	})
	return e.And(empty, g)
}

// Enqueue appends msg under g. For a Bag, enqueue position is irrelevant to
// scheduling order, but ListVS still needs a slot, so Bag buffers also
// append — which indices the scheduler reads through At is what differs.
func (b *Buffer) Enqueue(g guard.Guard, msg vs.MessageVS) {
	b.list = b.list.Add(g, msg)
}

// Head returns the message at index 0 restricted to g: what a FIFO buffer
// dequeues next. Bag-kind buffers don't dequeue from the head — the
// scheduler's candidate computation (internal/scheduler) uses At below to
// consider every buffered index under common.BufferBag.
func (b *Buffer) Head(g guard.Guard) vs.MessageVS {
	return b.At(g, 0)
}

// At returns the message at index i restricted to g. A FIFO buffer only
// ever has its head (index 0) considered for scheduling; a Bag-kind buffer
// lets the scheduler pick any buffered index, since Bag semantics place no
// order on delivery.
func (b *Buffer) At(g guard.Guard, i int) vs.MessageVS {
	idx := vs.NewPrimitive(b.Engine(), g, int64(i))
	v := b.list.Get(idx)
	if mv, ok := v.(vs.MessageVS); ok {
		return mv
	}
	return vs.MessageVS{}
}

// Dequeue removes the message at index i (0 for FIFO head) under g, shifting
// subsequent entries down.
func (b *Buffer) Dequeue(g guard.Guard, i int) {
	b.list = b.list.RemoveAt(g, i)
}

func (b *Buffer) Engine() *guard.Engine { return b.list.Engine() }
