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

// Package common holds the small, dependency-free identifier types shared by
// every layer of the symbolic scheduler: boolean algebra, value summaries,
// machine runtime, and the scheduler itself.
package common

import "fmt"

// MachineHandle identifies a machine instance. Identity is (Class, Index);
// Index is taken from a per-class counter that scheduler.AllocateMachine
// bumps on every allocation, whatever the allocation guard; restoring a
// backtrack frame restores the counter too. A zero MachineHandle
// (Class == "") is the invalid/unset handle.
type MachineHandle struct {
	Class string
	Index uint64
}

// IsZero reports whether h is the unset handle.
func (h MachineHandle) IsZero() bool { return h.Class == "" }

// String implements fmt.Stringer.
func (h MachineHandle) String() string {
	return fmt.Sprintf("%s(%d)", h.Class, h.Index)
}

// EventTag identifies the kind of an event carried by a Message.
type EventTag string

// Well-known internal event tags recognised by the scheduler itself. Program
// authors are free to define additional tags.
const (
	EventCreateMachine EventTag = "$create"
	EventHalt          EventTag = "$halt"
	EventDefault       EventTag = "$default"
)

// StateHandle identifies a state within a machine's or monitor's state
// machine. Opaque outside of the owning program.
type StateHandle struct {
	Machine string
	Name    string
}

func (s StateHandle) String() string { return s.Machine + "." + s.Name }

// BufferKind selects the queueing discipline of a machine's event buffer.
type BufferKind uint8

const (
	// BufferFIFO delivers messages in the order they were sent (default).
	BufferFIFO BufferKind = iota
	// BufferBag delivers messages in an unspecified (scheduler-chosen) order.
	BufferBag
)
