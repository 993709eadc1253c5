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

// Package program declares the program-under-test contract the scheduler
// consumes (spec §6.1). The source-language parser/code-generator that
// would produce a concrete Program is explicitly out of scope (spec §1);
// this package is only the interface boundary and one trivial in-memory
// implementation (Static) useful for tests and the CLI's demo mode.
package program

import (
	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/vs"
)

// Monitor observes events announced by the scheduler (monitors never own a
// send buffer or receive targeted messages directly; they are driven purely
// by the Listeners map and by announce, spec §6.2).
type Monitor interface {
	// Name identifies the monitor for liveness-failure reporting.
	Name() string
	// ProcessEventToCompletion delivers an announced event under g.
	ProcessEventToCompletion(g guard.Guard, event common.EventTag, payload vs.Any) error
	// CurrentState enumerates the monitor's guarded control state; IsHot
	// reports whether a given state is hot (spec §4.7).
	CurrentState() vs.PrimitiveVS[common.StateHandle]
	IsHot(state common.StateHandle) bool
}

// Program is the top-level description the scheduler drives (spec §6.1).
type Program interface {
	// Start allocates and returns the main entry machine under g.
	Start(e *guard.Engine, g guard.Guard) *machine.Machine
	Monitors() []Monitor
	// Listeners maps each event tag to the monitors that should be
	// notified when a message carrying that tag is delivered.
	Listeners() map[common.EventTag][]Monitor
}

// Static is a Program built from a fixed list of monitors and a start
// constructor, sufficient for unit tests and the CLI's demo program; a real
// source-language front end would implement Program directly instead.
type Static struct {
	StartFn      func(e *guard.Engine, g guard.Guard) *machine.Machine
	MonitorList  []Monitor
	ListenersMap map[common.EventTag][]Monitor
}

func (s *Static) Start(e *guard.Engine, g guard.Guard) *machine.Machine { return s.StartFn(e, g) }
func (s *Static) Monitors() []Monitor                                   { return s.MonitorList }
func (s *Static) Listeners() map[common.EventTag][]Monitor              { return s.ListenersMap }
