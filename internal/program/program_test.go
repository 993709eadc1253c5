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

package program

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uztadh/P/internal/common"
	"github.com/uztadh/P/internal/guard"
	"github.com/uztadh/P/internal/machine"
	"github.com/uztadh/P/internal/vs"
)

type noopMonitor struct{ name string }

func (n *noopMonitor) Name() string { return n.name }
func (n *noopMonitor) ProcessEventToCompletion(g guard.Guard, event common.EventTag, payload vs.Any) error {
	return nil
}
func (n *noopMonitor) CurrentState() vs.PrimitiveVS[common.StateHandle] {
	return vs.PrimitiveVS[common.StateHandle]{}
}
func (n *noopMonitor) IsHot(state common.StateHandle) bool { return false }

func TestStaticProgramSatisfiesInterface(t *testing.T) {
	var _ Program = (*Static)(nil)

	mon := &noopMonitor{name: "M"}
	handle := common.MachineHandle{Class: "C", Index: 0}
	s := &Static{
		StartFn: func(e *guard.Engine, g guard.Guard) *machine.Machine {
			return machine.New(e, g, handle, common.BufferFIFO, 0, nil)
		},
		MonitorList:  []Monitor{mon},
		ListenersMap: map[common.EventTag][]Monitor{"tick": {mon}},
	}

	e := guard.New()
	m := s.Start(e, e.True())
	assert.Equal(t, handle, m.Handle)
	assert.Len(t, s.Monitors(), 1)
	assert.Equal(t, []Monitor{mon}, s.Listeners()["tick"])
}
