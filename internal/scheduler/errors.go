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
	"errors"
	"fmt"
)

// Result is the outcome of a completed search (spec §6.4, §7).
type Result string

const (
	ResultOK      Result = "ok"
	ResultBug     Result = "bug"
	ResultTimeout Result = "timeout"
	ResultMemout  Result = "memout"
)

// ExitCode maps a Result onto the test-harness exit code convention of
// spec §6.4: 0 ok, 2 everything else the engine can itself detect.
func (r Result) ExitCode() int {
	if r == ResultOK {
		return 0
	}
	return 2
}

// Sentinel error categories from spec §7. ErrBug wraps assertion and
// liveness failures; ErrModel wraps program-level errors (bad index,
// missing key, union type mismatch) that are reported as a bug rather than
// an engine fault; ErrInvariant is returned by Backtrack when backtracking
// is disabled or no frame was recorded at the requested depth. Merge does
// not check for overlapping guards and Announce does not check for a nil
// event, so neither of those raises ErrInvariant.
var (
	ErrBug       = errors.New("assertion failure")
	ErrTimeout   = errors.New("wall-clock limit exceeded")
	ErrMemout    = errors.New("memory limit exceeded")
	ErrInvariant = errors.New("scheduler invariant violated")
	ErrModel     = errors.New("program model error")
)

// AssertionError records a program assertion (including a liveness
// violation) together with the guard under which it held (spec §7).
type AssertionError struct {
	Message string
	Guard   fmt.Stringer
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s (under %s)", e.Message, e.Guard)
}

func (e *AssertionError) Unwrap() error { return ErrBug }

// ModelError records a program-level misuse (bad sequence/set/tuple index,
// map key-not-found, union payload type mismatch) — reported as a bug
// result, not an engine fault (spec §7).
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string { return fmt.Sprintf("model error in %s: %v", e.Op, e.Err) }
func (e *ModelError) Unwrap() error { return ErrModel }
