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

// Package guard implements the opaque boolean algebra that the rest of the
// engine uses as path conditions ("guards"). It is a reduced, ordered,
// hash-consed binary decision diagram (ROBDD): every distinct boolean
// function over the allocated variables is represented by exactly one node,
// so Guard equality is a pointer/id compare rather than a structural one.
//
// Two engines may coexist in a process (e.g. one per concurrently-running
// search); each owns its own node table and is safe for use by a single
// goroutine at a time, matching the single-threaded-per-run contract of the
// scheduler (see internal/scheduler).
package guard

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rcrowley/go-metrics"
)

// nodeID indexes into an Engine's node table. 0 and 1 are the reserved
// terminal nodes (false and true, respectively).
type nodeID int32

const (
	falseID nodeID = 0
	trueID  nodeID = 1
)

// Guard is an opaque handle into a boolean algebra. Guards from different
// Engines must never be mixed; doing so is a programming error and will
// produce nonsensical (if not panicking) results.
//
// Guards are reference-shared: copying a Guard value never copies the
// underlying BDD node, and equality between two Guards produced by the same
// Engine is exact (g1 == g2 iff they denote the same boolean function).
type Guard struct {
	e  *Engine
	id nodeID
}

// Engine returns the algebra that produced g.
func (g Guard) Engine() *Engine { return g.e }

// node is a single BDD vertex: branch on variable `v`; the false-edge leads
// to `lo`, the true-edge to `hi`. Terminal nodes use v == varSentinel.
type node struct {
	v      int32
	lo, hi nodeID
}

const varSentinel = -1

// applyKey is the memoization key for the binary apply operator (and/or).
type applyKey struct {
	op     uint8
	a, b   nodeID
}

const (
	opAnd uint8 = iota
	opOr
)

// Engine owns a single hash-consed node table: the unique table guarantees
// structural sharing (two requests for the same (var, lo, hi) triple return
// the same nodeID), and the apply cache memoizes recursive and/or/not calls.
//
// Statistics counters mirror the contract in spec §4.1: every call to
// And/Or/Not/IsSat increments its counter exactly once, regardless of cache
// hits, since the caller made the call.
type Engine struct {
	nodes   []node
	unique  map[node]nodeID
	applyLU *lru.Cache // applyKey -> nodeID
	notLU   *lru.Cache // nodeID -> nodeID
	nextVar int32

	stats Stats
}

// New creates an Engine with its terminal nodes pre-populated.
func New() *Engine {
	applyLU, err := lru.New(1 << 16)
	if err != nil {
		panic(err)
	}
	notLU, err := lru.New(1 << 14)
	if err != nil {
		panic(err)
	}
	e := &Engine{
		nodes:   make([]node, 2, 1024),
		unique:  make(map[node]nodeID, 1024),
		applyLU: applyLU,
		notLU:   notLU,
	}
	e.nodes[falseID] = node{v: varSentinel, lo: falseID, hi: falseID}
	e.nodes[trueID] = node{v: varSentinel, lo: trueID, hi: trueID}
	e.stats = Stats{
		and:   metrics.NewCounter(),
		or:    metrics.NewCounter(),
		not:   metrics.NewCounter(),
		isSat: metrics.NewCounter(),
	}
	return e
}

func (e *Engine) mk(v int32, lo, hi nodeID) nodeID {
	if lo == hi {
		return lo
	}
	key := node{v: v, lo: lo, hi: hi}
	if id, ok := e.unique[key]; ok {
		return id
	}
	id := nodeID(len(e.nodes))
	e.nodes = append(e.nodes, key)
	e.unique[key] = id
	return id
}

// True returns the constant-true guard.
func (e *Engine) True() Guard { return Guard{e, trueID} }

// False returns the constant-false guard.
func (e *Engine) False() Guard { return Guard{e, falseID} }

// NewVar allocates a fresh boolean variable, independent of every previously
// allocated one, and returns the guard under which it is true. The caller
// typically uses g and e.Not(g) as the two branches of a nondeterministic
// choice (see scheduler.Scheduler.NextBool).
func (e *Engine) NewVar() Guard {
	v := e.nextVar
	e.nextVar++
	id := e.mk(v, falseID, trueID)
	return Guard{e, id}
}

func (e *Engine) checkSame(a, b Guard) {
	if a.e != b.e {
		panic("guard: mixing guards from different engines")
	}
}

// And returns a AND b.
func (e *Engine) And(a, b Guard) Guard {
	e.stats.and.Inc(1)
	e.checkSame(a, b)
	return Guard{e, e.applyAnd(a.id, b.id)}
}

// Or returns a OR b.
func (e *Engine) Or(a, b Guard) Guard {
	e.stats.or.Inc(1)
	e.checkSame(a, b)
	return Guard{e, e.applyOr(a.id, b.id)}
}

// Not returns the negation of a.
func (e *Engine) Not(a Guard) Guard {
	e.stats.not.Inc(1)
	return Guard{e, e.applyNot(a.id)}
}

// IsTrue reports whether g is exactly the constant-true function.
func (g Guard) IsTrue() bool { return g.id == trueID }

// IsFalse reports whether g is exactly the constant-false function.
func (g Guard) IsFalse() bool { return g.id == falseID }

// IsSat reports whether some assignment of the underlying variables makes g
// true. For a reduced BDD this is exact and equivalent to !IsFalse.
func (e *Engine) IsSat(g Guard) bool {
	e.stats.isSat.Inc(1)
	return g.id != falseID
}

// Equal reports whether a and b denote the same boolean function. Because
// the node table is hash-consed this is a constant-time id compare.
func Equal(a, b Guard) bool {
	return a.e == b.e && a.id == b.id
}

func (e *Engine) applyAnd(a, b nodeID) nodeID {
	if a == falseID || b == falseID {
		return falseID
	}
	if a == trueID {
		return b
	}
	if b == trueID {
		return a
	}
	if a == b {
		return a
	}
	if a > b {
		a, b = b, a
	}
	key := applyKey{opAnd, a, b}
	if v, ok := e.applyLU.Get(key); ok {
		return v.(nodeID)
	}
	na, nb := e.nodes[a], e.nodes[b]
	var v int32
	var loA, hiA, loB, hiB nodeID
	switch {
	case na.v == nb.v:
		v, loA, hiA, loB, hiB = na.v, na.lo, na.hi, nb.lo, nb.hi
	case na.v < nb.v:
		v, loA, hiA, loB, hiB = na.v, na.lo, na.hi, b, b
	default:
		v, loA, hiA, loB, hiB = nb.v, a, a, nb.lo, nb.hi
	}
	lo := e.applyAnd(loA, loB)
	hi := e.applyAnd(hiA, hiB)
	id := e.mk(v, lo, hi)
	e.applyLU.Add(key, id)
	return id
}

func (e *Engine) applyOr(a, b nodeID) nodeID {
	if a == trueID || b == trueID {
		return trueID
	}
	if a == falseID {
		return b
	}
	if b == falseID {
		return a
	}
	if a == b {
		return a
	}
	if a > b {
		a, b = b, a
	}
	key := applyKey{opOr, a, b}
	if v, ok := e.applyLU.Get(key); ok {
		return v.(nodeID)
	}
	na, nb := e.nodes[a], e.nodes[b]
	var v int32
	var loA, hiA, loB, hiB nodeID
	switch {
	case na.v == nb.v:
		v, loA, hiA, loB, hiB = na.v, na.lo, na.hi, nb.lo, nb.hi
	case na.v < nb.v:
		v, loA, hiA, loB, hiB = na.v, na.lo, na.hi, b, b
	default:
		v, loA, hiA, loB, hiB = nb.v, a, a, nb.lo, nb.hi
	}
	lo := e.applyOr(loA, loB)
	hi := e.applyOr(hiA, hiB)
	id := e.mk(v, lo, hi)
	e.applyLU.Add(key, id)
	return id
}

func (e *Engine) applyNot(a nodeID) nodeID {
	if a == trueID {
		return falseID
	}
	if a == falseID {
		return trueID
	}
	if v, ok := e.notLU.Get(a); ok {
		return v.(nodeID)
	}
	n := e.nodes[a]
	lo := e.applyNot(n.lo)
	hi := e.applyNot(n.hi)
	id := e.mk(n.v, lo, hi)
	e.notLU.Add(a, id)
	return id
}

// String renders a Guard for debugging; it is not a canonical form.
func (g Guard) String() string {
	switch {
	case g.IsTrue():
		return "true"
	case g.IsFalse():
		return "false"
	default:
		return fmt.Sprintf("g#%d", g.id)
	}
}
