// Copyright 2025 Traced Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import "iter"

// deferredWrapper is implemented by both wrapper kinds so a vertex can
// close whichever one it held without a type switch, per spec §4.3
// ("adopt-and-close prior wrappers when re-evaluation produces a new
// one").
type deferredWrapper interface {
	close()
}

// DeferredFunc is the shape a cell expression returns when it wants later
// invocations attributed back to the owning vertex (spec §4.3). It
// stands in for Python's "any callable": Go's static typing means the
// engine cannot wrap an arbitrary func signature transparently, so
// expressions that want deferred attribution return a DeferredFunc
// explicitly rather than a bare closure.
type DeferredFunc func(args ...any) (any, error)

// DeferredCall wraps a DeferredFunc so that invoking it re-enters the
// owning vertex's evaluation scope for the duration of the call: nested
// cell reads during Call are attributed to owner, not whatever vertex
// happens to be on top of the stack at call time.
type DeferredCall struct {
	inner  DeferredFunc
	owner  *Vertex
	graph  *Graph
	closed bool
}

// wrapCall builds a DeferredCall for fn, owned by owner on g.
func wrapCall(fn DeferredFunc, owner *Vertex, g *Graph) *DeferredCall {
	return &DeferredCall{inner: fn, owner: owner, graph: g}
}

// Call invokes the wrapped function with owner re-pushed onto the
// graph's evaluation stack, per spec §4.3.
func (d *DeferredCall) Call(args ...any) (any, error) {
	if d.closed {
		return nil, nil
	}
	pop := d.graph.reenter(d.owner)
	defer pop()
	return d.inner(args...)
}

func (d *DeferredCall) close() { d.closed = true }

// DeferredSeq wraps a lazy iter.Seq so each pull re-enters the owning
// vertex's evaluation scope for the duration of that pull, mirroring
// DeferredCall for the generator case in spec §4.3. iter.Seq is Go's
// standard-library idiom for a lazy, pull-based sequence (the functional
// equivalent of a Python generator), so no third-party iterator
// abstraction is wired here: see DESIGN.md.
type DeferredSeq struct {
	inner  iter.Seq[any]
	owner  *Vertex
	graph  *Graph
	closed bool
}

func wrapSeq(s iter.Seq[any], owner *Vertex, g *Graph) *DeferredSeq {
	return &DeferredSeq{inner: s, owner: owner, graph: g}
}

// Seq returns an iter.Seq that re-enters the owner's evaluation scope for
// the duration of each advance of the underlying generator, and stops
// immediately once the wrapper has been closed (spec §4.3: "closing the
// sequence marks the wrapper as inert so that subsequent advances... do
// not push V").
//
// d.inner is pulled rather than ranged over directly so that the push/pop
// window brackets next() — the generator's own per-advance computation,
// which may itself read other cells — and not yield(v), which is the
// hand-off to the external consumer and must run outside any vertex's
// evaluation scope. DeferredCall.Call observes the same split: it pushes
// around the call to the wrapped function's body, never around whatever
// the caller does with the result.
func (d *DeferredSeq) Seq() iter.Seq[any] {
	return func(yield func(any) bool) {
		if d.closed {
			return
		}
		next, stop := iter.Pull(d.inner)
		defer stop()
		for {
			if d.closed {
				return
			}
			pop := d.graph.reenter(d.owner)
			v, ok := next()
			pop()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Close marks the sequence inert. Outstanding iteration over a previous
// call to Seq() will stop advancing, per the open question noted in spec
// §9: closing invalidates any iteration a consumer still holds.
func (d *DeferredSeq) Close() { d.closed = true }

func (d *DeferredSeq) close() { d.closed = true }
