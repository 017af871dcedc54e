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

// Package engine is the untyped evaluation kernel: Vertex, Cell, Graph
// and the process-global graph stack. It plays the role the teacher's
// internal/core/adt package plays for CUE's evaluator: the public,
// generically-typed surface (package traced, at the module root) is a
// thin facade over this package, the same way package cue is a facade
// over internal/core/adt and internal/core/runtime.
package engine

import (
	"fmt"
	"iter"

	tracederrors "github.com/tracedgraph/traced/errors"
)

// Graph is the evaluation context of spec §3/§4: a vertex table, an
// evaluation stack (current path from a root demand to the executing
// cell), and an optional parent for scenario nesting.
type Graph struct {
	ID     string
	parent *Graph
	vs     map[Key]*Vertex
	stack  []*Vertex

	Verbose bool
	onTrace func(format string, args ...any)
}

// NewGraph constructs an empty graph with no parent. Parentage is
// established lazily on first Enter, per the nesting rule in spec §4.1.
func NewGraph(id string) *Graph {
	return &Graph{ID: id, vs: map[Key]*Vertex{}}
}

// Parent returns the graph's parent, or nil for a root graph.
func (g *Graph) Parent() *Graph { return g.parent }

// trace emits a debug line if verbose tracing is enabled (spec §10.2).
func (g *Graph) trace(format string, args ...any) {
	if g.Verbose && g.onTrace != nil {
		g.onTrace(format, args...)
	}
}

// SetTracer installs the sink used by trace. Passing nil disables
// tracing output even if Verbose is set.
func (g *Graph) SetTracer(fn func(format string, args ...any)) {
	g.onTrace = fn
}

// find walks g and its ancestors for key, returning the vertex and the
// graph that owns it, or (nil, nil).
func (g *Graph) find(key Key) (*Vertex, *Graph) {
	for cur := g; cur != nil; cur = cur.parent {
		if v, ok := cur.vs[key]; ok {
			return v, cur
		}
	}
	return nil, nil
}

// resolve implements the mode-dependent vertex resolution of spec §4.1.
func (g *Graph) resolve(key Key, tr any, c *Cell, mode Mode) *Vertex {
	switch mode {
	case ModeTrace:
		v, _ := g.find(key)
		return v

	case ModeGet:
		if v, _ := g.find(key); v != nil {
			g.onRead(v)
			return v
		}
		v := newVertex(key, tr, c)
		g.vs[key] = v
		g.onRead(v)
		return v

	case ModeSet:
		if v, owner := g.find(key); owner == g {
			return v
		}
		v := newVertex(key, tr, c)
		g.vs[key] = v
		return v

	case ModeDel:
		v, owner := g.find(key)
		if owner == g || owner == nil {
			return v
		}
		if v.IsOverridden() {
			fresh := newVertex(key, tr, c)
			g.vs[key] = fresh
			return fresh
		}
		return v

	default:
		panic(fmt.Sprintf("engine: unknown resolve mode %d", mode))
	}
}

// Resolve is the exported form of resolve, used by the public facade.
func (g *Graph) Resolve(key Key, tr any, c *Cell, mode Mode) *Vertex {
	return g.resolve(key, tr, c, mode)
}

// top returns the innermost currently-evaluating vertex, or nil.
func (g *Graph) top() *Vertex {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1]
}

// reenter re-pushes v onto g's evaluation stack for the duration of a
// deferred call/iteration step (spec §4.3), returning a pop function.
// Re-entering the same vertex identity is legal here: the loop check in
// Invoke only fires for re-entrant *evaluation*, not for this scoped
// stack push used purely for dependency attribution.
func (g *Graph) reenter(v *Vertex) func() {
	g.stack = append(g.stack, v)
	return func() {
		g.stack = g.stack[:len(g.stack)-1]
	}
}

// onRead is called whenever resolve(... ModeGet) is used by nested
// evaluation code; it attributes the read to whatever vertex is
// currently on top of the stack, per spec §4.2's dependency registration
// rule.
func (g *Graph) onRead(w *Vertex) {
	parent := g.top()
	if parent == nil || parent == w {
		return
	}
	parent.addDependency(w.Key)
}

// owns reports whether v is the vertex g itself holds for v.Key, as
// opposed to one inherited by read-through from an ancestor (spec §4.1's
// find walking past g).
func (g *Graph) owns(v *Vertex) bool {
	cur, ok := g.vs[v.Key]
	return ok && cur == v
}

// fork materializes a fresh, graph-local vertex for an inherited key.
// Invoke calls this before recomputing a vertex it doesn't own, so that
// recomputing a dependency read through from a parent graph (legal under
// ModeGet's find) never mutates the parent's copy: nested-graph overrides
// stay isolated to the graph that introduced them, per spec §4.1.
func (g *Graph) fork(v *Vertex) *Vertex {
	nv := newVertex(v.Key, v.Traceable, v.Cell)
	g.vs[v.Key] = nv
	return nv
}

// Invoke evaluates v to completion if dirty, or returns its cached value,
// per spec §4.2. It is the single entry point a cell's call-syntax goes
// through.
func (g *Graph) Invoke(v *Vertex, eval func(self any) (any, error)) (any, error) {
	for _, frame := range g.stack {
		if frame == v {
			chain := g.chainNames(v)
			v.undefine()
			return nil, tracederrors.NewLoopError(chain)
		}
	}

	if !g.dirty(v, map[*Vertex]bool{}) {
		g.trace("engine: vertex %v cache hit", v.Key)
		return v.Value(), nil
	}

	if !g.owns(v) {
		v = g.fork(v)
	}

	g.stack = append(g.stack, v)
	defer func() {
		g.stack = g.stack[:len(g.stack)-1]
	}()

	v.touch()
	v.dependencyKeys = nil

	raw, err := eval(v.Traceable)
	if err != nil {
		g.trace("engine: vertex %v evaluation error: %v", v.Key, err)
		v.undefine()
		return nil, err
	}

	wrapped := g.wrapDeferred(raw, v)
	if v.deferred != nil {
		v.deferred.close()
	}
	if dw, ok := wrapped.(deferredWrapper); ok {
		v.deferred = dw
	} else {
		v.deferred = nil
	}

	v.evaluated = v.touched
	v.hasLastKnown = true
	v.lastKnown = wrapped
	changed, old := v.assign(wrapped)
	g.notifyIfChanged(v, changed, old, v.value)
	return v.Value(), nil
}

// wrapDeferred applies the §4.3 wrapping rules: a DeferredFunc becomes a
// *DeferredCall, an iter.Seq[any] becomes a *DeferredSeq, anything else
// passes through unchanged.
func (g *Graph) wrapDeferred(raw any, owner *Vertex) any {
	switch fn := raw.(type) {
	case DeferredFunc:
		return wrapCall(fn, owner, g)
	case func(args ...any) (any, error):
		return wrapCall(DeferredFunc(fn), owner, g)
	case iter.Seq[any]:
		return wrapSeq(fn, owner, g)
	default:
		return raw
	}
}

// dirty implements the staleness rule of spec §4.2, with visited used to
// guard against a pathological dependency cycle that wasn't caught by
// the evaluation-stack loop check (e.g. stale dependency keys surviving
// a structural edit).
func (g *Graph) dirty(v *Vertex, visited map[*Vertex]bool) bool {
	if v.IsOverridden() {
		return false
	}
	if !v.evaluated.Valid() {
		return true
	}
	if visited[v] {
		return false
	}
	visited[v] = true

	definedAt := v.definedAt()
	for k := range v.dependencyKeys {
		w := g.resolve(k, nil, nil, ModeTrace)
		if w == nil {
			return true
		}
		if g.newer(w, definedAt, visited) {
			return true
		}
	}
	return false
}

// newer implements "W is newer than V" from spec §4.2.
func (g *Graph) newer(w *Vertex, vDefinedAt Timestamp, visited map[*Vertex]bool) bool {
	if g.dirty(w, visited) {
		return true
	}
	return vDefinedAt.Before(w.touched)
}

// Override implements spec §4.2's Override operation. It is illegal
// while any evaluation is in progress on g.
func (g *Graph) Override(key Key, tr any, c *Cell, value any) (*Vertex, error) {
	if len(g.stack) > 0 {
		offending := g.top()
		return nil, tracederrors.NewDependencyError(
			"cannot override a cell during another cell's evaluation",
			g.vertexLabel(offending), labelFor(tr, c),
		)
	}
	v := g.resolve(key, tr, c, ModeSet)
	v.overridden = tick()
	v.touched = v.overridden
	changed, old := v.assign(value)
	g.notifyIfChanged(v, changed, old, v.value)
	return v, nil
}

// RemoveOverride implements spec §4.2's Remove-override operation: it
// never notifies, because last_known may itself be stale.
func (g *Graph) RemoveOverride(key Key, tr any, c *Cell) *Vertex {
	v := g.resolve(key, tr, c, ModeDel)
	if v == nil || !v.IsOverridden() {
		return v
	}
	v.overridden = 0
	v.touch()
	v.value = v.lastKnown
	return v
}

func (g *Graph) notifyIfChanged(v *Vertex, changed bool, old, newVal any) {
	if !changed {
		return
	}
	ev := Event{Traceable: v.Traceable, CellName: v.Cell.Name, New: newVal, Old: old}
	Broadcast(ev, v.Notifier(), v.Cell.Notifier(), traceableNotifier(v.Traceable))
}

// traceableNotifier looks up the instance-level notifier on tr, if it
// implements notifierHolder. Kept as a free function so engine doesn't
// need to know the concrete Traceable type from the public facade.
func traceableNotifier(tr any) *Notifier {
	if nh, ok := tr.(interface{ TracedNotifier() *Notifier }); ok {
		return nh.TracedNotifier()
	}
	return nil
}

func labelFor(tr any, c *Cell) string {
	if c == nil {
		return "?"
	}
	if s, ok := tr.(fmt.Stringer); ok {
		return fmt.Sprintf("%s.%s", s.String(), c.Name)
	}
	return fmt.Sprintf("%T.%s", tr, c.Name)
}

func (g *Graph) vertexLabel(v *Vertex) string {
	if v == nil {
		return "?"
	}
	return labelFor(v.Traceable, v.Cell)
}

// chainNames renders the evaluation stack plus the re-entered vertex as
// "a.X -> b.Y -> a.X" for LoopError, per SPEC_FULL §12.5.
func (g *Graph) chainNames(reentered *Vertex) []string {
	chain := make([]string, 0, len(g.stack)+1)
	for _, f := range g.stack {
		chain = append(chain, g.vertexLabel(f))
	}
	chain = append(chain, g.vertexLabel(reentered))
	return chain
}

// VertexInfo is a read-only snapshot of one vertex, used by Snapshot
// (SPEC_FULL §12.3) for debugging and the tracedctl CLI.
type VertexInfo struct {
	Key        Key
	Name       string
	Value      any
	Overridden bool
	Defined    bool
	Touched    Timestamp
}

// Snapshot returns the current graph's own vertex table (not ancestors),
// for diagnostics.
func (g *Graph) Snapshot() []VertexInfo {
	out := make([]VertexInfo, 0, len(g.vs))
	for k, v := range g.vs {
		out = append(out, VertexInfo{
			Key:        k,
			Name:       v.Cell.Name,
			Value:      v.Value(),
			Overridden: v.IsOverridden(),
			Defined:    v.IsDefined(),
			Touched:    v.Touched(),
		})
	}
	return out
}
