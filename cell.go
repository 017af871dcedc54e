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

package traced

import (
	"fmt"
	"iter"

	tracederrors "github.com/tracedgraph/traced/errors"
	"github.com/tracedgraph/traced/internal/core/engine"
)

// Cell[T] is a declarative attribute descriptor (spec §3). It is
// immutable after construction and compares by identity, never by name.
// Declare one as a package-level var per attribute:
//
//	var Output = traced.NewCell[int]("Output", func(self *Counter) (int, error) {
//		in, err := traced.Value(self, Input)
//		return in + 1, err
//	})
type Cell[T any] struct {
	core *engine.Cell
}

// cellCore satisfies untypedCell so a *Cell[T] can go in a CellSet
// alongside cells of other element types.
func (c *Cell[T]) cellCore() *engine.Cell { return c.core }

// Name returns the cell's declared name.
func (c *Cell[T]) Name() string { return c.core.Name }

// Notifier returns the cell-level (class-level) notifier: subscribing
// here observes changes to this cell across every traceable instance.
func (c *Cell[T]) Notifier() *engine.Notifier { return c.core.Notifier() }

// NewCell declares a computed cell: expr is evaluated over the owning
// traceable whenever the cell is dirty (spec §4.2). A cell's expression
// may not itself be another *Cell[T] (spec §4.6) — because Go is
// statically typed, passing a Cell value where a func is expected is
// already a compile error, so that definition-time check is enforced by
// the type system rather than at runtime.
func NewCell[T any, S Traceable](name string, expr func(self S) (T, error)) *Cell[T] {
	return &Cell[T]{core: &engine.Cell{
		ID:   engine.NextID(),
		Name: name,
		Eval: func(self any) (any, error) {
			return expr(self.(S))
		},
	}}
}

// NewConstCell declares a cell whose expression is a fixed default value
// rather than a function over the instance (spec §3: "a non-callable
// default value").
func NewConstCell[T any](name string, value T) *Cell[T] {
	return &Cell[T]{core: &engine.Cell{
		ID:    engine.NextID(),
		Name:  name,
		Const: value,
	}}
}

func keyFor(tr Traceable, c untypedCell) engine.Key {
	return engine.Key{Traceable: tr.TracedID(), Cell: c.cellCore().ID}
}

// Vertex is the typed read-access handle for a cell on a traceable (spec
// §4.6: "read access returns the vertex"). Call Value to obtain the
// current value, evaluating if dirty.
type Vertex[T any] struct {
	core *engine.Vertex
	g    *Graph
}

// Get resolves the vertex for (current graph, tr, c), creating it if
// necessary and searching ancestors (spec §4.1 ModeGet).
func Get[T any](tr Traceable, c *Cell[T]) (*Vertex[T], error) {
	g, err := Current()
	if err != nil {
		return nil, err
	}
	v := g.core.Resolve(keyFor(tr, c), tr, c.core, engine.ModeGet)
	return &Vertex[T]{core: v, g: g}, nil
}

// Value returns the vertex's current value, evaluating the owning cell
// if it is dirty. If the cell's expression returns an engine.DeferredFunc
// or an iter.Seq[any] (spec §4.3), Value transparently returns the
// re-entrant wrapper instead of the raw function/sequence, so a caller
// invoking or ranging over it gets dependency attribution for free.
func (v *Vertex[T]) Value() (T, error) {
	var zero T
	raw, err := v.g.core.Invoke(v.core, func(self any) (any, error) {
		return evalRaw[T](v.core.Cell, self)
	})
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	t, ok := adapt[T](raw)
	if !ok {
		return zero, tracederrors.NewDefinitionError(
			fmt.Sprintf("cell %q produced a %T, which is not assignable to %T", v.core.Cell.Name, raw, zero),
			v.core.Cell.Name,
		)
	}
	return t, nil
}

// adapt reconciles the engine's untyped deferred wrappers with the
// static type T a caller asked for.
func adapt[T any](raw any) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case engine.DeferredFunc:
		if dc, ok := raw.(*engine.DeferredCall); ok {
			fn := engine.DeferredFunc(dc.Call)
			if t, ok := any(fn).(T); ok {
				return t, true
			}
		}
	case iter.Seq[any]:
		if ds, ok := raw.(*engine.DeferredSeq); ok {
			if t, ok := any(ds.Seq()).(T); ok {
				return t, true
			}
		}
	}
	t, ok := raw.(T)
	return t, ok
}

// Notifier returns the vertex-level notifier: subscribing here observes
// only this (traceable, cell) instance.
func (v *Vertex[T]) Notifier() *engine.Notifier { return v.core.Notifier() }

// DependencyKeys returns the keys read during this vertex's last
// evaluation.
func (v *Vertex[T]) DependencyKeys() []engine.Key { return v.core.DependencyKeys() }

func evalRaw[T any](c *engine.Cell, self any) (any, error) {
	if !c.IsCallable() {
		return c.Const, nil
	}
	return c.Eval(self)
}

// Value is shorthand for Get(tr, c) followed by (*Vertex[T]).Value: spec
// §6's instance.V() call syntax.
func Value[T any](tr Traceable, c *Cell[T]) (T, error) {
	var zero T
	v, err := Get(tr, c)
	if err != nil {
		return zero, err
	}
	return v.Value()
}

// Override implements spec §6's instance.V = value and §4.2's Override
// operation: legal only when the evaluation stack is empty.
func Override[T any](tr Traceable, c *Cell[T], value T) error {
	g, err := Current()
	if err != nil {
		return err
	}
	_, err = g.core.Override(keyFor(tr, c), tr, c.core, value)
	return err
}

// ClearOverride implements spec §6's del instance.V and §4.2's
// Remove-override operation. It is a no-op if no override exists
// anywhere in the graph chain.
func ClearOverride[T any](tr Traceable, c *Cell[T]) error {
	g, err := Current()
	if err != nil {
		return err
	}
	g.core.RemoveOverride(keyFor(tr, c), tr, c.core)
	return nil
}
