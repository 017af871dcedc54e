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

	tracederrors "github.com/tracedgraph/traced/errors"
	"github.com/tracedgraph/traced/internal/core/engine"
)

// CellSet is the registry a traceable type exposes via its Cells method.
// Go has no class body to attach descriptors to, so spec §3's "class-level
// descriptors" are realized here as an explicit, constructed-once
// registry, per the
// design note in spec §9: "a single entry point... rather than
// overloaded attribute access."
type CellSet struct {
	byName map[string]untypedCell
}

type untypedCell interface {
	cellCore() *engine.Cell
}

// NewCellSet builds a registry from the given cells. It panics if two
// cells share a name, a definition-time mistake a traceable type's author
// makes once, at package init, not at runtime per instance. A cell whose
// expression is itself a cell is not checked here: NewCell's signature
// already rejects that at compile time.
func NewCellSet(cells ...untypedCell) *CellSet {
	cs := &CellSet{byName: make(map[string]untypedCell, len(cells))}
	for _, c := range cells {
		name := c.cellCore().Name
		if _, dup := cs.byName[name]; dup {
			panic(fmt.Sprintf("traced: duplicate cell name %q in CellSet", name))
		}
		cs.byName[name] = c
	}
	return cs
}

func (cs *CellSet) lookup(name string) (untypedCell, bool) {
	c, ok := cs.byName[name]
	return c, ok
}

// traceableInternal is the unexported half of Traceable. Because it is
// unexported, only types in this package (i.e. Base via embedding) can
// satisfy it, which is what makes New's PT type parameter safe: any type
// that type-checks as Traceable must embed Base and therefore has no
// room for a user-defined constructor to run before bind is called.
type traceableInternal interface {
	bind(id uint64, g *Graph)
	TracedID() uint64
	TracedNotifier() *engine.Notifier
}

// Traceable is implemented by every user-defined object composed of
// cells. Embed Base to satisfy it, and implement Cells to register the
// type's cell descriptors.
type Traceable interface {
	traceableInternal
	Cells() *CellSet
}

// Base is embedded by every traceable type. It carries the identity and
// home-graph binding spec §3 requires ("each instance is bound at
// construction to the then-current graph"), and the instance-level
// notifier used by subscribe/unsubscribe at the traceable level (spec
// §4.5/§6).
type Base struct {
	id     uint64
	home   *Graph
	notify engine.Notifier
}

func (b *Base) bind(id uint64, g *Graph) {
	b.id = id
	b.home = g
}

// TracedID returns the traceable's process-wide unique identity,
// assigned once at construction.
func (b *Base) TracedID() uint64 { return b.id }

// HomeGraph returns the graph the traceable was constructed under. It is
// advisory only: lookups always use the current graph, per spec §3.
func (b *Base) HomeGraph() *Graph { return b.home }

// TracedNotifier returns the instance-level notifier.
func (b *Base) TracedNotifier() *engine.Notifier { return &b.notify }

// Subscribe registers h to receive change notifications for any cell on
// this traceable.
func (b *Base) Subscribe(h *engine.Handle) { b.notify.Subscribe(h) }

// Unsubscribe removes h.
func (b *Base) Unsubscribe(h *engine.Handle) { b.notify.Unsubscribe(h) }

// ptrTraceable is the constraint used by New: T's pointer type must
// satisfy Traceable.
type ptrTraceable[T any] interface {
	*T
	Traceable
}

// New constructs a traceable of type T inside the current graph region,
// applying overrides by cell name. It fails with a ContextError if no
// graph is active, and a DefinitionError if overrides names a cell T
// doesn't have (spec §6: "unknown names fail with DefinitionError").
//
// New builds T itself via new(T) rather than accepting a pre-built
// value, so there is no way for a caller to run custom construction
// logic before binding: construction is purely the binding-and-bulk-
// override step spec §3 describes.
func New[T any, PT ptrTraceable[T]](overrides map[string]any) (PT, error) {
	g, err := Current()
	if err != nil {
		return nil, err
	}
	pt := PT(new(T))
	pt.bind(engine.NextID(), g)

	cs := pt.Cells()
	for name, val := range overrides {
		uc, ok := cs.lookup(name)
		if !ok {
			return nil, tracederrors.NewDefinitionError(
				fmt.Sprintf("unknown cell override %q", name), fmt.Sprintf("%T", pt))
		}
		key := engine.Key{Traceable: pt.TracedID(), Cell: uc.cellCore().ID}
		if _, err := g.core.Override(key, pt, uc.cellCore(), val); err != nil {
			return nil, err
		}
	}
	return pt, nil
}
