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
	"log/slog"

	"github.com/google/uuid"

	tracederrors "github.com/tracedgraph/traced/errors"
	"github.com/tracedgraph/traced/internal/core/engine"
)

// Graph is an evaluation context: a vertex table, an evaluation stack,
// and an optional parent graph for scenario nesting (spec §3/§4.1).
// Graph is usable as a scoped region: Enter pushes it onto the
// process-global graph stack, and the returned Exit pops it.
type Graph struct {
	core *engine.Graph
	log  *slog.Logger
}

// NewGraph constructs a new, unentered graph. Its parent is established
// the first time it is entered (spec §4.1): a fresh graph entered at the
// top level becomes a root; entered while another graph is active, it
// becomes that graph's child.
func NewGraph() *Graph {
	return &Graph{core: engine.NewGraph(uuid.NewString()), log: slog.Default()}
}

// ID returns the graph's UUID, assigned at construction. It is primarily
// useful for log correlation and the tracedctl CLI's graph tree display.
func (g *Graph) ID() string { return g.core.ID }

// SetLogger installs the *slog.Logger used for verbose evaluation
// tracing (SPEC_FULL §10.2). The default is slog.Default().
func (g *Graph) SetLogger(l *slog.Logger) {
	g.log = l
	g.core.SetTracer(func(format string, args ...any) {
		l.Debug(fmt.Sprintf(format, args...))
	})
}

// SetVerbose toggles per-vertex evaluation tracing at slog.LevelDebug:
// one line for each cache hit and one for each evaluation error. Pushes,
// pops and overrides are not traced.
func (g *Graph) SetVerbose(v bool) {
	g.core.Verbose = v
	if v && g.log != nil {
		l := g.log
		g.core.SetTracer(func(format string, args ...any) {
			l.Debug(fmt.Sprintf(format, args...))
		})
	}
}

// Parent returns the graph's parent, or nil for a root graph.
func (g *Graph) Parent() *Graph {
	p := g.core.Parent()
	if p == nil {
		return nil
	}
	return &Graph{core: p, log: g.log}
}

// Enter pushes g onto the process-global graph stack. The caller must
// call the returned function on every exit path (typically via defer) to
// pop it; mismatched pop order is a fatal invariant violation (spec §5).
func (g *Graph) Enter() (func(), error) {
	return engine.Enter(g.core)
}

// Current returns the innermost active graph, or a ContextError if none
// is active.
func Current() (*Graph, error) {
	c := engine.CurrentGraph()
	if c == nil {
		return nil, tracederrors.NewContextError("no active graph: enter one with Graph.Enter")
	}
	return &Graph{core: c, log: slog.Default()}, nil
}

// Snapshot returns a read-only view of the graph's own vertex table
// (ancestors are not included), for diagnostics (SPEC_FULL §12.3).
func (g *Graph) Snapshot() []engine.VertexInfo {
	return g.core.Snapshot()
}
