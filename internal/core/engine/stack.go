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

import tracederrors "github.com/tracedgraph/traced/errors"

// globalStack is the process-wide LIFO of active graphs described in
// spec §3/§5. It is deliberately a package-level variable rather than a
// context.Context value: the spec models it as a process-global stack
// with scoped acquisition, and the engine is single-threaded cooperative
// (§5), so there is no goroutine-local state to thread through.
var globalStack []*Graph

// CurrentGraph returns the innermost active graph, or nil if none is
// active.
func CurrentGraph() *Graph {
	if len(globalStack) == 0 {
		return nil
	}
	return globalStack[len(globalStack)-1]
}

// Enter pushes g onto the process-global stack, returning an Exit
// function that must be called to pop it. Re-entry is checked per spec
// §4.1/§5: entering a graph that already has an established parent only
// permits the same parent to be on top; a root graph (no parent yet)
// adopts whatever is currently on top, possibly nil.
func Enter(g *Graph) (func(), error) {
	top := CurrentGraph()
	if g.parent != nil && g.parent != top {
		return nil, tracederrors.NewContextError(
			"graph already nested under a different parent")
	}
	if g.parent == nil {
		g.parent = top
	}
	globalStack = append(globalStack, g)
	depth := len(globalStack)
	return func() {
		if len(globalStack) != depth || globalStack[depth-1] != g {
			panic(tracederrors.NewStackError(
				"mismatched graph-stack pop: exiting a graph that is not the top of the stack"))
		}
		globalStack = globalStack[:depth-1]
	}, nil
}
