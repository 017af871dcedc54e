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

// Cycle detection here is deliberately simpler than a full dependency-
// graph analysis: it is an identity check against the frames already on
// a single graph's evaluation stack (see Invoke in graph.go), not a walk
// of the accumulated dependencyKeys.
//
// This matters for two reasons:
//
//  1. A vertex may legitimately read "itself" by key on a different
//     graph layer — the evaluation stack is per-graph, so a child
//     graph's evaluation of vertex V never collides with an ancestor's
//     in-progress evaluation of the vertex V shadows.
//  2. Dependency keys recorded from a *previous*, successful evaluation
//     are not proof of an active cycle; they are only used by the
//     staleness check (dirty/newer in graph.go), which guards its own
//     recursion with a visited set rather than raising LoopError. Only
//     re-entering the same *in-progress* vertex raises LoopError.
//
// A cycle is reported at the point of re-entry, not retroactively: by
// the time Invoke notices frame identity on the stack, every vertex
// between the original push and the re-entrant call is left on the
// stack and popped normally by their own deferred cleanups as the
// failure unwinds, satisfying the exception-safe teardown in spec §4.2.
