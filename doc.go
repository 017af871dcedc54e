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

// Package traced implements a reactive dependency-graph evaluation
// engine for spreadsheet-style attributes ("cells") on user-defined
// objects ("traceables").
//
// A traceable type declares its cells as package-level *Cell[T] values
// built with NewCell or NewConstCell, and registers them in a CellSet
// returned from its Cells method. Reading a cell's value re-evaluates it
// only if stale; writing a cell overrides it; clearing the override
// restores read-through evaluation. Graphs nest to support what-if
// scenario branching: a child graph's overrides are invisible once it
// exits.
//
// The hard evaluation machinery lives in the internal/core/engine
// package; this package is a thin, generically-typed facade over it, the
// same way the CUE language's top-level cue package is a facade over
// internal/core/adt.
package traced
