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

// Key identifies a (traceable, cell) pair. Within a single graph's vertex
// table, keys are unique (spec §3). Traceable and Cell ids are assigned
// once via NextID at construction time, so Key is cheap to compute and
// compare: no interface comparison or hashing of user data is required.
type Key struct {
	Traceable uint64
	Cell      uint64
}

// Mode selects the resolution strategy used by Graph.resolve, per spec
// §4.1.
type Mode int

const (
	// ModeGet reads through to ancestors, creating on the current graph
	// only if no vertex exists anywhere.
	ModeGet Mode = iota
	// ModeSet always materializes a vertex on the current graph,
	// implementing copy-on-write.
	ModeSet
	// ModeDel shadows an ancestor's override without mutating it, or is
	// a no-op if no override exists anywhere.
	ModeDel
	// ModeTrace searches current then ancestors and never creates; used
	// by staleness probing.
	ModeTrace
)
