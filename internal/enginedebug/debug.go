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

// Package enginedebug prints diagnostic dumps of a graph's vertex table.
// It plays the role the teacher's internal/core/adt/debug.go plays for
// CUE (RecordDebugGraph, CreateMermaidGraph): a developer-facing view
// into evaluator state, minus the HTML/mermaid export machinery this
// engine's embeddable-library scope doesn't need.
package enginedebug

import (
	"fmt"
	"io"
	"sort"

	"github.com/kr/pretty"
	"github.com/mpvl/unique"

	"github.com/tracedgraph/traced/internal/core/engine"
)

// Line is one row of a vertex dump.
type Line struct {
	Key        engine.Key
	Name       string
	Value      string
	Overridden bool
	Defined    bool
}

// Dump renders a stable, sorted snapshot of a graph's own vertex table
// (not ancestors) as lines suitable for a CLI or test golden file.
func Dump(infos []engine.VertexInfo) []Line {
	lines := make([]Line, 0, len(infos))
	for _, vi := range infos {
		lines = append(lines, Line{
			Key:        vi.Key,
			Name:       vi.Name,
			Value:      fmt.Sprintf("%# v", pretty.Formatter(vi.Value)),
			Overridden: vi.Overridden,
			Defined:    vi.Defined,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Key.Traceable != lines[j].Key.Traceable {
			return lines[i].Key.Traceable < lines[j].Key.Traceable
		}
		return lines[i].Key.Cell < lines[j].Key.Cell
	})
	return lines
}

// Fprint writes a human-readable dump of infos to w, one line per
// vertex, in deterministic order.
func Fprint(w io.Writer, infos []engine.VertexInfo) {
	for _, l := range Dump(infos) {
		state := "evaluated"
		switch {
		case l.Overridden:
			state = "overridden"
		case !l.Defined:
			state = "undefined"
		}
		fmt.Fprintf(w, "%-24s %-10s %s\n", l.Name, state, l.Value)
	}
}

// SortDependencyKeys returns keys deduplicated and sorted, for display or
// comparison, using the same sorted-unique idiom as the teacher's
// mpvl/unique-based slice cleanup in evaluator-adjacent code.
func SortDependencyKeys(keys []engine.Key) []engine.Key {
	out := make([]engine.Key, len(keys))
	copy(out, keys)
	n := unique.Sort(keySlice(out))
	return out[:n]
}

// keySlice adapts []engine.Key to mpvl/unique's sort.Interface-based
// Sort, which sorts the slice and then collapses adjacent duplicates in
// place, returning the count of unique elements.
type keySlice []engine.Key

func (s keySlice) Len() int      { return len(s) }
func (s keySlice) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s keySlice) Less(i, j int) bool {
	if s[i].Traceable != s[j].Traceable {
		return s[i].Traceable < s[j].Traceable
	}
	return s[i].Cell < s[j].Cell
}
