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

package enginedebug_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/tracedgraph/traced/internal/core/engine"
	"github.com/tracedgraph/traced/internal/enginedebug"
)

func TestDumpIsSortedByKey(t *testing.T) {
	infos := []engine.VertexInfo{
		{Key: engine.Key{Traceable: 2, Cell: 1}, Name: "B", Value: 1, Defined: true},
		{Key: engine.Key{Traceable: 1, Cell: 5}, Name: "A", Value: 2, Defined: true},
		{Key: engine.Key{Traceable: 1, Cell: 1}, Name: "C", Value: 3, Overridden: true},
	}
	lines := enginedebug.Dump(infos)
	qt.Assert(t, qt.Equals(len(lines), 3))
	qt.Assert(t, qt.Equals(lines[0].Name, "C"))
	qt.Assert(t, qt.Equals(lines[1].Name, "A"))
	qt.Assert(t, qt.Equals(lines[2].Name, "B"))
}

func TestFprintMarksUndefinedAndOverridden(t *testing.T) {
	infos := []engine.VertexInfo{
		{Key: engine.Key{Traceable: 1, Cell: 1}, Name: "Pending", Defined: false},
		{Key: engine.Key{Traceable: 1, Cell: 2}, Name: "Forced", Overridden: true, Defined: true},
	}
	var buf bytes.Buffer
	enginedebug.Fprint(&buf, infos)
	out := buf.String()
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "Pending")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "undefined")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "Forced")))
	qt.Assert(t, qt.IsTrue(strings.Contains(out, "overridden")))
}

func TestSortDependencyKeysDedupesAndSorts(t *testing.T) {
	keys := []engine.Key{
		{Traceable: 2, Cell: 1},
		{Traceable: 1, Cell: 3},
		{Traceable: 1, Cell: 3},
		{Traceable: 1, Cell: 1},
	}
	out := enginedebug.SortDependencyKeys(keys)
	qt.Assert(t, qt.DeepEquals(out, []engine.Key{
		{Traceable: 1, Cell: 1},
		{Traceable: 1, Cell: 3},
		{Traceable: 2, Cell: 1},
	}))
}
