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

package traced_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/tracedgraph/traced"
)

func TestNewFailsWithoutActiveGraph(t *testing.T) {
	_, err := traced.New[Chain, *Chain](nil)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestNewRejectsUnknownOverrideName(t *testing.T) {
	withGraph(t)
	_, err := traced.New[Chain, *Chain](map[string]any{"NoSuchCell": 1})
	qt.Assert(t, qt.IsNotNil(err))
}

func TestNewCellSetPanicsOnDuplicateName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a duplicate cell name")
		}
	}()
	a := traced.NewConstCell[int]("Same", 1)
	b := traced.NewConstCell[int]("Same", 2)
	traced.NewCellSet(a, b)
}

// Notified is a minimal single-cell traceable used to count notifications
// without the cascading evaluations a multi-cell chain would also fire.
type Notified struct {
	traced.Base
}

func (n *Notified) Cells() *traced.CellSet { return notifiedCells }

var (
	notifiedV     = traced.NewConstCell[int]("V", 1)
	notifiedCells = traced.NewCellSet(notifiedV)
)

func TestSubscribeReceivesChangeNotification(t *testing.T) {
	withGraph(t)
	n, err := traced.New[Notified, *Notified](nil)
	qt.Assert(t, qt.IsNil(err))

	events := 0
	var last traced.Event
	h := traced.NewHandle(func(ev traced.Event) {
		events++
		last = ev
	})
	n.Subscribe(h)

	v, err := traced.Value[int](n, notifiedV)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(v, 1))
	qt.Assert(t, qt.Equals(events, 1))
	qt.Assert(t, qt.IsNil(last.Old))
	qt.Assert(t, qt.Equals(last.New.(int), 1))

	// Reading again without any change is a cache hit: no notification.
	_, err = traced.Value[int](n, notifiedV)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(events, 1))

	qt.Assert(t, qt.IsNil(traced.Override(n, notifiedV, 5)))
	qt.Assert(t, qt.Equals(events, 2))
	qt.Assert(t, qt.Equals(last.Old.(int), 1))
	qt.Assert(t, qt.Equals(last.New.(int), 5))

	// Overriding with the same effective value does not notify again.
	qt.Assert(t, qt.IsNil(traced.Override(n, notifiedV, 5)))
	qt.Assert(t, qt.Equals(events, 2))

	n.Unsubscribe(h)
	qt.Assert(t, qt.IsNil(traced.Override(n, notifiedV, 9)))
	qt.Assert(t, qt.Equals(events, 2))
}
