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

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Cell is the untyped, per-package-var cell descriptor. Eval is nil for a
// constant cell (spec §3: "a non-callable default value"); otherwise it
// is the zero-argument-over-the-instance expression. Cells compare by
// identity (ID), never by name, per spec §3.
type Cell struct {
	ID     uint64
	Name   string
	Eval   func(self any) (any, error)
	Const  any
	notify Notifier
}

// IsCallable reports whether the cell's expression must be evaluated
// rather than read as a constant.
func (c *Cell) IsCallable() bool { return c.Eval != nil }

// Notifier returns the cell-level (class-level) notifier.
func (c *Cell) Notifier() *Notifier { return &c.notify }

// Vertex is the memoized cell instance described in spec §3: one per
// (traceable, cell) pair per graph that has observed or created it.
type Vertex struct {
	Key       Key
	Traceable any
	Cell      *Cell

	dependencyKeys map[Key]struct{}
	evaluated      Timestamp
	overridden     Timestamp
	touched        Timestamp
	lastKnown      any
	hasLastKnown   bool
	value          any

	// deferred holds the previous deferred-call/iteration wrapper
	// produced for this vertex, if any, so re-evaluation can close it
	// per spec §4.3.
	deferred deferredWrapper

	notify Notifier
}

func newVertex(key Key, tr any, c *Cell) *Vertex {
	return &Vertex{Key: key, Traceable: tr, Cell: c}
}

// Notifier returns the vertex-level notifier.
func (v *Vertex) Notifier() *Notifier { return &v.notify }

// Value returns the currently observable value: the override if set,
// else the last evaluated value.
func (v *Vertex) Value() any { return v.value }

// IsOverridden reports whether the vertex currently carries an override.
func (v *Vertex) IsOverridden() bool { return v.overridden.Valid() }

// IsDefined reports whether the vertex has ever been evaluated or
// overridden.
func (v *Vertex) IsDefined() bool { return v.evaluated.Valid() || v.overridden.Valid() }

// definedAt returns overridden if present, else evaluated, per spec §3.
func (v *Vertex) definedAt() Timestamp {
	if v.overridden.Valid() {
		return v.overridden
	}
	return v.evaluated
}

// Touched returns the timestamp of the vertex's most recent structural
// change.
func (v *Vertex) Touched() Timestamp { return v.touched }

// touch bumps touched to a fresh timestamp and returns it.
func (v *Vertex) touch() Timestamp {
	v.touched = tick()
	return v.touched
}

// addDependency records that this vertex's evaluation read key k, and
// bumps touched per spec §4.2 ("add_dependency also bumps V's touched").
func (v *Vertex) addDependency(k Key) {
	if v.dependencyKeys == nil {
		v.dependencyKeys = map[Key]struct{}{}
	}
	v.dependencyKeys[k] = struct{}{}
	v.touch()
}

// DependencyKeys returns a snapshot of the vertex's dependency set.
func (v *Vertex) DependencyKeys() []Key {
	out := make([]Key, 0, len(v.dependencyKeys))
	for k := range v.dependencyKeys {
		out = append(out, k)
	}
	return out
}

// undefine clears the vertex back to its never-evaluated state, bumping
// touched, per spec §4.2 ("before failing, undefine V") and §4.2's error
// path ("leaves V undefined... so that a subsequent read retries").
func (v *Vertex) undefine() {
	v.evaluated = 0
	v.overridden = 0
	v.lastKnown = nil
	v.hasLastKnown = false
	v.dependencyKeys = nil
	v.value = nil
	if v.deferred != nil {
		v.deferred.close()
		v.deferred = nil
	}
	v.touch()
}

// assign implements the assign protocol of spec §4.4: set value, and
// report whether it changed by value equality, plus the value being
// replaced. The caller is responsible for broadcasting the change; the
// new value is already visible in v.value by the time the caller does so.
func (v *Vertex) assign(new any) (changed bool, old any) {
	old = v.value
	v.value = new
	return !valuesEqual(old, new), old
}

// valuesEqual implements value equality for the assign protocol. Types
// that implement Equal(any) bool (the convention google/go-cmp itself
// honors) take precedence; otherwise cmp.Equal is used with an Exporter
// that allows comparing unexported fields, since traceable attribute
// values are arbitrary user types this package knows nothing about. If
// cmp still cannot handle the pair (e.g. incomparable function values),
// reflect.DeepEqual is the final fallback.
func valuesEqual(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ea, ok := a.(interface{ Equal(any) bool }); ok {
		return ea.Equal(b)
	}
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }))
}
