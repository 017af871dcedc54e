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
	"runtime"
	"sync"
	"weak"
)

// Event is the notification payload described in spec §4.4:
// (traceable, cell-name-or-absent, new, old).
type Event struct {
	Traceable any
	CellName  string // empty if the notifier is not cell-scoped
	New       any
	Old       any
}

// Handle is the unit of weak subscription. Go closures cannot be weakly
// referenced directly (unlike Python's bound methods or weakref.ref), so
// per spec §9's design note, a callback wanting weak semantics is wrapped
// in a Handle, whose liveness the subscriber owns: once nothing but the
// Notifier references the Handle, it is collected and silently dropped
// from future broadcasts.
type Handle struct {
	cb func(Event)
}

// NewHandle wraps cb in a Handle suitable for weak subscription.
func NewHandle(cb func(Event)) *Handle {
	return &Handle{cb: cb}
}

// Notifier implements subscribe/unsubscribe/broadcast, reused by
// vertices, cells and traceables (spec §4.5). It mirrors the
// weak.Pointer-based memoizer in the teacher's weakmap.go: entries are
// held as weak.Pointer[Handle] and removed by a runtime.AddCleanup
// callback once their handle is collected, so a long-idle notifier
// doesn't accumulate dead entries indefinitely; a broadcast that still
// finds a dead entry drops it as well.
type Notifier struct {
	mu   sync.Mutex
	subs map[weak.Pointer[Handle]]struct{}
}

// Subscribe registers h for future broadcasts. The caller must keep a
// strong reference to h for as long as it wants to receive events; once
// h is unreachable elsewhere, it is dropped.
func (n *Notifier) Subscribe(h *Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = map[weak.Pointer[Handle]]struct{}{}
	}
	wp := weak.Make(h)
	n.subs[wp] = struct{}{}
	runtime.AddCleanup(h, func(key weak.Pointer[Handle]) {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, key)
	}, wp)
}

// Unsubscribe removes h immediately.
func (n *Notifier) Unsubscribe(h *Handle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, weak.Make(h))
}

// live returns the handles that are still reachable, as a side effect
// dropping any whose weak pointer has already gone nil (the cleanup in
// Subscribe is asynchronous, so a broadcast may still observe a dead
// entry briefly after collection).
func (n *Notifier) live() []*Handle {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*Handle
	for wp := range n.subs {
		if h := wp.Value(); h != nil {
			out = append(out, h)
		} else {
			delete(n.subs, wp)
		}
	}
	return out
}

// Broadcast delivers ev to every live subscriber across notifiers,
// de-duplicating callbacks that are registered under more than one
// notifier (e.g. a handle subscribed to both a vertex and its cell) so
// it fires exactly once, per spec §4.5 and testable property 7.
func Broadcast(ev Event, notifiers ...*Notifier) {
	seen := make(map[*Handle]struct{})
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		for _, h := range n.live() {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			h.cb(ev)
		}
	}
}
