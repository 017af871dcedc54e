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

import "sync/atomic"

// Timestamp is a monotonic logical clock reading. Zero means absent
// (never evaluated, never overridden). Readings are comparable with <, as
// required by spec §3: ties are possible but ordering only needs to be
// non-strict.
type Timestamp uint64

// Valid reports whether the timestamp is present.
func (t Timestamp) Valid() bool { return t != 0 }

// Before reports whether t happened strictly before o. An absent t is
// before every present o; nothing is before an absent o.
func (t Timestamp) Before(o Timestamp) bool { return t < o }

var clock atomic.Uint64

// tick returns a fresh, strictly increasing timestamp. A logical counter
// is used rather than wall-clock time: the engine is single-threaded
// cooperative (spec §5) so a monotonic counter gives the same ordering
// guarantees as a clock without the non-determinism of real time, which
// matters for reproducible tests of the staleness rule in §4.2.
func tick() Timestamp {
	return Timestamp(clock.Add(1))
}

var idCounter atomic.Uint64

// NextID returns a process-wide unique, monotonically increasing
// identifier, used to stamp traceables and cells at construction per the
// design note in spec §9 ("a monotonically assigned id stamped at object
// construction").
func NextID() uint64 {
	return idCounter.Add(1)
}
