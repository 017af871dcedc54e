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

package traced

import "github.com/tracedgraph/traced/internal/core/engine"

// Event, Handle and Notifier are re-exported from the internal engine
// package as aliases: internal/core/engine is unimportable outside this
// module, but callers need these types to subscribe to cell, vertex and
// traceable notifications (spec §4.5/§6).
type (
	Event    = engine.Event
	Handle   = engine.Handle
	Notifier = engine.Notifier
)

// NewHandle wraps cb in a Handle suitable for weak subscription, per
// SPEC_FULL §12.1. The caller must keep a strong reference to the
// returned Handle for as long as it wants cb invoked; once unreachable,
// it is dropped silently.
func NewHandle(cb func(Event)) *Handle {
	return engine.NewHandle(cb)
}
