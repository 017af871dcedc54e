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

// DeferredFunc is the shape a cell expression returns when later
// invocations of the returned function should be attributed back to the
// owning vertex (spec §4.3). Declare a cell as:
//
//	var Adder = traced.NewCell[traced.DeferredFunc]("Adder", func(self *Calc) (traced.DeferredFunc, error) {
//		base, err := traced.Value(self, Base)
//		if err != nil {
//			return nil, err
//		}
//		return func(args ...any) (any, error) {
//			return base + args[0].(int), nil
//		}, nil
//	})
//
// Calling the value returned from Value(tr, Adder) re-enters Adder's
// vertex for the duration of the call, so any cell reads inside the
// closure are attributed to Adder, not whatever vertex happens to be
// evaluating when the caller eventually invokes it.
type DeferredFunc = engine.DeferredFunc
