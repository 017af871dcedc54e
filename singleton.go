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

// Singleton builds a cell expression that constructs exactly one
// instance of traceable type T per graph, the first time it is read.
// This is SPEC_FULL §12.4's generalization of the original's
// SingleInstanceDependency convenience base: rather than a base type to
// embed, it is an expression-builder, since Go cells are declared as
// package vars rather than class attributes.
//
// The "exactly once per graph" guarantee falls out of ordinary vertex
// memoization (the teacher's weakmap.go memoizer[K,V] makes the same
// argument for cache-once-per-key construction): the returned expression
// has no dependencies of its own, so once it evaluates the owning vertex
// never goes dirty again unless explicitly overridden or cleared — it is
// constructed on first demand and then simply returned from cache on
// every subsequent read, on that graph.
func Singleton[S Traceable, T any, PT ptrTraceable[T]](overrides map[string]any) func(self S) (PT, error) {
	return func(self S) (PT, error) {
		return New[T, PT](overrides)
	}
}
