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

func TestSingletonConstructsOncePerGraph(t *testing.T) {
	withGraph(t)
	o, err := traced.New[Owner, *Owner](nil)
	qt.Assert(t, qt.IsNil(err))

	d1, err := traced.Value[*Dependency](o, ownerAnother)
	qt.Assert(t, qt.IsNil(err))

	d2, err := traced.Value[*Dependency](o, ownerAnother)
	qt.Assert(t, qt.IsNil(err))

	qt.Assert(t, qt.Equals(d1, d2))
}
