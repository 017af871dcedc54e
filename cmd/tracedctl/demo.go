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

package main

import "github.com/tracedgraph/traced"

// Diamond is the demo traceable tracedctl evaluates: a diamond-shaped
// dependency (Input -> Double, Input -> Half -> Sum), matching the S3
// seed scenario in spec §8. It exists purely so the CLI has something to
// evaluate; real consumers define their own traceable types.
type Diamond struct {
	traced.Base
}

func (d *Diamond) Cells() *traced.CellSet { return diamondCells }

var (
	diamondInput = traced.NewConstCell[int]("Input", 6)
	diamondDouble = traced.NewCell[int]("Double", func(self *Diamond) (int, error) {
		in, err := traced.Value[int](self, diamondInput)
		return in * 2, err
	})
	diamondHalf = traced.NewCell[int]("Half", func(self *Diamond) (int, error) {
		in, err := traced.Value[int](self, diamondInput)
		return in / 2, err
	})
	diamondSum = traced.NewCell[int]("Sum", func(self *Diamond) (int, error) {
		d1, err := traced.Value[int](self, diamondDouble)
		if err != nil {
			return 0, err
		}
		d2, err := traced.Value[int](self, diamondHalf)
		if err != nil {
			return 0, err
		}
		return d1 + d2, nil
	})

	diamondCells = traced.NewCellSet(diamondInput, diamondDouble, diamondHalf, diamondSum)
)

// diamondCellByName exposes the demo's cells by name so the scenario
// loader can apply YAML overrides without a full reflection-based
// registry.
func diamondCellByName(name string) (*traced.Cell[int], bool) {
	switch name {
	case "Input":
		return diamondInput, true
	case "Double":
		return diamondDouble, true
	case "Half":
		return diamondHalf, true
	case "Sum":
		return diamondSum, true
	default:
		return nil, false
	}
}
