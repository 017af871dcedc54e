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

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes a demo graph tree to build and evaluate: a root set
// of overrides, plus any number of named nested scenarios layered as
// child graphs over the root (spec §3 "graph layering" / §8 S6).
//
// This is a demonstration/debugging file format only (SPEC_FULL §10.3);
// the engine itself has no persistence format.
type Scenario struct {
	Overrides map[string]int      `yaml:"overrides"`
	Children  map[string]Scenario `yaml:"children"`
}

// LoadScenario decodes a scenario document from path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tracedctl: reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("tracedctl: parsing scenario: %w", err)
	}
	return &s, nil
}
