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

	"github.com/spf13/cobra"

	"github.com/tracedgraph/traced"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <scenario.yaml>",
		Short: "Build the scenario's graph tree and evaluate the Sum cell in each layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			return evalLayer(cmd, "root", scn)
		},
	}
	return cmd
}

func evalLayer(cmd *cobra.Command, name string, scn *Scenario) error {
	g := traced.NewGraph()
	g.SetVerbose(verbose)
	exit, err := g.Enter()
	if err != nil {
		return err
	}
	defer exit()

	overrides := map[string]any{}
	for k, v := range scn.Overrides {
		overrides[k] = v
	}
	d, err := traced.New[Diamond, *Diamond](overrides)
	if err != nil {
		return fmt.Errorf("tracedctl: constructing Diamond in layer %q: %w", name, err)
	}

	sum, err := traced.Value[int](d, diamondSum)
	if err != nil {
		return fmt.Errorf("tracedctl: evaluating Sum in layer %q: %w", name, err)
	}
	logger.Info("evaluated layer", "layer", name, "graph", g.ID(), "sum", sum)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: Sum = %d\n", name, sum)

	for childName, child := range scn.Children {
		child := child
		if err := evalLayer(cmd, name+"/"+childName, &child); err != nil {
			return err
		}
	}
	return nil
}
