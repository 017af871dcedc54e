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
	"github.com/tracedgraph/traced/internal/enginedebug"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph dump <scenario.yaml>",
		Short: "Evaluate the root layer and dump its vertex table",
		Args:  cobra.ExactArgs(1),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "dump <scenario.yaml>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
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
				return err
			}
			if _, err := traced.Value[int](d, diamondSum); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "graph %s:\n", g.ID())
			enginedebug.Fprint(cmd.OutOrStdout(), g.Snapshot())
			return nil
		},
	})
	return cmd
}
