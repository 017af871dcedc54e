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

// Command tracedctl is a small operable demonstration harness around the
// embeddable traced engine: it loads a scenario file describing nested
// graph overrides, builds the graph tree, evaluates the demo Diamond
// traceable in each layer, and prints the results. It is not part of the
// library's public API surface.
package main

import (
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  logr.Logger
)

// newRootCmd builds the tracedctl command tree, grounded in the
// teacher's cmd/cue root command structure (a persistent --verbose-style
// flag plus subcommands for distinct evaluator actions).
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tracedctl",
		Short: "Evaluate traced scenario graphs from the command line",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable per-vertex evaluation tracing")

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger = logr.FromSlogHandler(handler)

	root.AddCommand(newEvalCmd())
	root.AddCommand(newGraphCmd())
	return root
}

// Main runs the tracedctl command tree against the process's real
// os.Args and returns the process exit code, rather than calling
// os.Exit itself, so it can be driven from a testscript harness.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
