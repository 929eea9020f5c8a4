// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command asdl implements the CLI (§6): netlist, visualizer-dump,
// depgraph-dump, and schema subcommands over the internal compiler
// packages.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version can be set at build time with -ldflags "-X"; falls back to build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "asdl",
	Short: "A compiler for the ASDL schematic description language.",
	Long:  "A compiler for the ASDL schematic description language: parses, elaborates and atomizes hierarchical, patterned schematics into backend netlists.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("asdl ")
			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}
			fmt.Println()
			return
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "print version and exit")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log stage progress to stderr via logrus")
}
