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
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asdl-lang/asdl/internal/complog"
	"github.com/asdl-lang/asdl/internal/config"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/emit"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/pipeline"
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <entry.asdl>",
	Short: "Compile an ASDL design down to a backend netlist.",
	Long:  "Run the full pipeline (parse, elaborate, atomize, view-bind, lower, emit) and write a backend netlist plus a compile log.",
	Args:  cobra.ExactArgs(1),
	Run:   runNetlistCmd,
}

func init() {
	rootCmd.AddCommand(netlistCmd)

	netlistCmd.Flags().String("backend", "", "backend name from the backend config, e.g. sim.ngspice")
	netlistCmd.Flags().StringArray("lib", nil, "logical library root (repeatable)")
	netlistCmd.Flags().StringP("output", "o", "", "netlist output path (default: <entry_basename><backend extension>)")
	netlistCmd.Flags().String("log", "", "compile log path (default: <entry_basename>.log.json)")
	netlistCmd.Flags().Bool("top-as-subckt", false, "wrap top through the same subckt header/call path as every other module")
	netlistCmd.Flags().String("top", "", "top module name (defaults to the entry file's sole module)")
	netlistCmd.Flags().String("backend-config", "", "backend config YAML path (default: $ASDL_BACKEND_CONFIG or .asdlrc's backend_config)")
}

func runNetlistCmd(cmd *cobra.Command, args []string) {
	entry := args[0]
	verbose := GetFlag(cmd, "verbose")
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("entry", entry).Debug("starting compile")

	env, diags := config.Load(".asdlrc")
	if len(diags) > 0 {
		exitDiag(diags)
	}
	log.WithField("lib_roots", env.LibRoots).Debug("resolved environment")
	if libs := GetStringArray(cmd, "lib"); len(libs) > 0 {
		env.LibRoots = append(env.LibRoots, libs...)
	}
	if bc := GetString(cmd, "backend-config"); bc != "" {
		env.BackendConfigPath = bc
	}

	if env.BackendConfigPath == "" {
		fmt.Fprintln(os.Stderr, "no backend config: set --backend-config, ASDL_BACKEND_CONFIG, or .asdlrc's backend_config")
		os.Exit(1)
	}
	cfgSrc, err := os.ReadFile(env.BackendConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	backendCfg, diags := emit.LoadConfig(env.BackendConfigPath, cfgSrc)
	if len(diags) > 0 {
		exitDiag(diags)
	}

	backendName := GetString(cmd, "backend")
	backend := backendCfg.Backends[backendName]
	if backend == nil {
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", backendName)
		os.Exit(1)
	}

	log.WithField("backend", backendName).Debug("running pipeline")
	now := time.Now()
	res, diags := pipeline.Compile(context.Background(), pipeline.Options{
		EntryPath:   entry,
		Top:         GetString(cmd, "top"),
		Backend:     backend,
		TopAsSubckt: GetFlag(cmd, "top-as-subckt"),
		Env:         env,
		FileReader:  importgraph.OSFileReader{},
		EmitDate:    now.Format("2006-01-02"),
		EmitTime:    now.Format("15:04:05"),
		TopPolicy:   netlistir.PolicyStrict,
	})

	hasError := false
	for _, d := range diags {
		if d.Severity == diag.SeverityError {
			hasError = true
		}
	}
	if len(diags) > 0 {
		c := diag.NewCollector()
		c.Extend(diags)
		useColor := term.IsTerminal(int(os.Stderr.Fd()))
		c.RenderText(os.Stderr, useColor)
	}
	if hasError || res == nil {
		os.Exit(1)
	}

	outPath := GetString(cmd, "output")
	if outPath == "" {
		outPath = pipeline.DefaultOutputPath(entry, backend)
	}
	if err := os.WriteFile(outPath, []byte(res.Netlist), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logPath := GetString(cmd, "log")
	if logPath == "" {
		logPath = pipeline.DefaultLogPath(entry)
	}
	if diags := complog.Write(res.Log, logPath); len(diags) > 0 {
		exitDiag(diags)
	}
}
