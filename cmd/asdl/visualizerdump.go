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
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/config"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/loweratop"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/patterned"
)

const visualizerSchemaVersion = 1

var visualizerDumpCmd = &cobra.Command{
	Use:   "visualizer-dump <files…>",
	Short: "Dump a module's atomized graph as JSON for the VS Code visualizer.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runVisualizerDumpCmd,
}

func init() {
	rootCmd.AddCommand(visualizerDumpCmd)
	visualizerDumpCmd.Flags().StringArray("lib", nil, "logical library root (repeatable)")
	visualizerDumpCmd.Flags().String("module", "", "module name to dump (default: entry file's sole module)")
	visualizerDumpCmd.Flags().Bool("list-modules", false, "list modules available in the entry file(s) and exit")
	visualizerDumpCmd.Flags().Bool("compact", false, "emit compact (non-indented) JSON")
}

type visEndpoint struct {
	Instance string `json:"instance"`
	Pin      string `json:"pin"`
}

type visNet struct {
	Name      string        `json:"name"`
	Endpoints []visEndpoint `json:"endpoints"`
}

type visInstance struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

type visRefs struct {
	Modules []string `json:"modules"`
	Devices []string `json:"devices"`
}

type visDoc struct {
	SchemaVersion int           `json:"schema_version"`
	Module        string        `json:"module"`
	Instances     []visInstance `json:"instances"`
	Nets          []visNet      `json:"nets"`
	Endpoints     int           `json:"endpoints"`
	Registries    []string      `json:"registries"`
	Refs          visRefs       `json:"refs"`
}

func runVisualizerDumpCmd(cmd *cobra.Command, args []string) {
	env, diags := config.Load(".asdlrc")
	if len(diags) > 0 {
		exitDiag(diags)
	}
	env.LibRoots = append(env.LibRoots, GetStringArray(cmd, "lib")...)

	entry := args[0]
	db, diags := importgraph.Load(context.Background(), entry, importgraph.Config{LibRoots: env.LibRoots}, importgraph.OSFileReader{})
	if len(diags) > 0 {
		exitDiag(diags)
	}
	pg, diags := loweratop.Lower(db)
	if len(diags) > 0 {
		exitDiag(diags)
	}
	ag, diags := atomizer.Atomize(pg)
	if len(diags) > 0 {
		exitDiag(diags)
	}

	if GetFlag(cmd, "list-modules") {
		names := make([]string, 0, len(ag.Modules))
		for _, m := range ag.Modules {
			names = append(names, m.ID.Name)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	moduleName := GetString(cmd, "module")
	topID, diags := netlistir.ResolveTop(ag, moduleName, netlistir.PolicyPermissive)
	if len(diags) > 0 {
		exitDiag(diags)
	}
	target, ok := ag.ModuleByID(topID)
	if !ok {
		fmt.Fprintf(os.Stderr, "module %q not found in entry file\n", moduleName)
		os.Exit(1)
	}

	doc := visDoc{SchemaVersion: visualizerSchemaVersion, Module: target.ID.Name, Registries: []string{}}
	moduleRefs := map[string]bool{}
	deviceRefs := map[string]bool{}
	endpointCount := 0

	for _, inst := range target.Instances {
		doc.Instances = append(doc.Instances, visInstance{Name: inst.Name, Ref: inst.Ref.String()})
		devID := patterned.ModuleID{FileID: inst.RefFileID, Name: inst.Ref.Symbol()}
		if _, isDevice := ag.Registries.Backends[devID]; isDevice {
			deviceRefs[inst.Ref.Symbol()] = true
		} else {
			moduleRefs[inst.Ref.Symbol()] = true
		}
	}
	for _, net := range target.Nets {
		vn := visNet{Name: net.Name}
		for _, ep := range net.Endpoints {
			vn.Endpoints = append(vn.Endpoints, visEndpoint{Instance: ep.Instance, Pin: ep.Pin})
			endpointCount++
		}
		doc.Nets = append(doc.Nets, vn)
	}
	doc.Endpoints = endpointCount

	doc.Refs.Modules = sortedKeys(moduleRefs)
	doc.Refs.Devices = sortedKeys(deviceRefs)

	var data []byte
	var err error
	if GetFlag(cmd, "compact") {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
