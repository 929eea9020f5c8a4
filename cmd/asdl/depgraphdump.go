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

	"github.com/spf13/cobra"

	"github.com/asdl-lang/asdl/internal/config"
	"github.com/asdl-lang/asdl/internal/importgraph"
)

var depgraphDumpCmd = &cobra.Command{
	Use:   "depgraph-dump <entry…>",
	Short: "Dump the import dependency graph of one or more entry files as JSON.",
	Args:  cobra.MinimumNArgs(1),
	Run:   runDepgraphDumpCmd,
}

func init() {
	rootCmd.AddCommand(depgraphDumpCmd)
	depgraphDumpCmd.Flags().StringArray("lib", nil, "logical library root (repeatable)")
	depgraphDumpCmd.Flags().StringP("output", "o", "", "output path (default: stdout)")
}

type depNode struct {
	ModuleID string `json:"module_id"`
}

type depEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type depgraphDoc struct {
	Nodes []depNode `json:"nodes"`
	Edges []depEdge `json:"edges"`
}

func runDepgraphDumpCmd(cmd *cobra.Command, args []string) {
	env, diags := config.Load(".asdlrc")
	if len(diags) > 0 {
		exitDiag(diags)
	}
	env.LibRoots = append(env.LibRoots, GetStringArray(cmd, "lib")...)

	doc := depgraphDoc{Nodes: []depNode{}, Edges: []depEdge{}}
	seen := map[string]bool{}

	for _, entry := range args {
		db, diags := importgraph.Load(context.Background(), entry, importgraph.Config{LibRoots: env.LibRoots}, importgraph.OSFileReader{})
		if len(diags) > 0 {
			exitDiag(diags)
		}
		for _, fileID := range db.Order {
			if !seen[fileID] {
				seen[fileID] = true
				doc.Nodes = append(doc.Nodes, depNode{ModuleID: fileID})
			}
			d := db.Docs[fileID]
			for _, imp := range d.Imports {
				target, ok := db.Envs[fileID].Namespaces.Get(imp.Namespace)
				if !ok {
					continue
				}
				doc.Edges = append(doc.Edges, depEdge{From: fileID, To: target})
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out := GetString(cmd, "output")
	if out == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
