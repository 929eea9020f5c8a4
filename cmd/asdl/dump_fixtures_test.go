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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/jsonc"
)

// visualizer-dump and depgraph-dump fixtures are authored as JSONC (with
// comments) for readability; jsonc.ToJSON strips comments/trailing commas
// before unmarshaling into the same doc shapes the live subcommands emit.

const visualizerFixtureJSONC = `{
  // a one-instance inverter module
  "schema_version": 1,
  "module": "inverter",
  "instances": [
    {"name": "M1", "ref": "nmos_dev"},
  ],
  "nets": [
    {"name": "in", "endpoints": [{"instance": "M1", "pin": "g"}]},
  ],
  "endpoints": 1,
  "registries": [],
  "refs": {"modules": [], "devices": ["nmos_dev"]}
}`

func TestVisualizerDumpFixtureJSONC(t *testing.T) {
	plain := jsonc.ToJSON([]byte(visualizerFixtureJSONC))
	var doc visDoc
	require.NoError(t, json.Unmarshal(plain, &doc))
	assert.Equal(t, "inverter", doc.Module)
	assert.Equal(t, []string{"nmos_dev"}, doc.Refs.Devices)
}

const depgraphFixtureJSONC = `{
  "nodes": [
    {"module_id": "/a.asdl"}, // entry
    {"module_id": "/b.asdl"},
  ],
  "edges": [
    {"from": "/a.asdl", "to": "/b.asdl"},
  ]
}`

func TestDepgraphDumpFixtureJSONC(t *testing.T) {
	plain := jsonc.ToJSON([]byte(depgraphFixtureJSONC))
	var doc depgraphDoc
	require.NoError(t, json.Unmarshal(plain, &doc))
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "/a.asdl", doc.Edges[0].From)
}
