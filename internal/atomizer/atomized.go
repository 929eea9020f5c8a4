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

// Package atomizer lowers a PatternedGraph into an AtomizedGraph (§4.6):
// every net/instance/endpoint pattern expression is expanded to scalar
// literals and endpoint lists are bound to instance positions via the
// Pattern Engine (internal/pattern).
package atomizer

import (
	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/ordered"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// AtomizedPatternOrigin is the per-atom provenance carried forward for
// numeric rendering downstream (§3, §4.9).
type AtomizedPatternOrigin struct {
	ExpressionID patterned.ExprID
	SegmentIndex int
	AtomIndex    int
	BaseName     string
	PatternParts []string
}

// AtomizedEndpoint is one `inst.pin` scalar endpoint.
type AtomizedEndpoint struct {
	Name     string
	Instance string
	Pin      string
	Origin   *AtomizedPatternOrigin
}

// AtomizedNet is one scalar net with its bound scalar endpoints.
type AtomizedNet struct {
	Name      string
	Endpoints []AtomizedEndpoint
	Origin    *AtomizedPatternOrigin
}

// AtomizedInstance is one scalar instance.
type AtomizedInstance struct {
	Name       string
	RefExpr    string
	Ref        ast.InstanceRef
	RefFileID  string
	Parameters *ordered.Map[string, string]
	Origin     *AtomizedPatternOrigin
}

// AtomizedModuleGraph is one module's fully atomized representation.
type AtomizedModuleGraph struct {
	ID         patterned.ModuleID
	Ports      []string
	PortOrder  []string
	Parameters *ordered.Map[string, string]
	Variables  *ordered.Map[string, string]
	Nets       []AtomizedNet
	Instances  []AtomizedInstance
}

// AtomizedGraph is the root of the atomized IR (§3).
type AtomizedGraph struct {
	EntryFileID string
	Modules     []*AtomizedModuleGraph
	Devices     []*patterned.DeviceGraph
	Registries  *patterned.Registries
}

// ModuleByID looks up a module by its stable id.
func (g *AtomizedGraph) ModuleByID(id patterned.ModuleID) (*AtomizedModuleGraph, bool) {
	for _, m := range g.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}
