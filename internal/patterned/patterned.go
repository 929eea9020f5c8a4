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

// Package patterned defines the PatternedGraph (§3): a hierarchical graph
// with patterns still unexpanded, produced from a resolved ProgramDB by
// internal/loweratop.
package patterned

import (
	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
	"github.com/asdl-lang/asdl/internal/pattern"
)

// ModuleID is the stable (file_id, name) pair identifying a module or
// device wherever cross-stage linkage is needed (§3 "Stable IDs").
type ModuleID struct {
	FileID string
	Name   string
}

// ExprKind distinguishes the semantic position a pattern expression string
// was authored in, so identical text in two positions gets two distinct
// ExprIDs (§4.5 "Expression caching").
type ExprKind string

const (
	ExprKindNet      ExprKind = "net"
	ExprKindEndpoint ExprKind = "endpoint"
	ExprKindInstance ExprKind = "instance"
	ExprKindParam    ExprKind = "param"
	ExprKindPort     ExprKind = "port"
)

// ExprID is a 64-bit FNV-1a hash of (kind, expression) (§3).
type ExprID uint64

// PatternExpressionEntry is one row of the PatternExpressionRegistry.
type PatternExpressionEntry struct {
	Expression string
	Kind       ExprKind
	Span       diag.Span
}

// PatternOrigin is the provenance a Bundle carries forward into atomized
// entities (§3).
type PatternOrigin struct {
	ExpressionID ExprID
	SegmentIndex int
	BaseName     string
	PatternParts []string
}

// Bundle is the common shape of a net/instance/endpoint pattern reference:
// an unexpanded expression, a stable id, and its origin (§3).
type Bundle struct {
	ID     string
	Expr   string
	Origin PatternOrigin
	Loc    diag.Span
}

// EndpointBundle is one endpoint-expression entry referenced from a
// NetBundle's RHS list.
type EndpointBundle struct {
	Bundle
}

// NetBundle is one `nets:` entry: an LHS net/port pattern expression bound
// to an ordered list of endpoint bundles (§3).
type NetBundle struct {
	Bundle
	Endpoints []EndpointBundle
}

// InstanceBundle is one `instances:` entry, with its ref resolved against
// the NameEnv/ProgramDB (§4.5) and its parameters already variable-
// substituted (not yet pattern-expanded).
type InstanceBundle struct {
	Bundle
	RefExpr    string
	Ref        ast.InstanceRef
	RefFileID  string
	Parameters *ordered.Map[string, string]
}

// ModuleGraph is one module's PatternedGraph representation (§3).
type ModuleGraph struct {
	ID               ModuleID
	Ports            []string
	PortOrder        []string // explicit $-nets followed by defaults-introduced ones, per §4.5
	Parameters       *ordered.Map[string, string]
	Variables        *ordered.Map[string, string]
	InstanceDefaults *ordered.Map[string, string]
	NetBundles       []NetBundle
	InstanceBundles  []InstanceBundle
	// PatternDefs carries the module's own `patterns:` block, keyed by
	// name, for the Pattern Engine's ResolveNamed step during atomization
	// (§4.4, §4.6).
	PatternDefs map[string]pattern.Definition
}

// DeviceGraph is one device's PatternedGraph representation.
type DeviceGraph struct {
	ID         ModuleID
	Ports      []string
	Parameters *ordered.Map[string, string]
	Variables  *ordered.Map[string, string]
	Backends   *ordered.Map[string, ast.DeviceBackendDecl]
}

// Registries holds the shared tables kept once on the ProgramGraph root
// rather than duplicated per-node (§9 "Registries vs inline attributes").
type Registries struct {
	Patterns    map[ExprID]PatternExpressionEntry
	Backends    map[ModuleID]*ordered.Map[string, ast.DeviceBackendDecl]
	Annotations map[string][]string
}

// NewRegistries constructs empty Registries.
func NewRegistries() *Registries {
	return &Registries{
		Patterns:    map[ExprID]PatternExpressionEntry{},
		Backends:    map[ModuleID]*ordered.Map[string, ast.DeviceBackendDecl]{},
		Annotations: map[string][]string{},
	}
}

// ProgramGraph is the root PatternedGraph node (§3).
type ProgramGraph struct {
	EntryFileID string
	Modules     []*ModuleGraph
	Devices     []*DeviceGraph
	Registries  *Registries
}

// ModuleByID looks up a module by its stable id.
func (g *ProgramGraph) ModuleByID(id ModuleID) (*ModuleGraph, bool) {
	for _, m := range g.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}
