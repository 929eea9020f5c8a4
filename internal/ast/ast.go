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

// Package ast defines the typed AST produced by the parser (§3, §4.2): one
// Document per source file, carrying ordered modules, devices and imports,
// each node tagged with an optional source Span for diagnostics.
package ast

import (
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
)

// Import is one entry of a Document's import table: a namespace bound to a
// path expression (absolute, relative, or logical — resolved later by the
// import resolver, §4.3).
type Import struct {
	Namespace string
	Path      string
	Loc       diag.Span
}

// Document is the root AST node for a single parsed `.asdl` file (§3).
type Document struct {
	FileID  string
	Imports []Import
	// Top names the entry module, when this file is an entry file with
	// more than one module. May be empty.
	Top    string
	TopLoc *diag.Span
	Modules []*ModuleDecl
	Devices []*DeviceDecl
	Loc     diag.Span
}

// Port is a single port declaration: a name in authored order.  Ports may
// themselves be pattern expressions (e.g. "BUS<3:0>"), expanded later by
// the Pattern Engine.
type Port struct {
	Name string
	Loc  diag.Span
}

// Binding pairs a name with a literal authored value/expression string and
// its source location — used for parameters, variables and
// instance_defaults, each of which is an ordered map in the grammar.
type Binding struct {
	Name  string
	Value string
	Loc   diag.Span
}

// PatternDef is a named pattern definition (`patterns: {NAME: expr}` or the
// tagged-object form `{expr: ..., tag: ...}`).  AxisID returns the
// identifier used for axis-projection broadcast matching (§4.4): the tag
// when present, otherwise the pattern's own name.
type PatternDef struct {
	Name string
	Expr string
	Tag  string
	Loc  diag.Span
}

// AxisID returns the axis identity of this pattern definition.
func (p PatternDef) AxisID() string {
	if p.Tag != "" {
		return p.Tag
	}
	return p.Name
}

// NetBundle is one entry of a module's `nets` block: an endpoint expression
// (pattern, LHS of binding) mapped to an ordered endpoint list (RHS).
type NetBundle struct {
	NetExpr      string
	NetLoc       diag.Span
	EndpointExprs []string
	EndpointLocs  []diag.Span
}

// InstanceDecl is one entry of a module's `instances` block.  Exactly one of
// the two authored forms produced it: inline shorthand (`"ref key=val"`,
// quote-aware tokenized by the parser into Ref + Parameters) or the
// structured `{ref, parameters}` form. Both collapse to this same shape.
type InstanceDecl struct {
	InstanceExpr string // pattern expression naming this instance (LHS)
	InstanceLoc  diag.Span
	RefExpr      string // authored ref: symbol | symbol@view | ns.symbol | ns.symbol@view
	RefLoc       diag.Span
	Parameters   *ordered.Map[string, Binding]
	Loc          diag.Span
}

// ModuleDecl is a hierarchical module declaration (§3).
type ModuleDecl struct {
	Name             string
	NameLoc          diag.Span
	Ports            []Port
	Parameters       *ordered.Map[string, Binding]
	Variables        *ordered.Map[string, Binding]
	Patterns         *ordered.Map[string, PatternDef]
	InstanceDefaults *ordered.Map[string, Binding]
	Nets             []NetBundle
	Instances        []InstanceDecl
	Loc              diag.Span
}

// NewModuleDecl constructs a ModuleDecl with all ordered maps initialized,
// so callers never need a nil check before Set/Get.
func NewModuleDecl(name string, loc diag.Span) *ModuleDecl {
	return &ModuleDecl{
		Name:             name,
		NameLoc:          loc,
		Parameters:       ordered.New[string, Binding](),
		Variables:        ordered.New[string, Binding](),
		Patterns:         ordered.New[string, PatternDef](),
		InstanceDefaults: ordered.New[string, Binding](),
		Loc:              loc,
	}
}

// DeviceBackendDecl is one named backend implementation of a DeviceDecl.
type DeviceBackendDecl struct {
	BackendName string
	Template    string
	Variables   *ordered.Map[string, Binding]
	Loc         diag.Span
}

// DeviceDecl is a device primitive declaration carrying one or more backend
// templates (§3).
type DeviceDecl struct {
	Name       string
	NameLoc    diag.Span
	Ports      []Port
	Parameters *ordered.Map[string, Binding]
	Variables  *ordered.Map[string, Binding]
	Backends   *ordered.Map[string, DeviceBackendDecl]
	Loc        diag.Span
}

// NewDeviceDecl constructs a DeviceDecl with all ordered maps initialized.
func NewDeviceDecl(name string, loc diag.Span) *DeviceDecl {
	return &DeviceDecl{
		Name:       name,
		NameLoc:    loc,
		Parameters: ordered.New[string, Binding](),
		Variables:  ordered.New[string, Binding](),
		Backends:   ordered.New[string, DeviceBackendDecl](),
		Loc:        loc,
	}
}
