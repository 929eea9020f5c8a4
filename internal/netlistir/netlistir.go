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

// Package netlistir lowers a (possibly view-rewritten) AtomizedGraph into a
// flat NetlistDesign (§4.8): shared top resolution, a collision-free
// emitted-name allocator, and module-symbol convergence for lookups that
// must tolerate fallback-by-name.
package netlistir

import (
	"fmt"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/ordered"
	"github.com/asdl-lang/asdl/internal/patterned"
	"github.com/asdl-lang/asdl/internal/viewbind"
)

// NetlistEndpoint is one endpoint of a NetlistNet.
type NetlistEndpoint struct {
	Instance string
	Pin      string
	Origin   *atomizer.AtomizedPatternOrigin
}

// NetlistNet is one flattened net within a NetlistModule.
type NetlistNet struct {
	Name      string
	Endpoints []NetlistEndpoint
	Origin    *atomizer.AtomizedPatternOrigin
}

// NetlistInstance is one flattened instance within a NetlistModule. Target
// is either a device backend key or another NetlistModule's EmittedName,
// distinguished by IsDevice.
type NetlistInstance struct {
	Name            string
	Ref             ast.InstanceRef
	RefFileID       string
	IsDevice        bool
	EmittedTarget   string
	TargetEffective patterned.ModuleID
	Parameters      *ordered.Map[string, string]
	Origin          *atomizer.AtomizedPatternOrigin
}

// NetlistModule is one emitted subckt-equivalent: an Effective module
// identity (possibly view-specialized) backed by a Content module's actual
// ports/nets/instances.
type NetlistModule struct {
	ID          patterned.ModuleID
	ContentID   patterned.ModuleID
	EmittedName string
	Ports       []string
	Parameters  *ordered.Map[string, string]
	Nets        []NetlistNet
	Instances   []NetlistInstance
}

// NetlistDesign is the root of the flattened IR (§3, §4.8).
type NetlistDesign struct {
	EntryFileID            string
	Top                    patterned.ModuleID
	Modules                []*NetlistModule
	EmissionNameMap        map[patterned.ModuleID]string
	PatternExpressionTable map[patterned.ExprID]patterned.PatternExpressionEntry
	ViewBindings           []viewbind.Occurrence
	Registries             *patterned.Registries
}

// ModuleByEmittedName looks up a module by its allocated emitted name.
func (d *NetlistDesign) ModuleByEmittedName(name string) (*NetlistModule, bool) {
	for _, m := range d.Modules {
		if m.EmittedName == name {
			return m, true
		}
	}
	return nil, false
}

// NameAllocator implements §4.8's collision-free emitted-name allocation:
// the first occurrence of a name keeps it unchanged; later collisions get
// `__2`, `__3`, ... suffixes, walking modules in deterministic order.
type NameAllocator struct {
	counts map[string]int
}

// NewNameAllocator constructs an empty allocator.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{counts: map[string]int{}}
}

// Allocate returns the emitted name for name, recording the collision.
func (a *NameAllocator) Allocate(name string) string {
	n := a.counts[name]
	a.counts[name]++
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s__%d", name, n+1)
}

// ResolveModule is the shared module-symbol convergence helper: exact
// (file_id, symbol) match first, falling back to a name-only scan when the
// file_id is missing, unknown, or simply doesn't match (e.g. a view bind
// resolved against a content module living in a different file than the
// instantiating one) (§4.8).
func ResolveModule(ag *atomizer.AtomizedGraph, fileID, symbol string) (*atomizer.AtomizedModuleGraph, bool) {
	if m, ok := ag.ModuleByID(patterned.ModuleID{FileID: fileID, Name: symbol}); ok {
		return m, true
	}
	for _, m := range ag.Modules {
		if m.ID.Name == symbol {
			return m, true
		}
	}
	return nil, false
}

// isDevice reports whether id names a device backend rather than a module.
func isDevice(regs *patterned.Registries, id patterned.ModuleID) bool {
	_, ok := regs.Backends[id]
	return ok
}
