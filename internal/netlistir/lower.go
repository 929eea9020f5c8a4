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
package netlistir

import (
	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/patterned"
	"github.com/asdl-lang/asdl/internal/viewbind"
)

// Lower flattens bound (the View Binder's output over ag, rooted at top)
// into a NetlistDesign: one NetlistModule per distinct Effective module id
// reachable from top, in deterministic pre-order, with emitted names
// allocated as each is first encountered (§4.8). Callers that skip view
// binding entirely should still call viewbind.Bind(ag, top, nil, nil) to
// obtain an identity-bound BoundGraph before calling Lower.
func Lower(ag *atomizer.AtomizedGraph, bound *viewbind.BoundGraph, top patterned.ModuleID) *NetlistDesign {
	lb := &lowerer{
		ag:        ag,
		bound:     bound,
		alloc:     NewNameAllocator(),
		built:     map[patterned.ModuleID]*NetlistModule{},
		pathToOcc: map[string]viewbind.Occurrence{},
		design: &NetlistDesign{
			EntryFileID:            ag.EntryFileID,
			Top:                    top,
			EmissionNameMap:        map[patterned.ModuleID]string{},
			PatternExpressionTable: map[patterned.ExprID]patterned.PatternExpressionEntry{},
			ViewBindings:           bound.Occurrences,
			Registries:             ag.Registries,
		},
	}
	for _, occ := range bound.Occurrences {
		lb.pathToOcc[occ.Path] = occ
	}

	lb.buildModule(top, top, top.Name)
	lb.harvestExpressions()
	return lb.design
}

type lowerer struct {
	ag        *atomizer.AtomizedGraph
	bound     *viewbind.BoundGraph
	alloc     *NameAllocator
	built     map[patterned.ModuleID]*NetlistModule
	pathToOcc map[string]viewbind.Occurrence
	design    *NetlistDesign
}

// buildModule materializes the NetlistModule for effective (backed by
// content's actual ports/nets/instances), recursing into its children in
// their declared instance order. Already-built effective ids are returned
// from cache, which is what lets convergent occurrences of the same
// declared module share one emitted subckt.
func (lb *lowerer) buildModule(effective, content patterned.ModuleID, path string) *NetlistModule {
	if nm, ok := lb.built[effective]; ok {
		return nm
	}
	cm, ok := ResolveModule(lb.ag, content.FileID, content.Name)
	if !ok {
		return nil
	}

	nm := &NetlistModule{
		ID:         effective,
		ContentID:  cm.ID,
		Ports:      cm.Ports,
		Parameters: cm.Parameters,
	}
	nm.EmittedName = lb.alloc.Allocate(effective.Name)
	lb.built[effective] = nm
	lb.design.EmissionNameMap[effective] = nm.EmittedName
	lb.design.Modules = append(lb.design.Modules, nm)

	for _, net := range cm.Nets {
		nm.Nets = append(nm.Nets, convertNet(net))
	}

	for _, inst := range cm.Instances {
		nm.Instances = append(nm.Instances, lb.buildInstance(inst, path))
	}

	return nm
}

func (lb *lowerer) buildInstance(inst atomizer.AtomizedInstance, parentPath string) NetlistInstance {
	ni := NetlistInstance{
		Name:       inst.Name,
		Ref:        inst.Ref,
		RefFileID:  inst.RefFileID,
		Parameters: inst.Parameters,
		Origin:     inst.Origin,
	}
	if inst.Ref == nil {
		return ni
	}

	deviceID := patterned.ModuleID{FileID: inst.RefFileID, Name: inst.Ref.Symbol()}
	if isDevice(lb.ag.Registries, deviceID) {
		ni.IsDevice = true
		ni.EmittedTarget = deviceID.Name
		return ni
	}

	targetDeclared := deviceID
	if view, ok := inst.Ref.View(); ok {
		targetDeclared.Name += "@" + view
	}

	childPath := parentPath + "." + inst.Name
	effective, content := targetDeclared, targetDeclared
	if occ, ok := lb.pathToOcc[childPath]; ok {
		effective = occ.Effective
		content = lb.bound.ContentOf[occ.Effective]
	}

	if child := lb.buildModule(effective, content, childPath); child != nil {
		ni.EmittedTarget = child.EmittedName
		ni.TargetEffective = effective
	}
	return ni
}

func convertNet(net atomizer.AtomizedNet) NetlistNet {
	nn := NetlistNet{Name: net.Name, Origin: net.Origin}
	for _, ep := range net.Endpoints {
		nn.Endpoints = append(nn.Endpoints, NetlistEndpoint{Instance: ep.Instance, Pin: ep.Pin, Origin: ep.Origin})
	}
	return nn
}

// harvestExpressions reconstructs the module-level pattern_expression_table
// by walking every emitted net/endpoint/instance's provenance and copying
// the referenced registry rows forward (§4.8).
func (lb *lowerer) harvestExpressions() {
	add := func(o *atomizer.AtomizedPatternOrigin) {
		if o == nil {
			return
		}
		if entry, ok := lb.ag.Registries.Patterns[o.ExpressionID]; ok {
			lb.design.PatternExpressionTable[o.ExpressionID] = entry
		}
	}
	for _, m := range lb.design.Modules {
		for _, n := range m.Nets {
			add(n.Origin)
			for _, ep := range n.Endpoints {
				add(ep.Origin)
			}
		}
		for _, inst := range m.Instances {
			add(inst.Origin)
		}
	}
}
