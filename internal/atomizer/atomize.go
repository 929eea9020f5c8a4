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
package atomizer

import (
	"strconv"
	"strings"

	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
	"github.com/asdl-lang/asdl/internal/pattern"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// Atomize lowers a PatternedGraph into an AtomizedGraph (§4.6): every
// net/instance/endpoint expression is parsed, named-pattern references are
// inlined against the module's own PatternDefs, and the result is expanded
// to scalar atoms. Endpoint atoms are bound to their net's atom positions
// via the Pattern Engine's axis-aware Bind.
func Atomize(g *patterned.ProgramGraph) (*AtomizedGraph, []diag.Diagnostic) {
	a := &atomizer{regs: g.Registries}
	out := &AtomizedGraph{EntryFileID: g.EntryFileID, Devices: g.Devices, Registries: g.Registries}

	for _, mg := range g.Modules {
		out.Modules = append(out.Modules, a.atomizeModule(mg))
	}

	return out, a.diags
}

type atomizer struct {
	regs  *patterned.Registries
	diags []diag.Diagnostic
}

func (a *atomizer) errorf(code diag.Code, span diag.Span, format string, args ...any) {
	a.diags = append(a.diags, diag.New(code, span, format, args...))
}

// parseAndResolve parses expr and inlines its named-pattern references
// against defs, reporting a single IR-003 on any failure at either step.
func (a *atomizer) parseAndResolve(raw string, loc diag.Span, defs map[string]pattern.Definition) (pattern.Expression, bool) {
	expr, err := pattern.Parse(raw)
	if err != nil {
		a.errorf(diag.IRPatternParse, loc, diag.Catalog[diag.IRPatternParse], raw, err.Error())
		return pattern.Expression{}, false
	}
	resolved, err := pattern.ResolveNamed(expr, defs)
	if err != nil {
		a.errorf(diag.IRPatternParse, loc, diag.Catalog[diag.IRPatternParse], raw, err.Error())
		return pattern.Expression{}, false
	}
	return resolved, true
}

func (a *atomizer) expand(raw string, loc diag.Span, expr pattern.Expression) ([]pattern.Atom, bool) {
	atoms, err := pattern.Expand(expr, pattern.MaxExpansionAtoms)
	if err != nil {
		a.errorf(diag.IRExpansionTooLarge, loc, diag.Catalog[diag.IRExpansionTooLarge], pattern.MaxExpansionAtoms)
		return nil, false
	}
	return atoms, true
}

func (a *atomizer) atomizeModule(mg *patterned.ModuleGraph) *AtomizedModuleGraph {
	out := &AtomizedModuleGraph{
		ID:         mg.ID,
		Ports:      mg.Ports,
		PortOrder:  mg.PortOrder,
		Parameters: mg.Parameters,
		Variables:  mg.Variables,
	}

	seenNets := map[string]diag.Span{}
	seenInsts := map[string]diag.Span{}

	for _, nb := range mg.NetBundles {
		a.atomizeNetBundle(mg, nb, out, seenNets)
	}
	for _, ib := range mg.InstanceBundles {
		a.atomizeInstanceBundle(mg, ib, out, seenInsts)
	}

	return out
}

func (a *atomizer) atomizeNetBundle(mg *patterned.ModuleGraph, nb patterned.NetBundle, out *AtomizedModuleGraph, seen map[string]diag.Span) {
	netExpr, ok := a.parseAndResolve(nb.Expr, nb.Loc, mg.PatternDefs)
	if !ok {
		return
	}
	if strings.HasPrefix(nb.Expr, "$") && netExpr.Spliced {
		a.errorf(diag.IRSpliceOnPort, nb.Loc, diag.Catalog[diag.IRSpliceOnPort])
		return
	}
	netAtoms, ok := a.expand(nb.Expr, nb.Loc, netExpr)
	if !ok {
		return
	}

	var endpointAtoms []pattern.Atom
	var endpointSources []patterned.EndpointBundle
	for _, ep := range nb.Endpoints {
		epExpr, ok := a.parseAndResolve(ep.Expr, ep.Loc, mg.PatternDefs)
		if !ok {
			continue
		}
		atoms, ok := a.expand(ep.Expr, ep.Loc, epExpr)
		if !ok {
			continue
		}
		endpointAtoms = append(endpointAtoms, atoms...)
		for range atoms {
			endpointSources = append(endpointSources, ep)
		}
	}

	binding, err := pattern.Bind(netAtoms, endpointAtoms)
	if err != nil {
		a.errorf(diag.IRBindMismatch, nb.Loc, diag.Catalog[diag.IRBindMismatch], len(endpointAtoms), len(netAtoms))
		return
	}

	for i, netAtom := range netAtoms {
		if _, dup := seen[netAtom.Literal]; dup {
			a.errorf(diag.IRCollision, nb.Loc, diag.Catalog[diag.IRCollision], netAtom.Literal)
			continue
		}
		seen[netAtom.Literal] = nb.Loc

		net := AtomizedNet{
			Name: netAtom.Literal,
			Origin: &AtomizedPatternOrigin{
				ExpressionID: nb.Origin.ExpressionID,
				AtomIndex:    i,
				BaseName:     nb.Origin.BaseName,
				PatternParts: numericParts(netAtom),
			},
		}

		for _, j := range binding.Fanout[i] {
			epAtom := endpointAtoms[j]
			epSrc := endpointSources[j]
			inst, pin, ok := splitEndpoint(epAtom.Literal)
			if !ok {
				a.errorf(diag.IRBadEndpointArity, epSrc.Loc, diag.Catalog[diag.IRBadEndpointArity], epAtom.Literal)
				continue
			}
			net.Endpoints = append(net.Endpoints, AtomizedEndpoint{
				Name:     epAtom.Literal,
				Instance: inst,
				Pin:      pin,
				Origin: &AtomizedPatternOrigin{
					ExpressionID: epSrc.Origin.ExpressionID,
					AtomIndex:    j,
					BaseName:     epSrc.Origin.BaseName,
				},
			})
		}

		out.Nets = append(out.Nets, net)
	}
}

// numericParts renders an atom's NumericOrigin trace as decimal strings,
// carried forward for the template emitter's numeric pattern-rendering
// (§4.9).
func numericParts(atom pattern.Atom) []string {
	if len(atom.NumericOrigin) == 0 {
		return nil
	}
	out := make([]string, len(atom.NumericOrigin))
	for i, n := range atom.NumericOrigin {
		out[i] = strconv.Itoa(n)
	}
	return out
}

// splitEndpoint implements the single-split endpoint grammar: the first '.'
// divides an endpoint literal into its instance and pin components (§4.4).
func splitEndpoint(literal string) (instance, pin string, ok bool) {
	instance, pin, found := strings.Cut(literal, ".")
	if !found || instance == "" || pin == "" {
		return "", "", false
	}
	return instance, pin, true
}

func (a *atomizer) atomizeInstanceBundle(mg *patterned.ModuleGraph, ib patterned.InstanceBundle, out *AtomizedModuleGraph, seen map[string]diag.Span) {
	// Instance names may use the module's named patterns just like nets
	// and endpoints do.
	instExpr, ok := a.parseAndResolve(ib.Expr, ib.Loc, mg.PatternDefs)
	if !ok {
		return
	}
	instAtoms, ok := a.expand(ib.Expr, ib.Loc, instExpr)
	if !ok {
		return
	}

	for i, atom := range instAtoms {
		if _, dup := seen[atom.Literal]; dup {
			a.errorf(diag.IRCollision, ib.Loc, diag.Catalog[diag.IRCollision], atom.Literal)
			continue
		}
		seen[atom.Literal] = ib.Loc

		params := ordered.New[string, string]()
		for _, key := range ib.Parameters.Keys() {
			v, _ := ib.Parameters.Get(key)
			params.Set(key, v)
		}

		out.Instances = append(out.Instances, AtomizedInstance{
			Name:       atom.Literal,
			RefExpr:    ib.RefExpr,
			Ref:        ib.Ref,
			RefFileID:  ib.RefFileID,
			Parameters: params,
			Origin: &AtomizedPatternOrigin{
				ExpressionID: ib.Origin.ExpressionID,
				AtomIndex:    i,
				BaseName:     ib.Origin.BaseName,
			},
		})
	}
}
