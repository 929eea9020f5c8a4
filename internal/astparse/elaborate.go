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
package astparse

import (
	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/pattern"
)

// ElaboratePatterns is the early-AST named-pattern validation pass (§4.2):
// it rejects undefined `<@name>` references and self-referential pattern
// definitions (directly or transitively) in every module, before any later
// stage attempts to resolve one. The actual inlining — which must keep
// axis-identity provenance alive for Bind's axis-projection rule (§4.4) —
// happens lower in the pipeline via pattern.ResolveNamed, not here; see
// DESIGN.md for why the two are split across layers.
func ElaboratePatterns(doc *ast.Document) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, m := range doc.Modules {
		diags = append(diags, elaborateModule(m)...)
	}
	return diags
}

func elaborateModule(m *ast.ModuleDecl) []diag.Diagnostic {
	var diags []diag.Diagnostic

	for _, name := range m.Patterns.Keys() {
		def, _ := m.Patterns.Get(name)
		diags = append(diags, checkCycle(m, name, def.Loc, map[string]bool{})...)
	}

	walkPatternSites(m, func(expr string, loc diag.Span) {
		diags = append(diags, checkReferences(m, expr, loc)...)
	})

	return diags
}

// checkCycle walks the reference chain starting at pattern `name`,
// reporting AST-019 the first time a pattern is revisited within its own
// chain. Undefined references are left for checkReferences to report
// (AST-018), so each gets exactly one diagnostic kind.
func checkCycle(m *ast.ModuleDecl, name string, loc diag.Span, visiting map[string]bool) []diag.Diagnostic {
	if visiting[name] {
		return []diag.Diagnostic{
			diag.New(diag.ASTRecursivePattern, loc, diag.Catalog[diag.ASTRecursivePattern], name),
		}
	}
	def, ok := m.Patterns.Get(name)
	if !ok {
		return nil
	}

	visiting[name] = true
	defer delete(visiting, name)

	var diags []diag.Diagnostic
	for _, ref := range namedRefs(def.Expr) {
		if _, ok := m.Patterns.Get(ref); ok {
			diags = append(diags, checkCycle(m, ref, loc, visiting)...)
		}
	}
	return diags
}

func checkReferences(m *ast.ModuleDecl, expr string, loc diag.Span) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, ref := range namedRefs(expr) {
		if !m.Patterns.Has(ref) {
			diags = append(diags, diag.New(diag.ASTUndefinedPattern, loc, diag.Catalog[diag.ASTUndefinedPattern], ref))
		}
	}
	return diags
}

// namedRefs extracts every `<@NAME>` reference from expr, across every
// splice clause, in encounter order. A malformed expr yields no
// references here; the authoritative parse error is reported separately
// wherever that expr is actually expanded.
func namedRefs(expr string) []string {
	parsed, err := pattern.Parse(expr)
	if err != nil {
		return nil
	}
	var out []string
	for _, clause := range parsed.Clauses {
		for _, seg := range clause {
			if seg.Kind == pattern.SegNamed {
				out = append(out, seg.Named)
			}
		}
	}
	return out
}

// walkPatternSites visits every pattern-expression substitution site named
// in §4.2: instance names, net names, endpoint expressions, instance
// parameter values, and instance_defaults bindings.
func walkPatternSites(m *ast.ModuleDecl, visit func(expr string, loc diag.Span)) {
	for _, nb := range m.Nets {
		visit(nb.NetExpr, nb.NetLoc)
		for i, ep := range nb.EndpointExprs {
			visit(ep, nb.EndpointLocs[i])
		}
	}
	for _, inst := range m.Instances {
		visit(inst.InstanceExpr, inst.InstanceLoc)
		for _, key := range inst.Parameters.Keys() {
			b, _ := inst.Parameters.Get(key)
			visit(b.Value, b.Loc)
		}
	}
	for _, key := range m.InstanceDefaults.Keys() {
		b, _ := m.InstanceDefaults.Get(key)
		visit(b.Value, b.Loc)
	}
}
