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
	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
)

func (p *parser) parseModules(n *yaml.Node) []*ast.ModuleDecl {
	var out []*ast.ModuleDecl
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		out = append(out, p.parseModule(key.Value, p.span(key), val))
	}
	return out
}

func (p *parser) parseModule(name string, nameLoc diag.Span, n *yaml.Node) *ast.ModuleDecl {
	m := ast.NewModuleDecl(name, nameLoc)
	m.Loc = p.span(n)

	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		switch key.Value {
		case "ports":
			m.Ports = p.parsePorts(val)
		case "parameters":
			m.Parameters = p.parseBindingMap(val)
		case "variables":
			m.Variables = p.parseBindingMap(val)
		case "patterns":
			m.Patterns = p.parsePatterns(val)
		case "instance_defaults":
			m.InstanceDefaults = p.parseBindingMap(val)
		case "nets":
			m.Nets = p.parseNets(val)
		case "instances":
			m.Instances = p.parseInstances(val)
		case "params":
			p.errorf(key, diag.ASTReservedParams, diag.Catalog[diag.ASTReservedParams], "params")
		default:
			p.unknownField(key)
		}
	}
	return m
}

// parsePatterns decodes `patterns: {NAME: expr}` where expr is either a bare
// string (axis id defaults to NAME) or the tagged object form `{expr, tag}`
// (§3, §4.4).
func (p *parser) parsePatterns(n *yaml.Node) *ordered.Map[string, ast.PatternDef] {
	out := ordered.New[string, ast.PatternDef]()
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		def := ast.PatternDef{Name: key.Value, Loc: p.span(key)}

		switch val.Kind {
		case yaml.ScalarNode:
			def.Expr, _ = p.scalar(val)
		case yaml.MappingNode:
			for _, inner := range p.mappingPairs(val) {
				ikey, ival := inner[0], inner[1]
				switch ikey.Value {
				case "expr":
					def.Expr, _ = p.scalar(ival)
				case "tag":
					def.Tag, _ = p.scalar(ival)
				default:
					p.unknownField(ikey)
				}
			}
		default:
			p.errorf(val, diag.ParseYAMLSyntax, "pattern definition must be a string or a {expr, tag} mapping")
		}

		if out.Has(key.Value) {
			p.errorf(key, diag.ASTDuplicateSymbol, diag.Catalog[diag.ASTDuplicateSymbol], key.Value)
			continue
		}
		out.Set(key.Value, def)
	}
	return out
}

// parseNets decodes `nets: {net_expr: [endpoint_expr, ...]}` (§3).
func (p *parser) parseNets(n *yaml.Node) []ast.NetBundle {
	var out []ast.NetBundle
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		nb := ast.NetBundle{NetExpr: key.Value, NetLoc: p.span(key)}
		for _, item := range p.sequenceItems(val) {
			expr, loc := p.scalar(item)
			nb.EndpointExprs = append(nb.EndpointExprs, expr)
			nb.EndpointLocs = append(nb.EndpointLocs, loc)
		}
		out = append(out, nb)
	}
	return out
}

// parseInstances decodes `instances: {instance_expr: ref_string | {ref,
// parameters}}` — both authored forms collapse to ast.InstanceDecl via one
// shared helper (§4.2).
func (p *parser) parseInstances(n *yaml.Node) []ast.InstanceDecl {
	var out []ast.InstanceDecl
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		decl := ast.InstanceDecl{
			InstanceExpr: key.Value,
			InstanceLoc:  p.span(key),
			Loc:          p.span(val),
			Parameters:   ordered.New[string, ast.Binding](),
		}

		switch val.Kind {
		case yaml.ScalarNode:
			inline, _ := p.scalar(val)
			ref, params, err := tokenizeInlineInstance(inline)
			if err != nil {
				p.errorf(val, diag.ASTInvalidInstanceStr, diag.Catalog[diag.ASTInvalidInstanceStr], err.Error())
				continue
			}
			decl.RefExpr = ref
			decl.RefLoc = p.span(val)
			for _, kvp := range params {
				decl.Parameters.Set(kvp.key, ast.Binding{Name: kvp.key, Value: kvp.value, Loc: p.span(val)})
			}
		case yaml.MappingNode:
			for _, inner := range p.mappingPairs(val) {
				ikey, ival := inner[0], inner[1]
				switch ikey.Value {
				case "ref":
					decl.RefExpr, decl.RefLoc = p.scalar(ival)
				case "parameters":
					decl.Parameters = p.parseBindingMap(ival)
				case "params":
					p.errorf(ikey, diag.ASTReservedParams, diag.Catalog[diag.ASTReservedParams], "params")
				default:
					p.unknownField(ikey)
				}
			}
		default:
			p.errorf(val, diag.ParseYAMLSyntax, "instance declaration must be a string or a {ref, parameters} mapping")
			continue
		}

		if _, err := ast.ParseInstanceRef(decl.RefExpr); err != nil {
			p.errorf(val, diag.ASTBadDecoratedSymbol, diag.Catalog[diag.ASTBadDecoratedSymbol], decl.RefExpr)
		}

		out = append(out, decl)
	}
	return out
}
