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

// Package astparse turns `.asdl` source bytes into a typed ast.Document
// (§4.2): a raw YAML tree (preserving comments and line/column via
// yaml.Node) is walked by a schema validator that constructs typed nodes,
// attaching a source Span to each. Named-pattern elaboration
// (elaborate.go) runs as a separate pass immediately afterwards.
//
// Whether `top` is required (">1 module in the *entry* file") is not
// checked here: this package parses every file reachable from an import
// graph, entry or not, and only the caller holding that graph knows which
// file is the entry (internal/netlistir.ResolveTop makes that check and
// reports EMIT-001).
package astparse

import (
	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
)

// Parse parses the bytes of one `.asdl` source file into a Document.
// fileID must already be the normalized absolute path the caller intends
// to use as this document's stable identity.
func Parse(fileID string, src []byte) (*ast.Document, []diag.Diagnostic) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, []diag.Diagnostic{
			diag.New(diag.ParseYAMLSyntax, diag.NewSpan(fileID, 1, 1, 0), diag.Catalog[diag.ParseYAMLSyntax], err.Error()),
		}
	}

	if len(root.Content) == 0 {
		return nil, []diag.Diagnostic{
			diag.New(diag.ParseEmptyDocument, diag.NewSpan(fileID, 1, 1, 0), diag.Catalog[diag.ParseEmptyDocument]),
		}
	}
	if len(root.Content) > 1 {
		return nil, []diag.Diagnostic{
			diag.New(diag.ParseUnexpectedDoc, spanOf(fileID, &root), diag.Catalog[diag.ParseUnexpectedDoc], len(root.Content)),
		}
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, []diag.Diagnostic{
			diag.New(diag.ParseYAMLSyntax, spanOf(fileID, top), diag.Catalog[diag.ParseYAMLSyntax], "document root must be a mapping"),
		}
	}

	p := &parser{fileID: fileID}
	doc := &ast.Document{FileID: fileID, Loc: spanOf(fileID, top)}

	for i := 0; i < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "imports":
			doc.Imports = p.parseImports(val)
		case "top":
			s, loc := p.scalar(val)
			doc.Top = s
			doc.TopLoc = &loc
		case "modules":
			doc.Modules = p.parseModules(val)
		case "devices":
			doc.Devices = p.parseDevices(val)
		default:
			p.unknownField(key)
		}
	}

	if len(doc.Modules) == 0 && len(doc.Devices) == 0 {
		p.diags = append(p.diags, diag.New(diag.ParseEmptyDocument, spanOf(fileID, top), diag.Catalog[diag.ParseEmptyDocument]))
	}

	return doc, p.diags
}

// parser threads the accumulated diagnostics and source fileID through the
// recursive-descent walk over the yaml.Node tree.
type parser struct {
	fileID string
	diags  []diag.Diagnostic
}

func spanOf(fileID string, n *yaml.Node) diag.Span {
	length := 0
	if n.Kind == yaml.ScalarNode {
		length = len(n.Value)
	}
	return diag.NewSpan(fileID, n.Line, n.Column, length)
}

func (p *parser) span(n *yaml.Node) diag.Span {
	return spanOf(p.fileID, n)
}

func (p *parser) unknownField(key *yaml.Node) {
	p.diags = append(p.diags, diag.New(diag.ASTUnknownField, p.span(key), diag.Catalog[diag.ASTUnknownField], key.Value))
}

func (p *parser) errorf(n *yaml.Node, code diag.Code, format string, args ...any) {
	p.diags = append(p.diags, diag.New(code, p.span(n), format, args...))
}

// scalar returns a scalar node's decoded string value and span. Non-scalar
// nodes decode to their literal flow text as a best-effort fallback so
// downstream passes still have *something* to report against.
func (p *parser) scalar(n *yaml.Node) (string, diag.Span) {
	if n.Kind != yaml.ScalarNode {
		p.errorf(n, diag.ParseYAMLSyntax, "expected a scalar value")
		return "", p.span(n)
	}
	return n.Value, p.span(n)
}

// mappingPairs returns a mapping node's (key, value) yaml.Node pairs in
// authored order, or nil (with a diagnostic) if n is not a mapping.
func (p *parser) mappingPairs(n *yaml.Node) [][2]*yaml.Node {
	if n.Kind != yaml.MappingNode {
		p.errorf(n, diag.ParseYAMLSyntax, "expected a mapping")
		return nil
	}
	seen := map[string]bool{}
	var out [][2]*yaml.Node
	for i := 0; i < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if seen[key.Value] {
			p.errorf(key, diag.ParseDuplicateKey, diag.Catalog[diag.ParseDuplicateKey], key.Value)
			continue
		}
		seen[key.Value] = true
		out = append(out, [2]*yaml.Node{key, val})
	}
	return out
}

// sequenceItems returns a sequence node's item nodes, or nil (with a
// diagnostic) if n is not a sequence.
func (p *parser) sequenceItems(n *yaml.Node) []*yaml.Node {
	if n.Kind != yaml.SequenceNode {
		p.errorf(n, diag.ParseYAMLSyntax, "expected a sequence")
		return nil
	}
	return n.Content
}

func (p *parser) parseImports(n *yaml.Node) []ast.Import {
	var out []ast.Import
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		path, _ := p.scalar(val)
		out = append(out, ast.Import{Namespace: key.Value, Path: path, Loc: p.span(key)})
	}
	return out
}

func (p *parser) parseBindingMap(n *yaml.Node) *ordered.Map[string, ast.Binding] {
	out := ordered.New[string, ast.Binding]()
	if n == nil {
		return out
	}
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		value, _ := p.scalar(val)
		if out.Has(key.Value) {
			p.errorf(key, diag.ASTDuplicateSymbol, diag.Catalog[diag.ASTDuplicateSymbol], key.Value)
			continue
		}
		out.Set(key.Value, ast.Binding{Name: key.Value, Value: value, Loc: p.span(key)})
	}
	return out
}

func (p *parser) parsePorts(n *yaml.Node) []ast.Port {
	var out []ast.Port
	for _, item := range p.sequenceItems(n) {
		name, loc := p.scalar(item)
		out = append(out, ast.Port{Name: name, Loc: loc})
	}
	return out
}
