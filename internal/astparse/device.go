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

func (p *parser) parseDevices(n *yaml.Node) []*ast.DeviceDecl {
	var out []*ast.DeviceDecl
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		out = append(out, p.parseDevice(key.Value, p.span(key), val))
	}
	return out
}

func (p *parser) parseDevice(name string, nameLoc diag.Span, n *yaml.Node) *ast.DeviceDecl {
	d := ast.NewDeviceDecl(name, nameLoc)
	d.Loc = p.span(n)

	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		switch key.Value {
		case "ports":
			d.Ports = p.parsePorts(val)
		case "parameters":
			d.Parameters = p.parseBindingMap(val)
		case "variables":
			d.Variables = p.parseBindingMap(val)
		case "backends":
			d.Backends = p.parseBackends(val)
		case "params":
			p.errorf(key, diag.ASTReservedParams, diag.Catalog[diag.ASTReservedParams], "params")
		default:
			p.unknownField(key)
		}
	}

	if d.Backends.Len() == 0 {
		p.errorf(n, diag.ASTEmptyDeviceBackend, diag.Catalog[diag.ASTEmptyDeviceBackend], name)
	}

	return d
}

// parseBackends decodes `backends: {name: {template, variables?}}` (§3):
// every DeviceDecl must define at least one, and every one must carry a
// non-empty template.
func (p *parser) parseBackends(n *yaml.Node) *ordered.Map[string, ast.DeviceBackendDecl] {
	out := ordered.New[string, ast.DeviceBackendDecl]()
	for _, kv := range p.mappingPairs(n) {
		key, val := kv[0], kv[1]
		be := ast.DeviceBackendDecl{BackendName: key.Value, Loc: p.span(key)}

		for _, inner := range p.mappingPairs(val) {
			ikey, ival := inner[0], inner[1]
			switch ikey.Value {
			case "template":
				be.Template, _ = p.scalar(ival)
			case "variables":
				be.Variables = p.parseBindingMap(ival)
			default:
				p.unknownField(ikey)
			}
		}

		if be.Template == "" {
			p.errorf(key, diag.ASTMissingTemplate, diag.Catalog[diag.ASTMissingTemplate], key.Value)
		}

		out.Set(key.Value, be)
	}
	return out
}
