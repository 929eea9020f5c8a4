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
package loweratop

import (
	"fmt"
	"strings"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/ordered"
	"github.com/asdl-lang/asdl/internal/pattern"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// Lower produces a PatternedGraph from a resolved ProgramDB (§4.5).
func Lower(db *importgraph.ProgramDB) (*patterned.ProgramGraph, []diag.Diagnostic) {
	l := &lowerer{
		db:    db,
		regs:  patterned.NewRegistries(),
		diags: nil,
	}
	l.exprs = newExprRegistry(l.regs)

	g := &patterned.ProgramGraph{EntryFileID: db.EntryFileID, Registries: l.regs}

	for _, fileID := range db.Order {
		doc := db.Docs[fileID]
		for _, m := range doc.Modules {
			g.Modules = append(g.Modules, l.lowerModule(fileID, m))
		}
		for _, d := range doc.Devices {
			g.Devices = append(g.Devices, l.lowerDevice(fileID, d))
		}
	}

	return g, l.diags
}

type lowerer struct {
	db    *importgraph.ProgramDB
	regs  *patterned.Registries
	exprs *exprRegistry
	diags []diag.Diagnostic
}

func (l *lowerer) errorf(code diag.Code, span diag.Span, format string, args ...any) {
	l.diags = append(l.diags, diag.New(code, span, format, args...))
}

func (l *lowerer) warnf(code diag.Code, span diag.Span, format string, args ...any) {
	l.diags = append(l.diags, diag.Warning(code, span, format, args...))
}

func patternDefsOf(m *ast.ModuleDecl) map[string]pattern.Definition {
	out := map[string]pattern.Definition{}
	for _, name := range m.Patterns.Keys() {
		def, _ := m.Patterns.Get(name)
		out[name] = pattern.Definition{Expr: def.Expr, AxisKey: def.AxisID()}
	}
	return out
}

func copyBindingMap(m *ordered.Map[string, ast.Binding]) *ordered.Map[string, string] {
	out := ordered.New[string, string]()
	for _, k := range m.Keys() {
		b, _ := m.Get(k)
		out.Set(k, b.Value)
	}
	return out
}

func (l *lowerer) lowerDevice(fileID string, d *ast.DeviceDecl) *patterned.DeviceGraph {
	id := patterned.ModuleID{FileID: fileID, Name: d.Name}
	var ports []string
	for _, p := range d.Ports {
		ports = append(ports, p.Name)
	}
	dg := &patterned.DeviceGraph{
		ID:         id,
		Ports:      ports,
		Parameters: copyBindingMap(d.Parameters),
		Variables:  copyBindingMap(d.Variables),
		Backends:   d.Backends,
	}
	l.regs.Backends[id] = d.Backends
	return dg
}

func (l *lowerer) lowerModule(fileID string, m *ast.ModuleDecl) *patterned.ModuleGraph {
	id := patterned.ModuleID{FileID: fileID, Name: m.Name}
	var ports []string
	for _, p := range m.Ports {
		ports = append(ports, p.Name)
		l.exprs.intern(patterned.ExprKindPort, p.Name, p.Loc)
	}

	mg := &patterned.ModuleGraph{
		ID:               id,
		Ports:            ports,
		Parameters:       copyBindingMap(m.Parameters),
		Variables:        copyBindingMap(m.Variables),
		InstanceDefaults: copyBindingMap(m.InstanceDefaults),
		PatternDefs:      patternDefsOf(m),
	}

	explicitPorts := map[string]bool{}
	for _, nb := range m.Nets {
		netID := l.exprs.intern(patterned.ExprKindNet, nb.NetExpr, nb.NetLoc)
		bundle := patterned.NetBundle{
			Bundle: patterned.Bundle{
				ID:     fmt.Sprintf("%s#net#%d", id.Name, netID),
				Expr:   nb.NetExpr,
				Origin: patterned.PatternOrigin{ExpressionID: netID, BaseName: nb.NetExpr},
				Loc:    nb.NetLoc,
			},
		}
		if strings.HasPrefix(nb.NetExpr, "$") {
			explicitPorts[nb.NetExpr] = true
			mg.PortOrder = append(mg.PortOrder, nb.NetExpr)
		}
		for i, epExpr := range nb.EndpointExprs {
			epID := l.exprs.intern(patterned.ExprKindEndpoint, epExpr, nb.EndpointLocs[i])
			bundle.Endpoints = append(bundle.Endpoints, patterned.EndpointBundle{
				Bundle: patterned.Bundle{
					ID:     fmt.Sprintf("%s#endpoint#%d#%d", id.Name, netID, i),
					Expr:   epExpr,
					Origin: patterned.PatternOrigin{ExpressionID: epID, SegmentIndex: i, BaseName: epExpr},
					Loc:    nb.EndpointLocs[i],
				},
			})
		}
		mg.NetBundles = append(mg.NetBundles, bundle)
	}

	// Defaults may introduce new $-nets; they append to port_order after
	// explicit $-nets from the module's nets block (§4.5).
	for _, pin := range m.InstanceDefaults.Keys() {
		b, _ := m.InstanceDefaults.Get(pin)
		val := strings.TrimPrefix(b.Value, "!")
		if strings.HasPrefix(val, "$") && !explicitPorts[val] {
			explicitPorts[val] = true
			mg.PortOrder = append(mg.PortOrder, val)
		}
	}

	env := l.db.Envs[fileID]
	for _, inst := range m.Instances {
		mg.InstanceBundles = append(mg.InstanceBundles, l.lowerInstance(fileID, id, env, m, inst))
	}

	return mg
}

func (l *lowerer) lowerInstance(fileID string, moduleID patterned.ModuleID, env *importgraph.NameEnv, m *ast.ModuleDecl, inst ast.InstanceDecl) patterned.InstanceBundle {
	instID := l.exprs.intern(patterned.ExprKindInstance, inst.InstanceExpr, inst.InstanceLoc)

	bundle := patterned.InstanceBundle{
		Bundle: patterned.Bundle{
			ID:     fmt.Sprintf("%s#inst#%d", moduleID.Name, instID),
			Expr:   inst.InstanceExpr,
			Origin: patterned.PatternOrigin{ExpressionID: instID, BaseName: inst.InstanceExpr},
			Loc:    inst.InstanceLoc,
		},
		RefExpr:    inst.RefExpr,
		Parameters: ordered.New[string, string](),
	}

	ref, err := ast.ParseInstanceRef(inst.RefExpr)
	if err != nil {
		// Already reported by astparse at parse time; nothing further to do.
		return bundle
	}
	bundle.Ref = ref
	bundle.RefFileID = l.resolveRefFileID(fileID, env, inst.RefLoc, ref)

	vars := m.Variables

	explicit := map[string]bool{}
	for _, key := range inst.Parameters.Keys() {
		b, _ := inst.Parameters.Get(key)
		resolved, err := substituteVars(b.Value, vars)
		if err != nil {
			l.reportVarError(b.Loc, err)
			resolved = b.Value
		}
		explicit[key] = true

		if def, isDefault := m.InstanceDefaults.Get(key); isDefault {
			resolved = l.applyDefaultOverride(b.Loc, key, resolved, def.Value)
		}
		bundle.Parameters.Set(key, resolved)
	}

	for _, pin := range m.InstanceDefaults.Keys() {
		if explicit[pin] {
			continue
		}
		def, _ := m.InstanceDefaults.Get(pin)
		resolved, err := substituteVars(strings.TrimPrefix(def.Value, "!"), vars)
		if err != nil {
			l.reportVarError(def.Loc, err)
			resolved = def.Value
		}
		bundle.Parameters.Set(pin, resolved)
	}

	return bundle
}

// applyDefaultOverride implements §4.5's instance_defaults `!` rule: an
// explicit binding that agrees with the default is silent; one that
// disagrees and isn't `!`-prefixed warns (IR-008); a `!`-prefixed binding
// always suppresses the warning and the `!` is stripped from the value
// actually bound.
func (l *lowerer) applyDefaultOverride(loc diag.Span, pin, explicit, def string) string {
	if strings.HasPrefix(explicit, "!") {
		return strings.TrimPrefix(explicit, "!")
	}
	if explicit == strings.TrimPrefix(def, "!") {
		return explicit
	}
	l.warnf(diag.IRDefaultOverride, loc, diag.Catalog[diag.IRDefaultOverride], pin)
	return explicit
}

func (l *lowerer) reportVarError(loc diag.Span, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "cyclic") || strings.Contains(msg, "nested too deeply"):
		l.errorf(diag.IRCyclicVariable, loc, diag.Catalog[diag.IRCyclicVariable], msg)
	case strings.Contains(msg, "undefined variable"):
		name := strings.TrimSuffix(strings.TrimPrefix(msg, `undefined variable "`), `"`)
		l.errorf(diag.IRUndefinedVariable, loc, diag.Catalog[diag.IRUndefinedVariable], name)
	default:
		l.errorf(diag.IRUndefinedVariable, loc, "%s", msg)
	}
}

// resolveRefFileID resolves an InstanceRef's namespace (if qualified)
// against the importing file's NameEnv, then confirms the target symbol
// exists in the resolved file's own NameEnv (§4.3).
func (l *lowerer) resolveRefFileID(fileID string, env *importgraph.NameEnv, loc diag.Span, ref ast.InstanceRef) string {
	ns, qualified := ref.Namespace()
	if !qualified {
		if !env.Locals.Has(ref.Symbol()) {
			l.errorf(diag.IRUnqualifiedMiss, loc, diag.Catalog[diag.IRUnqualifiedMiss], ref.Symbol())
			return ""
		}
		return fileID
	}

	targetFileID, ok := env.Namespaces.Get(ns)
	if !ok {
		l.errorf(diag.IRQualifiedMiss, loc, diag.Catalog[diag.IRQualifiedMiss], ref.Symbol(), ns)
		return ""
	}
	targetEnv, ok := l.db.Envs[targetFileID]
	if !ok || !targetEnv.Locals.Has(ref.Symbol()) {
		l.errorf(diag.IRQualifiedMiss, loc, diag.Catalog[diag.IRQualifiedMiss], ref.Symbol(), ns)
		return ""
	}
	return targetFileID
}
