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
package emit

import (
	"strings"

	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// Options configures one emission pass.
type Options struct {
	Backend *BackendConfig
	// EmitDate/EmitTime are captured once by the caller and threaded
	// through every template of this emission (§4.9).
	EmitDate string
	EmitTime string
	// TopAsSubckt forces the top module through the same subckt
	// header/call wrapping as every other module, instead of inlining its
	// instances directly under __netlist_header__/__netlist_footer__
	// (§9 Open Question: resolved here as described in DESIGN.md).
	TopAsSubckt bool
}

// Emit renders design through opts.Backend's templates, walking reachable
// modules in design.Modules' deterministic DFS order (§4.9).
func Emit(design *netlistir.NetlistDesign, devices []*patterned.DeviceGraph, opts Options) (string, []diag.Diagnostic) {
	e := &emitter{
		design:     design,
		backend:    opts.Backend,
		opts:       opts,
		deviceByID: map[patterned.ModuleID]*patterned.DeviceGraph{},
	}
	for _, d := range devices {
		e.deviceByID[d.ID] = d
	}

	var top *netlistir.NetlistModule
	for _, m := range design.Modules {
		if m.ID == design.Top {
			top = m
			break
		}
	}
	if top == nil {
		e.diags = append(e.diags, diag.New(diag.EmitMissingTop, diag.Span{FileID: e.design.EntryFileID}, "top module %q not found in lowered design", design.Top.Name))
		return "", e.diags
	}
	e.topEmittedName = top.EmittedName

	e.renderSystem(TemplateNetlistHeader)

	for _, m := range design.Modules {
		if m == top && !opts.TopAsSubckt {
			continue
		}
		e.renderModule(m)
	}

	if !opts.TopAsSubckt {
		conns := buildConnMap(top)
		for _, inst := range top.Instances {
			e.renderInstance(inst, conns)
		}
	}

	e.renderSystem(TemplateNetlistFooter)

	return e.buf.String(), e.diags
}

type emitter struct {
	design         *netlistir.NetlistDesign
	backend        *BackendConfig
	opts           Options
	deviceByID     map[patterned.ModuleID]*patterned.DeviceGraph
	topEmittedName string
	buf            strings.Builder
	diags          []diag.Diagnostic
}

func (e *emitter) errorf(code diag.Code, args ...any) {
	e.diags = append(e.diags, diag.New(code, diag.Span{FileID: e.design.EntryFileID}, diag.Catalog[code], args...))
}

func contextKeys(ctx map[string]string) map[string]bool {
	out := make(map[string]bool, len(ctx))
	for k := range ctx {
		out[k] = true
	}
	return out
}

// resolveFileID returns fileID, warning (`EMIT-015`) and substituting a
// best-effort placeholder when it is missing (§4.9).
func (e *emitter) resolveFileID(fileID, what string) string {
	if fileID == "" {
		e.diags = append(e.diags, diag.Warning(diag.EmitProvenanceWarn, diag.Span{}, diag.Catalog[diag.EmitProvenanceWarn], what))
		return "unknown"
	}
	return fileID
}

func (e *emitter) renderSystem(key string) {
	tmpl, ok := e.backend.Templates[key]
	if !ok {
		return
	}
	ctx := e.netlistContext()
	e.diags = append(e.diags, ValidatePlaceholders(key, tmpl, contextKeys(ctx), diag.Span{FileID: e.design.EntryFileID})...)
	e.buf.WriteString(Render(tmpl, ctx))
	e.buf.WriteString("\n")
}

func (e *emitter) netlistContext() map[string]string {
	return map[string]string{
		"file_id":      e.resolveFileID(e.design.EntryFileID, "design"),
		"top_sym_name": e.topEmittedName,
		"sym_name":     e.topEmittedName,
		"name":         e.topEmittedName,
		"emit_date":    e.opts.EmitDate,
		"emit_time":    e.opts.EmitTime,
	}
}

func (e *emitter) moduleContext(nm *netlistir.NetlistModule) map[string]string {
	ctx := map[string]string{
		"name":         nm.EmittedName,
		"ports":        strings.Join(nm.Ports, " "),
		"file_id":      e.resolveFileID(nm.ContentID.FileID, "module "+nm.EmittedName),
		"sym_name":     nm.EmittedName,
		"top_sym_name": e.topEmittedName,
		"emit_date":    e.opts.EmitDate,
		"emit_time":    e.opts.EmitTime,
	}
	if nm.Parameters != nil {
		for _, k := range nm.Parameters.Keys() {
			v, _ := nm.Parameters.Get(k)
			ctx[k] = v
		}
	}
	return ctx
}

func (e *emitter) renderModule(nm *netlistir.NetlistModule) {
	headerKey := TemplateSubcktHeader
	if nm.Parameters != nil && nm.Parameters.Len() > 0 {
		headerKey = TemplateSubcktHeaderParams
	}
	if tmpl, ok := e.backend.Templates[headerKey]; !ok {
		e.errorf(diag.EmitMissingTemplate, headerKey)
	} else {
		ctx := e.moduleContext(nm)
		e.diags = append(e.diags, ValidatePlaceholders(headerKey, tmpl, contextKeys(ctx), diag.Span{FileID: nm.ContentID.FileID})...)
		e.buf.WriteString(Render(tmpl, ctx))
		e.buf.WriteString("\n")
	}

	conns := buildConnMap(nm)
	for _, inst := range nm.Instances {
		e.renderInstance(inst, conns)
	}
}

func buildConnMap(nm *netlistir.NetlistModule) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, net := range nm.Nets {
		for _, ep := range net.Endpoints {
			if out[ep.Instance] == nil {
				out[ep.Instance] = map[string]string{}
			}
			out[ep.Instance][ep.Pin] = net.Name
		}
	}
	return out
}

// resolvePorts orders conn by ports, reporting a missing-pin error (and
// substituting an empty value) for each unbound port and an extra-pin
// error for each connection that names no such port (§4.9).
func (e *emitter) resolvePorts(ports []string, conn map[string]string, instName string) []string {
	vals := make([]string, 0, len(ports))
	known := make(map[string]bool, len(ports))
	for _, p := range ports {
		known[p] = true
		v, ok := conn[p]
		if !ok {
			e.diags = append(e.diags, diag.New(diag.EmitMissingPin, diag.Span{}, diag.Catalog[diag.EmitMissingPin], instName, p))
		}
		vals = append(vals, v)
	}
	for pin := range conn {
		if !known[pin] {
			e.diags = append(e.diags, diag.New(diag.EmitExtraPin, diag.Span{}, diag.Catalog[diag.EmitExtraPin], instName, pin))
		}
	}
	return vals
}

func (e *emitter) renderInstance(inst netlistir.NetlistInstance, conns map[string]map[string]string) {
	conn := conns[inst.Name]

	if inst.IsDevice {
		e.renderDeviceInstance(inst, conn)
		return
	}

	child, ok := e.design.ModuleByEmittedName(inst.EmittedTarget)
	if !ok {
		return
	}

	callKey := TemplateSubcktCall
	if child.Parameters != nil && child.Parameters.Len() > 0 {
		callKey = TemplateSubcktCallParams
	}
	tmpl, ok := e.backend.Templates[callKey]
	if !ok {
		e.errorf(diag.EmitMissingTemplate, callKey)
		return
	}

	portVals := e.resolvePorts(child.Ports, conn, inst.Name)
	ctx := map[string]string{
		"name":         FormatAtomName(inst.Name, inst.Origin, e.backend.PatternRendering),
		"ports":        strings.Join(portVals, " "),
		"file_id":      e.resolveFileID(inst.RefFileID, "instance "+inst.Name),
		"sym_name":     child.EmittedName,
		"top_sym_name": e.topEmittedName,
		"emit_date":    e.opts.EmitDate,
		"emit_time":    e.opts.EmitTime,
	}
	if inst.Parameters != nil {
		for _, k := range inst.Parameters.Keys() {
			v, _ := inst.Parameters.Get(k)
			ctx[k] = v
		}
	}

	e.diags = append(e.diags, ValidatePlaceholders(callKey, tmpl, contextKeys(ctx), diag.Span{FileID: inst.RefFileID})...)
	e.buf.WriteString(Render(tmpl, ctx))
	e.buf.WriteString("\n")
}

func (e *emitter) renderDeviceInstance(inst netlistir.NetlistInstance, conn map[string]string) {
	devID := patterned.ModuleID{FileID: inst.RefFileID, Name: inst.EmittedTarget}
	dev, ok := e.deviceByID[devID]
	if !ok {
		for id, d := range e.deviceByID {
			if id.Name == inst.EmittedTarget {
				dev = d
				ok = true
				break
			}
		}
	}
	if !ok {
		e.errorf(diag.EmitMissingTemplate, inst.EmittedTarget)
		return
	}

	var tmpl string
	if bd, present := dev.Backends.Get(e.backend.Name); present && bd.Template != "" {
		tmpl = bd.Template
	} else if t, present := e.backend.Templates[dev.ID.Name]; present {
		tmpl = t
	} else {
		e.errorf(diag.EmitMissingTemplate, dev.ID.Name)
		return
	}

	portVals := e.resolvePorts(dev.Ports, conn, inst.Name)
	ctx := map[string]string{
		"name":         FormatAtomName(inst.Name, inst.Origin, e.backend.PatternRendering),
		"ports":        strings.Join(portVals, " "),
		"file_id":      e.resolveFileID(inst.RefFileID, "instance "+inst.Name),
		"sym_name":     dev.ID.Name,
		"top_sym_name": e.topEmittedName,
		"emit_date":    e.opts.EmitDate,
		"emit_time":    e.opts.EmitTime,
	}
	if dev.Variables != nil {
		for _, k := range dev.Variables.Keys() {
			v, _ := dev.Variables.Get(k)
			ctx[k] = v
		}
	}
	if bd, present := dev.Backends.Get(e.backend.Name); present && bd.Variables != nil {
		for _, k := range bd.Variables.Keys() {
			b, _ := bd.Variables.Get(k)
			ctx[k] = b.Value
		}
	}
	if inst.Parameters != nil {
		for _, k := range inst.Parameters.Keys() {
			v, _ := inst.Parameters.Get(k)
			if _, shadow := ctx[k]; shadow {
				e.diags = append(e.diags, diag.New(diag.EmitVariableShadow, diag.Span{FileID: inst.RefFileID}, diag.Catalog[diag.EmitVariableShadow], k))
			}
			ctx[k] = v
		}
	}

	e.diags = append(e.diags, ValidatePlaceholders(dev.ID.Name, tmpl, contextKeys(ctx), diag.Span{FileID: inst.RefFileID})...)
	e.buf.WriteString(Render(tmpl, ctx))
	e.buf.WriteString("\n")
}
