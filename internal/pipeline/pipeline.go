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

// Package pipeline composes the compiler's stages (§5) into a single
// Compile call, short-circuiting at the first stage that reports an error
// diagnostic, matching the teacher's Compiler.Compile shape.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/complog"
	"github.com/asdl-lang/asdl/internal/config"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/emit"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/loweratop"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/viewbind"
)

// Options configures one end-to-end compile (§5, §9 CLI surface).
type Options struct {
	EntryPath      string
	Top            string
	Backend        *emit.BackendConfig
	TopAsSubckt    bool
	Env            config.Environment
	ViewConfig     *viewbind.Config
	ActiveProfiles []string
	FileReader     importgraph.FileReader
	EmitDate       string
	EmitTime       string
	TopPolicy      netlistir.TopPolicy
}

// Result carries both the rendered netlist text and the compile log
// document, so a caller (cmd/asdl) can write either, both, or neither.
type Result struct {
	Netlist string
	Log     *complog.Document
	Design  *netlistir.NetlistDesign
}

// Compile runs every stage in order, collecting diagnostics into a single
// sink and stopping as soon as a stage reports an error (§5).
func Compile(ctx context.Context, opts Options) (*Result, []diag.Diagnostic) {
	collector := diag.NewCollector()

	fr := opts.FileReader
	if fr == nil {
		fr = importgraph.OSFileReader{}
	}

	db, diags := importgraph.Load(ctx, opts.EntryPath, importgraph.Config{LibRoots: opts.Env.LibRoots}, fr)
	collector.Extend(diags)
	if collector.AnyError() {
		return nil, collector.Sorted()
	}

	pg, diags := loweratop.Lower(db)
	collector.Extend(diags)
	if collector.AnyError() {
		return nil, collector.Sorted()
	}

	ag, diags := atomizer.Atomize(pg)
	collector.Extend(diags)
	if collector.AnyError() {
		return nil, collector.Sorted()
	}

	policy := opts.TopPolicy
	topID, diags := netlistir.ResolveTop(ag, opts.Top, policy)
	collector.Extend(diags)
	if collector.AnyError() {
		return nil, collector.Sorted()
	}

	profiles := opts.ActiveProfiles
	if len(profiles) == 0 {
		profiles = opts.Env.ActiveProfiles
	}
	bound, diags := viewbind.Bind(ag, topID, opts.ViewConfig, profiles)
	collector.Extend(diags)
	if collector.AnyError() {
		return nil, collector.Sorted()
	}

	design := netlistir.Lower(ag, bound, topID)

	backend := opts.Backend
	if backend == nil {
		collector.Add(diag.New(diag.EmitMissingTemplate, diag.Span{FileID: design.EntryFileID}, diag.Catalog[diag.EmitMissingTemplate], "<no backend selected>"))
		return nil, collector.Sorted()
	}

	text, diags := emit.Emit(design, ag.Devices, emit.Options{
		Backend:     backend,
		EmitDate:    opts.EmitDate,
		EmitTime:    opts.EmitTime,
		TopAsSubckt: opts.TopAsSubckt,
	})
	collector.Extend(diags)

	logDoc := complog.Build(collector, bound, design)

	return &Result{Netlist: text, Log: logDoc, Design: design}, collector.Sorted()
}

// DefaultLogPath derives `<entry_basename>.log.json` for --log's default
// (§6), e.g. "design.asdl" -> "design.log.json".
func DefaultLogPath(entryPath string) string {
	base := filepath.Base(entryPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".log.json"
}

// DefaultOutputPath derives the target output path for `-o` when the flag is
// omitted: `<entry_basename><backend_extension>` (§9).
func DefaultOutputPath(entryPath string, backend *emit.BackendConfig) string {
	base := filepath.Base(entryPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	ext := ".net"
	if backend != nil && backend.Extension != "" {
		ext = backend.Extension
	}
	return base + ext
}
