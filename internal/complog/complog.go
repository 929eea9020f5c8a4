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

// Package complog builds and writes the JSON compile log (§6):
// view_bindings, emission_name_map, warning_count, warnings,
// diagnostic_count, diagnostic_severity_counts, diagnostics.
package complog

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/viewbind"
)

// ViewBindingEntry is one row of the compile log's view_bindings array.
type ViewBindingEntry struct {
	Path        string `json:"path"`
	Declared    string `json:"declared"`
	Content     string `json:"content"`
	Effective   string `json:"effective"`
	MatchedRule string `json:"matched_rule,omitempty"`
}

// Document is the full compile log shape.
type Document struct {
	CompileID                string             `json:"compile_id"`
	ViewBindings              []ViewBindingEntry `json:"view_bindings"`
	EmissionNameMap           map[string]string  `json:"emission_name_map"`
	WarningCount              int                `json:"warning_count"`
	Warnings                  []string           `json:"warnings"`
	DiagnosticCount           int                `json:"diagnostic_count"`
	DiagnosticSeverityCounts  map[string]int     `json:"diagnostic_severity_counts"`
	Diagnostics               []any              `json:"diagnostics"`
}

// Build assembles a Document from the stage diagnostics collector and the
// (optional) view/netlist results of a compile (§6). bound and design may
// be nil when the pipeline short-circuited before those stages ran.
func Build(c *diag.Collector, bound *viewbind.BoundGraph, design *netlistir.NetlistDesign) *Document {
	doc := &Document{
		CompileID:                uuid.NewString(),
		EmissionNameMap:          map[string]string{},
		WarningCount:             c.WarningCount(),
		DiagnosticCount:          c.Len(),
		DiagnosticSeverityCounts: c.SeverityCounts(),
		Diagnostics:              c.ToJSONValues(),
	}

	for _, d := range c.Sorted() {
		if d.Severity == diag.SeverityWarning {
			doc.Warnings = append(doc.Warnings, d.Message)
		}
	}

	if bound != nil {
		for _, occ := range bound.Occurrences {
			doc.ViewBindings = append(doc.ViewBindings, ViewBindingEntry{
				Path:        occ.Path,
				Declared:    occ.Declared.Name,
				Content:     occ.Content.Name,
				Effective:   occ.Effective.Name,
				MatchedRule: occ.MatchedRule,
			})
		}
	}

	if design != nil {
		for id, name := range design.EmissionNameMap {
			doc.EmissionNameMap[id.Name] = name
		}
	}

	return doc
}

// Write serializes doc as indented JSON to path, reporting a TOOL-002
// diagnostic (not returning a bare error) on failure, consistent with
// every other stage's diagnostic-first error channel (§7).
func Write(doc *Document, path string) []diag.Diagnostic {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return []diag.Diagnostic{diag.WithoutSpan(diag.ToolLogWriteFailed, diag.SeverityError, diag.Catalog[diag.ToolLogWriteFailed], path, err.Error())}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []diag.Diagnostic{diag.WithoutSpan(diag.ToolLogWriteFailed, diag.SeverityError, diag.Catalog[diag.ToolLogWriteFailed], path, err.Error())}
	}
	return nil
}
