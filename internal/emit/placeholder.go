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

// Package emit renders a NetlistDesign through author-supplied backend
// templates (§4.9): `{placeholder}` substitution via a small hand-written
// scanner, not text/template, since backend templates are author-facing
// strings rather than Go template syntax.
package emit

import (
	"strings"

	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/diag"
)

// universalPlaceholders are recognized in every template regardless of
// device/module-specific variables and parameters (§4.9).
var universalPlaceholders = map[string]bool{
	"name":         true,
	"ports":        true,
	"file_id":      true,
	"sym_name":     true,
	"top_sym_name": true,
	"emit_date":    true,
	"emit_time":    true,
}

// optionalPlaceholders are the only two permitted to resolve to an empty
// string when the emission context doesn't supply them; every other
// recognized placeholder must have a value in context by the time Render
// runs, or rendering has a bug upstream (§4.9: "Only {ports} and {name}
// are optional").
var optionalPlaceholders = map[string]bool{"name": true, "ports": true}

// ScanPlaceholders extracts every `{...}` token from tmpl, in order of
// first appearance, deduplicated.
func ScanPlaceholders(tmpl string) []string {
	var out []string
	seen := map[string]bool{}
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			i++
			continue
		}
		rest := tmpl[i+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			break
		}
		name := rest[:end]
		i += end + 2
		if name == "" || strings.ContainsAny(name, "{}") {
			continue
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ValidatePlaceholders checks every placeholder referenced by tmpl against
// the universal set plus extra (the variable/parameter names known for
// this template's device or module); anything else is a verification
// error (`EMIT-003`) (§4.9).
func ValidatePlaceholders(templateName, tmpl string, extra map[string]bool, span diag.Span) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, ph := range ScanPlaceholders(tmpl) {
		if universalPlaceholders[ph] || extra[ph] {
			continue
		}
		diags = append(diags, diag.New(diag.EmitUnknownPlaceholder, span, diag.Catalog[diag.EmitUnknownPlaceholder], ph, templateName))
	}
	return diags
}

// Render substitutes every `{placeholder}` in tmpl from ctx. A placeholder
// missing from ctx resolves to "" when optional; any other missing
// placeholder is left as literal text, since ValidatePlaceholders is
// expected to have already rejected templates that reference anything
// Render can't resolve.
func Render(tmpl string, ctx map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		rest := tmpl[i+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		name := rest[:end]
		i += end + 2
		if v, ok := ctx[name]; ok {
			b.WriteString(v)
		} else if optionalPlaceholders[name] {
			// resolves to empty
		} else {
			b.WriteByte('{')
			b.WriteString(name)
			b.WriteByte('}')
		}
	}
	return b.String()
}

// FormatAtomName applies a backend's pattern_rendering format to a numeric
// atom's display name (§4.9, e.g. `BUS[25]`). Non-numeric atoms (no
// PatternParts) render as their literal Name unchanged. Multi-axis atoms
// join their index parts with `;` before substitution.
func FormatAtomName(name string, origin *atomizer.AtomizedPatternOrigin, patternRendering string) string {
	if origin == nil || len(origin.PatternParts) == 0 {
		return name
	}
	if patternRendering == "" {
		patternRendering = DefaultPatternRendering
	}
	joined := strings.Join(origin.PatternParts, ";")
	return origin.BaseName + strings.Replace(patternRendering, "{N}", joined, 1)
}
