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
package diag

import "encoding/json"

// jsonSpan is the wire shape of a Span in the compile log.
type jsonSpan struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Length int    `json:"length"`
}

// jsonLabel is the wire shape of a Label in the compile log.
type jsonLabel struct {
	Span    jsonSpan `json:"span"`
	Caption string   `json:"caption"`
}

// jsonFixIt is the wire shape of a FixIt in the compile log.
type jsonFixIt struct {
	Span        jsonSpan `json:"span"`
	Replacement string   `json:"replacement"`
	Description string   `json:"description"`
}

// jsonDiagnostic is the wire shape of a Diagnostic in the compile log.
type jsonDiagnostic struct {
	Code        string      `json:"code"`
	Severity    string      `json:"severity"`
	Message     string      `json:"message"`
	PrimarySpan *jsonSpan   `json:"primary_span"`
	Labels      []jsonLabel `json:"labels,omitempty"`
	Notes       []string    `json:"notes,omitempty"`
	Help        string      `json:"help,omitempty"`
	FixIts      []jsonFixIt `json:"fix_its,omitempty"`
	NoSpanNote  bool        `json:"no_span_note,omitempty"`
}

func toJSONSpan(s Span) jsonSpan {
	return jsonSpan{File: s.FileID, Line: s.Line, Col: s.Col, Length: s.Length}
}

func toJSONDiagnostic(d Diagnostic) jsonDiagnostic {
	out := jsonDiagnostic{
		Code:       string(d.Code),
		Severity:   d.Severity.String(),
		Message:    d.Message,
		NoSpanNote: d.HasNoSpanNote(),
	}
	if d.PrimarySpan != nil {
		s := toJSONSpan(*d.PrimarySpan)
		out.PrimarySpan = &s
	}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, jsonLabel{Span: toJSONSpan(l.Span), Caption: l.Caption})
	}
	out.Notes = d.Notes
	out.Help = d.Help
	for _, f := range d.FixIts {
		out.FixIts = append(out.FixIts, jsonFixIt{Span: toJSONSpan(f.Span), Replacement: f.Replacement, Description: f.Description})
	}
	return out
}

// RenderJSON serializes every diagnostic in deterministic order (§4.1) as a
// JSON array, suitable for embedding in the compile log (§6).
func (c *Collector) RenderJSON() ([]byte, error) {
	sorted := c.Sorted()
	out := make([]jsonDiagnostic, len(sorted))
	for i, d := range sorted {
		out[i] = toJSONDiagnostic(d)
	}
	return json.Marshal(out)
}

// ToJSONValues returns the same data as RenderJSON but as already-decoded
// Go values, for callers (e.g. the compile log writer) that want to embed
// the diagnostics array inside a larger JSON document without a
// marshal/unmarshal round trip.
func (c *Collector) ToJSONValues() []any {
	sorted := c.Sorted()
	out := make([]any, len(sorted))
	for i, d := range sorted {
		out[i] = toJSONDiagnostic(d)
	}
	return out
}
