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

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// severityColor maps each severity to the color used when color is
// enabled. Kept as functions (not pre-built *color.Color values) so tests
// can run with color.NoColor forced on without any global state leaking.
func severityColor(s Severity) func(format string, a ...any) string {
	switch s {
	case SeverityError:
		return color.New(color.FgRed, color.Bold).SprintfFunc()
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintfFunc()
	default:
		return color.New(color.FgCyan).SprintfFunc()
	}
}

// RenderText writes every diagnostic in deterministic order (§4.1) to w as
// human-readable text, in the style of rustc/clang-ish compiler output:
// `<span>: <severity>[<code>]: <message>` followed by labels, notes and
// help. When color is false, no ANSI escapes are emitted regardless of
// whether the process is attached to a TTY.
func (c *Collector) RenderText(w io.Writer, color bool) {
	for _, d := range c.Sorted() {
		renderOne(w, d, color)
	}
}

func renderOne(w io.Writer, d Diagnostic, useColor bool) {
	severity := d.Severity.String()
	if useColor {
		severity = severityColor(d.Severity)("%s", severity)
	}

	location := "<no span>"
	if d.PrimarySpan != nil {
		location = d.PrimarySpan.String()
	}

	fmt.Fprintf(w, "%s: %s[%s]: %s\n", location, severity, d.Code, d.Message)

	if d.HasNoSpanNote() {
		fmt.Fprintf(w, "  note: %s\n", NoSpanNote)
	}

	for _, l := range d.Labels {
		fmt.Fprintf(w, "  --> %s: %s\n", l.Span.String(), l.Caption)
	}

	for _, n := range d.Notes {
		fmt.Fprintf(w, "  note: %s\n", n)
	}

	if d.Help != "" {
		fmt.Fprintf(w, "  help: %s\n", d.Help)
	}
}
