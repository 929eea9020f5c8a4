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

import "fmt"

// FixIt is a machine-applicable suggested edit.
type FixIt struct {
	Span        Span
	Replacement string
	Description string
}

// NoSpanNote is the annotation attached to a Diagnostic lacking a primary
// span.  Pipeline-stage errors over user input must never carry this
// annotation (§4.1, §8); it exists for genuinely span-free TOOL diagnostics
// (e.g. failing to write the compile log).
const NoSpanNote = "NO_SPAN_NOTE"

// Diagnostic is the compiler's single error/warning/note representation,
// per §4.1.
type Diagnostic struct {
	Code        Code
	Severity    Severity
	Message     string
	PrimarySpan *Span
	Labels      []Label
	Notes       []string
	Help        string
	FixIts      []FixIt

	// seq records insertion order, used as the final tiebreaker in the
	// Collector's deterministic total order.
	seq int
}

// HasNoSpanNote reports whether this diagnostic lacks a primary span and
// therefore carries the NoSpanNote annotation.
func (d Diagnostic) HasNoSpanNote() bool {
	return d.PrimarySpan == nil
}

// New constructs an error-severity Diagnostic with a primary span. This is
// the common case: nearly every diagnostic emitted over user input has one.
func New(code Code, span Span, message string, args ...any) Diagnostic {
	return Diagnostic{
		Code:        code,
		Severity:    SeverityError,
		Message:     fmt.Sprintf(message, args...),
		PrimarySpan: &span,
	}
}

// Newf is an alias of New kept for call sites that read more naturally with
// an explicit "f" suffix when the message itself contains format verbs.
func Newf(code Code, span Span, format string, args ...any) Diagnostic {
	return New(code, span, format, args...)
}

// Warning constructs a warning-severity Diagnostic with a primary span.
func Warning(code Code, span Span, message string, args ...any) Diagnostic {
	d := New(code, span, message, args...)
	d.Severity = SeverityWarning
	return d
}

// WithoutSpan constructs a Diagnostic with no primary span.  Only TOOL-kind
// diagnostics (e.g. failing to write the compile log) are expected to use
// this constructor; pipeline stages over user input must always supply a
// span.
func WithoutSpan(code Code, severity Severity, message string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: severity,
		Message:  fmt.Sprintf(message, args...),
	}
}

// WithLabel appends a secondary span+caption to a Diagnostic.
func (d Diagnostic) WithLabel(span Span, caption string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: span, Caption: caption})
	return d
}

// WithNote appends a note line to a Diagnostic.
func (d Diagnostic) WithNote(note string, args ...any) Diagnostic {
	d.Notes = append(d.Notes, fmt.Sprintf(note, args...))
	return d
}

// WithHelp sets the Help text of a Diagnostic.
func (d Diagnostic) WithHelp(help string, args ...any) Diagnostic {
	d.Help = fmt.Sprintf(help, args...)
	return d
}

// WithFixIt appends a machine-applicable fix to a Diagnostic.
func (d Diagnostic) WithFixIt(span Span, replacement, description string) Diagnostic {
	d.FixIts = append(d.FixIts, FixIt{Span: span, Replacement: replacement, Description: description})
	return d
}

// Error implements the error interface, so a Diagnostic can be returned (or
// wrapped) from ordinary Go functions at package boundaries that still use
// plain errors (e.g. file I/O helpers) before being lifted into a sink.
func (d Diagnostic) Error() string {
	if d.PrimarySpan != nil {
		return fmt.Sprintf("%s: %s: %s", d.PrimarySpan.String(), d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}
