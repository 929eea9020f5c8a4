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

import "sort"

// Collector is the sink every compiler stage appends diagnostics to.  It is
// not safe for concurrent use: the pipeline is single-threaded by design
// (§5), and the one place work briefly fans out (bounded ASDL_LIB_PATH
// probing in the import resolver) never touches a Collector directly.
type Collector struct {
	items []Diagnostic
	next  int
}

// NewCollector constructs an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic, stamping it with the next insertion sequence
// number so the total order's final tiebreaker is well defined.
func (c *Collector) Add(d Diagnostic) {
	d.seq = c.next
	c.next++
	c.items = append(c.items, d)
}

// Addf is a convenience wrapper for Add(New(...)).
func (c *Collector) Addf(code Code, span Span, format string, args ...any) {
	c.Add(New(code, span, format, args...))
}

// Extend appends every diagnostic from another slice, preserving relative
// insertion order between them.
func (c *Collector) Extend(ds []Diagnostic) {
	for _, d := range ds {
		c.Add(d)
	}
}

// Len reports how many diagnostics have been collected.
func (c *Collector) Len() int {
	return len(c.items)
}

// AnyError reports whether at least one SeverityError diagnostic has been
// collected.  The pipeline driver uses this to decide whether to
// short-circuit before the emission stage (§4.1, §7).
func (c *Collector) AnyError() bool {
	for _, d := range c.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WarningCount reports how many SeverityWarning diagnostics have been
// collected, for the compile log summary (§6).
func (c *Collector) WarningCount() int {
	n := 0
	for _, d := range c.items {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// SeverityCounts tallies diagnostics by severity, for the compile log's
// diagnostic_severity_counts field.
func (c *Collector) SeverityCounts() map[string]int {
	counts := map[string]int{
		SeverityError.String():   0,
		SeverityWarning.String(): 0,
		SeverityNote.String():    0,
	}
	for _, d := range c.items {
		counts[d.Severity.String()]++
	}
	return counts
}

// Sorted returns all collected diagnostics in the deterministic total order
// required by §4.1: severity descending (error, warning, note), then code
// ascending, then primary_span.(file, line, col) ascending, then insertion
// order.  Diagnostics without a primary span sort after all diagnostics
// that have one, for a given (severity, code) group.
func (c *Collector) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.PrimarySpan == nil && b.PrimarySpan == nil {
			return a.seq < b.seq
		}
		if a.PrimarySpan == nil {
			return false
		}
		if b.PrimarySpan == nil {
			return true
		}
		if a.PrimarySpan.less(*b.PrimarySpan) {
			return true
		}
		if b.PrimarySpan.less(*a.PrimarySpan) {
			return false
		}
		return a.seq < b.seq
	})

	return out
}
