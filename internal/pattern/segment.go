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

// Package pattern implements the pattern expression engine (§4.4): a pure,
// I/O-free tokenizer/expander/binder over authored strings such as
// "MN<P|N>.<S|D>" or "BUS<25:1>".  Nothing in this package touches a file
// system, a registry, or a diagnostics sink; callers translate pattern.Error
// into a diag.Diagnostic at the point where a source Span is available.
package pattern

import (
	"fmt"
	"strconv"
)

// SegmentKind is the tagged-sum discriminator for one piece of a parsed
// pattern Expression: a literal run of text, or one of the three group
// kinds (§9: "a pattern group is Alt | Range | Named").
type SegmentKind uint8

const (
	// SegLiteral is a literal run of text outside any <...> group.
	SegLiteral SegmentKind = iota
	// SegAlt is an alternation group, e.g. "<P|N>".
	SegAlt
	// SegRange is a direction-sensitive numeric range group, e.g. "<25:1>".
	SegRange
	// SegNamed is a named-pattern reference group, e.g. "<@BUS25>".
	SegNamed
)

// Segment is one piece of a parsed pattern Expression.
type Segment struct {
	Kind SegmentKind

	// Literal holds the text for a SegLiteral segment.
	Literal string

	// Alts holds the alternatives, in authored order, for a SegAlt
	// segment.
	Alts []string

	// RangeFrom/RangeTo hold the (inclusive) bounds of a SegRange
	// segment. The range is descending when RangeFrom > RangeTo,
	// ascending otherwise; direction is significant (§3).
	RangeFrom, RangeTo int

	// Named holds the referenced pattern name for a SegNamed segment,
	// e.g. "BUS25" for "<@BUS25>".
	Named string

	// AxisKey identifies the axis this group belongs to for the purpose
	// of Bind's axis-projection rule (§4.4 item 4). It is populated only
	// for groups resolved from a named-pattern reference (SegNamed,
	// after ResolveNamed has inlined it): the pattern's tag when present,
	// otherwise its own name. Plain inline Alt/Range groups (written
	// directly, not via <@NAME>) carry an empty AxisKey and therefore
	// never participate in axis-projection — only in elementwise/
	// broadcast binding, matching the spec's "all groups on both sides
	// are named patterns" precondition for axis projection.
	AxisKey string
}

// IsGroup reports whether this segment is a <...> group (as opposed to a
// literal run).
func (s Segment) IsGroup() bool {
	return s.Kind != SegLiteral
}

// Values returns, in authored/operator order, the substitution strings this
// group contributes. It panics if called on a SegLiteral or an
// unresolved SegNamed segment (ResolveNamed must run first).
func (s Segment) Values() []string {
	switch s.Kind {
	case SegAlt:
		return s.Alts
	case SegRange:
		return rangeValues(s.RangeFrom, s.RangeTo)
	default:
		panic(fmt.Sprintf("pattern: Values called on unresolved segment kind %d", s.Kind))
	}
}

func rangeValues(from, to int) []string {
	n := abs(to-from) + 1
	out := make([]string, n)
	step := 1
	if from > to {
		step = -1
	}
	v := from
	for i := 0; i < n; i++ {
		out[i] = strconv.Itoa(v)
		v += step
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
