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
package pattern

// AxisStep records, for one atom, which value index (within its group's own
// authored order) was chosen for one axis-tagged group encountered during
// expansion. Only groups resolved from a named-pattern reference carry a
// non-empty axis key (see Segment.AxisKey); plain inline groups contribute
// no AxisStep and therefore cannot participate in axis-projection binding.
type AxisStep struct {
	AxisKey string
	Index   int
	Size    int
}

// Atom is one literal produced by expansion, together with enough
// provenance to support numeric pattern-rendering (§4.9) and axis-aware
// binding (§4.4).
type Atom struct {
	Literal string
	// Trace holds one AxisStep per axis-tagged group this atom passed
	// through, in the order those groups were processed (left-to-right).
	Trace []AxisStep
	// NumericOrigin is set when at least one SegRange group contributed
	// to this atom; it is the (innermost-last) sequence of chosen
	// numeric values, used by the template emitter to format e.g.
	// "BUS[25]" or "sw_row[3;1]".
	NumericOrigin []int
}

// MaxExpansionAtoms is the default configurable size cap on the product of
// expansion axes (§4.4 "Size cap"), preventing accidental combinatorial
// blowups from a typo'd pattern.
const MaxExpansionAtoms = 1_000_000

// Expand realizes an already-named-resolved Expression into an ordered list
// of atoms, per the normative left-to-right, list-duplicating expansion
// rule (§4.4 item 3). A splice (';') flattens each clause's own expansion
// into one ordered list by concatenation.
func Expand(expr Expression, maxAtoms int) ([]Atom, error) {
	if maxAtoms <= 0 {
		maxAtoms = MaxExpansionAtoms
	}

	var all []Atom
	for _, clause := range expr.Clauses {
		atoms, err := expandClause(expr.Raw, clause, maxAtoms)
		if err != nil {
			return nil, err
		}
		all = append(all, atoms...)
		if len(all) > maxAtoms {
			return nil, errf(expr.Raw, 0, "pattern expansion exceeds the configured maximum of %d atoms", maxAtoms)
		}
	}

	return all, nil
}

func expandClause(raw string, segs []Segment, maxAtoms int) ([]Atom, error) {
	cur := []Atom{{}}

	for _, seg := range segs {
		if !seg.IsGroup() {
			for i := range cur {
				cur[i].Literal += seg.Literal
			}
			continue
		}
		if seg.Kind == SegNamed {
			return nil, errf(raw, 0, "internal error: unresolved named reference %q reached Expand", seg.Named)
		}

		values := seg.Values()
		if len(cur)*len(values) > maxAtoms {
			return nil, errf(raw, 0, "pattern expansion exceeds the configured maximum of %d atoms", maxAtoms)
		}

		next := make([]Atom, 0, len(cur)*len(values))
		for vi, v := range values {
			for _, base := range cur {
				atom := Atom{
					Literal:       base.Literal + v,
					Trace:         append(append([]AxisStep{}, base.Trace...)),
					NumericOrigin: append([]int{}, base.NumericOrigin...),
				}
				if seg.AxisKey != "" {
					atom.Trace = append(atom.Trace, AxisStep{AxisKey: seg.AxisKey, Index: vi, Size: len(values)})
				}
				if seg.Kind == SegRange {
					n, _ := parseSignedInt(v)
					atom.NumericOrigin = append(atom.NumericOrigin, n)
				}
				next = append(next, atom)
			}
		}
		cur = next
	}

	return cur, nil
}

func parseSignedInt(s string) (int, bool) {
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Literals extracts the plain literal strings from a slice of Atoms, in
// order.
func Literals(atoms []Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = a.Literal
	}
	return out
}
