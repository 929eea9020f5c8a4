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

import (
	"strconv"
	"strings"
)

// Expression is a fully parsed pattern expression: zero or more clauses
// joined by the splice delimiter ';' (concatenation at the group level,
// §3), each clause a literal/group segment sequence.
type Expression struct {
	Raw     string
	Clauses [][]Segment
	// Spliced reports whether ';' was present in Raw. $-net (port)
	// expressions must reject Spliced expressions (§4.4 item 3).
	Spliced bool
}

// delimiters that can never appear inside an identifier (§3).
const delimiterChars = "<>|;:.@"

// Parse tokenizes an authored pattern expression into an Expression. It
// rejects empty groups, unbalanced brackets, mixed '|'/':' within one
// group, whitespace around delimiters, and ',' inside a group (the
// PATTERN_UNEXPANDED case).
func Parse(expr string) (Expression, error) {
	clauseStrs := splitTopLevel(expr, ';')

	out := Expression{Raw: expr, Spliced: len(clauseStrs) > 1}
	offset := 0

	for _, c := range clauseStrs {
		segs, err := parseClause(expr, c, offset)
		if err != nil {
			return Expression{}, err
		}
		out.Clauses = append(out.Clauses, segs)
		offset += len(c) + 1 // +1 for the ';' consumed between clauses
	}

	return out, nil
}

// splitTopLevel splits s on sep, ignoring any sep found inside a <...>
// group (groups never nest, so a simple depth counter suffices).
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		default:
			if s[i] == sep && depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func parseClause(fullExpr, clause string, baseOffset int) ([]Segment, error) {
	var segs []Segment
	var lit strings.Builder

	flushLiteral := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: SegLiteral, Literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(clause) {
		c := clause[i]
		switch c {
		case '>':
			return nil, errf(fullExpr, baseOffset+i, "unbalanced '>' with no matching '<'")
		case '<':
			flushLiteral()

			end := strings.IndexByte(clause[i+1:], '>')
			if end < 0 {
				return nil, errf(fullExpr, baseOffset+i, "unbalanced '<' with no matching '>'")
			}
			body := clause[i+1 : i+1+end]
			seg, err := parseGroup(fullExpr, body, baseOffset+i+1)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
			i = i + 1 + end + 1
			continue
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLiteral()

	return segs, nil
}

func parseGroup(fullExpr, body string, offset int) (Segment, error) {
	if body == "" {
		return Segment{}, errf(fullExpr, offset, "empty pattern group")
	}
	if body != strings.TrimSpace(body) || strings.Contains(body, " ") {
		return Segment{}, errf(fullExpr, offset, "whitespace is not permitted inside a pattern group")
	}
	if strings.Contains(body, ",") {
		return Segment{}, errf(fullExpr, offset, "PATTERN_UNEXPANDED: ',' is not permitted inside a pattern group")
	}

	if strings.HasPrefix(body, "@") {
		name := body[1:]
		if name == "" || strings.ContainsAny(name, delimiterChars) {
			return Segment{}, errf(fullExpr, offset, "malformed named-pattern reference %q", body)
		}
		return Segment{Kind: SegNamed, Named: name}, nil
	}

	hasAlt := strings.Contains(body, "|")
	hasRange := strings.Contains(body, ":")

	switch {
	case hasAlt && hasRange:
		return Segment{}, errf(fullExpr, offset, "cannot mix '|' and ':' within one pattern group")
	case hasRange:
		parts := strings.Split(body, ":")
		if len(parts) != 2 {
			return Segment{}, errf(fullExpr, offset, "numeric range group must have exactly one ':'")
		}
		from, err := strconv.Atoi(parts[0])
		if err != nil {
			return Segment{}, errf(fullExpr, offset, "invalid range bound %q", parts[0])
		}
		to, err := strconv.Atoi(parts[1])
		if err != nil {
			return Segment{}, errf(fullExpr, offset, "invalid range bound %q", parts[1])
		}
		return Segment{Kind: SegRange, RangeFrom: from, RangeTo: to}, nil
	default:
		// Alternation, possibly of just one alternative (e.g. "<p>").
		alts := strings.Split(body, "|")
		for _, a := range alts {
			if a == "" {
				return Segment{}, errf(fullExpr, offset, "empty alternative in group %q", body)
			}
		}
		return Segment{Kind: SegAlt, Alts: alts}, nil
	}
}
