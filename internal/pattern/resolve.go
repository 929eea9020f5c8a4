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

// Definition is the information the engine needs about one named pattern
// (`patterns: {NAME: expr}` or `{NAME: {expr, tag}}`) to resolve a SegNamed
// reference: its own expression text and its axis identity (§4.4).
type Definition struct {
	Expr    string
	AxisKey string // defaults to the pattern's own name when untagged
}

// ResolveNamed recursively inlines every SegNamed reference in expr against
// defs, tagging the segments it inlines with the referenced definition's
// AxisKey. Recursion is bounded by defs' own size (a cycle among named
// pattern definitions is rejected at the AST layer, §4.2, before this ever
// runs) but this function defends independently with a depth cap so a
// caller bug can't spin forever.
func ResolveNamed(expr Expression, defs map[string]Definition) (Expression, error) {
	out := Expression{Raw: expr.Raw, Spliced: expr.Spliced}

	for _, clause := range expr.Clauses {
		resolved, err := resolveSegments(expr.Raw, clause, defs, 0)
		if err != nil {
			return Expression{}, err
		}
		out.Clauses = append(out.Clauses, resolved)
	}

	return out, nil
}

const maxNamedDepth = 32

func resolveSegments(raw string, segs []Segment, defs map[string]Definition, depth int) ([]Segment, error) {
	if depth > maxNamedDepth {
		return nil, errf(raw, 0, "named-pattern reference chain too deep (possible cycle)")
	}

	var out []Segment
	for _, s := range segs {
		if s.Kind != SegNamed {
			out = append(out, s)
			continue
		}

		def, ok := defs[s.Named]
		if !ok {
			return nil, errf(raw, 0, "undefined named pattern %q", s.Named)
		}

		inner, err := Parse(def.Expr)
		if err != nil {
			return nil, err
		}
		if len(inner.Clauses) != 1 {
			return nil, errf(raw, 0, "named pattern %q must not itself use ';' splice", s.Named)
		}

		resolvedInner, err := resolveSegments(raw, inner.Clauses[0], defs, depth+1)
		if err != nil {
			return nil, err
		}

		axisKey := def.AxisKey
		for _, inner := range resolvedInner {
			if inner.IsGroup() && inner.AxisKey == "" {
				inner.AxisKey = axisKey
			}
			out = append(out, inner)
		}
	}
	return out, nil
}
