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

import "fmt"

// Binding is the result of Bind: for every position in the LHS atom list,
// the (possibly multi-valued) set of RHS atom indices connected to it. A
// net is, after all, a set of endpoints at the same node — so even the
// "elementwise" and "broadcast" cases are naturally expressed as a
// fan-out map rather than a 1:1 pairing; axis-projection (the third rule)
// simply allows that fan-out to be larger than one in a structured way.
type Binding struct {
	// Fanout[i] lists, in RHS order, the indices into the RHS atom slice
	// bound to LHS position i.
	Fanout [][]int
}

// Bind implements §4.4 item 4. lhs is the already-expanded LHS atom list
// (length L); rhs is the already-expanded RHS atom list used for
// net/endpoint or instance-default binding.
func Bind(lhs, rhs []Atom) (Binding, error) {
	l := len(lhs)
	r := len(rhs)

	switch {
	case r == l:
		// Elementwise.
		fan := make([][]int, l)
		for i := range fan {
			fan[i] = []int{i}
		}
		return Binding{Fanout: fan}, nil

	case r == 1:
		// Scalar broadcast.
		fan := make([][]int, l)
		for i := range fan {
			fan[i] = []int{0}
		}
		return Binding{Fanout: fan}, nil

	default:
		fan, ok := axisProject(lhs, rhs)
		if ok {
			return Binding{Fanout: fan}, nil
		}
		return Binding{}, fmt.Errorf("cannot bind %d endpoint(s) to %d position(s)", r, l)
	}
}

// axis summarizes one axis-tagged group as it appears across an atom list:
// its key and the number of distinct values it ranges over (its "size").
// All atoms in the list are assumed to share the same axis structure,
// which holds by construction since they came from the same Expression.
type axis struct {
	key  string
	size int
}

func axesOf(atoms []Atom) []axis {
	if len(atoms) == 0 {
		return nil
	}
	seen := map[string]int{}
	var order []string
	for _, step := range atoms[0].Trace {
		if step.AxisKey == "" {
			continue
		}
		if _, ok := seen[step.AxisKey]; !ok {
			seen[step.AxisKey] = step.Size
			order = append(order, step.AxisKey)
		}
	}
	out := make([]axis, 0, len(order))
	for _, k := range order {
		out = append(out, axis{key: k, size: seen[k]})
	}
	return out
}

// axisProject implements the axis-projection binding rule: LHS and RHS
// groups are matched by axis key where possible, falling back to a
// unique-size pairing when key sets don't intersect (this repository's
// documented resolution of the Open Question in §9 about axis
// correspondence when tags/names diverge between net and endpoint sides —
// see DESIGN.md). RHS axes absent from the correspondence broadcast across
// every LHS position.
func axisProject(lhs, rhs []Atom) ([][]int, bool) {
	lhsAxes := axesOf(lhs)
	rhsAxes := axesOf(rhs)

	if len(lhsAxes) == 0 || len(rhsAxes) == 0 {
		return nil, false
	}

	// correspondence[lhsKey] = matched rhsKey
	correspondence := map[string]string{}
	usedRHS := map[string]bool{}

	for _, la := range lhsAxes {
		for _, ra := range rhsAxes {
			if usedRHS[ra.key] {
				continue
			}
			if la.key == ra.key {
				correspondence[la.key] = ra.key
				usedRHS[ra.key] = true
				break
			}
		}
	}
	// Fallback: unique-size pairing among axes not yet matched by key.
	for _, la := range lhsAxes {
		if _, ok := correspondence[la.key]; ok {
			continue
		}
		var candidate string
		matches := 0
		for _, ra := range rhsAxes {
			if usedRHS[ra.key] {
				continue
			}
			if ra.size == la.size {
				candidate = ra.key
				matches++
			}
		}
		if matches == 1 {
			correspondence[la.key] = candidate
			usedRHS[candidate] = true
		}
	}

	if len(correspondence) != len(lhsAxes) {
		return nil, false
	}

	// The paired RHS axes must keep the LHS axes' left-to-right order,
	// i.e. form a subsequence of the RHS axis sequence.
	last := -1
	for _, la := range lhsAxes {
		for k, ra := range rhsAxes {
			if ra.key == correspondence[la.key] {
				if k < last {
					return nil, false
				}
				last = k
				break
			}
		}
	}

	// Build, for each LHS atom, the indices of every RHS atom whose
	// matched axes agree with the LHS atom's own axis indices.
	lhsIndex := make([]map[string]int, len(lhs))
	for i, a := range lhs {
		m := map[string]int{}
		for _, s := range a.Trace {
			m[s.AxisKey] = s.Index
		}
		lhsIndex[i] = m
	}
	rhsIndex := make([]map[string]int, len(rhs))
	for i, a := range rhs {
		m := map[string]int{}
		for _, s := range a.Trace {
			m[s.AxisKey] = s.Index
		}
		rhsIndex[i] = m
	}

	fan := make([][]int, len(lhs))
	for i := range lhs {
		for j := range rhs {
			match := true
			for laKey, raKey := range correspondence {
				if lhsIndex[i][laKey] != rhsIndex[j][raKey] {
					match = false
					break
				}
			}
			if match {
				fan[i] = append(fan[i], j)
			}
		}
	}

	return fan, true
}
