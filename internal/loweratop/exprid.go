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

// Package loweratop lowers a resolved ProgramDB into a PatternedGraph
// (§4.5): symbol resolution of instance refs, instance_defaults
// application, and module-variable substitution, all ahead of any pattern
// expansion.
package loweratop

import (
	"hash/fnv"

	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// exprRegistry wraps patterned.Registries with the (kind, expression) ->
// ExprID caching rule from §4.5: identical strings reused in different
// semantic positions receive distinct ids, but the same (kind, expression)
// pair always maps to the same id within one ProgramGraph build.
type exprRegistry struct {
	reg   *patterned.Registries
	cache map[string]patterned.ExprID
}

func newExprRegistry(reg *patterned.Registries) *exprRegistry {
	return &exprRegistry{reg: reg, cache: map[string]patterned.ExprID{}}
}

func (r *exprRegistry) intern(kind patterned.ExprKind, expr string, span diag.Span) patterned.ExprID {
	key := string(kind) + "\x00" + expr
	if id, ok := r.cache[key]; ok {
		return id
	}
	id := hashExprID(kind, expr)
	// Linear-probe past any genuine FNV-1a collision so two distinct
	// (kind, expression) pairs never silently share an id.
	for {
		if existing, ok := r.reg.Patterns[id]; !ok || (existing.Kind == kind && existing.Expression == expr) {
			break
		}
		id++
	}
	r.reg.Patterns[id] = patterned.PatternExpressionEntry{Expression: expr, Kind: kind, Span: span}
	r.cache[key] = id
	return id
}

func hashExprID(kind patterned.ExprKind, expr string) patterned.ExprID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(expr))
	return patterned.ExprID(h.Sum64())
}
