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
package netlistir

import (
	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// TopPolicy selects which rule a caller of ResolveTop wants applied when
// `top` is omitted (§4.8).
type TopPolicy int

const (
	// PolicyStrict is used for emission: `top` must resolve to a module in
	// the entry file, though it may still be omitted when the entry file
	// declares exactly one module (§3).
	PolicyStrict TopPolicy = iota
	// PolicyPermissive is used by hierarchy tools (depgraph/visualizer
	// dumps): identical to PolicyStrict today, named separately so call
	// sites read as emission vs. tooling and can diverge later without
	// every caller needing to be re-audited.
	PolicyPermissive
)

// ResolveTop is the one shared top-resolution helper used by both the
// emission path and hierarchy tooling (§4.8), so the two paths never
// diverge in which module they call "top".
func ResolveTop(ag *atomizer.AtomizedGraph, requestedTop string, policy TopPolicy) (patterned.ModuleID, []diag.Diagnostic) {
	var entryMods []*atomizer.AtomizedModuleGraph
	for _, m := range ag.Modules {
		if m.ID.FileID == ag.EntryFileID {
			entryMods = append(entryMods, m)
		}
	}

	span := diag.Span{FileID: ag.EntryFileID}

	if requestedTop != "" {
		for _, m := range entryMods {
			if m.ID.Name == requestedTop {
				return m.ID, nil
			}
		}
		return patterned.ModuleID{}, []diag.Diagnostic{
			diag.New(diag.EmitMissingTop, span, "top module %q not found in entry file", requestedTop),
		}
	}

	// `top` is optional whenever the entry file declares at most one module
	// (§3); this holds under both policies, not just the permissive one,
	// so the strict emission path accepts the common single-module case
	// without requiring a redundant --top flag.
	if len(entryMods) == 1 {
		return entryMods[0].ID, nil
	}

	return patterned.ModuleID{}, []diag.Diagnostic{
		diag.New(diag.EmitMissingTop, span, diag.Catalog[diag.EmitMissingTop], len(entryMods)),
	}
}
