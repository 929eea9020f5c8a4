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

// Package viewbind applies profile-driven view rules to an AtomizedGraph's
// instance hierarchy (§4.7): for each instantiation site, the last matching
// rule (by profile priority, then authored order) may rebind the instance
// to an alternative view of its target module. Divergent occurrences of
// the same declared module are specialized to distinct (name, file_id')
// identities rather than synthesizing new names, so the NetlistIR
// collision allocator handles them uniformly.
package viewbind

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/patterned"
)

// MatchKind discriminates the two mutually-exclusive rule match forms
// (§4.7: "a typed match, either instance xor module").
type MatchKind int

const (
	MatchInstance MatchKind = iota
	MatchModule
)

// Rule is one `rules:` entry within a Profile.
type Rule struct {
	ID      string
	Kind    MatchKind
	Pattern string
	Bind    string
	Loc     diag.Span
}

// Profile is a named, prioritized set of view rules.
type Profile struct {
	Name      string
	ViewOrder int
	Rules     []Rule
}

// Config is a loaded view config: the full set of named profiles.
type Config struct {
	Profiles map[string]Profile
}

// Occurrence is one instantiation site reached during the hierarchy walk
// from the top module.
type Occurrence struct {
	Path        string
	Declared    patterned.ModuleID
	Content     patterned.ModuleID
	Effective   patterned.ModuleID
	MatchedRule string
}

// BoundGraph is the View Binder's output.
type BoundGraph struct {
	Graph       *atomizer.AtomizedGraph
	Occurrences []Occurrence
	// ContentOf maps an Effective module id back to the module id whose
	// ports/nets/instances actually provide its content, for NetlistIR
	// lowering to resolve (identity when an occurrence wasn't specialized).
	ContentOf map[patterned.ModuleID]patterned.ModuleID
}

// Bind walks ag's instance hierarchy from top, applying the rules of
// activeProfiles (by ascending ViewOrder, then authored order within a
// profile; a later match always overrides an earlier one) to every
// instantiation site.
func Bind(ag *atomizer.AtomizedGraph, top patterned.ModuleID, cfg *Config, activeProfiles []string) (*BoundGraph, []diag.Diagnostic) {
	b := &binder{
		graph: ag,
		rules: orderedRules(cfg, activeProfiles),
	}
	if cfg != nil {
		for _, name := range activeProfiles {
			if _, ok := cfg.Profiles[name]; !ok {
				b.diags = append(b.diags, diag.New(diag.ViewUnknownProfile, diag.Span{FileID: top.FileID}, diag.Catalog[diag.ViewUnknownProfile], name))
			}
		}
	}
	b.walk(top, top.Name, map[patterned.ModuleID]bool{top: true})

	out := &BoundGraph{Graph: ag, ContentOf: map[patterned.ModuleID]patterned.ModuleID{}}

	byDeclared := map[patterned.ModuleID][]int{}
	for i, occ := range b.occurrences {
		byDeclared[occ.Declared] = append(byDeclared[occ.Declared], i)
	}

	for declared, idxs := range byDeclared {
		diverges := false
		for _, i := range idxs {
			if b.occurrences[i].Content != b.occurrences[idxs[0]].Content {
				diverges = true
				break
			}
		}
		for _, i := range idxs {
			occ := &b.occurrences[i]
			if diverges {
				occ.Effective = patterned.ModuleID{
					FileID: fmt.Sprintf("%s#occ=%s", declared.FileID, occ.Path),
					Name:   declared.Name,
				}
			} else {
				occ.Effective = occ.Content
			}
			out.ContentOf[occ.Effective] = occ.Content
		}
	}

	out.Occurrences = b.occurrences
	return out, b.diags
}

type binder struct {
	graph       *atomizer.AtomizedGraph
	rules       []Rule
	occurrences []Occurrence
	diags       []diag.Diagnostic
}

// orderedRules flattens every rule from the named active profiles into one
// priority-ordered slice: ascending ViewOrder across profiles, authored
// order within a profile. The caller relies on "last match wins" over this
// slice to implement the override semantics.
func orderedRules(cfg *Config, activeProfiles []string) []Rule {
	if cfg == nil {
		return nil
	}
	var profiles []Profile
	for _, name := range activeProfiles {
		if p, ok := cfg.Profiles[name]; ok {
			profiles = append(profiles, p)
		}
	}
	sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].ViewOrder < profiles[j].ViewOrder })

	var out []Rule
	for _, p := range profiles {
		out = append(out, p.Rules...)
	}
	return out
}

// resolveBind returns the bind target of the last rule matching either
// path or declaredDecorated, or ("", "", false) if none match.
func resolveBind(rules []Rule, path, declaredDecorated string) (bind, ruleID string, matched bool) {
	for _, r := range rules {
		var hit bool
		switch r.Kind {
		case MatchInstance:
			hit = matchPath(r.Pattern, path)
		case MatchModule:
			hit = r.Pattern == declaredDecorated
		}
		if hit {
			bind, ruleID, matched = r.Bind, r.ID, true
		}
	}
	return bind, ruleID, matched
}

// matchPath implements the "hierarchical-path-or-pattern" instance match:
// an exact dotted-path match, or a trailing '*' matches any path sharing
// the given prefix (§4.7).
func matchPath(pattern, path string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == path
}

func (b *binder) walk(declared patterned.ModuleID, path string, visiting map[patterned.ModuleID]bool) {
	if visiting == nil {
		visiting = map[patterned.ModuleID]bool{}
	}
	mg, ok := b.graph.ModuleByID(declared)
	if !ok {
		return
	}

	for _, inst := range mg.Instances {
		if inst.Ref == nil {
			continue
		}
		childPath := path + "." + inst.Name
		declaredTarget := patterned.ModuleID{FileID: inst.RefFileID, Name: inst.Ref.Symbol()}
		decoratedName := inst.Ref.Symbol()
		if view, ok := inst.Ref.View(); ok {
			decoratedName += "@" + view
		}

		content := declaredTarget
		var matchedRule string
		if bind, ruleID, matched := resolveBind(b.rules, childPath, decoratedName); matched {
			ref, err := ast.ParseInstanceRef(bind)
			ruleSpan := diag.Span{FileID: mg.ID.FileID}
			if err != nil {
				b.diags = append(b.diags, diag.New(diag.ViewBadBinding, ruleSpan, diag.Catalog[diag.ViewBadBinding], ruleID, bind))
			} else {
				target := patterned.ModuleID{FileID: inst.RefFileID, Name: decoratedRefName(ref)}
				if _, ok := b.graph.ModuleByID(target); !ok {
					b.diags = append(b.diags, diag.New(diag.ViewBadBinding, ruleSpan, diag.Catalog[diag.ViewBadBinding], ruleID, bind))
				} else {
					content = target
					matchedRule = ruleID
				}
			}
		}

		b.occurrences = append(b.occurrences, Occurrence{
			Path:        childPath,
			Declared:    declaredTarget,
			Content:     content,
			MatchedRule: matchedRule,
		})

		if visiting[content] {
			continue
		}
		visiting[content] = true
		b.walk(content, childPath, visiting)
		delete(visiting, content)
	}
}

func decoratedRefName(ref ast.InstanceRef) string {
	name := ref.Symbol()
	if view, ok := ref.View(); ok {
		name += "@" + view
	}
	return name
}
