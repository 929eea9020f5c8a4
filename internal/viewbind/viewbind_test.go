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
package viewbind

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/loweratop"
	"github.com/asdl-lang/asdl/internal/patterned"
)

type memFS struct{ files map[string][]byte }

func (m memFS) ReadFile(path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file %q", path)
	}
	return b, nil
}
func (m memFS) Abs(path string) (string, error) { return path, nil }
func (m memFS) Exists(path string) bool { _, ok := m.files[path]; return ok }

func loadAtomized(t *testing.T, src string) *atomizer.AtomizedGraph {
	t.Helper()
	fs := memFS{files: map[string][]byte{"/m.asdl": []byte(src)}}
	db, diags := importgraph.Load(context.Background(), "/m.asdl", importgraph.Config{}, fs)
	require.Empty(t, diags)
	pg, diags := loweratop.Lower(db)
	require.Empty(t, diags)
	ag, diags := atomizer.Atomize(pg)
	require.Empty(t, diags)
	return ag
}

const divergentSrc = `
modules:
  stage:
    ports: [in, out]
  stage@behave:
    ports: [in, out]
  top:
    instances:
      S1: {ref: stage}
      S2: {ref: stage}
      S3: {ref: stage}
`

func TestBindNoRulesSharesSingleEffectiveModule(t *testing.T) {
	ag := loadAtomized(t, divergentSrc)
	top := patterned.ModuleID{FileID: "/m.asdl", Name: "top"}

	bound, diags := Bind(ag, top, nil, nil)
	require.Empty(t, diags)
	require.Len(t, bound.Occurrences, 3)

	first := bound.Occurrences[0].Effective
	for _, occ := range bound.Occurrences {
		assert.Equal(t, first, occ.Effective)
	}
}

func TestBindPathScopedRuleSpecializesAllOccurrences(t *testing.T) {
	ag := loadAtomized(t, divergentSrc)
	top := patterned.ModuleID{FileID: "/m.asdl", Name: "top"}

	cfg := &Config{Profiles: map[string]Profile{
		"default": {
			Name:      "default",
			ViewOrder: 0,
			Rules: []Rule{
				{ID: "rule1", Kind: MatchInstance, Pattern: "top.S2", Bind: "stage@behave"},
			},
		},
	}}

	bound, diags := Bind(ag, top, cfg, []string{"default"})
	require.Empty(t, diags)
	require.Len(t, bound.Occurrences, 3)

	effective := map[string]patterned.ModuleID{}
	for _, occ := range bound.Occurrences {
		effective[occ.Path] = occ.Effective
	}

	assert.NotEqual(t, effective["top.S1"], effective["top.S2"])
	assert.NotEqual(t, effective["top.S2"], effective["top.S3"])
	assert.NotEqual(t, effective["top.S1"], effective["top.S3"])

	assert.Equal(t, "stage", effective["top.S1"].Name)
	assert.Equal(t, "stage", effective["top.S2"].Name)
	assert.Equal(t, "stage", effective["top.S3"].Name)

	assert.Equal(t, patterned.ModuleID{FileID: "/m.asdl", Name: "stage@behave"}, bound.ContentOf[effective["top.S2"]])
}

func TestBindUnknownProfileReportsDiagnostic(t *testing.T) {
	ag := loadAtomized(t, divergentSrc)
	top := patterned.ModuleID{FileID: "/m.asdl", Name: "top"}

	cfg := &Config{Profiles: map[string]Profile{}}
	_, diags := Bind(ag, top, cfg, []string{"missing"})
	require.Len(t, diags, 1)
	assert.Equal(t, "VIEW-001", string(diags[0].Code))
}

func TestBindModuleMatchRule(t *testing.T) {
	ag := loadAtomized(t, divergentSrc)
	top := patterned.ModuleID{FileID: "/m.asdl", Name: "top"}

	cfg := &Config{Profiles: map[string]Profile{
		"default": {
			Name: "default",
			Rules: []Rule{
				{ID: "rule1", Kind: MatchModule, Pattern: "stage", Bind: "stage@behave"},
			},
		},
	}}

	bound, diags := Bind(ag, top, cfg, []string{"default"})
	require.Empty(t, diags)

	for _, occ := range bound.Occurrences {
		assert.Equal(t, patterned.ModuleID{FileID: "/m.asdl", Name: "stage@behave"}, bound.ContentOf[occ.Effective])
	}
}

func TestLoadConfigDefaultsRuleIDs(t *testing.T) {
	cfg, diags := LoadConfig("/views.yaml", []byte(`
profiles:
  default:
    view_order: 0
    rules:
      - instance: top.S2
        bind: "stage@behave"
`))
	require.Empty(t, diags)
	p := cfg.Profiles["default"]
	require.Len(t, p.Rules, 1)
	assert.Equal(t, "rule1", p.Rules[0].ID)
	assert.Equal(t, MatchInstance, p.Rules[0].Kind)
}

func TestLoadConfigRejectsBothMatchForms(t *testing.T) {
	_, diags := LoadConfig("/views.yaml", []byte(`
profiles:
  default:
    rules:
      - instance: top.S2
        module: stage
        bind: "stage@behave"
`))
	require.Len(t, diags, 1)
	assert.Equal(t, "VIEW-002", string(diags[0].Code))
}
