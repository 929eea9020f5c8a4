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
package emit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdl-lang/asdl/internal/atomizer"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/loweratop"
	"github.com/asdl-lang/asdl/internal/netlistir"
	"github.com/asdl-lang/asdl/internal/patterned"
	"github.com/asdl-lang/asdl/internal/viewbind"
)

func TestScanPlaceholders(t *testing.T) {
	got := ScanPlaceholders("M{name} {ports} nch w={w} l={w}")
	assert.Equal(t, []string{"name", "ports", "w"}, got)
}

func TestValidatePlaceholdersRejectsUnknown(t *testing.T) {
	diags := ValidatePlaceholders("nmos_dev", "M{name} {ports} nch w={w}", map[string]bool{}, diag.Span{FileID: "/m.asdl"})
	require.Len(t, diags, 1)
	assert.Equal(t, "EMIT-003", string(diags[0].Code))
}

func TestValidatePlaceholdersAllowsKnownExtra(t *testing.T) {
	diags := ValidatePlaceholders("nmos_dev", "M{name} {ports} nch w={w}", map[string]bool{"w": true}, diag.Span{FileID: "/m.asdl"})
	assert.Empty(t, diags)
}

func TestRenderSubstitutesKnownLeavesUnknown(t *testing.T) {
	out := Render("M{name} {ports} w={w}", map[string]string{"name": "M1", "ports": "d g s b"})
	assert.Equal(t, "MM1 d g s b w={w}", out)
}

func TestRenderOptionalPlaceholdersDefaultEmpty(t *testing.T) {
	out := Render(".subckt {name}{ports}", map[string]string{"name": "stage"})
	assert.Equal(t, ".subckt stage", out)
}

func TestFormatAtomNameDefaultAndCustom(t *testing.T) {
	origin := &atomizer.AtomizedPatternOrigin{BaseName: "BUS", PatternParts: []string{"25"}}
	assert.Equal(t, "BUS25", FormatAtomName("BUS25", origin, ""))
	assert.Equal(t, "BUS[25]", FormatAtomName("BUS25", origin, "[{N}]"))
}

func TestFormatAtomNameMultiAxisJoinsWithSemicolon(t *testing.T) {
	origin := &atomizer.AtomizedPatternOrigin{BaseName: "sw_row", PatternParts: []string{"3", "1"}}
	assert.Equal(t, "sw_row[3;1]", FormatAtomName("sw_row31", origin, "[{N}]"))
}

func TestFormatAtomNameNonNumericPassesThrough(t *testing.T) {
	assert.Equal(t, "VDD", FormatAtomName("VDD", nil, "[{N}]"))
}

func TestLoadConfigDefaultsPatternRendering(t *testing.T) {
	cfg, diags := LoadConfig("/backends.yaml", []byte(`
backends:
  sim.ngspice:
    extension: ".cir"
    comment_prefix: "*"
    templates:
      nmos_dev: "M{name} {ports} nch w={w}"
`))
	require.Empty(t, diags)
	b := cfg.Backends["sim.ngspice"]
	require.NotNil(t, b)
	assert.Equal(t, "{N}", b.PatternRendering)
	assert.Equal(t, ".cir", b.Extension)
}

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

func buildDesign(t *testing.T, src string, topName string) (*netlistir.NetlistDesign, []*patterned.DeviceGraph) {
	t.Helper()
	fs := memFS{files: map[string][]byte{"/m.asdl": []byte(src)}}
	db, diags := importgraph.Load(context.Background(), "/m.asdl", importgraph.Config{}, fs)
	require.Empty(t, diags)
	pg, diags := loweratop.Lower(db)
	require.Empty(t, diags)
	ag, diags := atomizer.Atomize(pg)
	require.Empty(t, diags)

	top := patterned.ModuleID{FileID: "/m.asdl", Name: topName}
	bound, diags := viewbind.Bind(ag, top, nil, nil)
	require.Empty(t, diags)

	return netlistir.Lower(ag, bound, top), ag.Devices
}

const inverterSrc = `
modules:
  inverter:
    ports: [in, out, vdd, vss]
    nets:
      in: ["M1.g"]
      out: ["M1.d"]
      vdd: ["M1.b"]
      vss: ["M1.s"]
    instances:
      M1: {ref: nmos_dev, parameters: {w: "2u"}}
devices:
  nmos_dev:
    ports: [d, g, s, b]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nch w={w}"
`

func inverterBackend() *BackendConfig {
	return &BackendConfig{
		Name:             "sim.ngspice",
		Extension:        ".cir",
		CommentPrefix:    "*",
		PatternRendering: "{N}",
		Templates: map[string]string{
			TemplateNetlistHeader: "* netlist for {top_sym_name}",
			TemplateNetlistFooter: "* end",
		},
	}
}

func TestEmitInlinesTopInstancesByDefault(t *testing.T) {
	design, devices := buildDesign(t, inverterSrc, "inverter")
	require.Len(t, design.Modules, 1)

	out, diags := Emit(design, devices, Options{Backend: inverterBackend()})
	require.Empty(t, diags)
	assert.Contains(t, out, "* netlist for inverter")
	assert.Contains(t, out, "MM1 out in vss vdd nch w=2u")
	assert.Contains(t, out, "* end")
	assert.False(t, strings.Contains(out, "__subckt_header__"))
}

func TestEmitTopAsSubcktUsesPlainHeaderWhenNoParameters(t *testing.T) {
	design, devices := buildDesign(t, inverterSrc, "inverter")
	require.Len(t, design.Modules, 1)

	backend := inverterBackend()
	backend.Templates[TemplateSubcktHeader] = ".subckt {name} {ports}"
	backend.Templates[TemplateSubcktHeaderParams] = ".subckt {name} {ports} PARAMS: {parameters}"
	backend.Templates[TemplateSubcktCall] = "X{name} {ports} {sym_name}"

	out, diags := Emit(design, devices, Options{Backend: backend, TopAsSubckt: true})
	require.Empty(t, diags)
	assert.Contains(t, out, ".subckt inverter")
	assert.NotContains(t, out, "PARAMS:")
}

func TestEmitWiresHierarchicalSubckt(t *testing.T) {
	design, devices := buildDesign(t, `
modules:
  stage:
    ports: [in, out]
    nets:
      in: ["M1.g"]
      out: ["M1.d"]
    instances:
      M1: {ref: nmos_dev}
  top:
    ports: [in, out]
    nets:
      in: ["S1.in"]
      out: ["S1.out"]
    instances:
      S1: {ref: stage}
devices:
  nmos_dev:
    ports: [d, g]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nch"
`, "top")
	require.Len(t, design.Modules, 2)

	backend := inverterBackend()
	backend.Templates[TemplateSubcktHeader] = ".subckt {name} {ports}"
	backend.Templates[TemplateSubcktCall] = "X{name} {ports} {sym_name}"

	out, diags := Emit(design, devices, Options{Backend: backend})
	require.Empty(t, diags)
	assert.Contains(t, out, ".subckt stage in out")
	assert.Contains(t, out, "XS1")
	assert.Contains(t, out, "stage")
}

func TestEmitReportsMissingPin(t *testing.T) {
	design, devices := buildDesign(t, `
modules:
  top:
    ports: [in]
    nets:
      in: ["M1.g"]
    instances:
      M1: {ref: nmos_dev}
devices:
  nmos_dev:
    ports: [d, g]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nch"
`, "top")

	out, diags := Emit(design, devices, Options{Backend: inverterBackend()})
	_ = out
	found := false
	for _, d := range diags {
		if d.Code == "EMIT-004" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEmitReportsVariableShadow(t *testing.T) {
	design, devices := buildDesign(t, `
modules:
  top:
    ports: [in]
    nets:
      in: ["M1.g"]
    instances:
      M1: {ref: nmos_dev, parameters: {w: "3u"}}
devices:
  nmos_dev:
    ports: [d, g]
    variables: {w: "1u"}
    backends:
      sim.ngspice:
        template: "M{name} {ports} nch w={w}"
`, "top")

	backend := inverterBackend()
	_, diags := Emit(design, devices, Options{Backend: backend})
	found := false
	for _, d := range diags {
		if d.Code == "EMIT-006" {
			found = true
		}
	}
	assert.True(t, found)
}
