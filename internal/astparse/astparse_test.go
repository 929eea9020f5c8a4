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
package astparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inverterSrc = `
modules:
  inverter:
    ports: [in, out, vdd, vss]
    instances:
      M1: "nmos_dev w=1u"
devices:
  nmos_dev:
    ports: [d, g, s, b]
    backends:
      sim.ngspice:
        template: "M{name} {ports} nch w={w}"
`

func TestParseMinimalInverter(t *testing.T) {
	doc, diags := Parse("inverter.asdl", []byte(inverterSrc))
	require.Empty(t, diags)
	require.Len(t, doc.Modules, 1)
	require.Len(t, doc.Devices, 1)

	mod := doc.Modules[0]
	assert.Equal(t, "inverter", mod.Name)
	require.Len(t, mod.Ports, 4)
	assert.Equal(t, "vss", mod.Ports[3].Name)
	require.Len(t, mod.Instances, 1)
	assert.Equal(t, "nmos_dev", mod.Instances[0].RefExpr)

	dev := doc.Devices[0]
	tmpl, ok := dev.Backends.Get("sim.ngspice")
	require.True(t, ok)
	assert.Equal(t, "M{name} {ports} nch w={w}", tmpl.Template)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, diags := Parse("x.asdl", []byte(`
modules:
  m:
    bogus_field: 1
    instances: {}
`))
	require.NotEmpty(t, diags)
	assert.Equal(t, "AST-010", string(diags[0].Code))
}

func TestParseRejectsReservedParamsField(t *testing.T) {
	_, diags := Parse("x.asdl", []byte(`
modules:
  m:
    params: {w: 1u}
`))
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == "AST-017" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseDeviceMissingTemplate(t *testing.T) {
	_, diags := Parse("x.asdl", []byte(`
devices:
  nmos_dev:
    backends:
      sim.ngspice: {}
`))
	require.NotEmpty(t, diags)
	assert.Equal(t, "AST-016", string(diags[0].Code))
}

func TestParseDeviceWithNoBackends(t *testing.T) {
	_, diags := Parse("x.asdl", []byte(`
devices:
  nmos_dev:
    ports: [d, g, s, b]
`))
	require.NotEmpty(t, diags)
	assert.Equal(t, "AST-021", string(diags[len(diags)-1].Code))
}

func TestParseTaggedPattern(t *testing.T) {
	doc, diags := Parse("x.asdl", []byte(`
modules:
  m:
    patterns:
      BUS25: "<25:1>"
      BUS0:
        expr: "<24:0>"
        tag: BUS
    instances: {}
`))
	require.Empty(t, diags)
	def, ok := doc.Modules[0].Patterns.Get("BUS0")
	require.True(t, ok)
	assert.Equal(t, "BUS", def.AxisID())

	def2, ok := doc.Modules[0].Patterns.Get("BUS25")
	require.True(t, ok)
	assert.Equal(t, "BUS25", def2.AxisID())
}

func TestTokenizeInlineInstanceQuoted(t *testing.T) {
	ref, params, err := tokenizeInlineInstance(`nmos_dev w=1u note='two words'`)
	require.NoError(t, err)
	assert.Equal(t, "nmos_dev", ref)
	require.Len(t, params, 2)
	assert.Equal(t, "w", params[0].key)
	assert.Equal(t, "1u", params[0].value)
	assert.Equal(t, "note", params[1].key)
	assert.Equal(t, "two words", params[1].value)
}

func TestTokenizeInlineInstanceUnterminatedQuote(t *testing.T) {
	_, _, err := tokenizeInlineInstance(`nmos_dev note='unterminated`)
	assert.Error(t, err)
}

func TestElaboratePatternsUndefinedReference(t *testing.T) {
	doc, diags := Parse("x.asdl", []byte(`
modules:
  m:
    nets:
      $in<@MISSING>: [x]
`))
	require.Empty(t, diags)
	elabDiags := ElaboratePatterns(doc)
	require.NotEmpty(t, elabDiags)
	assert.Equal(t, "AST-018", string(elabDiags[0].Code))
}

func TestElaboratePatternsRecursiveReference(t *testing.T) {
	doc, diags := Parse("x.asdl", []byte(`
modules:
  m:
    patterns:
      A: "<@B>"
      B: "<@A>"
    instances: {}
`))
	require.Empty(t, diags)
	elabDiags := ElaboratePatterns(doc)
	require.NotEmpty(t, elabDiags)
	found := false
	for _, d := range elabDiags {
		if d.Code == "AST-019" {
			found = true
		}
	}
	assert.True(t, found)
}
