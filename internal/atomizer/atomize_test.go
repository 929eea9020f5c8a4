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
package atomizer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdl-lang/asdl/internal/importgraph"
	"github.com/asdl-lang/asdl/internal/loweratop"
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

func atomizeSrc(t *testing.T, src string) (*AtomizedGraph, []error) {
	t.Helper()
	fs := memFS{files: map[string][]byte{"/m.asdl": []byte(src)}}
	db, diags := importgraph.Load(context.Background(), "/m.asdl", importgraph.Config{}, fs)
	require.Empty(t, diags)

	pg, diags := loweratop.Lower(db)
	require.Empty(t, diags)

	ag, diags2 := Atomize(pg)
	var errs []error
	for _, d := range diags2 {
		errs = append(errs, d)
	}
	return ag, errs
}

func TestAtomizeElementwiseBind(t *testing.T) {
	ag, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      "N<0:2>": ["M<0:2>.D"]
    instances:
      M<0:2>: {ref: top}
`)
	require.Empty(t, errs)
	mg := ag.Modules[0]
	require.Len(t, mg.Nets, 3)
	assert.Equal(t, "N0", mg.Nets[0].Name)
	require.Len(t, mg.Nets[0].Endpoints, 1)
	assert.Equal(t, "M0", mg.Nets[0].Endpoints[0].Instance)
	assert.Equal(t, "D", mg.Nets[0].Endpoints[0].Pin)
	assert.Equal(t, "N2", mg.Nets[2].Name)
	assert.Equal(t, "M2", mg.Nets[2].Endpoints[0].Instance)
}

func TestAtomizeScalarBroadcast(t *testing.T) {
	ag, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      "N<0:2>": ["VDD.S"]
    instances:
      M1: {ref: top}
`)
	require.Empty(t, errs)
	mg := ag.Modules[0]
	require.Len(t, mg.Nets, 3)
	for _, net := range mg.Nets {
		require.Len(t, net.Endpoints, 1)
		assert.Equal(t, "VDD", net.Endpoints[0].Instance)
		assert.Equal(t, "S", net.Endpoints[0].Pin)
	}
}

func TestAtomizeBindMismatchReportsIR001(t *testing.T) {
	_, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      "N<0:1>": ["M<0:2>.D"]
    instances:
      M<0:2>: {ref: top}
`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "IR-001")
}

func TestAtomizeBadEndpointArityReportsIR006(t *testing.T) {
	_, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      VDD: ["noDotHere"]
    instances:
      M1: {ref: top}
`)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Error(), "IR-006") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAtomizeDuplicateLiteralReportsIR002(t *testing.T) {
	_, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      "A;A": ["M1.D;M2.D"]
    instances:
      M1: {ref: top}
      M2: {ref: top}
`)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Error(), "IR-002") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAtomizeSpliceOnPortReportsIR007(t *testing.T) {
	_, errs := atomizeSrc(t, `
modules:
  top:
    nets:
      "$A;B": ["M1.D"]
    instances:
      M1: {ref: top}
`)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Error(), "IR-007") {
			found = true
		}
	}
	assert.True(t, found)
}
