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
package complog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdl-lang/asdl/internal/diag"
)

func TestBuildCountsAndWarnings(t *testing.T) {
	c := diag.NewCollector()
	c.Add(diag.Warning(diag.EmitProvenanceWarn, diag.Span{}, diag.Catalog[diag.EmitProvenanceWarn], "instance M1"))
	c.Add(diag.New(diag.EmitMissingPin, diag.Span{}, diag.Catalog[diag.EmitMissingPin], "M1", "d"))

	doc := Build(c, nil, nil)
	assert.NotEmpty(t, doc.CompileID)
	assert.Equal(t, 2, doc.DiagnosticCount)
	assert.Equal(t, 1, doc.WarningCount)
	assert.Len(t, doc.Warnings, 1)
	assert.Empty(t, doc.ViewBindings)
	assert.Empty(t, doc.EmissionNameMap)
}

func TestWriteProducesValidJSON(t *testing.T) {
	doc := Build(diag.NewCollector(), nil, nil)
	path := filepath.Join(t.TempDir(), "design.log.json")

	diags := Write(doc, path)
	require.Empty(t, diags)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "compile_id")
	assert.Contains(t, decoded, "diagnostic_severity_counts")
}
