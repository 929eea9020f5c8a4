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
package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Collector_DeterministicOrder(t *testing.T) {
	c := NewCollector()
	// Inserted out of order; expect: errors before warnings, IR before
	// PARSE within a severity (code ascending), and span ascending within
	// a (severity, code) group.
	c.Add(Warning(EmitProvenanceWarn, NewSpan("b.asdl", 1, 1, 1), "warn 1"))
	c.Add(New(ParseYAMLSyntax, NewSpan("a.asdl", 5, 1, 1), "parse error late"))
	c.Add(New(IRBindMismatch, NewSpan("a.asdl", 1, 1, 1), "bind mismatch"))
	c.Add(New(ParseYAMLSyntax, NewSpan("a.asdl", 2, 1, 1), "parse error early"))

	sorted := c.Sorted()
	require.Len(t, sorted, 4)

	// All errors first.
	assert.Equal(t, SeverityError, sorted[0].Severity)
	assert.Equal(t, SeverityError, sorted[1].Severity)
	assert.Equal(t, SeverityError, sorted[2].Severity)
	assert.Equal(t, SeverityWarning, sorted[3].Severity)

	// Among errors, code ascending: IR-001 before PARSE-001.
	assert.Equal(t, IRBindMismatch, sorted[0].Code)
	assert.Equal(t, ParseYAMLSyntax, sorted[1].Code)
	assert.Equal(t, ParseYAMLSyntax, sorted[2].Code)

	// Among the two PARSE-001s, span ascending (line 2 before line 5).
	assert.Equal(t, "parse error early", sorted[1].Message)
	assert.Equal(t, "parse error late", sorted[2].Message)
}

func Test_Collector_AnyError(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.AnyError())
	c.Add(Warning(EmitProvenanceWarn, NewSpan("a.asdl", 1, 1, 1), "warn"))
	assert.False(t, c.AnyError())
	c.Add(New(IRCollision, NewSpan("a.asdl", 1, 1, 1), "collision"))
	assert.True(t, c.AnyError())
}

func Test_Diagnostic_NoSpanNote(t *testing.T) {
	d := WithoutSpan(ToolLogWriteFailed, SeverityError, "could not write log")
	assert.True(t, d.HasNoSpanNote())

	spanned := New(IRCollision, NewSpan("a.asdl", 1, 1, 1), "dup")
	assert.False(t, spanned.HasNoSpanNote())
}

func Test_RenderText_NoColor(t *testing.T) {
	c := NewCollector()
	c.Add(New(IRCollision, NewSpan("a.asdl", 3, 4, 2), "duplicate name %q", "sw"))

	var buf bytes.Buffer
	c.RenderText(&buf, false)

	out := buf.String()
	assert.Contains(t, out, "a.asdl:3:4")
	assert.Contains(t, out, "IR-002")
	assert.Contains(t, out, `duplicate name "sw"`)
	assert.NotContains(t, out, "\x1b[")
}

func Test_RenderJSON_RoundTrips(t *testing.T) {
	c := NewCollector()
	c.Add(New(IRCollision, NewSpan("a.asdl", 1, 1, 1), "dup"))

	bs, err := c.RenderJSON()
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"code":"IR-002"`)
	assert.Contains(t, string(bs), `"severity":"error"`)
}

func Test_Code_Kind(t *testing.T) {
	assert.Equal(t, KindIR, IRCollision.Kind())
	assert.Equal(t, KindParse, ParseYAMLSyntax.Kind())
	assert.Equal(t, KindEmit, EmitMissingTop.Kind())
}
