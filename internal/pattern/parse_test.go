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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteralOnly(t *testing.T) {
	expr, err := Parse("tap")
	require.NoError(t, err)
	require.Len(t, expr.Clauses, 1)
	assert.False(t, expr.Spliced)
	require.Len(t, expr.Clauses[0], 1)
	assert.Equal(t, SegLiteral, expr.Clauses[0][0].Kind)
	assert.Equal(t, "tap", expr.Clauses[0][0].Literal)
}

func TestParseAlternation(t *testing.T) {
	expr, err := Parse("MN<P|N>")
	require.NoError(t, err)
	require.Len(t, expr.Clauses[0], 2)
	grp := expr.Clauses[0][1]
	assert.Equal(t, SegAlt, grp.Kind)
	assert.Equal(t, []string{"P", "N"}, grp.Alts)
}

func TestParseDescendingRange(t *testing.T) {
	expr, err := Parse("BUS<25:1>")
	require.NoError(t, err)
	grp := expr.Clauses[0][1]
	assert.Equal(t, SegRange, grp.Kind)
	assert.Equal(t, 25, grp.RangeFrom)
	assert.Equal(t, 1, grp.RangeTo)
}

func TestParseNamedReference(t *testing.T) {
	expr, err := Parse("sw_row<@ROW>.<@BUS25>")
	require.NoError(t, err)
	require.Len(t, expr.Clauses[0], 4)
	assert.Equal(t, SegNamed, expr.Clauses[0][1].Kind)
	assert.Equal(t, "ROW", expr.Clauses[0][1].Named)
	assert.Equal(t, SegLiteral, expr.Clauses[0][2].Kind)
}

func TestParseSplice(t *testing.T) {
	expr, err := Parse("a;b;c")
	require.NoError(t, err)
	assert.True(t, expr.Spliced)
	require.Len(t, expr.Clauses, 3)
}

func TestParseRejectsEmptyGroup(t *testing.T) {
	_, err := Parse("tap<>")
	assert.Error(t, err)
}

func TestParseRejectsUnbalancedBrackets(t *testing.T) {
	_, err := Parse("tap<p|n")
	assert.Error(t, err)

	_, err = Parse("tap>p|n<")
	assert.Error(t, err)
}

func TestParseRejectsMixedAltAndRange(t *testing.T) {
	_, err := Parse("tap<p|1:0>")
	assert.Error(t, err)
}

func TestParseRejectsWhitespaceInGroup(t *testing.T) {
	_, err := Parse("tap< p | n >")
	assert.Error(t, err)
}

func TestParseRejectsCommaInGroup(t *testing.T) {
	_, err := Parse("tap<p,n>")
	assert.Error(t, err)
}

func TestParseRejectsMalformedNamedReference(t *testing.T) {
	_, err := Parse("tap<@>")
	assert.Error(t, err)
}

func TestSplitTopLevelIgnoresSemicolonInsideGroup(t *testing.T) {
	parts := splitTopLevel("a<1|2;3>;b", ';')
	require.Len(t, parts, 2)
	assert.Equal(t, "a<1|2;3>", parts[0])
	assert.Equal(t, "b", parts[1])
}
