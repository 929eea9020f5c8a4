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

func expandString(t *testing.T, raw string) []string {
	t.Helper()
	expr, err := Parse(raw)
	require.NoError(t, err)
	atoms, err := Expand(expr, 0)
	require.NoError(t, err)
	return Literals(atoms)
}

func TestExpandOperatorOrderIsSignificant(t *testing.T) {
	// "tap<p|n><7:0>": the alternation duplicates innermost, so every
	// range value sees both alternatives before moving to the next value.
	got := expandString(t, "tap<p|n><7:0>")
	want := []string{
		"tapp7", "tapn7",
		"tapp6", "tapn6",
		"tapp5", "tapn5",
		"tapp4", "tapn4",
		"tapp3", "tapn3",
		"tapp2", "tapn2",
		"tapp1", "tapn1",
		"tapp0", "tapn0",
	}
	assert.Equal(t, want, got)

	// Swapping operator order changes the grouping entirely: every range
	// value appears under "p" before any appears under "n".
	got2 := expandString(t, "tap<7:0><p|n>")
	want2 := []string{
		"tap7p", "tap6p", "tap5p", "tap4p", "tap3p", "tap2p", "tap1p", "tap0p",
		"tap7n", "tap6n", "tap5n", "tap4n", "tap3n", "tap2n", "tap1n", "tap0n",
	}
	assert.Equal(t, want2, got2)
	assert.NotEqual(t, got, got2)
}

func TestExpandAscendingRange(t *testing.T) {
	got := expandString(t, "b<0:3>")
	assert.Equal(t, []string{"b0", "b1", "b2", "b3"}, got)
}

func TestExpandSplice(t *testing.T) {
	got := expandString(t, "a<1|2>;b<3|4>")
	assert.Equal(t, []string{"a1", "a2", "b3", "b4"}, got)
}

func TestExpandSizeCap(t *testing.T) {
	expr, err := Parse("x<0:999>")
	require.NoError(t, err)
	_, err = Expand(expr, 10)
	assert.Error(t, err)
}

func TestExpandNamedAxisTrace(t *testing.T) {
	expr, err := Parse("sw_row<@ROW>.<@BUS>")
	require.NoError(t, err)

	resolved, err := ResolveNamed(expr, map[string]Definition{
		"ROW": {Expr: "<130:1>", AxisKey: "ROW"},
		"BUS": {Expr: "<24:0>", AxisKey: "BUS"},
	})
	require.NoError(t, err)

	atoms, err := Expand(resolved, 0)
	require.NoError(t, err)
	assert.Len(t, atoms, 130*25)

	// Per the worked example in the surrounding documentation: the BUS
	// axis is outermost (varies slowest) and ROW is innermost.
	assert.Equal(t, "sw_row130.24", atoms[0].Literal)
	assert.Equal(t, "sw_row1.24", atoms[129].Literal)
	assert.Equal(t, "sw_row130.23", atoms[130].Literal)

	first := atoms[0]
	require.Len(t, first.Trace, 2)
	assert.Equal(t, "ROW", first.Trace[0].AxisKey)
	assert.Equal(t, 0, first.Trace[0].Index)
	assert.Equal(t, "BUS", first.Trace[1].AxisKey)
	assert.Equal(t, 0, first.Trace[1].Index)
}

func TestExpandRejectsUnresolvedNamed(t *testing.T) {
	expr, err := Parse("x<@UNDEFINED>")
	require.NoError(t, err)
	_, err = Expand(expr, 0)
	assert.Error(t, err)
}
