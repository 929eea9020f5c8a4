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
package importgraph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory FileReader keyed by absolute path, for tests.
type memFS struct {
	files map[string][]byte
}

func (m memFS) ReadFile(path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file %q", path)
	}
	return b, nil
}

func (m memFS) Abs(path string) (string, error) { return path, nil }

func (m memFS) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func TestLoadSingleFile(t *testing.T) {
	fs := memFS{files: map[string][]byte{
		"/a.asdl": []byte(`
modules:
  m:
    instances: {}
`),
	}}

	db, diags := Load(context.Background(), "/a.asdl", Config{}, fs)
	require.Empty(t, diags)
	require.Contains(t, db.Docs, "/a.asdl")
	assert.Equal(t, "/a.asdl", db.EntryFileID)
}

func TestLoadImportCycle(t *testing.T) {
	fs := memFS{files: map[string][]byte{
		"/a.asdl": []byte(`
imports:
  b: /b.asdl
modules:
  m:
    instances: {}
`),
		"/b.asdl": []byte(`
imports:
  a: /a.asdl
modules:
  n:
    instances: {}
`),
	}}

	_, diags := Load(context.Background(), "/a.asdl", Config{}, fs)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == "AST-012" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadMissingFile(t *testing.T) {
	fs := memFS{files: map[string][]byte{}}
	_, diags := Load(context.Background(), "/missing.asdl", Config{}, fs)
	require.NotEmpty(t, diags)
	assert.Equal(t, "AST-010-FILE", string(diags[0].Code))
}

func TestLoadDedupesSharedImport(t *testing.T) {
	fs := memFS{files: map[string][]byte{
		"/a.asdl": []byte(`
imports:
  x: /lib.asdl
  y: /lib.asdl
modules:
  m:
    instances: {}
`),
		"/lib.asdl": []byte(`
modules:
  shared:
    instances: {}
`),
	}}

	db, diags := Load(context.Background(), "/a.asdl", Config{}, fs)
	require.Empty(t, diags)
	assert.Len(t, db.Docs, 2)
	env := db.Envs["/a.asdl"]
	xID, _ := env.Namespaces.Get("x")
	yID, _ := env.Namespaces.Get("y")
	assert.Equal(t, xID, yID)
}

func TestLoadResolvesLogicalImport(t *testing.T) {
	fs := memFS{files: map[string][]byte{
		"/a.asdl": []byte(`
imports:
  analog_lib: analog_lib/opamp
modules:
  m:
    instances: {}
`),
		"/lib1/analog_lib/opamp": []byte(`
modules:
  opamp:
    instances: {}
`),
	}}

	db, diags := Load(context.Background(), "/a.asdl", Config{LibRoots: []string{"/lib1", "/lib2"}}, fs)
	require.Empty(t, diags)
	require.Contains(t, db.Docs, "/lib1/analog_lib/opamp")
	env := db.Envs["/a.asdl"]
	resolved, ok := env.Namespaces.Get("analog_lib")
	require.True(t, ok)
	assert.Equal(t, "/lib1/analog_lib/opamp", resolved)
}

func TestLoadAmbiguousLogicalImport(t *testing.T) {
	fs := memFS{files: map[string][]byte{
		"/a.asdl": []byte(`
imports:
  analog_lib: analog_lib/opamp
modules:
  m:
    instances: {}
`),
		"/lib1/analog_lib/opamp": []byte(`
modules:
  opamp:
    instances: {}
`),
		"/lib2/analog_lib/opamp": []byte(`
modules:
  opamp:
    instances: {}
`),
	}}

	_, diags := Load(context.Background(), "/a.asdl", Config{LibRoots: []string{"/lib1", "/lib2"}}, fs)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == "AST-015" {
			found = true
			assert.Contains(t, d.Message, "/lib1/analog_lib/opamp")
			assert.Contains(t, d.Message, "/lib2/analog_lib/opamp")
		}
	}
	assert.True(t, found)
}
