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
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSplitsAndExpandsLibPath(t *testing.T) {
	t.Setenv("ASDL_LIB_PATH", "/a/libs"+string(os.PathListSeparator)+"$MY_ROOT/libs")
	t.Setenv("MY_ROOT", "/custom")

	env, diags := Load("")
	require.Empty(t, diags)
	assert.Equal(t, []string{"/a/libs", "/custom/libs"}, env.LibRoots)
}

func TestLoadReadsAsdlrc(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, ".asdlrc")
	require.NoError(t, os.WriteFile(rc, []byte("backend_config: ./backends.yaml\nview_profiles: [lab, sim]\n"), 0o644))

	env, diags := Load(rc)
	require.Empty(t, diags)
	assert.Equal(t, "./backends.yaml", env.BackendConfigPath)
	assert.Equal(t, []string{"lab", "sim"}, env.ActiveProfiles)
}

func TestBackendConfigEnvOverridesAsdlrc(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, ".asdlrc")
	require.NoError(t, os.WriteFile(rc, []byte("backend_config: ./backends.yaml\n"), 0o644))
	t.Setenv("ASDL_BACKEND_CONFIG", "/override/backends.yaml")

	env, diags := Load(rc)
	require.Empty(t, diags)
	assert.Equal(t, "/override/backends.yaml", env.BackendConfigPath)
}

func TestLoadIgnoresMissingAsdlrc(t *testing.T) {
	env, diags := Load("/does/not/exist/.asdlrc")
	require.Empty(t, diags)
	assert.Empty(t, env.BackendConfigPath)
}
