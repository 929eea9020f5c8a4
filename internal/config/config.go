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

// Package config reads the process environment and `.asdlrc` exactly once
// at CLI entry (§9 "global state"), so every downstream package receives
// already-expanded values rather than reaching for os.Getenv itself.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdl/internal/diag"
)

// Environment is the resolved set of inputs the rest of the compiler
// needs from the process environment and `.asdlrc` (§6).
type Environment struct {
	// LibRoots are the ordered, tilde/env-expanded ASDL_LIB_PATH entries,
	// ready to hand to importgraph.Config.
	LibRoots []string
	// BackendConfigPath overrides the default backend config location
	// when ASDL_BACKEND_CONFIG or .asdlrc's backend_config key is set.
	BackendConfigPath string
	// ActiveProfiles names the view profiles to apply, from .asdlrc's
	// view_profiles list.
	ActiveProfiles []string
}

// rcFile mirrors `.asdlrc`'s YAML shape.
type rcFile struct {
	BackendConfig string   `yaml:"backend_config"`
	ViewProfiles  []string `yaml:"view_profiles"`
}

// Load resolves the environment: ASDL_LIB_PATH (OS path-list separator),
// ASDL_BACKEND_CONFIG, and an optional `.asdlrc` found at rcPath (empty
// skips it) (§6). Expansion failures of `~`/env references in a LibRoots
// entry are reported as AST-011, matching the resolver's own malformed-
// expansion diagnostic for import paths.
func Load(rcPath string) (Environment, []diag.Diagnostic) {
	var env Environment
	var diags []diag.Diagnostic

	if raw, ok := os.LookupEnv("ASDL_LIB_PATH"); ok {
		for _, root := range filepath.SplitList(raw) {
			expanded, err := expand(root)
			if err != nil {
				diags = append(diags, diag.New(diag.ASTMalformedExpansion, diag.Span{}, diag.Catalog[diag.ASTMalformedExpansion], root, err.Error()))
				continue
			}
			env.LibRoots = append(env.LibRoots, expanded)
		}
	}

	if rcPath != "" {
		if src, err := os.ReadFile(rcPath); err == nil {
			var rc rcFile
			if err := yaml.Unmarshal(src, &rc); err != nil {
				diags = append(diags, diag.New(diag.ParseYAMLSyntax, diag.Span{FileID: rcPath}, diag.Catalog[diag.ParseYAMLSyntax], err.Error()))
			} else {
				env.BackendConfigPath = rc.BackendConfig
				env.ActiveProfiles = rc.ViewProfiles
			}
		}
	}

	if v, ok := os.LookupEnv("ASDL_BACKEND_CONFIG"); ok {
		env.BackendConfigPath = v
	}

	return env, diags
}

// expand resolves a leading `~` to the user's home directory and expands
// `$VAR`/`${VAR}` references, matching the import resolver's own
// expansion rule for logical-import roots (§4.3).
func expand(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return os.ExpandEnv(path), nil
}
