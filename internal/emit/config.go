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
	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdl/internal/diag"
)

// Reserved system template keys (§4.9).
const (
	TemplateSubcktHeader       = "__subckt_header__"
	TemplateSubcktHeaderParams = "__subckt_header_params__"
	TemplateSubcktCall         = "__subckt_call__"
	TemplateSubcktCallParams   = "__subckt_call_params__"
	TemplateNetlistHeader      = "__netlist_header__"
	TemplateNetlistFooter      = "__netlist_footer__"
)

// DefaultPatternRendering is used when a backend omits pattern_rendering.
const DefaultPatternRendering = "{N}"

// BackendConfig is one `backends:` entry of the backend config document.
type BackendConfig struct {
	Name             string
	Extension        string
	CommentPrefix    string
	Templates        map[string]string
	PatternRendering string
}

// Config is a loaded backend config document, keyed by backend name.
type Config struct {
	Backends map[string]*BackendConfig
}

type rawConfig struct {
	Backends map[string]rawBackend `yaml:"backends"`
}

type rawBackend struct {
	Extension        string            `yaml:"extension"`
	CommentPrefix    string            `yaml:"comment_prefix"`
	Templates        map[string]string `yaml:"templates"`
	PatternRendering string            `yaml:"pattern_rendering"`
}

// LoadConfig parses a backend config document (§4.9).
func LoadConfig(fileID string, src []byte) (*Config, []diag.Diagnostic) {
	var raw rawConfig
	if err := yaml.Unmarshal(src, &raw); err != nil {
		span := diag.Span{FileID: fileID}
		return nil, []diag.Diagnostic{diag.New(diag.ParseYAMLSyntax, span, diag.Catalog[diag.ParseYAMLSyntax], err.Error())}
	}

	cfg := &Config{Backends: map[string]*BackendConfig{}}
	for name, rb := range raw.Backends {
		pr := rb.PatternRendering
		if pr == "" {
			pr = DefaultPatternRendering
		}
		cfg.Backends[name] = &BackendConfig{
			Name:             name,
			Extension:        rb.Extension,
			CommentPrefix:    rb.CommentPrefix,
			Templates:        rb.Templates,
			PatternRendering: pr,
		}
	}
	return cfg, nil
}
