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
package viewbind

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/asdl-lang/asdl/internal/diag"
)

// rawConfig mirrors the authored view-config YAML shape:
//
//	profiles:
//	  default:
//	    view_order: 0
//	    rules:
//	      - instance: top.stage2
//	        bind: stage@behave
type rawConfig struct {
	Profiles map[string]rawProfile `yaml:"profiles"`
}

type rawProfile struct {
	ViewOrder int       `yaml:"view_order"`
	Rules     []rawRule `yaml:"rules"`
}

type rawRule struct {
	ID       string `yaml:"id"`
	Instance string `yaml:"instance"`
	Module   string `yaml:"module"`
	Bind     string `yaml:"bind"`
}

// LoadConfig parses a view config document (§4.7). Rule ids default to
// rule1..ruleN within their profile when omitted.
func LoadConfig(fileID string, src []byte) (*Config, []diag.Diagnostic) {
	var raw rawConfig
	if err := yaml.Unmarshal(src, &raw); err != nil {
		span := diag.Span{FileID: fileID}
		return nil, []diag.Diagnostic{diag.New(diag.ParseYAMLSyntax, span, diag.Catalog[diag.ParseYAMLSyntax], err.Error())}
	}

	cfg := &Config{Profiles: map[string]Profile{}}
	var diags []diag.Diagnostic

	for name, rp := range raw.Profiles {
		p := Profile{Name: name, ViewOrder: rp.ViewOrder}
		for i, rr := range rp.Rules {
			id := rr.ID
			if id == "" {
				id = fmt.Sprintf("rule%d", i+1)
			}
			span := diag.Span{FileID: fileID}

			switch {
			case rr.Instance != "" && rr.Module != "":
				diags = append(diags, diag.New(diag.ViewBadMatch, span, diag.Catalog[diag.ViewBadMatch], id))
				continue
			case rr.Instance != "":
				p.Rules = append(p.Rules, Rule{ID: id, Kind: MatchInstance, Pattern: rr.Instance, Bind: rr.Bind, Loc: span})
			case rr.Module != "":
				p.Rules = append(p.Rules, Rule{ID: id, Kind: MatchModule, Pattern: rr.Module, Bind: rr.Bind, Loc: span})
			default:
				diags = append(diags, diag.New(diag.ViewBadMatch, span, diag.Catalog[diag.ViewBadMatch], id))
			}
		}
		cfg.Profiles[name] = p
	}

	return cfg, diags
}
