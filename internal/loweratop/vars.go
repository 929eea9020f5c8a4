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
package loweratop

import (
	"fmt"
	"strings"

	"github.com/asdl-lang/asdl/internal/ordered"
)

const maxVarDepth = 32

// substituteVars resolves every `{var}` token in value against vars,
// recursively (a variable's own value may reference another variable),
// detecting cycles and undefined references (§4.5: "Variable substitution
// precedes pattern expansion").
func substituteVars(value string, vars *ordered.Map[string, string]) (string, error) {
	return substituteVarsDepth(value, vars, map[string]bool{}, 0)
}

func substituteVarsDepth(value string, vars *ordered.Map[string, string], visiting map[string]bool, depth int) (string, error) {
	if depth > maxVarDepth {
		return "", fmt.Errorf("variable substitution nested too deeply (possible cycle)")
	}

	var out strings.Builder
	i := 0
	for i < len(value) {
		open := strings.IndexByte(value[i:], '{')
		if open < 0 {
			out.WriteString(value[i:])
			break
		}
		out.WriteString(value[i : i+open])
		i += open

		close := strings.IndexByte(value[i:], '}')
		if close < 0 {
			return "", fmt.Errorf("unterminated '{' in %q", value)
		}
		name := value[i+1 : i+close]
		i += close + 1

		if visiting[name] {
			return "", fmt.Errorf("cyclic variable substitution involving %q", name)
		}

		raw, ok := vars.Get(name)
		if !ok {
			return "", fmt.Errorf("undefined variable %q", name)
		}

		visiting[name] = true
		resolved, err := substituteVarsDepth(raw, vars, visiting, depth+1)
		delete(visiting, name)
		if err != nil {
			return "", err
		}
		out.WriteString(resolved)
	}

	return out.String(), nil
}
