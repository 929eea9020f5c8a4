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
package astparse

import "fmt"

type kv struct{ key, value string }

// tokenizeInlineInstance splits the inline instance shorthand "ref key='v
// with spaces' k2=v2" into its ref token and ordered key=value parameter
// pairs (§4.2). Quoting groups whitespace inside a value; a quote
// character is reserved and cannot appear unescaped inside an unquoted
// token.
func tokenizeInlineInstance(s string) (ref string, params []kv, err error) {
	toks, err := tokenize(s)
	if err != nil {
		return "", nil, err
	}
	if len(toks) == 0 {
		return "", nil, fmt.Errorf("empty instance string")
	}

	ref = toks[0]
	for _, t := range toks[1:] {
		k, v, ok := cutFirst(t, '=')
		if !ok {
			return "", nil, fmt.Errorf("expected key=value, got %q", t)
		}
		params = append(params, kv{key: k, value: v})
	}
	return ref, params, nil
}

func cutFirst(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// tokenize splits s on whitespace, treating a run wrapped in matching
// single or double quotes as one token (quotes are stripped; an escaped
// quote `\'`/`\"` inside a quoted run is un-escaped into a literal quote).
func tokenize(s string) ([]string, error) {
	var toks []string
	i := 0
	n := len(s)

	for i < n {
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}

		var tok []byte
		for i < n && !isSpace(s[i]) {
			c := s[i]
			if c != '\'' && c != '"' {
				tok = append(tok, c)
				i++
				continue
			}

			quote := c
			i++
			start := i
			closed := false
			for i < n {
				if s[i] == '\\' && i+1 < n && s[i+1] == quote {
					tok = append(tok, quote)
					i += 2
					continue
				}
				if s[i] == quote {
					closed = true
					i++
					break
				}
				tok = append(tok, s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote starting at offset %d", start-1)
			}
		}
		toks = append(toks, string(tok))
	}

	return toks, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
