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
package ast

import (
	"fmt"
	"strings"
)

// InstanceRef is the tagged sum named in §9: an instance reference is
// exactly one of Local, Qualified, LocalView or QualifiedView.  Replacing
// what would be dynamic-typed parsing ("does this string have an '@' or a
// '.'?") in a dynamically typed host language with a closed Go sum avoids
// re-deriving the grammar at every call site.
type InstanceRef interface {
	isInstanceRef()
	// Symbol returns the unqualified symbol name, regardless of kind.
	Symbol() string
	// View returns the view name and whether one was specified.
	View() (string, bool)
	// Namespace returns the namespace and whether this ref is qualified.
	Namespace() (string, bool)
	String() string
}

// LocalRef is a reference to a symbol in the current file: `cell`.
type LocalRef struct{ Sym string }

func (LocalRef) isInstanceRef()                  {}
func (r LocalRef) Symbol() string                { return r.Sym }
func (LocalRef) View() (string, bool)            { return "", false }
func (LocalRef) Namespace() (string, bool)       { return "", false }
func (r LocalRef) String() string                { return r.Sym }

// QualifiedRef is a reference to a symbol imported under a namespace:
// `ns.cell`.
type QualifiedRef struct {
	Ns  string
	Sym string
}

func (QualifiedRef) isInstanceRef()            {}
func (r QualifiedRef) Symbol() string          { return r.Sym }
func (QualifiedRef) View() (string, bool)      { return "", false }
func (r QualifiedRef) Namespace() (string, bool) { return r.Ns, true }
func (r QualifiedRef) String() string          { return r.Ns + "." + r.Sym }

// LocalViewRef is a reference to a specific view of a local symbol:
// `cell@view`.
type LocalViewRef struct {
	Sym  string
	View_ string
}

func (LocalViewRef) isInstanceRef()            {}
func (r LocalViewRef) Symbol() string          { return r.Sym }
func (r LocalViewRef) View() (string, bool)    { return r.View_, true }
func (LocalViewRef) Namespace() (string, bool) { return "", false }
func (r LocalViewRef) String() string          { return r.Sym + "@" + r.View_ }

// QualifiedViewRef is a reference to a specific view of a symbol imported
// under a namespace: `ns.cell@view`.
type QualifiedViewRef struct {
	Ns   string
	Sym  string
	View_ string
}

func (QualifiedViewRef) isInstanceRef()            {}
func (r QualifiedViewRef) Symbol() string          { return r.Sym }
func (r QualifiedViewRef) View() (string, bool)    { return r.View_, true }
func (r QualifiedViewRef) Namespace() (string, bool) { return r.Ns, true }
func (r QualifiedViewRef) String() string          { return r.Ns + "." + r.Sym + "@" + r.View_ }

// ParseInstanceRef parses the authored grammar `symbol | symbol@view |
// ns.symbol | ns.symbol@view` into the InstanceRef tagged sum.  This is
// purely syntactic: namespace/symbol resolution against a NameEnv happens
// later, in the import resolver and lowering stages (§4.3, §4.5).
func ParseInstanceRef(s string) (InstanceRef, error) {
	body, view, hasView := strings.Cut(s, "@")
	if hasView && (view == "" || strings.Contains(view, "@")) {
		return nil, fmt.Errorf("invalid symbol %q: expected `cell` or `cell@view`", s)
	}

	ns, sym, hasNs := strings.Cut(body, ".")
	if hasNs && (ns == "" || sym == "" || strings.Contains(sym, ".")) {
		return nil, fmt.Errorf("invalid symbol %q: expected `cell` or `cell@view`", s)
	}
	if body == "" {
		return nil, fmt.Errorf("invalid symbol %q: expected `cell` or `cell@view`", s)
	}

	switch {
	case hasNs && hasView:
		return QualifiedViewRef{Ns: ns, Sym: sym, View_: view}, nil
	case hasNs:
		return QualifiedRef{Ns: ns, Sym: sym}, nil
	case hasView:
		return LocalViewRef{Sym: body, View_: view}, nil
	default:
		return LocalRef{Sym: body}, nil
	}
}
