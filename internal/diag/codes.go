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

// Package diag implements the compiler's diagnostics system: a fixed sum of
// kinds, numeric subcodes, a deterministic-order collector, and text/JSON
// renderers (§4.1 of the specification).
package diag

// Code is a stable, catalog-backed diagnostic code such as "IR-001".  Codes
// are never renumbered once shipped: the catalog is the contract referenced
// by golden tests and by external tooling parsing compile logs.
type Code string

// Kind is the fixed sum of diagnostic categories named in the spec.
type Kind string

// The fixed sum of diagnostic kinds (§4.1).
const (
	KindParse  Kind = "PARSE"
	KindAST    Kind = "AST"
	KindImport Kind = "IMPORT"
	KindIR     Kind = "IR"
	KindEmit   Kind = "EMIT"
	KindView   Kind = "VIEW"
	KindTool   Kind = "TOOL"
)

// Stable diagnostic codes.  Each is documented once here; Catalog below maps
// every code to its message template so there is exactly one source of
// truth per §7.
const (
	ParseYAMLSyntax    Code = "PARSE-001"
	ParseUnexpectedDoc Code = "PARSE-002"
	ParseEmptyDocument Code = "PARSE-003"
	ParseDuplicateKey  Code = "PARSE-004"

	ASTUnknownField       Code = "AST-010"
	ASTMissingFile        Code = "AST-010-FILE"
	ASTMalformedExpansion Code = "AST-011"
	ASTImportCycle        Code = "AST-012"
	ASTBadDecoratedSymbol Code = "AST-013"
	ASTDuplicateSymbol    Code = "AST-014"
	ASTAmbiguousLogical   Code = "AST-015"
	ASTMissingTemplate    Code = "AST-016"
	ASTReservedParams     Code = "AST-017"
	ASTUndefinedPattern   Code = "AST-018"
	ASTRecursivePattern   Code = "AST-019"
	ASTMissingTop         Code = "AST-020"
	ASTEmptyDeviceBackend Code = "AST-021"
	ASTInvalidInstanceStr Code = "AST-022"

	IRBindMismatch      Code = "IR-001"
	IRCollision         Code = "IR-002"
	IRPatternParse      Code = "IR-003"
	IRCyclicVariable    Code = "IR-004"
	IRUndefinedVariable Code = "IR-005"
	IRBadEndpointArity  Code = "IR-006"
	IRSpliceOnPort      Code = "IR-007"
	IRDefaultOverride   Code = "IR-008"
	IRExpansionTooLarge Code = "IR-009"
	IRUnqualifiedMiss   Code = "IR-010"
	IRQualifiedMiss     Code = "IR-011"

	EmitMissingTop        Code = "EMIT-001"
	EmitUnknownPlaceholder Code = "EMIT-003"
	EmitMissingPin        Code = "EMIT-004"
	EmitExtraPin          Code = "EMIT-005"
	EmitVariableShadow    Code = "EMIT-006"
	EmitMissingTemplate   Code = "EMIT-007"
	EmitProvenanceWarn    Code = "EMIT-015"

	ViewUnknownProfile Code = "VIEW-001"
	ViewBadMatch       Code = "VIEW-002"
	ViewBadBinding     Code = "VIEW-003"

	ToolLogWriteFailed Code = "TOOL-002"
)

// Catalog maps every Code to its canonical message template.  Renderers use
// this only as documentation; the Diagnostic.Message field carries the
// already-formatted text so that dynamic details (names, spans) can be
// interpolated without a templating dependency.
var Catalog = map[Code]string{
	ParseYAMLSyntax:    "malformed YAML: %s",
	ParseUnexpectedDoc: "expected exactly one YAML document, found %d",
	ParseEmptyDocument: "document contains neither a module nor a device",
	ParseDuplicateKey:  "duplicate key %q in mapping",

	ASTUnknownField:       "unknown field %q",
	ASTMissingFile:        "cannot read file %q: %s",
	ASTMalformedExpansion: "malformed expansion in %q: %s",
	ASTImportCycle:        "import cycle detected: %s",
	ASTBadDecoratedSymbol: "invalid symbol %q: expected `cell` or `cell@view`",
	ASTDuplicateSymbol:    "duplicate symbol %q in this file",
	ASTAmbiguousLogical:   "logical import %q matches multiple roots: %s",
	ASTMissingTemplate:    "device backend %q is missing a template",
	ASTReservedParams:     "field %q must be named `parameters`, not `params`",
	ASTUndefinedPattern:   "undefined named pattern %q",
	ASTRecursivePattern:   "named pattern %q references itself",
	ASTMissingTop:         "`top` is required when a file declares more than one module",
	ASTEmptyDeviceBackend: "device %q declares no backends",
	ASTInvalidInstanceStr: "malformed inline instance string: %s",

	IRBindMismatch:      "cannot bind %d endpoint(s) to %d position(s)",
	IRCollision:         "duplicate name %q in this module",
	IRPatternParse:      "malformed pattern expression %q: %s",
	IRCyclicVariable:    "cyclic variable substitution: %s",
	IRUndefinedVariable: "undefined variable %q",
	IRBadEndpointArity:  "endpoint expression %q does not split into exactly one instance and one pin",
	IRSpliceOnPort:      "`;` splice is forbidden in $-net (port) expressions",
	IRDefaultOverride:   "instance default for pin %q overridden without `!`",
	IRExpansionTooLarge: "pattern expansion exceeds the configured maximum of %d atoms",
	IRUnqualifiedMiss:   "undefined symbol %q in this file",
	IRQualifiedMiss:     "undefined symbol %q in namespace %q",

	EmitMissingTop:         "no top module specified and entry file defines %d modules",
	EmitUnknownPlaceholder: "unknown placeholder %q in template %q",
	EmitMissingPin:         "instance %q is missing binding for pin %q",
	EmitExtraPin:           "instance %q has extraneous connection %q",
	EmitVariableShadow:     "parameter %q shadows a variable of the same name",
	EmitMissingTemplate:    "no template registered for device key %q",
	EmitProvenanceWarn:     "missing or unknown file_id for %q; emission proceeds with best-effort fallback",

	ViewUnknownProfile: "unknown view profile %q",
	ViewBadMatch:       "rule %q: match must be exactly one of `instance` or `module`",
	ViewBadBinding:     "rule %q: binding %q is not a valid `cell` or `cell@view`",

	ToolLogWriteFailed: "failed to write compile log to %q: %s",
}

// Kind extracts the fixed kind prefix from a code, e.g. "IR-001" -> "IR".
func (c Code) Kind() Kind {
	for i, r := range string(c) {
		if r == '-' {
			return Kind(string(c)[:i])
		}
	}
	return Kind(c)
}
