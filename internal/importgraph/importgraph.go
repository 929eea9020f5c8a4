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

// Package importgraph builds the directed file graph rooted at a compile's
// entry file (§4.3): DFS loading with cycle detection, ASDL_LIB_PATH
// logical-root resolution, and the per-file NameEnv used by later stages to
// resolve InstanceRefs.
package importgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/asdl-lang/asdl/internal/ast"
	"github.com/asdl-lang/asdl/internal/astparse"
	"github.com/asdl-lang/asdl/internal/diag"
	"github.com/asdl-lang/asdl/internal/ordered"
)

// FileReader abstracts file access so tests can supply an in-memory source
// set without touching a real filesystem. Exists backs logical-root
// candidate probing (ASDL_LIB_PATH resolution) so that path is testable
// through the same in-memory harness as ReadFile/Abs, instead of reaching
// past the abstraction to the real filesystem.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	Abs(path string) (string, error)
	Exists(path string) bool
}

// OSFileReader reads from the real filesystem.
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (OSFileReader) Abs(path string) (string, error)       { return filepath.Abs(path) }
func (OSFileReader) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NameEnv is the per-file mapping from namespace to file_id and from local
// symbol to its declaration (§4.3, glossary).
type NameEnv struct {
	Namespaces *ordered.Map[string, string] // namespace -> file_id
	Locals     *ordered.Map[string, LocalDecl]
}

// LocalDecl is a module or device declared directly in one file, tagged by
// kind so callers don't need a type switch.
type LocalDecl struct {
	IsDevice bool
	Module   *ast.ModuleDecl
	Device   *ast.DeviceDecl
}

// ProgramDB is the set of loaded documents keyed by file_id, deduped, plus
// each file's NameEnv (§4.3, glossary).
type ProgramDB struct {
	EntryFileID string
	Docs        map[string]*ast.Document
	Envs        map[string]*NameEnv
	// Order lists file_ids in first-DFS-visit order, used by stages that
	// must traverse the ProgramDB deterministically.
	Order []string
}

// Doc returns the Document loaded for fileID, reporting whether one was.
func (db *ProgramDB) Doc(fileID string) (*ast.Document, bool) {
	d, ok := db.Docs[fileID]
	return d, ok
}

// Config carries the environment inputs the resolver needs (§6): ordered
// ASDL_LIB_PATH roots, already tilde/env-expanded by the caller (internal/
// config owns that expansion so it happens exactly once at CLI entry,
// per §9's "global state" design note).
type Config struct {
	LibRoots []string
}

// Load builds a ProgramDB by DFS from entryPath. ctx bounds only the
// bounded parallel root-probing fan-out described in SPEC_FULL.md §5; the
// DFS walk itself is single-threaded and deterministic.
func Load(ctx context.Context, entryPath string, cfg Config, fr FileReader) (*ProgramDB, []diag.Diagnostic) {
	l := &loader{
		cfg:  cfg,
		fr:   fr,
		docs: map[string]*ast.Document{},
		envs: map[string]*NameEnv{},
	}

	entryID, err := l.normalize(entryPath)
	if err != nil {
		return nil, []diag.Diagnostic{
			diag.New(diag.ASTMissingFile, diag.NewSpan(entryPath, 1, 1, 0), diag.Catalog[diag.ASTMissingFile], entryPath, err.Error()),
		}
	}

	l.load(ctx, entryID, nil)

	db := &ProgramDB{EntryFileID: entryID, Docs: l.docs, Envs: l.envs, Order: l.order}
	return db, l.diags
}

type loader struct {
	cfg   Config
	fr    FileReader
	docs  map[string]*ast.Document
	envs  map[string]*NameEnv
	order []string
	diags []diag.Diagnostic
}

func (l *loader) normalize(path string) (string, error) {
	return l.fr.Abs(path)
}

// load performs one DFS step for fileID, with chain holding the current
// import path from the entry file (for cycle-chain reporting, AST-012).
func (l *loader) load(ctx context.Context, fileID string, chain []string) {
	for _, id := range chain {
		if id == fileID {
			full := append(append([]string{}, chain...), fileID)
			l.diags = append(l.diags, diag.New(diag.ASTImportCycle, diag.NewSpan(fileID, 1, 1, 0),
				diag.Catalog[diag.ASTImportCycle], strings.Join(full, " -> ")))
			return
		}
	}
	if _, ok := l.docs[fileID]; ok {
		return
	}

	src, err := l.fr.ReadFile(fileID)
	if err != nil {
		l.diags = append(l.diags, diag.New(diag.ASTMissingFile, diag.NewSpan(fileID, 1, 1, 0),
			diag.Catalog[diag.ASTMissingFile], fileID, err.Error()))
		return
	}

	doc, diags := astparse.Parse(fileID, src)
	l.diags = append(l.diags, diags...)
	if doc == nil {
		return
	}
	l.diags = append(l.diags, astparse.ElaboratePatterns(doc)...)

	l.docs[fileID] = doc
	l.order = append(l.order, fileID)
	env, envDiags := buildNameEnv(doc)
	l.envs[fileID] = env
	l.diags = append(l.diags, envDiags...)

	nextChain := append(append([]string{}, chain...), fileID)

	seenNs := map[string]bool{}
	for _, imp := range doc.Imports {
		if seenNs[imp.Namespace] {
			l.diags = append(l.diags, diag.New(diag.ASTDuplicateSymbol, imp.Loc, diag.Catalog[diag.ASTDuplicateSymbol], imp.Namespace))
			continue
		}
		seenNs[imp.Namespace] = true

		resolved, rdiags := l.resolveImportPath(ctx, fileID, imp)
		l.diags = append(l.diags, rdiags...)
		if resolved == "" {
			continue
		}

		env := l.envs[fileID]
		env.Namespaces.Set(imp.Namespace, resolved)

		l.load(ctx, resolved, nextChain)
	}
}

func buildNameEnv(doc *ast.Document) (*NameEnv, []diag.Diagnostic) {
	env := &NameEnv{
		Namespaces: ordered.New[string, string](),
		Locals:     ordered.New[string, LocalDecl](),
	}
	var diags []diag.Diagnostic
	for _, m := range doc.Modules {
		if env.Locals.Has(m.Name) {
			diags = append(diags, diag.New(diag.ASTDuplicateSymbol, m.NameLoc, diag.Catalog[diag.ASTDuplicateSymbol], m.Name))
			continue
		}
		env.Locals.Set(m.Name, LocalDecl{Module: m})
	}
	for _, d := range doc.Devices {
		if env.Locals.Has(d.Name) {
			diags = append(diags, diag.New(diag.ASTDuplicateSymbol, d.NameLoc, diag.Catalog[diag.ASTDuplicateSymbol], d.Name))
			continue
		}
		env.Locals.Set(d.Name, LocalDecl{IsDevice: true, Device: d})
	}
	return env, diags
}

// resolveImportPath resolves one import's path expression to a normalized
// file_id, expanding ~/env vars and applying absolute / relative / logical
// resolution order (§4.3).
func (l *loader) resolveImportPath(ctx context.Context, fromFileID string, imp ast.Import) (string, []diag.Diagnostic) {
	expanded, err := expandPath(imp.Path)
	if err != nil {
		return "", []diag.Diagnostic{
			diag.New(diag.ASTMalformedExpansion, imp.Loc, diag.Catalog[diag.ASTMalformedExpansion], imp.Path, err.Error()),
		}
	}

	if filepath.IsAbs(expanded) {
		id, err := l.fr.Abs(expanded)
		if err != nil {
			return "", []diag.Diagnostic{diag.New(diag.ASTMissingFile, imp.Loc, diag.Catalog[diag.ASTMissingFile], expanded, err.Error())}
		}
		return id, nil
	}

	if strings.HasPrefix(expanded, "./") || strings.HasPrefix(expanded, "../") {
		rel := filepath.Join(filepath.Dir(fromFileID), expanded)
		id, err := l.fr.Abs(rel)
		if err != nil {
			return "", []diag.Diagnostic{diag.New(diag.ASTMissingFile, imp.Loc, diag.Catalog[diag.ASTMissingFile], rel, err.Error())}
		}
		return id, nil
	}

	return l.resolveLogical(ctx, expanded, imp)
}

// resolveLogical resolves a logical import (first path segment matched
// against ordered ASDL_LIB_PATH roots). Root existence/readability checks
// fan out via a bounded errgroup purely to shorten wall-clock on large root
// lists; results are re-linearized by root order before any diagnostic or
// match decision is made, preserving the single-threaded determinism
// contract (§5, SPEC_FULL.md EXPANSION).
func (l *loader) resolveLogical(ctx context.Context, logical string, imp ast.Import) (string, []diag.Diagnostic) {
	roots := l.cfg.LibRoots
	candidates := make([]string, len(roots))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			expandedRoot, err := expandPath(root)
			if err != nil {
				return nil
			}
			candidate := filepath.Join(expandedRoot, logical)
			if l.fr.Exists(candidate) {
				id, err := l.fr.Abs(candidate)
				if err == nil {
					candidates[i] = id
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var matches []string
	for _, c := range candidates {
		if c != "" {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", []diag.Diagnostic{diag.New(diag.ASTMissingFile, imp.Loc, diag.Catalog[diag.ASTMissingFile], logical, "no ASDL_LIB_PATH root contains this logical import")}
	case 1:
		return matches[0], nil
	default:
		return "", []diag.Diagnostic{diag.New(diag.ASTAmbiguousLogical, imp.Loc, diag.Catalog[diag.ASTAmbiguousLogical], logical, strings.Join(matches, ", "))}
	}
}

func expandPath(p string) (string, error) {
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand '~': %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return os.ExpandEnv(p), nil
}
