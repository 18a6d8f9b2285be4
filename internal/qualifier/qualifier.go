// Package qualifier implements the Symbol Qualifier (spec §4.1): building
// a per-file local-name -> fully-qualified-symbol map, and resolving
// parse-level type expressions against it.
//
// Grounded on the teacher's internal/module.Resolver (alias bookkeeping)
// and internal/link.Resolver (breaking an import into the names it binds),
// generalized from filesystem path resolution to the Symbol model in
// internal/symbol.
package qualifier

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
)

// LocalMap is the per-file mapping from a local (in-scope) name to the
// fully qualified symbol it names.
type LocalMap map[string]symbol.Symbol

// clone returns a shallow copy, so callers can extend a LocalMap (e.g. the
// preamble) without mutating the shared original.
func (m LocalMap) clone() LocalMap {
	out := make(LocalMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Preamble seeds a LocalMap with the language's built-in names, scoped to
// the given core-library package (spec §4.1, §6.1): Int, Float, Bool,
// String, Nothing, Unit, List, Set, Map, Option, and the built-in operator
// symbols.
func Preamble(core symbol.Package) LocalMap {
	root := symbol.Root(core)
	names := []string{
		"Int", "Float", "Bool", "String", "Nothing", "Unit",
		"List", "Set", "Map", "Option",
		"+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "!",
	}
	m := make(LocalMap, len(names))
	for _, n := range names {
		m[n] = root.Child(n)
	}
	return m
}

// BuildFileMap produces the local mapping for one file (spec §4.1): the
// preamble, each top-level declaration mapped to module.Child(name), and
// each import's leaves.
func BuildFileMap(preamble LocalMap, file *ast.File, module symbol.Symbol, deps *symbol.DependencyManager) (LocalMap, error) {
	m := preamble.clone()

	for _, c := range file.Consts {
		m[NormalizeIdent(c.Name)] = module.Child(c.Name)
	}
	for _, f := range file.Funcs {
		m[NormalizeIdent(f.Name)] = module.Child(f.Name)
	}
	for _, d := range file.Datas {
		m[NormalizeIdent(d.Name)] = module.Child(d.Name)
	}
	for _, e := range file.Enums {
		m[NormalizeIdent(e.Name)] = module.Child(e.Name)
		for _, v := range e.Variants {
			m[NormalizeIdent(v.Name)] = module.Child(e.Name).Child(v.Name)
		}
	}
	for _, p := range file.Protocols {
		m[NormalizeIdent(p.Name)] = module.Child(p.Name)
	}

	for _, imp := range file.Imports {
		leaves, err := deps.BreakdownImport(imp.PackageAlias, imp.Tree)
		if err != nil {
			return nil, errors.Wrap(errors.New("qualifier", "QUA001", toPos(imp.Position()),
				"cannot resolve import alias %q: %v", imp.PackageAlias, err))
		}
		for _, leaf := range leaves {
			m[NormalizeIdent(leaf.Name())] = leaf
		}
	}

	return m, nil
}

func toPos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column}
}
