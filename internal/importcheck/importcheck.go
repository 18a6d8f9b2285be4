// Package importcheck implements the Import Verifier (spec §4.3): for every
// leaf symbol an Import declaration brings into scope, confirm it resolves
// in the global symbol table and is visible from the importing module under
// its declared access level.
//
// Grounded on the teacher's internal/link.Resolver symbol-lookup shape and
// internal/link/env.go's visibility gate, reshaped to fail-fast on the
// first violation instead of accumulating a diagnostic list (spec §6.3/§7).
package importcheck

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/decl"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
)

// Verify checks every leaf of every import in imports, as seen from module.
// The first unresolved or invisible leaf aborts with its import's position.
func Verify(imports []decl.Import, module symbol.Symbol, tables *decl.Tables) error {
	for _, imp := range imports {
		for _, leaf := range imp.Leaves {
			if err := verifyLeaf(leaf, module, tables, imp.Pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyLeaf(target symbol.Symbol, from symbol.Symbol, tables *decl.Tables, pos ast.Pos) error {
	entry, ok := tables.Symbol(target)
	if !ok {
		return errors.Wrap(errors.New("importcheck", errors.IMP001, toPos(pos),
			"import target %s does not exist", target.String()))
	}
	if !Visible(entry.Access, entry.Declaring, from, target) {
		return errors.Wrap(errors.New("importcheck", errors.IMP002, toPos(pos),
			"import target %s is %s and not visible from %s", target.String(), entry.Access, from.String()))
	}
	return nil
}

// Visible implements the §4.3 visibility table. declaring is the module
// that registered target in the symbol table; from is the importing
// module; target is the leaf symbol itself (its own Parent may differ from
// declaring, e.g. an enum variant's parent is the enum, not the module).
// Exported so the Type & Phase Checker can reuse it when deciding whether a
// resolved method is visible for call-site rewriting (spec §4.4.6).
func Visible(access ast.AccessLevel, declaring symbol.Symbol, from symbol.Symbol, target symbol.Symbol) bool {
	switch access {
	case ast.Public:
		return true
	case ast.Package:
		return target.Pkg.Equals(from.Pkg)
	case ast.Internal:
		return samePackageFamily(target.Pkg, from.Pkg)
	case ast.Protected:
		if target.IsRoot() {
			return declaring.Equals(from)
		}
		parent := target.Parent()
		return parent.Equals(from) || parent.IsParent(from)
	case ast.Private:
		return declaring.Equals(from)
	default:
		return false
	}
}

// samePackageFamily implements §4.3's "same package family" test for
// internal visibility: every identity field of symbol.Package.Equals
// except Name (organization, version, and assembly) must match. Two
// packages sharing an organization but differing in version or assembly
// are different compiled artifacts, not the same family, even though
// symbol.Package.Equals itself never ignores Name this way.
func samePackageFamily(a, b symbol.Package) bool {
	return a.Organization == b.Organization && a.Version.Equals(b.Version) && a.Assembly == b.Assembly
}

func toPos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column}
}
