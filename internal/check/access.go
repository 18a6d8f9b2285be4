package check

import (
	"strconv"
	"strings"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/qualifier"
	"github.com/fluxlang/fluxc/internal/types"
)

// checkFieldAccess implements §4.4.7: base.name is either an instance
// field/positional/variant access on a value, or one segment of a static
// access path when base resolves (transitively) to a Module.
func (c *Checker) checkFieldAccess(scope *Scope, e ast.FieldAccess) (Expr, error) {
	// Static access path: walk identifier roots through the symbol table
	// rather than checking Base as an ordinary value expression.
	if path, ok := staticPath(e); ok {
		return c.checkStaticPath(scope, e.Position(), path)
	}

	base, err := c.CheckExpr(scope, e.Base, nil)
	if err != nil {
		return nil, err
	}
	ft, err := c.fieldType(scope, e.Position(), base.Type(), e.Name)
	if err != nil {
		return nil, err
	}
	return FieldAccess{base: newBase(e.Position(), ft, base.PhaseOf()), Base: base, Name: e.Name}, nil
}

// fieldType resolves a field/positional/variant name against a value's
// type, dereferencing Nominal and instantiating Parameterized type
// arguments into the result (spec §4.4.7).
func (c *Checker) fieldType(scope *Scope, pos ast.Pos, t types.Type, name string) (types.Type, error) {
	switch v := t.(type) {
	case types.Nominal:
		resolved, ok := c.resolver().ResolveNominal(v)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown field %q", name))
		}
		return c.fieldType(scope, pos, resolved, name)

	case types.Parameterized:
		resolvedBase, ok := c.resolver().ResolveNominal(v.Base)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown field %q", name))
		}
		strct, ok := resolvedBase.(types.Struct)
		if !ok {
			return c.fieldType(scope, pos, resolvedBase, name)
		}
		ft, ok := strct.Field(name)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown field %q on %s", name, strct.Sym.String()))
		}
		sub := make(types.Substitution, len(strct.TypeParams))
		for i, tp := range strct.TypeParams {
			if i < len(v.Args) {
				sub[tp.Key()] = v.Args[i]
			}
		}
		return types.Substitute(ft, sub), nil

	case types.Struct:
		ft, ok := v.Field(name)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown field %q on %s", name, v.Sym.String()))
		}
		return ft, nil

	case types.Tuple:
		idx, ok := tuplePositional(name)
		if !ok || idx < 0 || idx >= len(v.Elements) {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown tuple field %q", name))
		}
		return v.Elements[idx], nil

	case types.Enum:
		layout, ok := v.Variant(name)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP005, toPos(pos), "unknown enum variant %q on %s", name, v.Sym.String()))
		}
		return layout, nil

	case types.Module:
		sym := v.Sym.Child(name)
		entry, ok := c.Tables.Symbol(sym)
		if !ok {
			return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown member %q of %s", name, v.Sym.String()))
		}
		return entry.Type, nil

	default:
		return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "type %s has no field %q", t.String(), name))
	}
}

// tuplePositional parses "v0", "v1", ... into an index.
func tuplePositional(name string) (int, bool) {
	if !strings.HasPrefix(name, "v") {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// staticPath flattens a right-leaning chain of FieldAccess nodes rooted at
// an Ident into an ordered segment list, returning ok=false if the chain's
// root isn't a bare identifier (in which case it must be checked as an
// ordinary value access instead).
func staticPath(e ast.FieldAccess) ([]string, bool) {
	var segs []string
	cur := ast.Expr(e)
	for {
		fa, ok := cur.(ast.FieldAccess)
		if !ok {
			break
		}
		segs = append([]string{fa.Name}, segs...)
		cur = fa.Base
	}
	root, ok := cur.(ast.Ident)
	if !ok {
		return nil, false
	}
	return append([]string{root.Name}, segs...), true
}

// checkStaticPath walks a dotted identifier chain through the local map
// then the symbol table, producing a StaticReference at the final segment
// (spec §4.4.7). If the root is actually a local value binding, falls back
// to ordinary field access instead (a static path and a value access share
// parse form).
func (c *Checker) checkStaticPath(scope *Scope, pos ast.Pos, path []string) (Expr, error) {
	if _, ok := scope.get(path[0]); ok {
		return c.checkValuePath(scope, pos, path)
	}
	sym, ok := scope.qualifier[qualifier.NormalizeIdent(path[0])]
	if !ok {
		return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(pos), "unknown identifier %q", path[0]))
	}
	for _, seg := range path[1:] {
		sym = sym.Child(seg)
	}
	entry, ok := c.Tables.Symbol(sym)
	if !ok {
		return nil, errors.Wrap(errors.New("check", errors.TYP004, toPos(pos), "unknown static member %s", sym.String()))
	}
	return StaticReference{base: newBase(pos, entry.Type, types.Const), Sym: sym, Declaring: entry.Declaring}, nil
}

// checkValuePath rebuilds an ordinary nested FieldAccess chain when the
// path's root turns out to be a local value, not a module alias.
func (c *Checker) checkValuePath(scope *Scope, pos ast.Pos, path []string) (Expr, error) {
	b, _ := scope.get(path[0])
	cur := Expr(Ident{base: newBase(pos, b.Type, b.Phase), Name: path[0]})
	for _, seg := range path[1:] {
		ft, err := c.fieldType(scope, pos, cur.Type(), seg)
		if err != nil {
			return nil, err
		}
		cur = FieldAccess{base: newBase(pos, ft, cur.PhaseOf()), Base: cur, Name: seg}
	}
	return cur, nil
}
