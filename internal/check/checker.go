package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/decl"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/qualifier"
	"github.com/fluxlang/fluxc/internal/types"
)

// Checker holds the frozen global tables every check against.
type Checker struct {
	Tables *decl.Tables
}

// New builds a Checker against frozen tables.
func New(tables *decl.Tables) *Checker {
	return &Checker{Tables: tables}
}

func (c *Checker) resolver() types.Resolver { return c.Tables }

// CheckExpr checks expr in scope, against an optional expected type
// (nil means unconstrained), dispatching on the parse-node kind (spec
// §4.4, bidirectional: expected guides lambda inference and generics).
func (c *Checker) CheckExpr(scope *Scope, expr ast.Expr, expected types.Type) (Expr, error) {
	switch e := expr.(type) {
	case ast.IntLit:
		return IntLit{base: newBase(e.Position(), intType(scope), types.Const), Value: e.Value}, nil
	case ast.FloatLit:
		return FloatLit{base: newBase(e.Position(), floatType(scope), types.Const), Value: e.Value}, nil
	case ast.BoolLit:
		return BoolLit{base: newBase(e.Position(), boolType(scope), types.Const), Value: e.Value}, nil
	case ast.StringLit:
		return StringLit{base: newBase(e.Position(), stringType(scope), types.Const), Value: e.Value}, nil
	case ast.NoOpLit:
		return NoOpLit{base: newBase(e.Position(), types.Nothing{}, types.Const)}, nil
	case ast.Ident:
		return c.checkIdent(scope, e)
	case ast.ListLit:
		return c.checkListLit(scope, e, expected)
	case ast.SetLit:
		return c.checkSetLit(scope, e, expected)
	case ast.MapLit:
		return c.checkMapLit(scope, e, expected)
	case ast.IsExpr:
		return c.checkIs(scope, e)
	case ast.NotExpr:
		return c.checkNot(scope, e)
	case ast.AndExpr:
		return c.checkAnd(scope, e)
	case ast.OrExpr:
		return c.checkOr(scope, e)
	case ast.FieldAccess:
		return c.checkFieldAccess(scope, e)
	case ast.Construct:
		return c.checkConstruct(scope, e, expected)
	case ast.Call:
		return c.checkCall(scope, e, expected)
	case ast.Lambda:
		return c.checkLambda(scope, e, expected)
	case ast.Block:
		return c.checkBlockExpr(scope, e, expected)
	case ast.If:
		return c.checkIf(scope, e, expected)
	case ast.Return:
		return c.checkReturn(scope, e)
	default:
		return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(expr.Position()),
			"unrecognized expression form"))
	}
}

func (c *Checker) checkIdent(scope *Scope, e ast.Ident) (Expr, error) {
	if b, ok := scope.get(e.Name); ok {
		return Ident{base: newBase(e.Position(), b.Type, b.Phase), Name: e.Name}, nil
	}
	sym, ok := scope.qualifier[qualifier.NormalizeIdent(e.Name)]
	if ok {
		entry, ok := c.Tables.Symbol(sym)
		if ok {
			return StaticReference{base: newBase(e.Position(), entry.Type, types.Const), Sym: sym, Declaring: entry.Declaring}, nil
		}
	}
	return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(e.Position()),
		"unknown identifier %q", e.Name))
}

func (c *Checker) checkListLit(scope *Scope, e ast.ListLit, expected types.Type) (Expr, error) {
	elemExpected := elementExpected(expected)
	elems := make([]Expr, len(e.Elems))
	var elemType types.Type = types.Nothing{}
	phase := types.Const
	for i, entry := range e.Elems {
		checked, err := c.CheckExpr(scope, entry, elemExpected)
		if err != nil {
			return nil, err
		}
		elems[i] = checked
		merged, err := types.Merge(c.resolver(), elemType, checked.Type(), toPos(e.Position()))
		if err != nil {
			return nil, err
		}
		elemType = merged
		phase = types.Join(phase, checked.PhaseOf())
	}
	listSym := scope.qualifier["List"]
	listType := types.Parameterized{Base: types.Nominal{Sym: listSym}, Args: []types.Type{elemType}}
	return ListLit{base: newBase(e.Position(), listType, phase), Elements: elems}, nil
}

func (c *Checker) checkSetLit(scope *Scope, e ast.SetLit, expected types.Type) (Expr, error) {
	elemExpected := elementExpected(expected)
	elems := make([]Expr, len(e.Elems))
	var elemType types.Type = types.Nothing{}
	phase := types.Const
	for i, entry := range e.Elems {
		checked, err := c.CheckExpr(scope, entry, elemExpected)
		if err != nil {
			return nil, err
		}
		elems[i] = checked
		merged, err := types.Merge(c.resolver(), elemType, checked.Type(), toPos(e.Position()))
		if err != nil {
			return nil, err
		}
		elemType = merged
		phase = types.Join(phase, checked.PhaseOf())
	}
	setSym := scope.qualifier["Set"]
	setType := types.Parameterized{Base: types.Nominal{Sym: setSym}, Args: []types.Type{elemType}}
	return SetLit{base: newBase(e.Position(), setType, phase), Elements: elems}, nil
}

func (c *Checker) checkMapLit(scope *Scope, e ast.MapLit, expected types.Type) (Expr, error) {
	var keyExpected, valExpected types.Type
	if p, ok := expected.(types.Parameterized); ok && len(p.Args) == 2 {
		keyExpected, valExpected = p.Args[0], p.Args[1]
	}
	entries := make([]MapEntry, len(e.Entries))
	var keyType, valType types.Type = types.Nothing{}, types.Nothing{}
	phase := types.Const
	for i, entry := range e.Entries {
		k, err := c.CheckExpr(scope, entry.Key, keyExpected)
		if err != nil {
			return nil, err
		}
		v, err := c.CheckExpr(scope, entry.Value, valExpected)
		if err != nil {
			return nil, err
		}
		keyType, err = types.Merge(c.resolver(), keyType, k.Type(), toPos(e.Position()))
		if err != nil {
			return nil, err
		}
		valType, err = types.Merge(c.resolver(), valType, v.Type(), toPos(e.Position()))
		if err != nil {
			return nil, err
		}
		phase = types.Join(phase, types.Join(k.PhaseOf(), v.PhaseOf()))
		entries[i] = MapEntry{Key: k, Value: v}
	}
	mapSym := scope.qualifier["Map"]
	mapType := types.Parameterized{Base: types.Nominal{Sym: mapSym}, Args: []types.Type{keyType, valType}}
	return MapLit{base: newBase(e.Position(), mapType, phase), Entries: entries}, nil
}

func (c *Checker) checkIs(scope *Scope, e ast.IsExpr) (Expr, error) {
	v, err := c.CheckExpr(scope, e.Value, nil)
	if err != nil {
		return nil, err
	}
	target, err := scope.qualifyType(e.Type)
	if err != nil {
		return nil, err
	}
	return IsExpr{base: newBase(e.Position(), boolType(scope), v.PhaseOf()), Value: v, Target: target}, nil
}

func (c *Checker) checkNot(scope *Scope, e ast.NotExpr) (Expr, error) {
	v, err := c.CheckExpr(scope, e.X, boolType(scope))
	if err != nil {
		return nil, err
	}
	return NotExpr{base: newBase(e.Position(), boolType(scope), v.PhaseOf()), Value: v}, nil
}

func (c *Checker) checkAnd(scope *Scope, e ast.AndExpr) (Expr, error) {
	l, err := c.CheckExpr(scope, e.L, boolType(scope))
	if err != nil {
		return nil, err
	}
	r, err := c.CheckExpr(scope, e.R, boolType(scope))
	if err != nil {
		return nil, err
	}
	return AndExpr{base: newBase(e.Position(), boolType(scope), types.Join(l.PhaseOf(), r.PhaseOf())), Left: l, Right: r}, nil
}

func (c *Checker) checkOr(scope *Scope, e ast.OrExpr) (Expr, error) {
	l, err := c.CheckExpr(scope, e.L, boolType(scope))
	if err != nil {
		return nil, err
	}
	r, err := c.CheckExpr(scope, e.R, boolType(scope))
	if err != nil {
		return nil, err
	}
	return OrExpr{base: newBase(e.Position(), boolType(scope), types.Join(l.PhaseOf(), r.PhaseOf())), Left: l, Right: r}, nil
}

func elementExpected(expected types.Type) types.Type {
	if p, ok := expected.(types.Parameterized); ok && len(p.Args) == 1 {
		return p.Args[0]
	}
	return nil
}

func intType(s *Scope) types.Type    { return types.Nominal{Sym: s.qualifier["Int"]} }
func floatType(s *Scope) types.Type  { return types.Nominal{Sym: s.qualifier["Float"]} }
func boolType(s *Scope) types.Type   { return types.Nominal{Sym: s.qualifier["Bool"]} }
func stringType(s *Scope) types.Type { return types.Nominal{Sym: s.qualifier["String"]} }

func toPos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column}
}

func typeMismatch(pos ast.Pos, expected, actual types.Type) error {
	return errors.Wrap(errors.New("check", errors.TYP001, toPos(pos),
		"type mismatch: expected %s, got %s", typeString(expected), actual.String()))
}

func typeString(t types.Type) string {
	if t == nil {
		return "<unconstrained>"
	}
	return t.String()
}
