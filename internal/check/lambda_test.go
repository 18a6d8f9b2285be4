package check

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/decl"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLambdaInfersParamTypeFromExpectedFunction(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	scope := NewRootScope(locals, nil)

	expected := types.Function{
		Params: []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}}},
		Result: types.Nominal{Sym: locals["Int"]},
	}
	lambda := ast.Lambda{Params: []ast.LambdaParam{{Name: "x"}}, Body: ast.Ident{Name: "x"}}

	checked, err := c.CheckExpr(scope, lambda, expected)
	require.NoError(t, err)

	l, ok := checked.(Lambda)
	require.True(t, ok)
	assert.Equal(t, types.Nominal{Sym: locals["Int"]}, l.Params[0].Type)
}

func TestCheckLambdaWithoutExpectedTypeRequiresExplicitParamType(t *testing.T) {
	c, scope := newCheckerAndScope(t, testLocals())
	lambda := ast.Lambda{Params: []ast.LambdaParam{{Name: "x"}}, Body: ast.Ident{Name: "x"}}

	_, err := c.CheckExpr(scope, lambda, nil)
	require.Error(t, err)
}

func TestCheckLambdaExplicitParamTypeNeedsNoExpected(t *testing.T) {
	locals := testLocals()
	c, scope := newCheckerAndScope(t, locals)
	lambda := ast.Lambda{
		Params: []ast.LambdaParam{{Name: "x", Type: ast.NamedType{Name: "Int"}}},
		Body:   ast.Ident{Name: "x"},
	}

	checked, err := c.CheckExpr(scope, lambda, nil)
	require.NoError(t, err)
	l := checked.(Lambda)
	assert.Equal(t, types.Nominal{Sym: locals["Int"]}, l.Params[0].Type)
}

func TestCheckLambdaPhaseJoinsOverCapturedClosure(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	root := NewRootScope(locals, nil)
	outer := root.childFunction(symbol.Symbol{}, symbol.Symbol{}, nil, nil, types.Def)
	outer.set("n", binding{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var})

	lambda := ast.Lambda{
		Params: []ast.LambdaParam{{Name: "x", Type: ast.NamedType{Name: "Int"}}},
		Body:   ast.Ident{Name: "n"},
	}
	checked, err := c.CheckExpr(outer, lambda, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Var, checked.PhaseOf(), "a lambda nested in a def may close over a var without demotion")
}
