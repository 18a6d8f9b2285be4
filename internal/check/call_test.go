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

func TestCheckCallMethodRewriteResolvesVisibleMethod(t *testing.T) {
	locals := testLocals()
	sym := pointSym()
	strct := types.NewStruct(sym, nil, []string{"x"}, []types.Type{types.Nominal{Sym: locals["Int"]}})

	b := decl.NewBuilder()
	require.True(t, b.AddSymbol(sym, decl.SymbolEntry{Access: ast.Public, Declaring: sym, Type: strct}))
	methodSym := sym.Child("norm")
	b.AddMethod(sym, "norm", decl.MethodEntry{
		Access: ast.Public, Sym: methodSym, Declaring: sym,
		Type: types.Function{Params: []types.FuncParam{{Type: strct}}, Result: types.Nominal{Sym: locals["Int"]}},
	})
	tables := b.Freeze()
	locals["Point"] = sym
	c := New(tables)
	scope := NewRootScope(locals, nil)
	scope.set("p", binding{Type: strct, Phase: types.Val})

	call := ast.Call{Callee: ast.FieldAccess{Base: ast.Ident{Name: "p"}, Name: "norm"}}
	checked, err := c.CheckExpr(scope, call, nil)
	require.NoError(t, err)

	c2, ok := checked.(Call)
	require.True(t, ok)
	ref, ok := c2.Callee.(StaticReference)
	require.True(t, ok)
	assert.Equal(t, methodSym, ref.Sym)
	assert.Len(t, c2.Args, 1, "base is prepended as the first argument")
}

func TestCheckCallMethodRewriteFallsBackWhenNoMethodResolves(t *testing.T) {
	locals := testLocals()
	sym := pointSym()
	strct := types.NewStruct(sym, nil, []string{"x"}, []types.Type{types.Nominal{Sym: locals["Int"]}})
	tables := freezeStruct(t, sym, strct)
	locals["Point"] = sym
	c := New(tables)
	scope := NewRootScope(locals, nil)
	scope.set("p", binding{Type: strct, Phase: types.Val})

	// "x" resolves as an ordinary field, not a method; calling it as if
	// it were a method falls through to checking it as a field access
	// whose resulting type (Int) is then found not callable.
	call := ast.Call{Callee: ast.FieldAccess{Base: ast.Ident{Name: "p"}, Name: "x"}}
	_, err := c.CheckExpr(scope, call, nil)
	require.Error(t, err)
}

func TestCheckCallEqualityOperatorAcceptsOverlappingTypes(t *testing.T) {
	c, scope := newCheckerAndScope(t, testLocals())
	call := ast.Call{Callee: ast.Ident{Name: "=="}, Args: []ast.Expr{intLit(1), intLit(2)}}
	checked, err := c.CheckExpr(scope, call, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Nominal{Sym: scope.qualifier["Bool"]}, checked.Type())
	assert.Equal(t, types.Const, checked.PhaseOf())
}

func TestCheckCallEqualityOperatorWrongArityFails(t *testing.T) {
	c, scope := newCheckerAndScope(t, testLocals())
	call := ast.Call{Callee: ast.Ident{Name: "=="}, Args: []ast.Expr{intLit(1)}}
	_, err := c.CheckExpr(scope, call, nil)
	require.Error(t, err)
}

func TestCheckCallTupleConstructor(t *testing.T) {
	locals := testLocals()
	tupSym := symbol.Root(widgetsPkg()).Child("Pair")
	tup := types.Tuple{Sym: tupSym, Elements: []types.Type{types.Nominal{Sym: locals["Int"]}, types.Nominal{Sym: locals["Bool"]}}}
	locals["Pair"] = tupSym

	b := decl.NewBuilder()
	require.True(t, b.AddSymbol(tupSym, decl.SymbolEntry{Access: ast.Public, Declaring: tupSym, Type: tup}))
	tables := b.Freeze()
	c := New(tables)
	scope := NewRootScope(locals, nil)

	call := ast.Call{Callee: ast.Ident{Name: "Pair"}, Args: []ast.Expr{intLit(1), boolLit(true)}}
	checked, err := c.CheckExpr(scope, call, nil)
	require.NoError(t, err)
	assert.Equal(t, tup, checked.Type())
}

func TestCheckCallOrdinaryFunctionResolvesPhase(t *testing.T) {
	locals := testLocals()
	fnSym := symbol.Root(widgetsPkg()).Child("double")
	fn := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}}},
		Result:    types.Nominal{Sym: locals["Int"]},
	}
	locals["double"] = fnSym

	b := decl.NewBuilder()
	require.True(t, b.AddSymbol(fnSym, decl.SymbolEntry{Access: ast.Public, Declaring: fnSym, Type: fn}))
	tables := b.Freeze()
	c := New(tables)
	scope := NewRootScope(locals, nil)

	call := ast.Call{Callee: ast.Ident{Name: "double"}, Args: []ast.Expr{intLit(3)}}
	checked, err := c.CheckExpr(scope, call, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Const, checked.PhaseOf(), "a const argument to a fun call collapses the result to const")
}

func TestResolveCallPhaseRejectsIncompatibleArgumentPhase(t *testing.T) {
	locals := testLocals()
	c, scope := newCheckerAndScope(t, locals)
	sig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var, HasPhase: true}},
		Result:    types.Nominal{Sym: locals["Int"]},
	}
	constArg := IntLit{base: newBase(testPos(), types.Nominal{Sym: locals["Int"]}, types.Const), Value: 1}
	_, err := c.resolveCallPhase(scope, testPos(), sig, []Expr{constArg})
	require.Error(t, err)
}
