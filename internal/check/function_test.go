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

func TestCheckParamWellFormednessFunRejectsVarParam(t *testing.T) {
	locals := testLocals()
	sig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var, HasPhase: true}},
	}
	err := checkParamWellFormedness(testPos(), sig)
	require.Error(t, err)
}

func TestCheckParamWellFormednessFunRejectsFlowParam(t *testing.T) {
	locals := testLocals()
	sig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Flow, HasPhase: true}},
	}
	err := checkParamWellFormedness(testPos(), sig)
	require.Error(t, err)
}

func TestCheckParamWellFormednessFunAllowsValParam(t *testing.T) {
	locals := testLocals()
	sig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Val, HasPhase: true}},
	}
	require.NoError(t, checkParamWellFormedness(testPos(), sig))
}

func TestCheckParamWellFormednessSigRejectsFlowParamButAllowsVar(t *testing.T) {
	locals := testLocals()
	sigFlow := types.Function{
		FuncPhase: types.Sig,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Flow, HasPhase: true}},
	}
	require.Error(t, checkParamWellFormedness(testPos(), sigFlow))

	sigVar := types.Function{
		FuncPhase: types.Sig,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var, HasPhase: true}},
	}
	require.NoError(t, checkParamWellFormedness(testPos(), sigVar))
}

func TestCheckParamWellFormednessDefAllowsAnyPhase(t *testing.T) {
	locals := testLocals()
	sig := types.Function{
		FuncPhase: types.Def,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Flow, HasPhase: true}},
	}
	require.NoError(t, checkParamWellFormedness(testPos(), sig))
}

func TestCheckParamWellFormednessIgnoresUnannotatedParams(t *testing.T) {
	locals := testLocals()
	sig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}}},
	}
	require.NoError(t, checkParamWellFormedness(testPos(), sig))
}

func TestCheckDeclaredPhaseFunCeilingIsVal(t *testing.T) {
	closure := map[string]types.Phase{"x": types.Val}
	require.NoError(t, checkDeclaredPhase(testPos(), types.Fun, closure))

	over := map[string]types.Phase{"x": types.Flow}
	require.Error(t, checkDeclaredPhase(testPos(), types.Fun, over), "fun may not declare closures reaching flow")
}

func TestCheckDeclaredPhaseSigCeilingIsVar(t *testing.T) {
	closure := map[string]types.Phase{"x": types.Var}
	require.NoError(t, checkDeclaredPhase(testPos(), types.Sig, closure), "sig may directly capture a var")

	over := map[string]types.Phase{"x": types.Flow}
	require.Error(t, checkDeclaredPhase(testPos(), types.Sig, over))
}

func TestCheckDeclaredPhaseDefHasNoCeiling(t *testing.T) {
	closure := map[string]types.Phase{"x": types.Flow}
	require.NoError(t, checkDeclaredPhase(testPos(), types.Def, closure))
}

func TestCheckFunctionExternalDeclarationHasNoBody(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	scope := NewRootScope(locals, nil)

	fnSym := symbol.Root(widgetsPkg()).Child("extern_fn")
	fn := decl.Function{
		Sym: fnSym, FuncPhase: types.Fun, Result: types.Nominal{Sym: locals["Int"]},
		External: true, Pos: testPos(),
	}

	checked, err := c.CheckFunction(scope, symbol.Root(widgetsPkg()), fn)
	require.NoError(t, err)
	assert.Nil(t, checked.Body)
	assert.Equal(t, fnSym, checked.Sym)
}

func TestCheckFunctionChecksBodyAgainstDeclaredResult(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	scope := NewRootScope(locals, nil)

	fnSym := symbol.Root(widgetsPkg()).Child("five")
	body := ast.Block{Stmts: []ast.Stmt{ast.ExprStmt{Expr: intLit(5)}}}
	fn := decl.Function{
		Sym: fnSym, FuncPhase: types.Fun, Result: types.Nominal{Sym: locals["Int"]},
		Body: &body, Pos: testPos(),
	}

	checked, err := c.CheckFunction(scope, symbol.Root(widgetsPkg()), fn)
	require.NoError(t, err)
	require.NotNil(t, checked.Body)
	assert.Equal(t, types.Nominal{Sym: locals["Int"]}, checked.Body.Type())
}

func TestCheckFunctionRejectsVarParamOnFun(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	scope := NewRootScope(locals, nil)

	fnSym := symbol.Root(widgetsPkg()).Child("bad")
	body := ast.Block{Stmts: []ast.Stmt{ast.ExprStmt{Expr: intLit(1)}}}
	fn := decl.Function{
		Sym: fnSym, FuncPhase: types.Fun,
		ParamNames: []string{"x"},
		ParamTypes: []types.FuncParam{{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var, HasPhase: true}},
		Result:     types.Nominal{Sym: locals["Int"]},
		Body:       &body, Pos: testPos(),
	}

	_, err := c.CheckFunction(scope, symbol.Root(widgetsPkg()), fn)
	require.Error(t, err)
}

func TestCheckFunctionDefCapturingOuterVarSucceeds(t *testing.T) {
	locals := testLocals()
	c := New(decl.NewBuilder().Freeze())
	root := NewRootScope(locals, nil)
	root.set("count", binding{Type: types.Nominal{Sym: locals["Int"]}, Phase: types.Var})

	fnSym := symbol.Root(widgetsPkg()).Child("reader")
	body := ast.Block{Stmts: []ast.Stmt{ast.ExprStmt{Expr: ast.Ident{Name: "count"}}}}
	fn := decl.Function{
		Sym: fnSym, FuncPhase: types.Def,
		Result: types.Nominal{Sym: locals["Int"]},
		Body:   &body, Pos: testPos(),
	}

	checked, err := c.CheckFunction(root, symbol.Root(widgetsPkg()), fn)
	require.NoError(t, err)
	assert.Equal(t, types.Nominal{Sym: locals["Int"]}, checked.Body.Type())
}
