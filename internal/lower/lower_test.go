package lower

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/check"
	"github.com/fluxlang/fluxc/internal/ir"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPos() ast.Pos { return ast.Pos{File: "t.flux", Line: 1, Column: 1} }

func testPkg() symbol.Package { return symbol.Package{Organization: "acme", Name: "widgets"} }

func intType() types.Type {
	return types.Nominal{Sym: symbol.Root(symbol.Package{Organization: "flux", Name: "core"}).Child("Int")}
}

func intLit(v int64) check.IntLit {
	return check.NewIntLit(testPos(), intType(), types.Const, v)
}

func ident(name string, phase types.Phase) check.Ident {
	return check.NewIdent(testPos(), intType(), phase, name)
}

func TestLowerFunctionFunPhaseDoesNoWrapping(t *testing.T) {
	l := New(testPkg())
	sym := symbol.Root(testPkg()).Child("addOne")
	sig := types.Function{FuncPhase: types.Fun, Params: []types.FuncParam{{Type: intType()}}, Result: intType()}

	body := check.LiftedReturn(intLit(1))
	fn, err := l.LowerFunction(sym, sig, []string{"x"}, body)
	require.NoError(t, err)

	block, ok := fn.Body.(ir.Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 1)
	ret := block.Stmts[0].(ir.Return)
	assert.Equal(t, int64(1), ret.Value.(ir.IntLit).Value)
}

// spec §8 scenario 5: inside a sig, `someVar + 1` where someVar: var Int
// lowers to `someVar.get() + 1` — the unwrap is realized here as an
// AndExpr-style FlowGet around the bare var identifier, reached through
// planArgument's sig-unwrap branch when someVar is passed to an
// unspecified-phase parameter.
func TestSigPhaseUnwrapsVarArgument(t *testing.T) {
	l := New(testPkg())
	param := types.FuncParam{Type: intType()} // unspecified phase: expects val
	actual := ident("someVar", types.Var)

	plan, err := l.planArgument(types.Sig, param, actual)
	require.NoError(t, err)

	get, ok := plan.final.(ir.FlowGet)
	require.True(t, ok, "a var actual reaching an unspecified-phase parameter must be unwrapped")
	assert.Equal(t, "someVar", get.Value.(ir.Ident).Name)
	assert.Nil(t, plan.lifted)
}

func TestSigPhaseWrapsValArgumentToFlowParameter(t *testing.T) {
	l := New(testPkg())
	param := types.FuncParam{Type: intType(), Phase: types.Flow, HasPhase: true}
	actual := intLit(5)

	plan, err := l.planArgument(types.Sig, param, actual)
	require.NoError(t, err)

	s, ok := plan.final.(ir.Singleton)
	require.True(t, ok)
	assert.Equal(t, int64(5), s.Value.(ir.IntLit).Value)
}

func TestSigPhaseUnwrapsFieldAccessChainPushingGetThroughProjection(t *testing.T) {
	l := New(testPkg())
	param := types.FuncParam{Type: intType()}
	root := ident("profile", types.Var)
	chain := check.NewFieldAccess(testPos(), intType(), types.Var, root, "age")

	plan, err := l.planArgument(types.Sig, param, chain)
	require.NoError(t, err)

	access, ok := plan.final.(ir.Access)
	require.True(t, ok, "project(x,\"f\").get() must become x.get().f")
	assert.Equal(t, "age", access.Name)
	get, ok := access.Base.(ir.FlowGet)
	require.True(t, ok)
	assert.Equal(t, "profile", get.Value.(ir.Ident).Name)
}

// spec §8 scenario 6: inside a def, render(someFlow, 3) where render is
// fun(val, val) lowers to flow([someFlow], (_0) => render(_0, 3)).
func TestDefPhaseLiftsFlowArgumentIntoFlowCombinator(t *testing.T) {
	l := New(testPkg())
	renderSym := symbol.Root(testPkg()).Child("render")
	renderSig := types.Function{
		FuncPhase: types.Fun,
		Params:    []types.FuncParam{{Type: intType()}, {Type: intType()}},
		Result:    intType(),
	}
	callee := check.NewStaticReference(testPos(), renderSig, renderSym, renderSym)
	call := check.NewCall(testPos(), intType(), types.Flow, callee, []check.Expr{
		ident("someFlow", types.Flow),
		intLit(3),
	})

	lowered, err := l.lowerExpr(types.Def, call)
	require.NoError(t, err)

	flow, ok := lowered.(ir.Flow)
	require.True(t, ok, "a def-context call with a lifted flow argument must be wrapped in flow(...)")
	require.Len(t, flow.Sources, 1)
	assert.Equal(t, "someFlow", flow.Sources[0].(ir.Ident).Name)
	require.Len(t, flow.Compute.Params, 1)

	inner := flow.Compute.Body.(ir.Call)
	assert.Equal(t, flow.Compute.Params[0], inner.Args[0].(ir.Ident).Name)
	assert.Equal(t, int64(3), inner.Args[1].(ir.IntLit).Value)
}

func TestDefPhaseChoosesDefCombinatorWhenCalleeIsDef(t *testing.T) {
	l := New(testPkg())
	calleeSym := symbol.Root(testPkg()).Child("makeWidget")
	calleeSig := types.Function{
		FuncPhase: types.Def,
		Params:    []types.FuncParam{{Type: intType()}},
		Result:    intType(),
	}
	callee := check.NewStaticReference(testPos(), calleeSig, calleeSym, calleeSym)
	call := check.NewCall(testPos(), intType(), types.Flow, callee, []check.Expr{
		ident("someFlow", types.Flow),
	})

	lowered, err := l.lowerExpr(types.Def, call)
	require.NoError(t, err)

	_, ok := lowered.(ir.Def)
	assert.True(t, ok, "lifting into a call whose callee is declared def must use def(...), not flow(...)")
}

func TestAssignmentToVarWrapsInitializerInVariable(t *testing.T) {
	l := New(testPkg())
	assign := check.NewAssignment(testPos(), "count", types.Var, intType(), intLit(0))

	stmt, err := l.lowerStmt(types.Fun, assign)
	require.NoError(t, err)

	let, ok := stmt.(ir.Let)
	require.True(t, ok)
	assert.Equal(t, "count", let.Name)
	v, ok := let.Value.(ir.Variable)
	require.True(t, ok, "a var assignment's initializer must be wrapped in Variable(...)")
	assert.Equal(t, int64(0), v.Init.(ir.IntLit).Value)
}

func TestAssignmentToValDoesNotWrap(t *testing.T) {
	l := New(testPkg())
	assign := check.NewAssignment(testPos(), "count", types.Val, intType(), intLit(0))

	stmt, err := l.lowerStmt(types.Fun, assign)
	require.NoError(t, err)

	let := stmt.(ir.Let)
	_, ok := let.Value.(ir.Variable)
	assert.False(t, ok)
}

func TestReassignmentToFieldChainBuildsProjectionCascade(t *testing.T) {
	l := New(testPkg())
	root := ident("profile", types.Var)
	target := check.NewFieldAccess(testPos(), intType(), types.Var, root, "age")
	reassign := check.NewReassignment(testPos(), target, intLit(30))

	stmt, err := l.lowerStmt(types.Fun, reassign)
	require.NoError(t, err)

	r, ok := stmt.(ir.Reassign)
	require.True(t, ok)
	proj, ok := r.Target.(ir.Projection)
	require.True(t, ok, "a reassignment through a var field chain must rebuild a Projection")
	assert.Equal(t, "profile", proj.Root.(ir.Ident).Name)

	update, ok := proj.Setter.Body.(ir.Update)
	require.True(t, ok, "the projection's setter must be built around Update")
	assert.Equal(t, "age", update.Name)
}

func TestCollectionLiteralLiftsEachElementUniformly(t *testing.T) {
	l := New(testPkg())
	elems := []check.Expr{ident("a", types.Flow), ident("b", types.Flow)}
	lit := check.NewListLit(testPos(), intType(), types.Flow, elems)

	lowered, err := l.lowerExpr(types.Def, lit)
	require.NoError(t, err)

	flow, ok := lowered.(ir.Flow)
	require.True(t, ok, "a collection literal in a def context must lift every flow element")
	assert.Len(t, flow.Sources, 2)

	list := flow.Compute.Body.(ir.ListLit)
	require.Len(t, list.Elements, 2)
}

func TestStaticReferenceRecordsImport(t *testing.T) {
	l := New(testPkg())
	targetSym := symbol.Root(testPkg()).Child("helper")
	ref := check.NewStaticReference(testPos(), intType(), targetSym, targetSym)

	lowered, err := l.lowerExpr(types.Fun, ref)
	require.NoError(t, err)

	g, ok := lowered.(ir.Global)
	require.True(t, ok)
	assert.Equal(t, "helper", g.Sym.Name())
	require.Len(t, l.Imports(), 1)
	assert.Equal(t, "helper", l.Imports()[0].Sym.Name())
}

func TestLowerExternalReExportsUnderDeclaredName(t *testing.T) {
	l := New(testPkg())
	sym := symbol.Root(symbol.Package{Organization: "flux", Name: "io"}).Child("print")

	imp := l.LowerExternal(sym, "print")
	assert.Equal(t, "print", imp.Alias)
	assert.Equal(t, "print", imp.Sym.Name())
}

func TestLowerConstUsesFunPhase(t *testing.T) {
	l := New(testPkg())
	sym := symbol.Root(testPkg()).Child("Answer")

	c, err := l.LowerConst(sym, intType(), intLit(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.Value.(ir.IntLit).Value)
}
