package transform

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/check"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPos() ast.Pos { return ast.Pos{File: "t.flux", Line: 1, Column: 1} }

func intSym() symbol.Symbol {
	return symbol.Root(symbol.Package{Organization: "flux", Name: "core"}).Child("Int")
}

func intLit(v int64) check.IntLit {
	return check.NewIntLit(testPos(), types.Nominal{Sym: intSym()}, types.Const, v)
}

func TestReturnLiftWrapsPlainExpressionBody(t *testing.T) {
	fn := &check.Function{
		Sym:  symbol.Root(symbol.Package{Organization: "acme", Name: "widgets"}).Child("five"),
		Type: types.Function{Result: types.Nominal{Sym: intSym()}},
		Body: intLit(5),
	}

	rewritten, err := ReturnLift().WalkFunction(fn)
	require.NoError(t, err)

	ret, ok := rewritten.Body.(check.Return)
	require.True(t, ok, "a plain expression body must be wrapped in a Return")
	assert.Equal(t, int64(5), ret.Value.(check.IntLit).Value)
}

func TestReturnLiftWrapsTrailingExpressionStatementInBlock(t *testing.T) {
	block := check.NewBlock(testPos(), []check.Stmt{
		check.NewExprStmt(testPos(), intLit(1)),
		check.NewExprStmt(testPos(), intLit(2)),
	}, intLit(2))

	fn := &check.Function{Body: block}
	rewritten, err := ReturnLift().WalkFunction(fn)
	require.NoError(t, err)

	b, ok := rewritten.Body.(check.Block)
	require.True(t, ok, "a block body stays a block")
	last := b.Stmts[len(b.Stmts)-1].(check.ExprStmt)
	_, ok = last.Expr.(check.Return)
	assert.True(t, ok, "the trailing expression-statement must be wrapped in a Return")

	first := b.Stmts[0].(check.ExprStmt)
	_, ok = first.Expr.(check.Return)
	assert.False(t, ok, "only the trailing statement is lifted")
}

func TestReturnLiftLeavesExplicitReturnUntouched(t *testing.T) {
	ret := check.LiftedReturn(intLit(7))
	fn := &check.Function{Body: ret}

	rewritten, err := ReturnLift().WalkFunction(fn)
	require.NoError(t, err)
	assert.Equal(t, ret, rewritten.Body)
}

func TestReturnLiftLeavesBlockWithNonExpressionLastStatementUntouched(t *testing.T) {
	block := check.NewBlock(testPos(), []check.Stmt{
		check.NewAssignment(testPos(), "x", types.Val, types.Nominal{Sym: intSym()}, intLit(1)),
	}, nil)

	fn := &check.Function{Body: block}
	rewritten, err := ReturnLift().WalkFunction(fn)
	require.NoError(t, err)
	assert.Equal(t, block, rewritten.Body, "a block whose last statement isn't an expression is untouched")
}

func TestReturnLiftAppliesToNestedLambdaBody(t *testing.T) {
	lambda := check.NewLambda(testPos(), types.Function{}, types.Const,
		[]check.LambdaParam{{Name: "x", Type: types.Nominal{Sym: intSym()}}}, intLit(1))
	call := check.NewCall(testPos(), types.Nominal{Sym: intSym()}, types.Const, intLit(0), []check.Expr{lambda})

	fn := &check.Function{Body: call}
	rewritten, err := ReturnLift().WalkFunction(fn)
	require.NoError(t, err)

	// The bare Call is itself a plain-expression function body, so it is
	// also lifted at the top level; unwrap that outer Return first.
	outer, ok := rewritten.Body.(check.Return)
	require.True(t, ok)
	c, ok := outer.Value.(check.Call)
	require.True(t, ok)
	innerLambda := c.Args[0].(check.Lambda)
	_, ok = innerLambda.Body.(check.Return)
	assert.True(t, ok, "a lambda argument's body is a function body too, and is lifted")
}
