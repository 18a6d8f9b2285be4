package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// checkLambda implements §4.4.8: when expected is a Function type, its
// parameter types (and result) seed any lambda parameter that omitted an
// explicit annotation; otherwise every parameter must declare its own
// type. The body checks under a fresh function-scope, and the lambda's
// phase is the join over every name it closes over from an outer function.
func (c *Checker) checkLambda(scope *Scope, e ast.Lambda, expected types.Type) (Expr, error) {
	var expectedFn *types.Function
	if fn, ok := expected.(types.Function); ok {
		expectedFn = &fn
	}

	params := make([]LambdaParam, len(e.Params))
	for i, p := range e.Params {
		if p.Type != nil {
			pt, err := scope.qualifyType(p.Type)
			if err != nil {
				return nil, err
			}
			params[i] = LambdaParam{Name: p.Name, Type: pt}
			continue
		}
		if expectedFn == nil || i >= len(expectedFn.Params) {
			return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(e.Position()),
				"lambda parameter %q requires an explicit type here", p.Name))
		}
		params[i] = LambdaParam{Name: p.Name, Type: expectedFn.Params[i].Type}
	}

	var resultExpected types.Type
	if expectedFn != nil {
		resultExpected = expectedFn.Result
	}

	phase := types.Fun
	if scope.fn != nil {
		phase = scope.fn.Phase
	}
	bodyScope := scope.childFunction(scope.fn.symOrZero(), scope.currentModule(), nil, resultExpected, phase)
	for _, p := range params {
		bodyScope.set(p.Name, binding{Type: p.Type, Phase: types.Val})
	}

	body, err := c.CheckExpr(bodyScope, e.Body, resultExpected)
	if err != nil {
		return nil, err
	}

	lambdaPhase := types.Const
	for _, p := range bodyScope.fn.Closure {
		lambdaPhase = types.Join(lambdaPhase, p)
	}

	paramTypes := make([]types.FuncParam, len(params))
	for i, p := range params {
		paramTypes[i] = types.FuncParam{Type: p.Type}
	}
	fnType := types.Function{FuncPhase: types.Fun, Params: paramTypes, Result: body.Type()}

	return Lambda{base: newBase(e.Position(), fnType, lambdaPhase), Params: params, Body: body}, nil
}

func (f *FuncScope) symOrZero() symbol.Symbol {
	if f == nil {
		return symbol.Symbol{}
	}
	return f.Sym
}
