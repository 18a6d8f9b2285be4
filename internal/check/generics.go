package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// genericCall resolves type arguments for a call/constructor with type
// parameters sig.TypeParams against positional parameter types sig.Params
// and unchecked argument expressions args (spec §4.4.4). It returns, in
// order, the checked argument expressions, a second value that is always
// nil, the substituted result type, and an error.
func (c *Checker) genericCall(scope *Scope, pos ast.Pos, typeParams []symbol.Symbol, paramTypes []types.FuncParam, result types.Type, args []ast.Expr, explicitTypeArgs []ast.TypeExpr) ([]Expr, types.Type, types.Type, error) {
	if len(typeParams) == 0 {
		checked, err := c.checkArgsAgainst(scope, args, paramTypes, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return checked, nil, result, nil
	}

	if len(explicitTypeArgs) > 0 {
		if len(explicitTypeArgs) != len(typeParams) {
			return nil, nil, nil, errors.Wrap(errors.New("check", errors.QUA003, toPos(pos),
				"expected %d type arguments, got %d", len(typeParams), len(explicitTypeArgs)))
		}
		sub := make(types.Substitution, len(typeParams))
		for i, tp := range typeParams {
			qt, err := scope.qualifyType(explicitTypeArgs[i])
			if err != nil {
				return nil, nil, nil, err
			}
			sub[tp.Key()] = qt
		}
		substituted := substituteParams(paramTypes, sub)
		checked, err := c.checkArgsAgainst(scope, args, substituted, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		return checked, nil, types.Substitute(result, sub), nil
	}

	// Non-lambda pass: check and unify.
	candidates := make(map[string][]types.Type, len(typeParams))
	checkedArgs := make([]Expr, len(args))
	isLambda := make([]bool, len(args))
	for i, arg := range args {
		var expected types.Type
		if i < len(paramTypes) {
			expected = paramTypes[i].Type
		}
		if _, ok := arg.(ast.Lambda); ok {
			isLambda[i] = true
			continue
		}
		checked, err := c.CheckExpr(scope, arg, nil)
		if err != nil {
			return nil, nil, nil, err
		}
		checkedArgs[i] = checked
		if expected != nil {
			types.Unify(typeParams, expected, checked.Type(), candidates)
		}
	}

	provisional, err := mergeCandidates(c.resolver(), typeParams, candidates, pos)
	if err != nil {
		return nil, nil, nil, err
	}

	// Check lambdas with the provisional assignment flowed through.
	for i, arg := range args {
		if !isLambda[i] {
			continue
		}
		var expected types.Type
		if i < len(paramTypes) {
			expected = types.Substitute(paramTypes[i].Type, provisional)
		}
		checked, err := c.CheckExpr(scope, arg, expected)
		if err != nil {
			return nil, nil, nil, err
		}
		checkedArgs[i] = checked
		if expected != nil {
			types.Unify(typeParams, expected, checked.Type(), candidates)
		}
	}

	final, err := mergeCandidates(c.resolver(), typeParams, candidates, pos)
	if err != nil {
		return nil, nil, nil, err
	}

	substituted := substituteParams(paramTypes, final)
	for i, p := range substituted {
		if i >= len(checkedArgs) || checkedArgs[i] == nil {
			continue
		}
		if !types.Assignable(c.resolver(), p.Type, checkedArgs[i].Type()) {
			return nil, nil, nil, typeMismatch(pos, p.Type, checkedArgs[i].Type())
		}
	}

	return checkedArgs, nil, types.Substitute(result, final), nil
}

func mergeCandidates(r types.Resolver, typeParams []symbol.Symbol, candidates map[string][]types.Type, pos ast.Pos) (types.Substitution, error) {
	sub := make(types.Substitution, len(typeParams))
	for _, tp := range typeParams {
		key := tp.Key()
		cs := candidates[key]
		if len(cs) == 0 {
			sub[key] = types.Nothing{}
			continue
		}
		merged, err := types.MergeAll(r, toPos(pos), cs...)
		if err != nil {
			return nil, err
		}
		sub[key] = merged
	}
	return sub, nil
}

func substituteParams(params []types.FuncParam, sub types.Substitution) []types.FuncParam {
	out := make([]types.FuncParam, len(params))
	for i, p := range params {
		out[i] = types.FuncParam{Type: types.Substitute(p.Type, sub), Phase: p.Phase, HasPhase: p.HasPhase}
	}
	return out
}

// checkArgsAgainst checks each argument against its positional expected
// type (used for non-generic calls, and as the simple path when a call has
// no type parameters).
func (c *Checker) checkArgsAgainst(scope *Scope, args []ast.Expr, params []types.FuncParam, _ []bool) ([]Expr, error) {
	checked := make([]Expr, len(args))
	for i, arg := range args {
		var expected types.Type
		if i < len(params) {
			expected = params[i].Type
		}
		ce, err := c.CheckExpr(scope, arg, expected)
		if err != nil {
			return nil, err
		}
		if expected != nil && !types.Assignable(c.resolver(), expected, ce.Type()) {
			return nil, typeMismatch(arg.Position(), expected, ce.Type())
		}
		checked[i] = ce
	}
	return checked, nil
}
