package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/decl"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Function is a fully checked named function declaration: header plus
// checked body. External declarations carry no Body.
type Function struct {
	Sym  symbol.Symbol
	Type types.Function
	Body Expr
}

// CheckFunction checks one top-level (or impl) function declaration's body
// against its already-collected signature (spec §4.4.5). External
// declarations have no body to check.
func (c *Checker) CheckFunction(root *Scope, module symbol.Symbol, fn decl.Function) (*Function, error) {
	sig := fn.Signature()
	if fn.External || fn.Body == nil {
		return &Function{Sym: fn.Sym, Type: sig}, nil
	}

	body, err := c.checkFunctionBody(root, fn.Sym, module, fn.TypeParams, sig, fn.ParamNames, *fn.Body, fn.Pos)
	if err != nil {
		return nil, err
	}
	return &Function{Sym: fn.Sym, Type: sig, Body: body}, nil
}

// CheckConst checks a top-level constant's initializer against its
// declared type. A const initializer runs in the same eager, non-reactive
// context a fun function body does (spec §4.4.5, §4.6's Fun caller phase
// for const lowering), so it reuses checkFunctionBody with a synthetic
// zero-parameter Fun signature rather than duplicating that machinery.
func (c *Checker) CheckConst(root *Scope, module symbol.Symbol, cn decl.Constant) (Expr, error) {
	sig := types.Function{FuncPhase: types.Fun, Result: cn.Type}
	return c.checkFunctionBody(root, cn.Sym, module, nil, sig, nil, cn.Expr, cn.Pos)
}

// checkFunctionBody implements the shared machinery behind every declared
// (non-lambda) function: parameter well-formedness, a fresh function-scope
// with parameters bound, the body check against the declared result, and
// the declared-vs-computed phase rule, all per §4.4.5.
func (c *Checker) checkFunctionBody(scope *Scope, sym, module symbol.Symbol, typeParams []symbol.Symbol, sig types.Function, paramNames []string, body ast.Expr, pos ast.Pos) (Expr, error) {
	if err := checkParamWellFormedness(pos, sig); err != nil {
		return nil, err
	}

	bodyScope := scope.childFunction(sym, module, typeParams, sig.Result, sig.FuncPhase)
	for i, name := range paramNames {
		if i >= len(sig.Params) {
			break
		}
		p := sig.Params[i]
		phase := types.Val
		if p.HasPhase {
			phase = p.Phase
		}
		bodyScope.set(name, binding{Type: p.Type, Phase: phase, Pos: pos})
	}

	checked, err := c.CheckExpr(bodyScope, body, sig.Result)
	if err != nil {
		return nil, err
	}

	finalResult, err := types.Merge(c.resolver(), bodyScope.fn.Result, checked.Type(), toPos(pos))
	if err != nil {
		return nil, err
	}
	if !types.Assignable(c.resolver(), sig.Result, finalResult) {
		return nil, typeMismatch(pos, sig.Result, finalResult)
	}

	if err := checkDeclaredPhase(pos, sig.FuncPhase, bodyScope.fn.Closure); err != nil {
		return nil, err
	}

	return checked, nil
}

// checkParamWellFormedness implements §4.4.5: a fun function may not
// declare var or flow parameters; a sig may not declare flow parameters;
// def may declare anything.
func checkParamWellFormedness(pos ast.Pos, sig types.Function) error {
	for i, p := range sig.Params {
		if !p.HasPhase {
			continue
		}
		switch sig.FuncPhase {
		case types.Fun:
			if p.Phase == types.Var || p.Phase == types.Flow {
				return errors.Wrap(errors.New("check", errors.PHA003, toPos(pos),
					"fun function may not declare a %s parameter (argument %d)", p.Phase, i))
			}
		case types.Sig:
			if p.Phase == types.Flow {
				return errors.Wrap(errors.New("check", errors.PHA003, toPos(pos),
					"sig function may not declare a flow parameter (argument %d)", i))
			}
		}
	}
	return nil
}

// closurePhaseCeiling is the most reactive phase a function's captured
// closures may reach without contradicting its declared phase: fun
// captures are already demoted to val by Scope.get, sig may additionally
// read (but not stream) a var, and def places no ceiling.
func closurePhaseCeiling(phase types.FuncPhase) types.Phase {
	switch phase {
	case types.Sig:
		return types.Var
	case types.Def:
		return types.Flow
	default:
		return types.Val
	}
}

// checkDeclaredPhase implements §4.4.5's closing rule: the declared
// function phase must be at least as reactive as what its captured
// closures actually demand. Unlike Join, this does not normalize var to
// flow — a sig capturing a single var is exactly what "sig" permits.
func checkDeclaredPhase(pos ast.Pos, phase types.FuncPhase, closure map[string]types.Phase) error {
	ceiling := closurePhaseCeiling(phase)
	computed := types.Const
	for _, p := range closure {
		if p > computed {
			computed = p
		}
	}
	if computed > ceiling {
		return errors.Wrap(errors.New("check", errors.PHA005, toPos(pos),
			"%s function's captured closures reach %s phase, exceeding what %s promises", phase, computed, phase))
	}
	return nil
}
