package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// checkBlockExpr implements §4.4.9: every statement but the last checks
// against no expected type; the final statement supplies the block's own
// type and phase (inheriting the block's expected type).
func (c *Checker) checkBlockExpr(scope *Scope, e ast.Block, expected types.Type) (Expr, error) {
	inner := scope.child()
	stmts := make([]Stmt, len(e.Stmts))
	var resultType types.Type = types.Nothing{}
	resultPhase := types.Const
	var resultExpr Expr

	for i, s := range e.Stmts {
		isLast := i == len(e.Stmts)-1
		var stmtExpected types.Type
		if isLast {
			stmtExpected = expected
		}
		checked, result, err := c.checkStmt(inner, s, stmtExpected)
		if err != nil {
			return nil, err
		}
		stmts[i] = checked
		if isLast && result != nil {
			resultExpr = result
			resultType = result.Type()
			resultPhase = result.PhaseOf()
		}
	}

	return Block{base: newBase(e.Position(), resultType, resultPhase), Stmts: stmts, Result: resultExpr}, nil
}

// checkStmt checks one statement, returning the checked node and, when the
// statement is itself an expression, the checked expression that supplies
// a block's trailing result (spec §4.4.9).
func (c *Checker) checkStmt(scope *Scope, s ast.Stmt, expected types.Type) (Stmt, Expr, error) {
	switch st := s.(type) {
	case ast.ExprStmt:
		checked, err := c.CheckExpr(scope, st.Expr, expected)
		if err != nil {
			return nil, nil, err
		}
		return ExprStmt{stmtBase: stmtBase{Pos: st.Position()}, Expr: checked}, checked, nil

	case ast.Assignment:
		return c.checkAssignment(scope, st)

	case ast.Reassignment:
		return c.checkReassignment(scope, st)

	case ast.FunctionStmt:
		return c.checkFunctionStmt(scope, st)

	default:
		return nil, nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(s.Position()),
			"unrecognized statement form"))
	}
}

// checkAssignment implements the §4.4.5 introduction rules: the declared
// phase gates what the initializer's phase may be, and `var`/`flow`
// bindings may only be introduced inside a `def` function.
func (c *Checker) checkAssignment(scope *Scope, st ast.Assignment) (Stmt, Expr, error) {
	phase, hasPhase := annotationPhase(st.Phase)
	if !hasPhase {
		phase = types.Val
	}
	if (phase == types.Var || phase == types.Flow) && (scope.fn == nil || scope.fn.Phase != types.Def) {
		return nil, nil, errors.Wrap(errors.New("check", errors.PHA001, toPos(st.Position()),
			"%s binding %q may only be introduced inside a def function", phase, st.Name))
	}

	var expectedType types.Type
	if st.Type != nil {
		qt, err := scope.qualifyType(st.Type)
		if err != nil {
			return nil, nil, err
		}
		expectedType = qt
	}

	value, err := c.CheckExpr(scope, st.Value, expectedType)
	if err != nil {
		return nil, nil, err
	}
	if expectedType != nil && !types.Assignable(c.resolver(), expectedType, value.Type()) {
		return nil, nil, typeMismatch(st.Value.Position(), expectedType, value.Type())
	}
	if !phaseAssignable(phase, value.PhaseOf()) {
		return nil, nil, errors.Wrap(errors.New("check", errors.PHA001, toPos(st.Position()),
			"%s target cannot accept a %s-phase expression", phase, value.PhaseOf()))
	}

	declared := expectedType
	if declared == nil {
		declared = value.Type()
	}
	scope.set(st.Name, binding{Type: declared, Phase: phase, Pos: st.Position()})

	return Assignment{stmtBase: stmtBase{Pos: st.Position()}, Name: st.Name, Phase: phase, Type: declared, Value: value}, nil, nil
}

// phaseAssignable implements §4.4.5's target/expression phase rules:
// const target <=> const expr; val/var accept const or val; flow accepts
// anything.
func phaseAssignable(target, actual types.Phase) bool {
	switch target {
	case types.Const:
		return actual == types.Const
	case types.Val, types.Var:
		return actual == types.Const || actual == types.Val
	case types.Flow:
		return true
	default:
		return false
	}
}

// checkReassignment implements §4.4.5: writing into a `var` is permitted
// only inside a `sig` function.
func (c *Checker) checkReassignment(scope *Scope, st ast.Reassignment) (Stmt, Expr, error) {
	if scope.fn == nil || scope.fn.Phase != types.Sig {
		return nil, nil, errors.Wrap(errors.New("check", errors.PHA002, toPos(st.Position()),
			"reassignment is only permitted inside a sig function"))
	}
	target, err := c.CheckExpr(scope, st.Target, nil)
	if err != nil {
		return nil, nil, err
	}
	value, err := c.CheckExpr(scope, st.Value, target.Type())
	if err != nil {
		return nil, nil, err
	}
	if !types.Assignable(c.resolver(), target.Type(), value.Type()) {
		return nil, nil, typeMismatch(st.Value.Position(), target.Type(), value.Type())
	}
	return Reassignment{stmtBase: stmtBase{Pos: st.Position()}, Target: target, Value: value}, nil, nil
}

// checkFunctionStmt checks a function declared locally inside a block,
// applying the same declared-phase and parameter well-formedness rules as
// a top-level function (spec §4.4.5), rather than treating it as a plain
// anonymous lambda.
func (c *Checker) checkFunctionStmt(scope *Scope, st ast.FunctionStmt) (Stmt, Expr, error) {
	sig, paramNames, err := c.localFunctionSignature(scope, st.Decl)
	if err != nil {
		return nil, nil, err
	}
	sym := scope.currentModule().Child(st.Decl.Name)

	var body ast.Expr
	if st.Decl.Body != nil {
		body = *st.Decl.Body
	}
	checked, err := c.checkFunctionBody(scope, sym, scope.currentModule(), sig.TypeParams, sig, paramNames, body, st.Decl.Position())
	if err != nil {
		return nil, nil, err
	}

	lambdaParams := make([]LambdaParam, len(sig.Params))
	for i, p := range sig.Params {
		lambdaParams[i] = LambdaParam{Name: paramNames[i], Type: p.Type}
	}
	fnType := types.Function{FuncPhase: sig.FuncPhase, TypeParams: sig.TypeParams, Params: sig.Params, Result: checked.Type()}
	lambda := Lambda{base: newBase(st.Decl.Position(), fnType, types.Const), Params: lambdaParams, Body: checked}

	scope.set(st.Decl.Name, binding{Type: fnType, Phase: types.Const, Pos: st.Decl.Position()})
	return FunctionStmt{stmtBase: stmtBase{Pos: st.Decl.Position()}, Name: st.Decl.Name, Sym: sym, Lambda: lambda}, nil, nil
}

// localFunctionSignature qualifies a local function declaration's
// parameter and result types the same way the Declaration Collector does
// for top-level functions.
func (c *Checker) localFunctionSignature(scope *Scope, decl *ast.FunctionDecl) (types.Function, []string, error) {
	var typeParams []symbol.Symbol
	if len(decl.TypeParams) > 0 {
		owner := scope.currentModule().Child(decl.Name)
		for _, tp := range decl.TypeParams {
			typeParams = append(typeParams, owner.Child(tp))
		}
	}
	inner := scope.child()
	if len(typeParams) > 0 {
		inner.fn = &FuncScope{TypeParams: typeParams}
	}

	params := make([]types.FuncParam, len(decl.Params))
	names := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		pt, err := inner.qualifyType(p.Type)
		if err != nil {
			return types.Function{}, nil, err
		}
		phase, hasPhase := annotationPhase(p.Phase)
		params[i] = types.FuncParam{Type: pt, Phase: phase, HasPhase: hasPhase}
		names[i] = p.Name
	}
	result, err := inner.qualifyType(decl.Result)
	if err != nil {
		return types.Function{}, nil, err
	}
	return types.Function{
		FuncPhase:  funcPhaseOf(decl.Phase),
		TypeParams: typeParams,
		Params:     params,
		Result:     result,
	}, names, nil
}

func funcPhaseOf(p ast.FuncPhase) types.FuncPhase {
	switch p {
	case ast.FuncDef:
		return types.Def
	case ast.FuncSig:
		return types.Sig
	default:
		return types.Fun
	}
}

// checkIf implements §4.4.9: without an else branch the result is
// Option<T>; with one, the merge of both branches. Phase is the join of
// condition, then, and else.
func (c *Checker) checkIf(scope *Scope, e ast.If, expected types.Type) (Expr, error) {
	cond, err := c.CheckExpr(scope, e.Cond, boolType(scope))
	if err != nil {
		return nil, err
	}
	then, err := c.CheckExpr(scope, e.Then, expected)
	if err != nil {
		return nil, err
	}
	if e.Else == nil {
		optSym := scope.qualifier["Option"]
		optType := types.Parameterized{Base: types.Nominal{Sym: optSym}, Args: []types.Type{then.Type()}}
		phase := types.Join(cond.PhaseOf(), then.PhaseOf())
		return If{base: newBase(e.Position(), optType, phase), Cond: cond, Then: then}, nil
	}
	elseExpr, err := c.CheckExpr(scope, e.Else, expected)
	if err != nil {
		return nil, err
	}
	merged, err := types.Merge(c.resolver(), then.Type(), elseExpr.Type(), toPos(e.Position()))
	if err != nil {
		return nil, err
	}
	phase := types.Join(cond.PhaseOf(), types.Join(then.PhaseOf(), elseExpr.PhaseOf()))
	return If{base: newBase(e.Position(), merged, phase), Cond: cond, Then: then, Else: elseExpr}, nil
}

// checkReturn implements §4.4.9: updates the enclosing function scope's
// result type via merge, and yields Nothing at the base expression's phase.
func (c *Checker) checkReturn(scope *Scope, e ast.Return) (Expr, error) {
	var value Expr
	phase := types.Const
	valueType := types.Type(types.Nothing{})
	if e.Value != nil {
		checked, err := c.CheckExpr(scope, e.Value, scope.functionResult())
		if err != nil {
			return nil, err
		}
		value = checked
		phase = checked.PhaseOf()
		valueType = checked.Type()
	}
	if scope.fn != nil {
		merged, err := types.Merge(c.resolver(), scope.fn.Result, valueType, toPos(e.Position()))
		if err != nil {
			return nil, err
		}
		scope.fn.Result = merged
	}
	return Return{base: newBase(e.Position(), types.Nothing{}, phase), Value: value}, nil
}

func (s *Scope) functionResult() types.Type {
	if s.fn == nil {
		return nil
	}
	return s.fn.Result
}

func annotationPhase(a ast.ExprPhaseAnnotation) (types.Phase, bool) {
	switch a {
	case ast.PhaseConst:
		return types.Const, true
	case ast.PhaseVal:
		return types.Val, true
	case ast.PhaseVar:
		return types.Var, true
	case ast.PhaseFlow:
		return types.Flow, true
	default:
		return types.Val, false
	}
}
