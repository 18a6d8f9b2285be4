package transform

import "github.com/fluxlang/fluxc/internal/check"

// ReturnLift builds the Walker implementing spec §4.5's one shipped
// transform. It is applied at every function-shaped body the walk
// encounters: a checked top-level/impl function (PostFunc), a lambda
// literal (PostExpr), and a function declared locally inside a block
// (PostStmt) — all three share the same liftBody rule.
func ReturnLift() *Walker {
	w := &Walker{}

	w.PostFunc = func(fn *check.Function) (*check.Function, error) {
		if fn.Body == nil {
			return fn, nil
		}
		rewritten := *fn
		rewritten.Body = liftBody(fn.Body)
		return &rewritten, nil
	}

	w.PostExpr = func(e check.Expr) (check.Expr, error) {
		lambda, ok := e.(check.Lambda)
		if !ok {
			return e, nil
		}
		return check.NewLambda(lambda.Position(), lambda.Type(), lambda.PhaseOf(), lambda.Params, liftBody(lambda.Body)), nil
	}

	w.PostStmt = func(s check.Stmt) (check.Stmt, error) {
		fs, ok := s.(check.FunctionStmt)
		if !ok {
			return s, nil
		}
		lambda := fs.Lambda
		lifted := check.NewLambda(lambda.Position(), lambda.Type(), lambda.PhaseOf(), lambda.Params, liftBody(lambda.Body))
		return check.NewFunctionStmt(fs.Position(), fs.Name, fs.Sym, lifted), nil
	}

	return w
}

// liftBody implements §4.5: a body that is a plain expression, or a Block
// whose last statement is an expression-statement (Block.Result != nil),
// has its trailing expression wrapped in a Return. A body already ending
// in a Return, or whose last statement is not an expression-statement, is
// left untouched.
func liftBody(body check.Expr) check.Expr {
	if body == nil {
		return body
	}
	if _, ok := body.(check.Return); ok {
		return body
	}
	block, ok := body.(check.Block)
	if !ok {
		return check.LiftedReturn(body)
	}
	if block.Result == nil {
		return block
	}
	if _, ok := block.Result.(check.Return); ok {
		return block
	}
	lifted := check.LiftedReturn(block.Result)
	stmts := make([]check.Stmt, len(block.Stmts))
	copy(stmts, block.Stmts)
	stmts[len(stmts)-1] = check.NewExprStmt(lifted.Position(), lifted)
	return check.NewBlock(block.Position(), stmts, lifted)
}
