// Package transform implements the generic checked-tree walker and the
// transform passes that run on top of it (spec §4.5): pre/post hooks on
// expressions, statements, and function declarations that rewrite the
// tree while preserving each node's kind.
//
// Grounded on the teacher's internal/elaborate/elaborate.go: a small
// driver struct with one entry point per node category that recurses
// through every child, generalized here from "surface AST to Core ANF"
// translation into "checked tree to rewritten checked tree" rewriting.
package transform

import "github.com/fluxlang/fluxc/internal/check"

// ExprHook inspects or replaces a checked expression node.
type ExprHook func(check.Expr) (check.Expr, error)

// StmtHook inspects or replaces a checked statement node.
type StmtHook func(check.Stmt) (check.Stmt, error)

// FuncHook inspects or replaces a checked function declaration.
type FuncHook func(*check.Function) (*check.Function, error)

// Walker drives a full traversal of a checked tree, invoking whichever
// hooks are set before (Pre) and after (Post) visiting a node's children.
// A nil hook leaves the node unchanged at that point. Every composite
// node is rebuilt around its (possibly rewritten) children via check's
// exported New* constructors, so the walk itself never changes a node's
// kind; a hook's returned node replaces the original as is (an ExprHook may
// return a different expression kind, as return-lifting does, while a
// FuncHook always yields a function declaration) (spec §4.5).
type Walker struct {
	PreExpr  ExprHook
	PostExpr ExprHook
	PreStmt  StmtHook
	PostStmt StmtHook
	PreFunc  FuncHook
	PostFunc FuncHook
}

// WalkFunction runs the full walk over one checked function declaration:
// the Pre/Post function hooks bracket a walk of its body.
func (w *Walker) WalkFunction(fn *check.Function) (*check.Function, error) {
	if fn == nil {
		return nil, nil
	}
	cur := fn
	if w.PreFunc != nil {
		next, err := w.PreFunc(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur.Body != nil {
		body, err := w.WalkExpr(cur.Body)
		if err != nil {
			return nil, err
		}
		rewritten := *cur
		rewritten.Body = body
		cur = &rewritten
	}
	if w.PostFunc != nil {
		next, err := w.PostFunc(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// WalkExpr runs Pre, recurses into children, then runs Post.
func (w *Walker) WalkExpr(e check.Expr) (check.Expr, error) {
	if e == nil {
		return nil, nil
	}
	if w.PreExpr != nil {
		next, err := w.PreExpr(e)
		if err != nil {
			return nil, err
		}
		e = next
	}
	e, err := w.walkExprChildren(e)
	if err != nil {
		return nil, err
	}
	if w.PostExpr != nil {
		next, err := w.PostExpr(e)
		if err != nil {
			return nil, err
		}
		e = next
	}
	return e, nil
}

// WalkStmt runs Pre, recurses into children, then runs Post.
func (w *Walker) WalkStmt(s check.Stmt) (check.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	if w.PreStmt != nil {
		next, err := w.PreStmt(s)
		if err != nil {
			return nil, err
		}
		s = next
	}
	s, err := w.walkStmtChildren(s)
	if err != nil {
		return nil, err
	}
	if w.PostStmt != nil {
		next, err := w.PostStmt(s)
		if err != nil {
			return nil, err
		}
		s = next
	}
	return s, nil
}

func (w *Walker) walkExprSlice(es []check.Expr) ([]check.Expr, error) {
	if es == nil {
		return nil, nil
	}
	out := make([]check.Expr, len(es))
	for i, e := range es {
		v, err := w.WalkExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (w *Walker) walkStmtSlice(ss []check.Stmt) ([]check.Stmt, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([]check.Stmt, len(ss))
	for i, s := range ss {
		v, err := w.WalkStmt(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (w *Walker) walkExprChildren(e check.Expr) (check.Expr, error) {
	switch n := e.(type) {
	case check.IntLit, check.FloatLit, check.BoolLit, check.StringLit, check.NoOpLit,
		check.Ident, check.StaticReference:
		return e, nil

	case check.ListLit:
		elems, err := w.walkExprSlice(n.Elements)
		if err != nil {
			return nil, err
		}
		return check.NewListLit(n.Position(), n.Type(), n.PhaseOf(), elems), nil

	case check.SetLit:
		elems, err := w.walkExprSlice(n.Elements)
		if err != nil {
			return nil, err
		}
		return check.NewSetLit(n.Position(), n.Type(), n.PhaseOf(), elems), nil

	case check.MapLit:
		entries := make([]check.MapEntry, len(n.Entries))
		for i, me := range n.Entries {
			k, err := w.WalkExpr(me.Key)
			if err != nil {
				return nil, err
			}
			v, err := w.WalkExpr(me.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = check.MapEntry{Key: k, Value: v}
		}
		return check.NewMapLit(n.Position(), n.Type(), n.PhaseOf(), entries), nil

	case check.IsExpr:
		v, err := w.WalkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return check.NewIsExpr(n.Position(), n.Type(), n.PhaseOf(), v, n.Target), nil

	case check.NotExpr:
		v, err := w.WalkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return check.NewNotExpr(n.Position(), n.Type(), n.PhaseOf(), v), nil

	case check.AndExpr:
		l, err := w.WalkExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := w.WalkExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return check.NewAndExpr(n.Position(), n.Type(), n.PhaseOf(), l, r), nil

	case check.OrExpr:
		l, err := w.WalkExpr(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := w.WalkExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return check.NewOrExpr(n.Position(), n.Type(), n.PhaseOf(), l, r), nil

	case check.FieldAccess:
		base, err := w.WalkExpr(n.Base)
		if err != nil {
			return nil, err
		}
		return check.NewFieldAccess(n.Position(), n.Type(), n.PhaseOf(), base, n.Name), nil

	case check.Construct:
		fields := make([]check.ConstructField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := w.WalkExpr(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = check.ConstructField{Name: f.Name, Value: v}
		}
		return check.NewConstruct(n.Position(), n.Type(), n.PhaseOf(), fields), nil

	case check.Call:
		callee, err := w.WalkExpr(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := w.walkExprSlice(n.Args)
		if err != nil {
			return nil, err
		}
		return check.NewCall(n.Position(), n.Type(), n.PhaseOf(), callee, args), nil

	case check.Lambda:
		body, err := w.WalkExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return check.NewLambda(n.Position(), n.Type(), n.PhaseOf(), n.Params, body), nil

	case check.Block:
		stmts, err := w.walkStmtSlice(n.Stmts)
		if err != nil {
			return nil, err
		}
		var result check.Expr
		if n.Result != nil {
			result, err = w.WalkExpr(n.Result)
			if err != nil {
				return nil, err
			}
		}
		return check.NewBlock(n.Position(), stmts, result), nil

	case check.If:
		cond, err := w.WalkExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := w.WalkExpr(n.Then)
		if err != nil {
			return nil, err
		}
		var els check.Expr
		if n.Else != nil {
			els, err = w.WalkExpr(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return check.NewIf(n.Position(), n.Type(), n.PhaseOf(), cond, then, els), nil

	case check.Return:
		var v check.Expr
		if n.Value != nil {
			var err error
			v, err = w.WalkExpr(n.Value)
			if err != nil {
				return nil, err
			}
		}
		return check.NewReturn(n.Position(), n.Type(), n.PhaseOf(), v), nil

	default:
		return e, nil
	}
}

func (w *Walker) walkStmtChildren(s check.Stmt) (check.Stmt, error) {
	switch n := s.(type) {
	case check.ExprStmt:
		v, err := w.WalkExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return check.NewExprStmt(n.Position(), v), nil

	case check.Assignment:
		v, err := w.WalkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return check.NewAssignment(n.Position(), n.Name, n.Phase, n.Type, v), nil

	case check.Reassignment:
		target, err := w.WalkExpr(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := w.WalkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return check.NewReassignment(n.Position(), target, value), nil

	case check.FunctionStmt:
		body, err := w.WalkExpr(n.Lambda.Body)
		if err != nil {
			return nil, err
		}
		lambda := check.NewLambda(n.Lambda.Position(), n.Lambda.Type(), n.Lambda.PhaseOf(), n.Lambda.Params, body)
		return check.NewFunctionStmt(n.Position(), n.Name, n.Sym, lambda), nil

	default:
		return s, nil
	}
}
