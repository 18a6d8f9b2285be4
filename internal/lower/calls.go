package lower

import (
	"github.com/fluxlang/fluxc/internal/check"
	"github.com/fluxlang/fluxc/internal/ir"
	"github.com/fluxlang/fluxc/internal/types"
)

// liftedSource is one def-context argument that could not be passed
// directly: its lowered source expression plus the fresh identifier bound
// to it inside the flow(...)/def(...) combinator lambda (spec §4.6).
type liftedSource struct {
	name   string
	source ir.Expr
}

// loweredArg is the result of planning one call argument or collection
// element: final is what gets passed at the (possibly rewritten) call
// site; lifted is non-nil when final is a fresh identifier standing in
// for a source the caller must lift into the surrounding combinator.
type loweredArg struct {
	final  ir.Expr
	lifted *liftedSource
}

// wantsUnwrap is spec §4.6's sig rule: an unspecified/val-expecting
// parameter receiving a var/flow actual needs a `.get()`.
func wantsUnwrap(param types.FuncParam, actual types.Phase) bool {
	expectsValOrUnspecified := !param.HasPhase || param.Phase == types.Val
	return expectsValOrUnspecified && (actual == types.Var || actual == types.Flow)
}

// wantsSingletonWrap is spec §4.6's rule shared by sig and def: a
// flow-expecting parameter receiving a const/val actual needs a
// `singleton(...)` wrap.
func wantsSingletonWrap(param types.FuncParam, actual types.Phase) bool {
	return param.HasPhase && param.Phase == types.Flow && (actual == types.Const || actual == types.Val)
}

// planArgument applies spec §4.6's wrap/unwrap/lift matrix to one actual
// argument against its expected parameter (the zero value types.FuncParam
// — unspecified phase — for collection-literal elements, which have no
// declared parameter of their own).
func (l *Lowerer) planArgument(callerPhase types.FuncPhase, param types.FuncParam, actual check.Expr) (loweredArg, error) {
	actualPhase := actual.PhaseOf()

	switch callerPhase {
	case types.Fun:
		v, err := l.lowerExpr(callerPhase, actual)
		if err != nil {
			return loweredArg{}, err
		}
		return loweredArg{final: v}, nil

	case types.Sig:
		if wantsUnwrap(param, actualPhase) {
			v, err := l.unwrapChain(callerPhase, actual)
			if err != nil {
				return loweredArg{}, err
			}
			return loweredArg{final: v}, nil
		}
		if wantsSingletonWrap(param, actualPhase) {
			v, err := l.lowerExpr(callerPhase, actual)
			if err != nil {
				return loweredArg{}, err
			}
			return loweredArg{final: ir.Singleton{ExprBase: ir.ExprBase{Type: param.Type}, Value: v}}, nil
		}
		// E = var: the checker already guaranteed A is already var; no
		// transform (spec §4.6).
		v, err := l.lowerExpr(callerPhase, actual)
		if err != nil {
			return loweredArg{}, err
		}
		return loweredArg{final: v}, nil

	case types.Def:
		if wantsUnwrap(param, actualPhase) {
			source, err := l.lowerExpr(callerPhase, actual)
			if err != nil {
				return loweredArg{}, err
			}
			name := l.freshName("arg")
			return loweredArg{
				final:  ir.Ident{ExprBase: ir.ExprBase{Type: actual.Type()}, Name: name},
				lifted: &liftedSource{name: name, source: source},
			}, nil
		}
		if wantsSingletonWrap(param, actualPhase) {
			v, err := l.lowerExpr(callerPhase, actual)
			if err != nil {
				return loweredArg{}, err
			}
			return loweredArg{final: ir.Singleton{ExprBase: ir.ExprBase{Type: param.Type}, Value: v}}, nil
		}
		if param.HasPhase && param.Phase == types.Var {
			v, err := l.projectionizeChain(callerPhase, actual)
			if err != nil {
				return loweredArg{}, err
			}
			return loweredArg{final: v}, nil
		}
		v, err := l.lowerExpr(callerPhase, actual)
		if err != nil {
			return loweredArg{}, err
		}
		return loweredArg{final: v}, nil

	default:
		v, err := l.lowerExpr(callerPhase, actual)
		if err != nil {
			return loweredArg{}, err
		}
		return loweredArg{final: v}, nil
	}
}

// planArguments plans every actual against its positional parameter (nil
// params, as for a collection literal, means every actual gets the zero
// types.FuncParam).
func (l *Lowerer) planArguments(callerPhase types.FuncPhase, params []types.FuncParam, actuals []check.Expr) ([]ir.Expr, []liftedSource, error) {
	finals := make([]ir.Expr, len(actuals))
	var lifted []liftedSource
	for i, a := range actuals {
		var p types.FuncParam
		if i < len(params) {
			p = params[i]
		}
		pa, err := l.planArgument(callerPhase, p, a)
		if err != nil {
			return nil, nil, err
		}
		finals[i] = pa.final
		if pa.lifted != nil {
			lifted = append(lifted, *pa.lifted)
		}
	}
	return finals, lifted, nil
}

// wrapLifted builds the flow(...)/def(...) combinator around inner once
// one or more arguments needed lifting (spec §4.6: "bound to fresh
// identifiers supplied to a flow([sources…], (ids…) => body) combinator").
func (l *Lowerer) wrapLifted(t types.Type, lifted []liftedSource, inner ir.Expr, calleeIsDef bool) ir.Expr {
	sources := make([]ir.Expr, len(lifted))
	names := make([]string, len(lifted))
	for i, s := range lifted {
		sources[i] = s.source
		names[i] = s.name
	}
	lambda := ir.Lambda{ExprBase: ir.ExprBase{Type: t}, Params: names, Body: inner}
	if calleeIsDef {
		return ir.Def{ExprBase: ir.ExprBase{Type: t}, Sources: sources, Compute: lambda}
	}
	return ir.Flow{ExprBase: ir.ExprBase{Type: t}, Sources: sources, Compute: lambda}
}

// lowerCall lowers a checked call, applying the full wrap/unwrap/lift
// matrix to its arguments and — only when at least one argument needed
// lifting (always a def-context affair) — wrapping the rewritten call in
// a flow(...)/def(...) combinator, choosing def(...) exactly when the
// callee is itself declared def (spec §4.6).
func (l *Lowerer) lowerCall(callerPhase types.FuncPhase, n check.Call) (ir.Expr, error) {
	callee, err := l.lowerExpr(callerPhase, n.Callee)
	if err != nil {
		return nil, err
	}

	var params []types.FuncParam
	calleeIsDef := false
	if sig, ok := n.Callee.Type().(types.Function); ok {
		params = sig.Params
		calleeIsDef = sig.FuncPhase == types.Def
	}

	finals, lifted, err := l.planArguments(callerPhase, params, n.Args)
	if err != nil {
		return nil, err
	}

	call := ir.Call{ExprBase: ir.ExprBase{Type: n.Type()}, Callee: callee, Args: finals}
	if len(lifted) == 0 {
		return call, nil
	}
	return l.wrapLifted(n.Type(), lifted, call, calleeIsDef), nil
}

// unwrapChain implements the sig unwrap rule's "pushed through projection
// chains" clause (spec §4.6: "project(x, \"f\").get()" becomes
// "x.get().f"): rather than wrapping the whole field-access chain in a
// single outer FlowGet, walk down to the reactive root, FlowGet that, and
// rebuild the (now plain) field accesses on top of it.
func (l *Lowerer) unwrapChain(callerPhase types.FuncPhase, actual check.Expr) (ir.Expr, error) {
	fa, ok := actual.(check.FieldAccess)
	if !ok {
		v, err := l.lowerExpr(callerPhase, actual)
		if err != nil {
			return nil, err
		}
		return ir.FlowGet{ExprBase: ir.ExprBase{Type: actual.Type()}, Value: v}, nil
	}
	base, err := l.unwrapChain(callerPhase, fa.Base)
	if err != nil {
		return nil, err
	}
	return ir.Access{ExprBase: ir.ExprBase{Type: fa.Type()}, Base: base, Name: fa.Name}, nil
}

// projectionizeChain implements the def var-parameter rule (spec §4.6:
// "rebuilt as projection(root, getter, setter) pipelines so they remain
// writable") and, identically, a reassignment target's cascade: a
// field-access chain whose base is itself reactive becomes a Projection
// wrapping the (recursively projectionized) base, with a getter reading
// the field back out and a setter producing the Update spec's §4.6 "writes
// back to the root" describes. A non-reactive base, or a non-chain actual
// (a bare Ident already naming a var), passes through unchanged.
func (l *Lowerer) projectionizeChain(callerPhase types.FuncPhase, actual check.Expr) (ir.Expr, error) {
	fa, ok := actual.(check.FieldAccess)
	if !ok {
		return l.lowerExpr(callerPhase, actual)
	}
	base, err := l.projectionizeChain(callerPhase, fa.Base)
	if err != nil {
		return nil, err
	}
	if fa.Base.PhaseOf() != types.Var && fa.Base.PhaseOf() != types.Flow {
		return ir.Access{ExprBase: ir.ExprBase{Type: fa.Type()}, Base: base, Name: fa.Name}, nil
	}

	rootType := fa.Base.Type()
	getter := ir.Lambda{
		ExprBase: ir.ExprBase{Type: fa.Type()},
		Params:   []string{"v"},
		Body:     ir.Access{ExprBase: ir.ExprBase{Type: fa.Type()}, Base: ir.Ident{ExprBase: ir.ExprBase{Type: rootType}, Name: "v"}, Name: fa.Name},
	}
	setter := ir.Lambda{
		ExprBase: ir.ExprBase{Type: rootType},
		Params:   []string{"v", "nv"},
		Body: ir.Update{
			ExprBase: ir.ExprBase{Type: rootType},
			Base:     ir.Ident{ExprBase: ir.ExprBase{Type: rootType}, Name: "v"},
			Name:     fa.Name,
			Value:    ir.Ident{ExprBase: ir.ExprBase{Type: fa.Type()}, Name: "nv"},
		},
	}
	return ir.Projection{ExprBase: ir.ExprBase{Type: fa.Type()}, Root: base, Getter: getter, Setter: setter}, nil
}
