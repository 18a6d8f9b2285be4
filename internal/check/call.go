package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/importcheck"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// checkCall implements §4.4.6's Call rule: method-call rewriting, equality
// special-casing, tuple-constructor calls, and the ordinary function-call
// path, all feeding into the §4.4.4 generic-inference algorithm and the
// §4.4.5 phase-resolution rules.
func (c *Checker) checkCall(scope *Scope, e ast.Call, expected types.Type) (Expr, error) {
	if rewritten, ok, err := c.tryMethodCall(scope, e); err != nil {
		return nil, err
	} else if ok {
		return rewritten, nil
	}

	if name, ok := equalityOperator(e); ok {
		return c.checkEqualityCall(scope, e, name)
	}

	callee, err := c.CheckExpr(scope, e.Callee, nil)
	if err != nil {
		return nil, err
	}

	sig, err := callable(e.Position(), callee.Type())
	if err != nil {
		return nil, err
	}
	candidates := []types.Function{sig}
	if ov, ok := callee.Type().(types.Overload); ok {
		candidates = ov.Branches
	}

	var firstErr error
	for _, sig := range candidates {
		args, _, result, err := c.genericCall(scope, e.Position(), sig.TypeParams, sig.Params, sig.Result, e.Args, e.TypeArgs)
		if err == nil {
			var phase types.Phase
			if phase, err = c.resolveCallPhase(scope, e.Position(), sig, args); err == nil {
				return Call{base: newBase(e.Position(), result, phase), Callee: callee, Args: args}, nil
			}
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// callable extracts a callable Function signature from t: a Function
// directly, the first branch of an Overload (checkCall then tries every
// branch in order and keeps the first one the arguments fit), or a Tuple's
// implicit constructor signature.
func callable(pos ast.Pos, t types.Type) (types.Function, error) {
	switch v := t.(type) {
	case types.Function:
		return v, nil
	case types.Overload:
		if len(v.Branches) == 0 {
			return types.Function{}, errors.Wrap(errors.New("check", errors.TYP006, toPos(pos), "empty overload set"))
		}
		return v.Branches[0], nil
	case types.Tuple:
		params := make([]types.FuncParam, len(v.Elements))
		for i, el := range v.Elements {
			params[i] = types.FuncParam{Type: el}
		}
		return types.Function{FuncPhase: types.Fun, TypeParams: v.TypeParams, Params: params, Result: v}, nil
	default:
		return types.Function{}, errors.Wrap(errors.New("check", errors.TYP006, toPos(pos),
			"%s is not callable", t.String()))
	}
}

// tryMethodCall rewrites base.m(args...) into a static call to the
// resolved impl method with base prepended to the argument list, per
// §4.4.6. Returns ok=false (no error) when the callee isn't a field access,
// or when no visible method resolves, so the caller falls back to ordinary
// field-access + call checking.
func (c *Checker) tryMethodCall(scope *Scope, e ast.Call) (Expr, bool, error) {
	fa, ok := e.Callee.(ast.FieldAccess)
	if !ok {
		return nil, false, nil
	}
	if _, isStatic := staticPath(fa); isStatic {
		if _, isLocal := scope.get(rootName(fa)); !isLocal {
			return nil, false, nil
		}
	}

	base, err := c.CheckExpr(scope, fa.Base, nil)
	if err != nil {
		return nil, false, nil
	}
	baseSym, ok := headSymbol(base.Type())
	if !ok {
		return nil, false, nil
	}

	method, found := c.Tables.Method(baseSym, fa.Name)
	if !found {
		for _, proto := range scope.protocols {
			implSym, hasImpl := c.Tables.ProtocolImpl(baseSym, proto)
			if !hasImpl {
				continue
			}
			if m, hasMethod := c.Tables.Method(implSym, fa.Name); hasMethod {
				method, found = m, true
				break
			}
		}
		if !found {
			return nil, false, nil
		}
	}
	if !importcheck.Visible(method.Access, method.Declaring, scope.currentModule(), method.Sym) {
		return nil, false, nil
	}

	sig := method.Type
	allArgs := append([]ast.Expr{fa.Base}, e.Args...)
	args, _, result, err := c.genericCall(scope, e.Position(), sig.TypeParams, sig.Params, sig.Result, allArgs, e.TypeArgs)
	if err != nil {
		return nil, false, err
	}
	phase, err := c.resolveCallPhase(scope, e.Position(), sig, args)
	if err != nil {
		return nil, false, err
	}
	callee := StaticReference{base: newBase(e.Position(), types.Type(sig), types.Const), Sym: method.Sym, Declaring: method.Declaring}
	return Call{base: newBase(e.Position(), result, phase), Callee: callee, Args: args}, true, nil
}

func rootName(fa ast.FieldAccess) string {
	cur := ast.Expr(fa)
	for {
		f, ok := cur.(ast.FieldAccess)
		if !ok {
			break
		}
		cur = f.Base
	}
	if id, ok := cur.(ast.Ident); ok {
		return id.Name
	}
	return ""
}

func headSymbol(t types.Type) (symbol.Symbol, bool) {
	switch v := t.(type) {
	case types.Nominal:
		return v.Sym, true
	case types.Parameterized:
		return v.Base.Sym, true
	case types.Struct:
		return v.Sym, true
	case types.Tuple:
		return v.Sym, true
	case types.Atom:
		return v.Sym, true
	case types.Enum:
		return v.Sym, true
	default:
		return symbol.Symbol{}, false
	}
}

// equalityOperator recognizes a call through the == / != operator symbols,
// special-cased per §4.4.6: checked against any pair of overlapping types,
// dispatch deferred to the runtime.
func equalityOperator(e ast.Call) (string, bool) {
	id, ok := e.Callee.(ast.Ident)
	if !ok {
		return "", false
	}
	if id.Name == "==" || id.Name == "!=" {
		return id.Name, true
	}
	return "", false
}

func (c *Checker) checkEqualityCall(scope *Scope, e ast.Call, name string) (Expr, error) {
	if len(e.Args) != 2 {
		return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(e.Position()),
			"equality requires exactly two operands"))
	}
	l, err := c.CheckExpr(scope, e.Args[0], nil)
	if err != nil {
		return nil, err
	}
	r, err := c.CheckExpr(scope, e.Args[1], nil)
	if err != nil {
		return nil, err
	}
	if !types.Assignable(c.resolver(), l.Type(), r.Type()) && !types.Assignable(c.resolver(), r.Type(), l.Type()) {
		return nil, errors.Wrap(errors.New("check", errors.TYP001, toPos(e.Position()),
			"operands of %s have no overlapping type: %s and %s", name, l.Type().String(), r.Type().String()))
	}
	callee, err := c.CheckExpr(scope, e.Callee, nil)
	if err != nil {
		sym, ok := scope.qualifier[name]
		if !ok {
			return nil, err
		}
		sig := types.Function{FuncPhase: types.Fun, Params: []types.FuncParam{{Type: l.Type()}, {Type: r.Type()}}, Result: boolType(scope)}
		callee = StaticReference{base: newBase(e.Position(), sig, types.Const), Sym: sym, Declaring: sym.Parent()}
	}
	return Call{
		base:   newBase(e.Position(), boolType(scope), types.Join(l.PhaseOf(), r.PhaseOf())),
		Callee: callee,
		Args:   []Expr{l, r},
	}, nil
}

// resolveCallPhase implements §4.4.5's per-argument contribution table
// followed by the enclosing function-phase modulation rule.
func (c *Checker) resolveCallPhase(scope *Scope, pos ast.Pos, sig types.Function, args []Expr) (types.Phase, error) {
	contributions := make([]types.Phase, len(args))
	for i, a := range args {
		var expectedPhase types.Phase
		hasExpected := false
		if i < len(sig.Params) {
			expectedPhase = sig.Params[i].Phase
			hasExpected = sig.Params[i].HasPhase
		}
		contributed, ok := types.ArgumentPhaseContribution(a.PhaseOf(), expectedPhase, hasExpected)
		if !ok {
			return types.Const, errors.Wrap(errors.New("check", errors.PHA004, toPos(pos),
				"argument %d phase %s incompatible with expected phase %s", i, a.PhaseOf(), expectedPhase))
		}
		contributions[i] = contributed
	}
	insideSig := scope.fn != nil && scope.fn.Phase == types.Sig
	return types.ResolveCallPhase(callerPhase(scope), contributions, insideSig), nil
}

func callerPhase(scope *Scope) types.FuncPhase {
	if scope.fn == nil {
		return types.Fun
	}
	return scope.fn.Phase
}

func (s *Scope) currentModule() symbol.Symbol {
	if s.fn != nil {
		return s.fn.Module
	}
	return symbol.Symbol{}
}
