package types

import "github.com/fluxlang/fluxc/internal/symbol"

// Substitution maps a TypeParameter's symbol to its resolved Type.
type Substitution map[string]Type // keyed by symbol.Symbol.Key()

// Substitute replaces every TypeParameter in t found in sub with its bound
// Type, recursing through Parameterized, Function, and Overload shapes.
// Struct/Tuple/Atom/Enum/Protocol/Module/Nominal/Nothing carry no free type
// parameters of their own at this level (their parameters are only in
// scope via an enclosing Parameterized use), so they pass through
// unchanged.
func Substitute(t Type, sub Substitution) Type {
	if len(sub) == 0 {
		return t
	}
	switch v := t.(type) {
	case TypeParameter:
		if repl, ok := sub[v.Sym.Key()]; ok {
			return repl
		}
		return v
	case Parameterized:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, sub)
		}
		return Parameterized{Base: v.Base, Args: args}
	case Function:
		params := make([]FuncParam, len(v.Params))
		for i, p := range v.Params {
			params[i] = FuncParam{Type: Substitute(p.Type, sub), Phase: p.Phase, HasPhase: p.HasPhase}
		}
		return Function{
			FuncPhase:  v.FuncPhase,
			TypeParams: v.TypeParams,
			Params:     params,
			Result:     Substitute(v.Result, sub),
		}
	case Overload:
		branches := make([]Function, len(v.Branches))
		for i, b := range v.Branches {
			branches[i] = Substitute(b, sub).(Function)
		}
		return Overload{Branches: branches}
	default:
		return t
	}
}

// Unify walks expected/actual in parallel, recording actual wherever
// expected names one of the type parameters in params (spec §4.4.4,
// "recursiveGenericsLookup"). Non-matching shapes silently contribute
// nothing; the final assignability pass (done by the caller) catches
// those. candidates accumulates Type lists keyed by symbol.Key(), in case
// the same parameter is unified more than once (merged later by the
// caller via MergeAll).
func Unify(params []symbol.Symbol, expected, actual Type, candidates map[string][]Type) {
	if tp, ok := expected.(TypeParameter); ok {
		for _, p := range params {
			if p.Equals(tp.Sym) {
				candidates[p.Key()] = append(candidates[p.Key()], actual)
				return
			}
		}
		return
	}
	switch ev := expected.(type) {
	case Parameterized:
		av, ok := actual.(Parameterized)
		if !ok || len(ev.Args) != len(av.Args) {
			return
		}
		for i := range ev.Args {
			Unify(params, ev.Args[i], av.Args[i], candidates)
		}
	case Function:
		av, ok := actual.(Function)
		if !ok || len(ev.Params) != len(av.Params) {
			return
		}
		for i := range ev.Params {
			Unify(params, ev.Params[i].Type, av.Params[i].Type, candidates)
		}
		Unify(params, ev.Result, av.Result, candidates)
	}
}

// IsParam reports whether sym appears in params, used by callers building
// a Substitution from resolved candidates.
func IsParam(params []symbol.Symbol, sym symbol.Symbol) bool {
	for _, p := range params {
		if p.Equals(sym) {
			return true
		}
	}
	return false
}
