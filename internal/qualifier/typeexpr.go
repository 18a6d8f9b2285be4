package qualifier

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Generics is the set of generic parameter names in scope for the
// enclosing declaration, mapped to the symbol each one is registered
// under (owner.Child(paramName), spec §4.2).
type Generics map[string]symbol.Symbol

// QualifyType resolves a parse-level type expression to a checked
// types.Type (spec §4.1). generics gives the symbol each in-scope generic
// parameter name was registered under.
func QualifyType(te ast.TypeExpr, locals LocalMap, generics Generics) (types.Type, error) {
	switch t := te.(type) {
	case ast.NamedType:
		name := NormalizeIdent(t.Name)
		if sym, ok := generics[name]; ok {
			return types.TypeParameter{Sym: sym}, nil
		}
		sym, ok := locals[name]
		if !ok {
			return nil, notFound(t.Name, t.Position())
		}
		return types.Nominal{Sym: sym}, nil

	case ast.DottedType:
		if len(t.Parts) == 0 {
			return nil, notFound("", t.Position())
		}
		sym, ok := locals[NormalizeIdent(t.Parts[0])]
		if !ok {
			return nil, notFound(t.Parts[0], t.Position())
		}
		for _, seg := range t.Parts[1:] {
			sym = sym.Child(seg)
		}
		return types.Nominal{Sym: sym}, nil

	case ast.ParamType:
		base, err := QualifyType(t.Base, locals, generics)
		if err != nil {
			return nil, err
		}
		baseNom, ok := base.(types.Nominal)
		if !ok {
			return nil, errors.Wrap(errors.New("qualifier", "QUA002", toPos(t.Position()),
				"parameterized type base must resolve to a nominal type, got %s", base.String()))
		}
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			qa, err := QualifyType(a, locals, generics)
			if err != nil {
				return nil, err
			}
			args[i] = qa
		}
		return types.Parameterized{Base: baseNom, Args: args}, nil

	case ast.FuncType:
		params := make([]types.FuncParam, len(t.Params))
		for i, p := range t.Params {
			pt, err := QualifyType(p.Type, locals, generics)
			if err != nil {
				return nil, err
			}
			phase, has := annotationToPhase(p.Phase)
			params[i] = types.FuncParam{Type: pt, Phase: phase, HasPhase: has}
		}
		result, err := QualifyType(t.Result, locals, generics)
		if err != nil {
			return nil, err
		}
		var typeParams []symbol.Symbol
		for _, tp := range t.TypeParams {
			if sym, ok := generics[tp]; ok {
				typeParams = append(typeParams, sym)
			}
		}
		return types.Function{
			FuncPhase:  funcPhaseOf(t.Phase),
			TypeParams: typeParams,
			Params:     params,
			Result:     result,
		}, nil

	default:
		return nil, errors.Wrap(errors.New("qualifier", "QUA001", toPos(te.Position()),
			"unrecognized type expression"))
	}
}

func notFound(name string, pos ast.Pos) error {
	return errors.Wrap(errors.New("qualifier", "QUA001", toPos(pos), "unknown type name %q", name))
}

func annotationToPhase(a ast.ExprPhaseAnnotation) (types.Phase, bool) {
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

// NewGenericsScope registers each type parameter name under
// owner.Child(name), matching spec §4.2's "register each generic type
// parameter as a TypeParameter entry under owner.child(param-name)".
func NewGenericsScope(owner symbol.Symbol, names []string) Generics {
	g := make(Generics, len(names))
	for _, n := range names {
		g[n] = owner.Child(n)
	}
	return g
}
