package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/qualifier"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// FuncScope is shared by every nested block scope within one function body
// (spec §4.4.1): the function's own symbol/module/phase, its mutable
// result-type accumulator (merged across every `return`), and the set of
// names closed over from an outer function's scope.
type FuncScope struct {
	Sym        symbol.Symbol
	Module     symbol.Symbol
	TypeParams []symbol.Symbol
	Phase      types.FuncPhase
	Result     types.Type
	Closure    map[string]types.Phase
}

type binding struct {
	Type  types.Type
	Phase types.Phase
	Pos   ast.Pos
}

// Scope is one stack frame of the checker's lexical environment.
type Scope struct {
	parent    *Scope
	bindings  map[string]binding
	qualifier qualifier.LocalMap
	fn        *FuncScope
	protocols []symbol.Symbol
}

// NewRootScope builds the outermost scope for one file: its local name map
// (from qualifier.BuildFileMap) and the protocols visible in that file.
func NewRootScope(locals qualifier.LocalMap, protocols []symbol.Symbol) *Scope {
	return &Scope{
		bindings:  make(map[string]binding),
		qualifier: locals,
		protocols: protocols,
	}
}

// child inherits everything from s with a fresh, empty bindings map.
func (s *Scope) child() *Scope {
	return &Scope{
		parent:    s,
		bindings:  make(map[string]binding),
		qualifier: s.qualifier,
		fn:        s.fn,
		protocols: s.protocols,
	}
}

// childSelf opens a scope for an impl/protocol body, adding a `Self`
// binding to the qualifier so type expressions can name the base type
// (spec §4.4.1).
func (s *Scope) childSelf(typeSym symbol.Symbol) *Scope {
	c := s.child()
	locals := make(qualifier.LocalMap, len(s.qualifier)+1)
	for k, v := range s.qualifier {
		locals[k] = v
	}
	locals["Self"] = typeSym
	c.qualifier = locals
	return c
}

// childFunction opens a fresh function-scope: a new block scope whose fn
// pointer is unique, so Scope.get can detect cross-function capture.
func (s *Scope) childFunction(sym, module symbol.Symbol, typeParams []symbol.Symbol, result types.Type, phase types.FuncPhase) *Scope {
	c := s.child()
	c.fn = &FuncScope{
		Sym:        sym,
		Module:     module,
		TypeParams: typeParams,
		Phase:      phase,
		Result:     result,
		Closure:    make(map[string]types.Phase),
	}
	return c
}

// get walks parent scopes looking for name. If the binding is found in an
// ancestor scope belonging to a different function-scope than s's own, the
// name is recorded in s's closure set; when s's function is `fun` and the
// closed-over value is reactive (`var`/`flow`), the phase seen by the
// caller is demoted to `val` (the function captures a value snapshot,
// spec §4.4.1/§4.4.5).
func (s *Scope) get(name string) (binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			if s.fn != nil && cur.fn != s.fn {
				phase := b.Phase
				if s.fn.Phase == types.Fun && (phase == types.Var || phase == types.Flow) {
					phase = types.Val
				}
				s.fn.Closure[name] = phase
				b.Phase = phase
			}
			return b, true
		}
	}
	return binding{}, false
}

// set binds name in the current scope frame.
func (s *Scope) set(name string, b binding) {
	s.bindings[name] = b
}

// qualifyType resolves a parse-level type expression using this scope's
// qualifier map and the enclosing function's type parameters.
func (s *Scope) qualifyType(te ast.TypeExpr) (types.Type, error) {
	var generics qualifier.Generics
	if s.fn != nil && len(s.fn.TypeParams) > 0 {
		generics = make(qualifier.Generics, len(s.fn.TypeParams))
		for _, tp := range s.fn.TypeParams {
			generics[tp.Name()] = tp
		}
	}
	return qualifier.QualifyType(te, s.qualifier, generics)
}
