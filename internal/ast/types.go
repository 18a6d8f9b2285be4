package ast

// TypeExpr is a parse-level type expression: every name in it is an
// unresolved string. internal/qualifier turns these into fully qualified
// internal/types.Type values (spec §4.1).
type TypeExpr interface {
	Node
	typeExpr()
}

type typeExprBase struct {
	Pos Pos
}

func (t typeExprBase) Position() Pos { return t.Pos }

// NamedType is a single identifier, e.g. "Int" or a generic parameter name.
type NamedType struct {
	typeExprBase
	Name string
}

func (NamedType) typeExpr() {}

// DottedType is a chain like A::B::C.
type DottedType struct {
	typeExprBase
	Parts []string
}

func (DottedType) typeExpr() {}

// ParamType is a Nominal base plus ordered type arguments: Base<Args...>.
type ParamType struct {
	typeExprBase
	Base TypeExpr
	Args []TypeExpr
}

func (ParamType) typeExpr() {}

// FuncParamType is one parameter of a FuncType: a type plus an optional
// phase annotation.
type FuncParamType struct {
	Type  TypeExpr
	Phase ExprPhaseAnnotation
}

// FuncType is fn{params -> result}, with a function-phase and optional
// type parameters (used for generic function-typed fields/parameters).
type FuncType struct {
	typeExprBase
	Phase      FuncPhase
	TypeParams []string
	Params     []FuncParamType
	Result     TypeExpr
}

func (FuncType) typeExpr() {}
