package ast

import "github.com/fluxlang/fluxc/internal/symbol"

// declBase gives top-level declaration nodes a Position() without pulling
// in the Stmt/Expr marker methods.
type declBase struct {
	Pos Pos
}

func (d declBase) Position() Pos { return d.Pos }

// ImportDecl is a package reference plus an import expression tree (spec
// §3.5, §4.1). PackageAlias names the dependency-manager alias the import
// is rooted at (e.g. "self" or an external package alias).
type ImportDecl struct {
	declBase
	PackageAlias string
	Tree         symbol.ImportExpr
}

// Param is one function parameter: a name, declared type, and optional
// phase annotation (spec §3.2 Function: "each parameter carries an optional
// expression-phase annotation").
type Param struct {
	Name  string
	Type  TypeExpr
	Phase ExprPhaseAnnotation
}

// ConstDecl is a top-level constant declaration.
type ConstDecl struct {
	declBase
	Access   AccessLevel
	Name     string
	Type     TypeExpr
	Value    Expr
	External bool
}

// FunctionDecl is a top-level (or impl/local) function declaration. Body is
// nil when External is set; ExternalName then names the runtime-provided
// implementation the lowerer links to (spec §3.5, §6.1).
type FunctionDecl struct {
	declBase
	Access       AccessLevel
	Name         string
	Phase        FuncPhase
	TypeParams   []string
	Params       []Param
	Result       TypeExpr
	Body         *Block
	External     bool
	ExternalName string
}

// FieldDecl is one field of a Struct layout.
type FieldDecl struct {
	Name string
	Type TypeExpr
}

// DataLayoutKind distinguishes the three data layout shapes (spec §3.2).
type DataLayoutKind int

const (
	LayoutStruct DataLayoutKind = iota
	LayoutTuple
	LayoutAtom
)

// DataLayout is the parse-level shape of a Data/Enum-variant body.
type DataLayout struct {
	Kind     DataLayoutKind
	Fields   []FieldDecl // Struct: named fields, ordered
	Elements []TypeExpr  // Tuple: positional field types
}

// DataDecl declares a Struct/Tuple/Atom type, optionally tagged as a
// variant of an enclosing enum (EnumTag != "").
type DataDecl struct {
	declBase
	Access     AccessLevel
	Name       string
	TypeParams []string
	Layout     DataLayout
	EnumTag    string // name of the owning enum, or "" if not a variant
}

// EnumVariant is one named variant of an EnumDecl.
type EnumVariant struct {
	Name   string
	Layout DataLayout
}

// EnumDecl declares a sum type as an ordered list of variants.
type EnumDecl struct {
	declBase
	Access     AccessLevel
	Name       string
	TypeParams []string
	Variants   []EnumVariant
}

// MethodSig is a protocol method signature: no body, just shape.
type MethodSig struct {
	Name       string
	TypeParams []string
	Params     []Param
	Result     TypeExpr
}

// ProtocolDecl declares a trait-like interface.
type ProtocolDecl struct {
	declBase
	Access     AccessLevel
	Name       string
	TypeParams []string
	Methods    []MethodSig
}

// ImplDecl attaches methods (and optionally a protocol conformance) to a
// base data type.
type ImplDecl struct {
	declBase
	TypeParams []string
	Base       TypeExpr
	Protocol   TypeExpr // nil for an inherent impl with no protocol
	Methods    []*FunctionDecl
}
