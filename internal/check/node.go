// Package check implements the Type & Phase Checker (spec §4.4): the
// bidirectional, phase-threading pass that turns a parse-level ast.File
// into a checked tree where every node carries a position, a resolved
// types.Type, and a types.Phase.
//
// Grounded on the teacher's internal/types/typechecker_core.go
// check(expr, expected Type) (Type, error) shape, generalized to thread a
// types.Phase alongside Type at every node the way
// internal/types/typechecker_functions.go threads an effect row.
package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Expr is a checked expression node: every node carries position, checked
// type, and checked phase (spec §3.4).
type Expr interface {
	Position() ast.Pos
	Type() types.Type
	PhaseOf() types.Phase
}

type base struct {
	Pos   ast.Pos
	Typ   types.Type
	Phase types.Phase
}

func (b base) Position() ast.Pos    { return b.Pos }
func (b base) Type() types.Type     { return b.Typ }
func (b base) PhaseOf() types.Phase { return b.Phase }

func newBase(pos ast.Pos, t types.Type, p types.Phase) base {
	return base{Pos: pos, Typ: t, Phase: p}
}

// IntLit, FloatLit, BoolLit, StringLit are literal leaves; their phase is
// always Const (spec §3.4 leaves).
type IntLit struct {
	base
	Value int64
}

type FloatLit struct {
	base
	Value float64
}

type BoolLit struct {
	base
	Value bool
}

type StringLit struct {
	base
	Value string
}

// NoOpLit is the empty/no-value literal (spec §3.4 leaves).
type NoOpLit struct{ base }

// Ident is a resolved local-variable reference.
type Ident struct {
	base
	Name string
}

// StaticReference is a resolved dotted path terminating in a table entry
// (spec §4.4.7): a constant, function, data type, or enum variant reached
// by name rather than through a value.
type StaticReference struct {
	base
	Sym       symbol.Symbol
	Declaring symbol.Symbol
}

// ListLit, SetLit are homogeneous collection literals; MapLit pairs keys
// and values.
type ListLit struct {
	base
	Elements []Expr
}

type SetLit struct {
	base
	Elements []Expr
}

type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	base
	Entries []MapEntry
}

// IsExpr is a type test (`value is Type`); always yields Bool at Const
// phase joined with its operand's phase.
type IsExpr struct {
	base
	Value  Expr
	Target types.Type
}

type NotExpr struct {
	base
	Value Expr
}

type AndExpr struct {
	base
	Left  Expr
	Right Expr
}

type OrExpr struct {
	base
	Left  Expr
	Right Expr
}

// FieldAccess covers both instance field access and one segment of a
// static access path; the checker disambiguates by whether Base resolved
// to a value or a Module (spec §4.4.7).
type FieldAccess struct {
	base
	Base Expr
	Name string
}

// ConstructField is one `name: value` pair in a Construct expression.
type ConstructField struct {
	Name  string
	Value Expr
}

// Construct builds a value of a Struct/Tuple/Atom/Enum-variant type.
type Construct struct {
	base
	Fields []ConstructField
}

// Call is a function/method/tuple-constructor invocation, already rewritten
// from method-call parse form where applicable (spec §4.4.6).
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

// LambdaParam is one lambda parameter with its (possibly inferred) type.
type LambdaParam struct {
	Name string
	Type types.Type
}

type Lambda struct {
	base
	Params []LambdaParam
	Body   Expr
}

type Block struct {
	base
	Stmts  []Stmt
	Result Expr
}

// If's Else is nil when the parse form had no else branch (spec §4.4.9:
// yields Option<T> in that case).
type If struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

type Return struct {
	base
	Value Expr
}

// Stmt is a checked statement node.
type Stmt interface {
	Position() ast.Pos
}

type stmtBase struct {
	Pos ast.Pos
}

func (s stmtBase) Position() ast.Pos { return s.Pos }

type ExprStmt struct {
	stmtBase
	Expr Expr
}

// Assignment introduces a new binding at a checked phase (spec §3.4, §4.4.5).
type Assignment struct {
	stmtBase
	Name  string
	Phase types.Phase
	Type  types.Type
	Value Expr
}

// Reassignment writes into an existing `var` binding, possibly through a
// chain of field accesses (spec §3.4, §4.4.5).
type Reassignment struct {
	stmtBase
	Target Expr
	Value  Expr
}

// FunctionStmt is a function declared locally inside a block.
type FunctionStmt struct {
	stmtBase
	Name   string
	Sym    symbol.Symbol
	Lambda Lambda
}
