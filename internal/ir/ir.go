// Package ir defines the target-agnostic reactive IR that internal/lower
// produces (spec §4.6, §6.2): three layers — expressions (pure values),
// statements (sequencing and mutation), and declarations (module-level) —
// plus the explicit reactive primitives (Singleton, Variable, Projection,
// Flow, Def, FlowGet) the lowering pass inserts at phase boundaries.
//
// Grounded on the teacher's internal/core/core.go: a CoreNode base embedded
// (and fully exported, unlike internal/check's node set) by every node, a
// closed CoreExpr interface, and one Go struct per Core construct. Unlike
// Core, this IR is not ANF: lowering keeps ordinary nesting. It emits a
// Block{Stmts, Result} for a source block and for the body it builds around
// a lifted return; an if used as an expression stays a nested If and is not
// flattened into a Block with a temporary.
package ir

import (
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Expr is the closed sum of IR expression kinds.
type Expr interface {
	TypeOf() types.Type
	irExpr()
}

// Stmt is the closed sum of IR statement kinds.
type Stmt interface {
	irStmt()
}

type ExprBase struct{ Type types.Type }

func (b ExprBase) TypeOf() types.Type { return b.Type }
func (ExprBase) irExpr()              {}

// Atoms

type IntLit struct {
	ExprBase
	Value int64
}

type FloatLit struct {
	ExprBase
	Value float64
}

type BoolLit struct {
	ExprBase
	Value bool
}

type StringLit struct {
	ExprBase
	Value string
}

// NoOpLit is the IR counterpart of check.NoOpLit: the single Nothing/Unit value.
type NoOpLit struct{ ExprBase }

// Ident references a local binding by name (a function parameter, a
// let-bound temporary, or a name introduced by return-lifting/lowering).
type Ident struct {
	ExprBase
	Name string
}

// Global references a symbol defined at module scope, possibly in another
// file of the same package — the target of the lowerer's import collection.
type Global struct {
	ExprBase
	Sym symbol.Symbol
}

// Composite, non-reactive expressions

type ListLit struct {
	ExprBase
	Elements []Expr
}

type SetLit struct {
	ExprBase
	Elements []Expr
}

type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	ExprBase
	Entries []MapEntry
}

// ConstructField is one field initializer of a Construct.
type ConstructField struct {
	Name  string
	Value Expr
}

// Construct builds a struct, tuple, or enum-variant value.
type Construct struct {
	ExprBase
	Fields []ConstructField
}

// Access reads a field: struct field name, tuple position ("v0", "v1", ...),
// or enum variant payload, per spec §4.4.7 collapsed into one IR node since
// the distinction was only needed for checking, not for lowering.
type Access struct {
	ExprBase
	Base Expr
	Name string
}

// Call applies a callee to arguments; by the time lowering is done, Callee
// is always an already-resolved IR expression (Global, Ident, or another
// Call/Access chain) — no further method-resolution logic remains.
type Call struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// Lambda is a function value: used for ordinary lambda literals and as the
// compute/getter/setter closures a reactive wrap constructs.
type Lambda struct {
	ExprBase
	Params []string
	Body   Expr
}

// If is a conditional expression. Lowering produces one in place for every
// checked if, wherever it appears; an if used as an expression is not
// rewritten into a Block that assigns a temporary.
type If struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr // nil when the source had no else (Option-producing)
}

// Block sequences statements and yields Result (nil for a unit-typed
// block). Lowering produces one for each checked block and for the
// one-statement body LowerFunction builds around a lifted return; it does
// not introduce Blocks with temporaries for if-expressions.
type Block struct {
	ExprBase
	Stmts  []Stmt
	Result Expr
}

// Reactive primitives (spec §5, §4.6)

// Singleton lifts an eager value into the signal world: a constant signal
// node, used when a const/val actual reaches a flow-expecting parameter.
type Singleton struct {
	ExprBase
	Value Expr
}

// Variable wraps an initializer as a writable signal cell: the lowering of
// `var x = init`.
type Variable struct {
	ExprBase
	Init Expr
}

// Projection is a writable view of Root via Getter/Setter closures,
// rebuilt by the lowerer so a field-access chain passed to a `var`
// parameter remains writable (spec §4.6: "projection(root, getter,
// setter) pipelines").
type Projection struct {
	ExprBase
	Root   Expr
	Getter Lambda
	Setter Lambda
}

// Flow is a cached derived computation over Sources, recomputed by Compute
// when dirty. Produced both for ordinary `flow(...)` combinator calls in
// source and for the lowerer's own def-argument lifting when the callee is
// not itself `def`.
type Flow struct {
	ExprBase
	Sources []Expr
	Compute Lambda
}

// Def is a Flow whose Compute itself yields a signal; lowering chooses Def
// over Flow for the lift-to-combinator strategy precisely when the callee
// being lifted is itself declared `def`.
type Def struct {
	ExprBase
	Sources []Expr
	Compute Lambda
}

// FlowGet unwraps a reactive value via `.get()`, pushed through projection
// chains per spec §4.6 ("project(x, \"f\").get()" becomes "x.get().f").
type FlowGet struct {
	ExprBase
	Value Expr
}

// Update is a non-destructive field write: Base with Name replaced by
// Value, yielding a new value of Base's type. It is the sole body shape
// the lowerer gives a Projection's Setter closure (spec §4.6: "propagates
// writes back to the root") — the setter never mutates Base in place, it
// describes how to build the updated value the Projection then stores.
type Update struct {
	ExprBase
	Base  Expr
	Name  string
	Value Expr
}

// Statements

type StmtBase struct{}

func (StmtBase) irStmt() {}

// ExprStmt evaluates Expr for effect, discarding its value.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// Let declares a new local binding. Reactive wrapping (Variable(...)) is
// already applied to Value by the lowerer before this node is built, so Let
// itself carries no phase information.
type Let struct {
	StmtBase
	Name  string
	Value Expr
}

// Reassign writes Value through a field chain ending in a `.set(value)`
// call on the root signal (spec §4.6: "a cascade of projections ending in
// a .set(value) call on the root signal"). Target is the original
// field-access chain; lowering of the cascade itself happens when this
// statement's Target is built, not when it is interpreted.
type Reassign struct {
	StmtBase
	Target Expr
	Value  Expr
}

// Return ends a function body with Value (NoOpLit{} when the source
// function's result type is Nothing).
type Return struct {
	StmtBase
	Value Expr
}
