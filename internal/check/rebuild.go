package check

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// This file exports one constructor per checked node kind, for the sole
// benefit of internal/transform's generic tree walker: a transform pass
// runs after checking and must be able to rebuild a node of the same kind
// around rewritten children (spec §4.5, "rewrites must preserve node
// kind") without reaching into the unexported base/stmtBase fields that
// hold each node's already-computed position, type, and phase.

func NewIntLit(pos ast.Pos, t types.Type, phase types.Phase, value int64) IntLit {
	return IntLit{base: newBase(pos, t, phase), Value: value}
}

func NewFloatLit(pos ast.Pos, t types.Type, phase types.Phase, value float64) FloatLit {
	return FloatLit{base: newBase(pos, t, phase), Value: value}
}

func NewBoolLit(pos ast.Pos, t types.Type, phase types.Phase, value bool) BoolLit {
	return BoolLit{base: newBase(pos, t, phase), Value: value}
}

func NewStringLit(pos ast.Pos, t types.Type, phase types.Phase, value string) StringLit {
	return StringLit{base: newBase(pos, t, phase), Value: value}
}

func NewNoOpLit(pos ast.Pos, t types.Type, phase types.Phase) NoOpLit {
	return NoOpLit{base: newBase(pos, t, phase)}
}

func NewIdent(pos ast.Pos, t types.Type, phase types.Phase, name string) Ident {
	return Ident{base: newBase(pos, t, phase), Name: name}
}

func NewStaticReference(pos ast.Pos, t types.Type, sym, declaring symbol.Symbol) StaticReference {
	return StaticReference{base: newBase(pos, t, types.Const), Sym: sym, Declaring: declaring}
}

func NewListLit(pos ast.Pos, t types.Type, phase types.Phase, elems []Expr) ListLit {
	return ListLit{base: newBase(pos, t, phase), Elements: elems}
}

func NewSetLit(pos ast.Pos, t types.Type, phase types.Phase, elems []Expr) SetLit {
	return SetLit{base: newBase(pos, t, phase), Elements: elems}
}

func NewMapLit(pos ast.Pos, t types.Type, phase types.Phase, entries []MapEntry) MapLit {
	return MapLit{base: newBase(pos, t, phase), Entries: entries}
}

func NewIsExpr(pos ast.Pos, t types.Type, phase types.Phase, value Expr, target types.Type) IsExpr {
	return IsExpr{base: newBase(pos, t, phase), Value: value, Target: target}
}

func NewNotExpr(pos ast.Pos, t types.Type, phase types.Phase, value Expr) NotExpr {
	return NotExpr{base: newBase(pos, t, phase), Value: value}
}

func NewAndExpr(pos ast.Pos, t types.Type, phase types.Phase, left, right Expr) AndExpr {
	return AndExpr{base: newBase(pos, t, phase), Left: left, Right: right}
}

func NewOrExpr(pos ast.Pos, t types.Type, phase types.Phase, left, right Expr) OrExpr {
	return OrExpr{base: newBase(pos, t, phase), Left: left, Right: right}
}

func NewFieldAccess(pos ast.Pos, t types.Type, phase types.Phase, base Expr, name string) FieldAccess {
	return FieldAccess{base: newBase(pos, t, phase), Base: base, Name: name}
}

func NewConstruct(pos ast.Pos, t types.Type, phase types.Phase, fields []ConstructField) Construct {
	return Construct{base: newBase(pos, t, phase), Fields: fields}
}

func NewCall(pos ast.Pos, t types.Type, phase types.Phase, callee Expr, args []Expr) Call {
	return Call{base: newBase(pos, t, phase), Callee: callee, Args: args}
}

func NewLambda(pos ast.Pos, t types.Type, phase types.Phase, params []LambdaParam, body Expr) Lambda {
	return Lambda{base: newBase(pos, t, phase), Params: params, Body: body}
}

func NewBlock(pos ast.Pos, stmts []Stmt, result Expr) Block {
	resultType := types.Type(types.Nothing{})
	resultPhase := types.Const
	if result != nil {
		resultType = result.Type()
		resultPhase = result.PhaseOf()
	}
	return Block{base: newBase(pos, resultType, resultPhase), Stmts: stmts, Result: result}
}

func NewIf(pos ast.Pos, t types.Type, phase types.Phase, cond, then, els Expr) If {
	return If{base: newBase(pos, t, phase), Cond: cond, Then: then, Else: els}
}

func NewReturn(pos ast.Pos, t types.Type, phase types.Phase, value Expr) Return {
	return Return{base: newBase(pos, t, phase), Value: value}
}

// LiftedReturn builds the Return node the return-lifting transform wraps
// a function's trailing expression in: Nothing-typed, phase inherited
// from value, position inherited from value since no explicit `return`
// keyword exists in the source to anchor it to (spec §4.5).
func LiftedReturn(value Expr) Return {
	return NewReturn(value.Position(), types.Nothing{}, value.PhaseOf(), value)
}

func NewExprStmt(pos ast.Pos, e Expr) ExprStmt {
	return ExprStmt{stmtBase: stmtBase{Pos: pos}, Expr: e}
}

func NewAssignment(pos ast.Pos, name string, phase types.Phase, t types.Type, value Expr) Assignment {
	return Assignment{stmtBase: stmtBase{Pos: pos}, Name: name, Phase: phase, Type: t, Value: value}
}

func NewReassignment(pos ast.Pos, target, value Expr) Reassignment {
	return Reassignment{stmtBase: stmtBase{Pos: pos}, Target: target, Value: value}
}

func NewFunctionStmt(pos ast.Pos, name string, sym symbol.Symbol, lambda Lambda) FunctionStmt {
	return FunctionStmt{stmtBase: stmtBase{Pos: pos}, Name: name, Sym: sym, Lambda: lambda}
}
