// Package decl defines the checked declaration-header shapes (spec §3.5)
// and the global tables built from them (spec §3.6): a per-symbol table of
// declared types, a per-base-type method table, a protocol-implementation
// table, and external-binding records.
//
// Grounded on the teacher's internal/iface (per-module export interface)
// and internal/core.GlobalRef, generalized from AILANG's single
// symbol->scheme export map into the spec's four parallel tables.
package decl

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Import is a checked import declaration: the leaf symbols it brings into
// scope, already expanded by symbol.BreakdownImport.
type Import struct {
	Pos     ast.Pos
	Leaves  []symbol.Symbol
}

// Constant is a top-level constant declaration (spec §3.5).
type Constant struct {
	Access   ast.AccessLevel
	Sym      symbol.Symbol
	Type     types.Type
	Expr     ast.Expr
	External bool
	Pos      ast.Pos
}

// Function is a top-level (or impl) function declaration, signature plus
// unchecked body (the Type & Phase Checker fills in the checked body
// later; decl only needs the signature to populate the symbol table).
type Function struct {
	Access       ast.AccessLevel
	Sym          symbol.Symbol
	FuncPhase    types.FuncPhase
	TypeParams   []symbol.Symbol
	ParamNames   []string
	ParamTypes   []types.FuncParam
	Result       types.Type
	Body         *ast.Block // nil when External
	External     bool
	ExternalName string
	Pos          ast.Pos
}

// Signature builds this function's checked Function type.
func (f Function) Signature() types.Function {
	return types.Function{
		FuncPhase:  f.FuncPhase,
		TypeParams: f.TypeParams,
		Params:     f.ParamTypes,
		Result:     f.Result,
	}
}

// Data is a top-level Struct/Tuple/Atom declaration.
type Data struct {
	Access ast.AccessLevel
	Sym    symbol.Symbol
	Layout types.DataLayout
	Pos    ast.Pos
}

// Enum is a top-level enum declaration; its variants are separately
// registered in the symbol table (spec §4.2 "for Enum, register each
// variant layout as a separate entry").
type Enum struct {
	Access ast.AccessLevel
	Sym    symbol.Symbol
	Layout types.Enum
	Pos    ast.Pos
}

// Impl attaches methods (and optionally a protocol conformance) to a base
// type.
type Impl struct {
	Sym        symbol.Symbol // the impl block's own synthetic symbol
	TypeParams []symbol.Symbol
	Base       symbol.Symbol // the base type's head symbol
	Protocol   *symbol.Symbol
	Methods    []Function
	Pos        ast.Pos
}

// Protocol declares a trait's method signatures (no bodies).
type Protocol struct {
	Access     ast.AccessLevel
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	Methods    map[string]types.Function
	Pos        ast.Pos
}
