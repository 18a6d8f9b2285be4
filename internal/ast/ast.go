// Package ast defines the parse-tree contract fluxc consumes. The lexer and
// parser that produce these nodes are external collaborators (spec §1); this
// package only fixes the shape they hand to the symbol qualifier.
//
// Grounded on the teacher's internal/ast/ast.go: plain structs implementing
// a small Node interface, unresolved names kept as bare strings (resolution
// happens in later passes, never here).
package ast

import "fmt"

// Pos is a source location.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Node is implemented by every parse-tree node.
type Node interface {
	Position() Pos
}

// AccessLevel is a declaration's visibility modifier (spec §3.5, §6.4).
type AccessLevel string

const (
	Private   AccessLevel = "private"
	Protected AccessLevel = "protected"
	Package   AccessLevel = "package"
	Internal  AccessLevel = "internal"
	Public    AccessLevel = "public"
)

// FuncPhase is a declared function phase (spec §3.3).
type FuncPhase string

const (
	FuncFun FuncPhase = "fun"
	FuncDef FuncPhase = "def"
	FuncSig FuncPhase = "sig"
)

// ExprPhaseAnnotation is a parse-level phase annotation, e.g. on an
// assignment's declared phase or a function parameter. Unlike
// internal/types.Phase (the checked, inferred tag), this is just what the
// programmer wrote, and may be absent.
type ExprPhaseAnnotation string

const (
	NoPhase    ExprPhaseAnnotation = ""
	PhaseConst ExprPhaseAnnotation = "const"
	PhaseVal   ExprPhaseAnnotation = "val"
	PhaseVar   ExprPhaseAnnotation = "var"
	PhaseFlow  ExprPhaseAnnotation = "flow"
)

// File is one parsed source file.
type File struct {
	ModulePath string
	Imports    []*ImportDecl
	Consts     []*ConstDecl
	Funcs      []*FunctionDecl
	Datas      []*DataDecl
	Enums      []*EnumDecl
	Impls      []*ImplDecl
	Protocols  []*ProtocolDecl
	Pos        Pos
}

func (f *File) Position() Pos { return f.Pos }
