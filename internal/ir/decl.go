package ir

import (
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Decl is the closed sum of module-level IR declarations (spec §6.2).
type Decl interface {
	irDecl()
}

type DeclBase struct{}

func (DeclBase) irDecl() {}

// Import re-exports a static reference collected from another file of the
// same package (spec §4.6: "collected during a pre-walk and emitted as
// module-level imports in the target file"), or an extern declaration
// re-exported as a pass-through import under its declared name.
type Import struct {
	DeclBase
	Sym   symbol.Symbol
	Alias string // local name this import is bound to in the target file
}

// Export re-exposes a locally declared symbol under its public name.
type Export struct {
	DeclBase
	Sym symbol.Symbol
}

// Const is a module-level constant binding: the lowering of a top-level
// `const` declaration, never reactively wrapped since const can never
// appear outside a fun-equivalent eager context.
type Const struct {
	DeclBase
	Sym   symbol.Symbol
	Type  types.Type
	Value Expr
}

// Function is a lowered named function: Params names the lambda-style
// parameter list lowering carries forward (types live on Sig, not
// per-parameter here; see spec §4.6 for the wrap/unwrap rules applied
// while Body was being built). External declarations (no checked body)
// lower to a Function with a nil Body and are paired with an Import
// pass-through re-export under the declared name.
type Function struct {
	DeclBase
	Sym    symbol.Symbol
	Sig    types.Function
	Params []string
	Body   Expr
}

// Data is a lowered struct/tuple/atom layout declaration: carries the
// already-checked types.DataLayout forward unchanged, since layout shape
// needs no reactive lowering of its own (only construction sites do).
type Data struct {
	DeclBase
	Sym    symbol.Symbol
	Layout types.DataLayout
}

// Enum is a lowered enum declaration: one Data-shaped layout per variant,
// mirroring types.Enum.
type Enum struct {
	DeclBase
	Sym      symbol.Symbol
	Variants []Data
}

// File is one lowered module file: its declarations in source order, plus
// the imports the lowerer collected while walking it.
type File struct {
	Imports []Import
	Decls   []Decl
}
