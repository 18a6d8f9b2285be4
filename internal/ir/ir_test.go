package ir

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
)

func intType() types.Type {
	return types.Nominal{Sym: symbol.Root(symbol.Package{Organization: "flux", Name: "core"}).Child("Int")}
}

func TestExprTypeOfReturnsEmbeddedType(t *testing.T) {
	lit := IntLit{ExprBase: ExprBase{Type: intType()}, Value: 3}
	assert.Equal(t, intType(), lit.TypeOf())

	var e Expr = lit
	assert.Equal(t, intType(), e.TypeOf())
}

func TestBlockCarriesResultAndStatements(t *testing.T) {
	let := Let{Name: "x", Value: IntLit{ExprBase: ExprBase{Type: intType()}, Value: 1}}
	block := Block{
		ExprBase: ExprBase{Type: intType()},
		Stmts:    []Stmt{let, ExprStmt{Expr: Ident{ExprBase: ExprBase{Type: intType()}, Name: "x"}}},
		Result:   Ident{ExprBase: ExprBase{Type: intType()}, Name: "x"},
	}

	assert.Len(t, block.Stmts, 2)
	assert.Equal(t, "x", block.Result.(Ident).Name)

	var s Stmt = let
	_, ok := s.(Let)
	assert.True(t, ok)
}

func TestReactivePrimitivesSatisfyExpr(t *testing.T) {
	root := Ident{ExprBase: ExprBase{Type: intType()}, Name: "acc"}
	proj := Projection{
		ExprBase: ExprBase{Type: intType()},
		Root:     root,
		Getter:   Lambda{ExprBase: ExprBase{Type: intType()}, Params: nil, Body: root},
		Setter:   Lambda{ExprBase: ExprBase{Type: intType()}, Params: []string{"v"}, Body: root},
	}
	flow := Flow{ExprBase: ExprBase{Type: intType()}, Sources: []Expr{proj}, Compute: proj.Getter}
	def := Def{ExprBase: ExprBase{Type: intType()}, Sources: []Expr{flow}, Compute: proj.Getter}
	get := FlowGet{ExprBase: ExprBase{Type: intType()}, Value: def}

	var exprs = []Expr{
		Singleton{ExprBase: ExprBase{Type: intType()}, Value: root},
		Variable{ExprBase: ExprBase{Type: intType()}, Init: root},
		proj,
		flow,
		def,
		get,
	}
	for _, e := range exprs {
		assert.Equal(t, intType(), e.TypeOf())
	}
}

func TestReassignTargetsFieldChain(t *testing.T) {
	base := Ident{ExprBase: ExprBase{Type: intType()}, Name: "acc"}
	target := Access{ExprBase: ExprBase{Type: intType()}, Base: base, Name: "count"}
	r := Reassign{Target: target, Value: IntLit{ExprBase: ExprBase{Type: intType()}, Value: 9}}

	access, ok := r.Target.(Access)
	assert.True(t, ok)
	assert.Equal(t, "count", access.Name)
}

func TestFunctionDeclCarriesSignatureAndBody(t *testing.T) {
	sym := symbol.Root(symbol.Package{Organization: "acme", Name: "widgets"}).Child("double")
	sig := types.Function{
		Params: []types.FuncParam{{Type: intType()}},
		Result: intType(),
	}
	body := IntLit{ExprBase: ExprBase{Type: intType()}, Value: 2}

	fn := Function{Sym: sym, Sig: sig, Params: []string{"x"}, Body: body}
	var d Decl = fn
	rebuilt, ok := d.(Function)
	assert.True(t, ok)
	assert.Equal(t, "double", rebuilt.Sym.Name())
	assert.Equal(t, []string{"x"}, rebuilt.Params)
}

func TestEnumDeclGroupsVariantLayouts(t *testing.T) {
	pkg := symbol.Package{Organization: "acme", Name: "widgets"}
	some := Data{Sym: symbol.Root(pkg).Child("Some"), Layout: types.Tuple{Elements: []types.Type{intType()}}}
	none := Data{Sym: symbol.Root(pkg).Child("None"), Layout: types.Atom{Sym: symbol.Root(pkg).Child("None")}}

	e := Enum{Sym: symbol.Root(pkg).Child("Option"), Variants: []Data{some, none}}
	assert.Len(t, e.Variants, 2)
	assert.Equal(t, "Some", e.Variants[0].Sym.Name())
}

func TestFileCollectsImportsAndDecls(t *testing.T) {
	pkg := symbol.Package{Organization: "acme", Name: "widgets"}
	imp := Import{Sym: symbol.Root(pkg).Child("helper"), Alias: "helper"}
	c := Const{Sym: symbol.Root(pkg).Child("Pi"), Type: intType(), Value: IntLit{ExprBase: ExprBase{Type: intType()}, Value: 3}}

	f := File{Imports: []Import{imp}, Decls: []Decl{c}}
	assert.Len(t, f.Imports, 1)
	require := f.Decls[0].(Const)
	assert.Equal(t, "Pi", require.Sym.Name())
}
