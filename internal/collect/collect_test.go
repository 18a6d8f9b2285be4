package collect

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/qualifier"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetsPkg() symbol.Package { return symbol.Package{Organization: "acme", Name: "widgets"} }


func TestCollectDataAndConst(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})

	file := &ast.File{
		Datas: []*ast.DataDecl{{
			Access: ast.Public,
			Name:   "Point",
			Layout: ast.DataLayout{
				Kind:   ast.LayoutStruct,
				Fields: []ast.FieldDecl{{Name: "x", Type: ast.NamedType{Name: "Int"}}, {Name: "y", Type: ast.NamedType{Name: "Int"}}},
			},
		}},
		Consts: []*ast.ConstDecl{{Access: ast.Public, Name: "origin", Type: ast.NamedType{Name: "Int"}}},
	}

	c := New()
	res, err := c.CollectFile(file, module, locals, deps)
	require.NoError(t, err)
	require.Len(t, res.Datas, 1)
	require.Len(t, res.Consts, 1)

	tables := c.Freeze()
	entry, ok := tables.Symbol(module.Child("Point"))
	require.True(t, ok)
	strct, ok := entry.Type.(types.Struct)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, strct.FieldNames())
}

func TestCollectDuplicateSymbolFails(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})

	file := &ast.File{
		Funcs: []*ast.FunctionDecl{
			{Access: ast.Public, Name: "foo", Result: ast.NamedType{Name: "Int"}},
			{Access: ast.Public, Name: "foo", Result: ast.NamedType{Name: "Int"}},
		},
	}

	c := New()
	_, err := c.CollectFile(file, module, locals, deps)
	assert.Error(t, err)
}

func TestCollectEnumRegistersVariants(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})

	file := &ast.File{
		Enums: []*ast.EnumDecl{{
			Access: ast.Public,
			Name:   "Option",
			Variants: []ast.EnumVariant{
				{Name: "Some", Layout: ast.DataLayout{Kind: ast.LayoutTuple, Elements: []ast.TypeExpr{ast.NamedType{Name: "Int"}}}},
				{Name: "None", Layout: ast.DataLayout{Kind: ast.LayoutAtom}},
			},
		}},
	}

	c := New()
	_, err := c.CollectFile(file, module, locals, deps)
	require.NoError(t, err)

	tables := c.Freeze()
	_, ok := tables.Symbol(module.Child("Option").Child("Some"))
	assert.True(t, ok)
	_, ok = tables.Symbol(module.Child("Option").Child("None"))
	assert.True(t, ok)
}

func TestCollectImplOutsideModuleFails(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	other := symbol.Root(symbol.Package{Organization: "acme", Name: "gadgets"})
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})
	locals["Remote"] = other.Child("Remote")

	file := &ast.File{
		Impls: []*ast.ImplDecl{{Base: ast.NamedType{Name: "Remote"}}},
	}

	c := New()
	_, err := c.CollectFile(file, module, locals, deps)
	assert.Error(t, err)
}

func TestCollectImplRegistersSelfMethod(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})
	locals["Point"] = module.Child("Point")

	file := &ast.File{
		Impls: []*ast.ImplDecl{{
			Base: ast.NamedType{Name: "Point"},
			Methods: []*ast.FunctionDecl{{
				Access: ast.Public,
				Name:   "magnitude",
				Params: []ast.Param{{Name: "self", Type: ast.NamedType{Name: "Point"}}},
				Result: ast.NamedType{Name: "Int"},
			}},
		}},
	}

	c := New()
	_, err := c.CollectFile(file, module, locals, deps)
	require.NoError(t, err)

	tables := c.Freeze()
	_, ok := tables.Method(module.Child("Point"), "magnitude")
	assert.True(t, ok)
}

func TestCollectSecondImplForSameBaseFails(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	locals := qualifier.Preamble(symbol.Package{Organization: "flux", Name: "core"})
	locals["Point"] = module.Child("Point")

	file := &ast.File{
		Impls: []*ast.ImplDecl{
			{Base: ast.NamedType{Name: "Point"}},
			{Base: ast.NamedType{Name: "Point"}},
		},
	}

	c := New()
	_, err := c.CollectFile(file, module, locals, deps)
	assert.Error(t, err)
}
