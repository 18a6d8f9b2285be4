package qualifier

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corePkg() symbol.Package {
	return symbol.Package{Organization: "flux", Name: "core"}
}

func widgetsPkg() symbol.Package {
	return symbol.Package{Organization: "acme", Name: "widgets"}
}

func TestPreambleSeedsBuiltins(t *testing.T) {
	p := Preamble(corePkg())
	for _, name := range []string{"Int", "Bool", "List", "+", "=="} {
		sym, ok := p[name]
		require.True(t, ok, "missing preamble entry %q", name)
		assert.Equal(t, name, sym.Name())
	}
}

func TestBuildFileMapSeedsDeclsAndImports(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	deps := symbol.NewDependencyManager(owner)
	other := symbol.Package{Organization: "acme", Name: "gadgets"}
	require.NoError(t, deps.Bind("gadgets", other))

	file := &ast.File{
		Funcs: []*ast.FunctionDecl{{Name: "doThing"}},
		Imports: []*ast.ImportDecl{
			{PackageAlias: "gadgets", Tree: symbol.Nominal{Name: "Widget"}},
		},
	}

	m, err := BuildFileMap(Preamble(corePkg()), file, module, deps)
	require.NoError(t, err)

	fnSym, ok := m["doThing"]
	require.True(t, ok)
	assert.Equal(t, module.Child("doThing"), fnSym)

	widgetSym, ok := m["Widget"]
	require.True(t, ok)
	assert.Equal(t, symbol.Root(other).Child("Widget"), widgetSym)
}

func TestQualifyTypeNamedAndParameterized(t *testing.T) {
	owner := widgetsPkg()
	module := symbol.Root(owner)
	locals := Preamble(corePkg())
	locals["Option"] = symbol.Root(owner).Child("Option")

	nominal, err := QualifyType(ast.NamedType{Name: "Int"}, locals, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Nominal{Sym: locals["Int"]}, nominal)

	param, err := QualifyType(ast.ParamType{
		Base: ast.NamedType{Name: "Option"},
		Args: []ast.TypeExpr{ast.NamedType{Name: "Int"}},
	}, locals, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Parameterized{
		Base: types.Nominal{Sym: locals["Option"]},
		Args: []types.Type{types.Nominal{Sym: locals["Int"]}},
	}, param)

	_ = module
}

func TestQualifyTypeGenericParameter(t *testing.T) {
	owner := widgetsPkg()
	fnSym := symbol.Root(owner).Child("identity")
	generics := NewGenericsScope(fnSym, []string{"T"})

	tp, err := QualifyType(ast.NamedType{Name: "T"}, Preamble(corePkg()), generics)
	require.NoError(t, err)
	assert.Equal(t, types.TypeParameter{Sym: fnSym.Child("T")}, tp)
}

func TestQualifyTypeUnknownNameFails(t *testing.T) {
	_, err := QualifyType(ast.NamedType{Name: "Bogus"}, Preamble(corePkg()), nil)
	require.Error(t, err)
}
