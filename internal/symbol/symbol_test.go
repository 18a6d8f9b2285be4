package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPkg(name string) Package {
	return Package{Organization: "acme", Name: name, Version: Version{Major: 1}}
}

func TestPackageEquals(t *testing.T) {
	a := testPkg("widgets")
	b := testPkg("widgets")
	b.Alias = "w" // Alias is not part of identity
	assert.True(t, a.Equals(b))

	c := testPkg("gadgets")
	assert.False(t, a.Equals(c))

	d := a
	d.Version.Minor = 1
	assert.False(t, a.Equals(d))
}

func TestSymbolChildParent(t *testing.T) {
	root := Root(testPkg("widgets"))
	assert.True(t, root.IsRoot())

	foo := root.Child("Foo")
	bar := foo.Child("bar")
	assert.Equal(t, "bar", bar.Name())
	assert.Equal(t, foo, bar.Parent())
	assert.True(t, root.IsParent(bar))
	assert.True(t, foo.IsParent(bar))
	assert.False(t, bar.IsParent(foo))
}

func TestSymbolParentAtRootPanics(t *testing.T) {
	root := Root(testPkg("widgets"))
	assert.Panics(t, func() { root.Parent() })
}

func TestSymbolIsParentDifferentPackage(t *testing.T) {
	a := Root(testPkg("widgets")).Child("Foo")
	b := Root(testPkg("gadgets")).Child("Foo").Child("Bar")
	assert.False(t, a.IsParent(b))
}

func TestSymbolKeyStability(t *testing.T) {
	s1 := Root(testPkg("widgets")).Child("Foo").Child("bar")
	s2 := Root(testPkg("widgets")).Child("Foo").Child("bar")
	assert.Equal(t, s1.Key(), s2.Key())

	s3 := Root(testPkg("widgets")).Child("Foo").Child("baz")
	assert.NotEqual(t, s1.Key(), s3.Key())
}

func TestDependencyManagerSelfReserved(t *testing.T) {
	owner := testPkg("widgets")
	mgr := NewDependencyManager(owner)

	got, ok := mgr.Resolve(SelfAlias)
	require.True(t, ok)
	assert.True(t, got.Equals(owner))

	err := mgr.Bind(SelfAlias, testPkg("gadgets"))
	assert.Error(t, err)
}

func TestBreakdownImport(t *testing.T) {
	parent := Root(testPkg("widgets"))

	expr := Nested{
		Base: Nominal{Name: "collections"},
		Children: []ImportExpr{
			Nominal{Name: "List"},
			Nested{
				Base:     Nominal{Name: "Map"},
				Children: []ImportExpr{Nominal{Name: "Entry"}},
			},
		},
	}

	syms := BreakdownImport(parent, expr)
	require.Len(t, syms, 2)
	assert.Equal(t, []string{"collections", "List"}, syms[0].Path)
	assert.Equal(t, []string{"collections", "Map", "Entry"}, syms[1].Path)
}
