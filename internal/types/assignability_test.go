package types

import (
	"testing"

	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	decls map[string]Type
}

func (f fakeResolver) ResolveNominal(n Nominal) (Type, bool) {
	t, ok := f.decls[n.Sym.Key()]
	return t, ok
}

func pkgSym(name string) symbol.Symbol {
	return symbol.Root(symbol.Package{Organization: "acme", Name: "widgets"}).Child(name)
}

func TestAssignableReflexive(t *testing.T) {
	r := fakeResolver{}
	intType := Nominal{Sym: pkgSym("Int")}
	assert.True(t, Assignable(r, intType, intType))
}

func TestAssignableNothingIsBottom(t *testing.T) {
	r := fakeResolver{}
	intType := Nominal{Sym: pkgSym("Int")}
	assert.True(t, Assignable(r, intType, Nothing{}))
}

func TestAssignableUnconstrainedExpected(t *testing.T) {
	r := fakeResolver{}
	assert.True(t, Assignable(r, nil, Nominal{Sym: pkgSym("Int")}))
}

func TestAssignableDereferencesNominal(t *testing.T) {
	optionSym := pkgSym("Option")
	strct := NewStruct(optionSym, nil, []string{"value"}, []Type{Nominal{Sym: pkgSym("Int")}})
	r := fakeResolver{decls: map[string]Type{optionSym.Key(): strct}}

	assert.True(t, Assignable(r, Nominal{Sym: optionSym}, strct))
	assert.True(t, Assignable(r, strct, Nominal{Sym: optionSym}))
}

func TestAssignableEnumVariant(t *testing.T) {
	enumSym := pkgSym("Option")
	someSym := pkgSym("Some")
	some := NewStruct(someSym, nil, []string{"value"}, []Type{Nominal{Sym: pkgSym("Int")}})
	some.Enum = enumSym
	some.HasEnum = true

	enum := NewEnum(enumSym, nil, []string{"Some", "None"}, []DataLayout{some, Atom{Sym: pkgSym("None"), Enum: enumSym, HasEnum: true}})

	r := fakeResolver{}
	assert.True(t, Assignable(r, enum, some))
}

func TestAssignableFunctionInvariantParamsContravariantResult(t *testing.T) {
	r := fakeResolver{}
	intT := Nominal{Sym: pkgSym("Int")}
	numT := Nominal{Sym: pkgSym("Num")} // a supertype-ish placeholder, unrelated by decl

	expected := Function{
		FuncPhase: Fun,
		Params:    []FuncParam{{Type: intT}},
		Result:    numT,
	}
	actualNarrowerResult := Function{
		FuncPhase: Fun,
		Params:    []FuncParam{{Type: intT}},
		Result:    intT,
	}
	// Result is contravariant: expected's result must be assignable to
	// actual's result for the call-site to work.
	assert.False(t, Assignable(r, expected, actualNarrowerResult),
		"Num is not assignable to the unrelated Int nominal in this fake resolver")

	same := Function{FuncPhase: Fun, Params: []FuncParam{{Type: intT}}, Result: intT}
	assert.True(t, Assignable(r, same, same))
}

func TestMergeEqualAndNothing(t *testing.T) {
	r := fakeResolver{}
	intT := Nominal{Sym: pkgSym("Int")}
	pos := errors.Position{File: "t.flux", Line: 1, Column: 1}

	m, err := Merge(r, intT, intT, pos)
	require.NoError(t, err)
	assert.Equal(t, intT, m)

	m, err = Merge(r, intT, Nothing{}, pos)
	require.NoError(t, err)
	assert.Equal(t, intT, m)

	m, err = Merge(r, Nothing{}, intT, pos)
	require.NoError(t, err)
	assert.Equal(t, intT, m)
}

func TestMergeIncompatibleFails(t *testing.T) {
	r := fakeResolver{}
	pos := errors.Position{File: "t.flux", Line: 2, Column: 3}
	a := Nominal{Sym: pkgSym("Int")}
	b := Nominal{Sym: pkgSym("String")}

	_, err := Merge(r, a, b, pos)
	require.Error(t, err)
	rep, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "TYP002", rep.Code)
}

func TestPhaseJoinTreatsVarAsFlow(t *testing.T) {
	assert.Equal(t, Flow, Join(Var, Val))
	assert.Equal(t, Val, Join(Const, Val))
	assert.Equal(t, Flow, JoinAll(Const, Val, Var))
}
