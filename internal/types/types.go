// Package types defines the checked type model (spec §3.2): every type
// expression here is fully qualified by internal/symbol.Symbol, never a
// bare name. This is the checked-side half of the parse/checked split
// described in the Design Notes — internal/ast and this package never
// reference each other.
//
// Grounded on the teacher's internal/types/types.go closed Type interface,
// reshaped around spec §3.2's sum of Nominal/Parameterized/TypeParameter/
// Function/Overload/Module/DataLayout/Enum/Protocol instead of AILANG's
// TVar/TCon/TFunc/TRecord lattice.
package types

import (
	"fmt"
	"strings"

	"github.com/fluxlang/fluxc/internal/symbol"
)

// Type is the closed sum of checked type expressions.
type Type interface {
	String() string
	typ()
}

// Nominal is a bare symbol reference to a declared data type.
type Nominal struct {
	Sym symbol.Symbol
}

func (Nominal) typ() {}
func (n Nominal) String() string { return n.Sym.String() }

// Parameterized is a Nominal base plus an ordered list of type arguments.
type Parameterized struct {
	Base Nominal
	Args []Type
}

func (Parameterized) typ() {}
func (p Parameterized) String() string {
	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", p.Base.String(), strings.Join(parts, ", "))
}

// TypeParameter names a generic parameter in scope.
type TypeParameter struct {
	Sym symbol.Symbol
}

func (TypeParameter) typ() {}
func (t TypeParameter) String() string { return t.Sym.Name() }

// FuncParam is one parameter of a Function type: a type plus the optional
// expression-phase it expects an argument to arrive at.
type FuncParam struct {
	Type  Type
	Phase Phase
	// HasPhase distinguishes "no phase annotation" (any of val/const may be
	// widened per §4.4.5) from an explicit Const annotation, which is the
	// zero value of Phase.
	HasPhase bool
}

// Function is (function-phase, type-parameters, parameters, result).
type Function struct {
	FuncPhase  FuncPhase
	TypeParams []symbol.Symbol
	Params     []FuncParam
	Result     Type
}

func (Function) typ() {}
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
	}
	return fmt.Sprintf("%s fn(%s) -> %s", f.FuncPhase, strings.Join(parts, ", "), f.Result.String())
}

// Overload is an ordered list of Function branches, used only for built-in
// operators; overloads carry no generics.
type Overload struct {
	Branches []Function
}

func (Overload) typ() {}
func (o Overload) String() string {
	parts := make([]string, len(o.Branches))
	for i, b := range o.Branches {
		parts[i] = b.String()
	}
	return "overload{" + strings.Join(parts, " | ") + "}"
}

// Module represents a package or sub-module, used for static access.
type Module struct {
	Sym symbol.Symbol
}

func (Module) typ() {}
func (m Module) String() string { return "module " + m.Sym.String() }

// Protocol is a trait-like named type with methods.
type Protocol struct {
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	Methods    map[string]Function
}

func (Protocol) typ() {}
func (p Protocol) String() string { return "protocol " + p.Sym.String() }

// DataLayoutKind distinguishes Struct/Tuple/Atom (spec §3.2).
type DataLayoutKind int

const (
	LayoutStruct DataLayoutKind = iota
	LayoutTuple
	LayoutAtom
)

// orderedField is one entry of a Struct's ordered field map.
type orderedField struct {
	Name string
	Type Type
}

// Struct is {name, type-params, fields as ordered map of name -> type,
// enum?}.
type Struct struct {
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	fields     []orderedField
	Enum       symbol.Symbol // zero value when not a variant
	HasEnum    bool
}

func (Struct) typ() {}
func (s Struct) String() string { return "struct " + s.Sym.String() }

// NewStruct builds a Struct from an ordered (name, type) field list,
// preserving declaration order (spec §3.2 "ordered map").
func NewStruct(sym symbol.Symbol, typeParams []symbol.Symbol, fieldNames []string, fieldTypes []Type) Struct {
	fields := make([]orderedField, len(fieldNames))
	for i := range fieldNames {
		fields[i] = orderedField{Name: fieldNames[i], Type: fieldTypes[i]}
	}
	return Struct{Sym: sym, TypeParams: typeParams, fields: fields}
}

// Field looks up a struct field by name, preserving the ordered scan the
// spec implies for "fields as ordered map".
func (s Struct) Field(name string) (Type, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// FieldNames returns field names in declaration order.
func (s Struct) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Tuple is {name, type-params, positional field types, enum?}.
type Tuple struct {
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	Elements   []Type
	Enum       symbol.Symbol
	HasEnum    bool
}

func (Tuple) typ() {}
func (t Tuple) String() string { return "tuple " + t.Sym.String() }

// Atom is {name, type-params, enum?} with no payload.
type Atom struct {
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	Enum       symbol.Symbol
	HasEnum    bool
}

func (Atom) typ() {}
func (a Atom) String() string { return "atom " + a.Sym.String() }

// DataLayout is the common view over Struct/Tuple/Atom used where the
// checker only needs "some layout", e.g. the enum variant map below.
type DataLayout interface {
	Type
	dataLayout()
}

func (Struct) dataLayout() {}
func (Tuple) dataLayout()  {}
func (Atom) dataLayout()   {}

type orderedVariant struct {
	Name   string
	Layout DataLayout
}

// Enum is {name, type-params, variants as ordered map of name ->
// DataLayout}.
type Enum struct {
	Sym        symbol.Symbol
	TypeParams []symbol.Symbol
	variants   []orderedVariant
}

func (Enum) typ() {}
func (e Enum) String() string { return "enum " + e.Sym.String() }

// NewEnum builds an Enum from an ordered (name, layout) variant list.
func NewEnum(sym symbol.Symbol, typeParams []symbol.Symbol, names []string, layouts []DataLayout) Enum {
	variants := make([]orderedVariant, len(names))
	for i := range names {
		variants[i] = orderedVariant{Name: names[i], Layout: layouts[i]}
	}
	return Enum{Sym: sym, TypeParams: typeParams, variants: variants}
}

// Variant looks up a variant's layout by name.
func (e Enum) Variant(name string) (DataLayout, bool) {
	for _, v := range e.variants {
		if v.Name == name {
			return v.Layout, true
		}
	}
	return nil, false
}

// VariantNames returns variant names in declaration order.
func (e Enum) VariantNames() []string {
	names := make([]string, len(e.variants))
	for i, v := range e.variants {
		names[i] = v.Name
	}
	return names
}

// Nothing is the bottom type: assignable to anything (spec §4.4.2).
type Nothing struct{}

func (Nothing) typ() {}
func (Nothing) String() string { return "Nothing" }

// IsNothing reports whether t is the bottom type.
func IsNothing(t Type) bool {
	_, ok := t.(Nothing)
	return ok
}
