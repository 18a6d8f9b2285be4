package types

// Resolver dereferences a Nominal type to its underlying declared type
// (the struct/tuple/atom/enum/protocol/function it names). Assignability
// and merge both need this to implement spec §4.4.2's "dereference to its
// declaration and retry" rule without this package importing internal/decl
// (which would create an import cycle: decl needs Type to build its
// tables).
type Resolver interface {
	ResolveNominal(n Nominal) (Type, bool)
}

// Assignable reports whether actual may be used where expected is wanted
// (spec §4.4.2). expected == nil means unconstrained: always assignable.
func Assignable(r Resolver, expected, actual Type) bool {
	if expected == nil {
		return true
	}
	if structurallyEqual(expected, actual) {
		return true
	}
	if IsNothing(actual) {
		return true
	}
	if _, ok := expected.(TypeParameter); ok {
		return true
	}
	if _, ok := actual.(TypeParameter); ok {
		return true
	}

	if ef, ok := expected.(Function); ok {
		if af, ok := actual.(Function); ok {
			return assignableFunc(r, ef, af)
		}
	}

	if ep, ok := expected.(Parameterized); ok {
		if ap, ok := actual.(Parameterized); ok {
			if !Assignable(r, ep.Base, ap.Base) || len(ep.Args) != len(ap.Args) {
				return false
			}
			for i := range ep.Args {
				if !Assignable(r, ep.Args[i], ap.Args[i]) {
					return false
				}
			}
			return true
		}
	}

	if an, ok := actual.(Nominal); ok {
		if decl, found := r.ResolveNominal(an); found {
			if Assignable(r, expected, decl) {
				return true
			}
		}
	}
	if en, ok := expected.(Nominal); ok {
		if decl, found := r.ResolveNominal(en); found {
			if Assignable(r, decl, actual) {
				return true
			}
		}
	}

	if ee, ok := expected.(Enum); ok {
		if layout, ok := enumVariantOf(actual); ok {
			return layoutEnumName(layout) == ee.Sym.Name()
		}
	}

	return false
}

// assignableFunc implements the invariant-parameter, contravariant-result
// compatibility rule documented (and deliberately kept, per Design Notes
// Open Question (a)) in spec §4.4.2.
func assignableFunc(r Resolver, expected, actual Function) bool {
	if len(expected.Params) != len(actual.Params) {
		return false
	}
	if expected.FuncPhase != actual.FuncPhase {
		return false
	}
	for i := range expected.Params {
		ep, ap := expected.Params[i], actual.Params[i]
		expPhase := Val
		if ep.HasPhase {
			expPhase = ep.Phase
		}
		actPhase := Val
		if ap.HasPhase {
			actPhase = ap.Phase
		}
		if expPhase != actPhase {
			return false
		}
		// Invariant in both directions (documented, see Open Question (a)).
		if !Assignable(r, ep.Type, ap.Type) || !Assignable(r, ap.Type, ep.Type) {
			return false
		}
	}
	// Contravariant result at call sites: the return type of `expected` may
	// widen from `actual`'s.
	return Assignable(r, actual.Result, expected.Result)
}

func enumVariantOf(t Type) (DataLayout, bool) {
	switch v := t.(type) {
	case Struct:
		if v.HasEnum {
			return v, true
		}
	case Tuple:
		if v.HasEnum {
			return v, true
		}
	case Atom:
		if v.HasEnum {
			return v, true
		}
	}
	return nil, false
}

func layoutEnumName(l DataLayout) string {
	switch v := l.(type) {
	case Struct:
		return v.Enum.Name()
	case Tuple:
		return v.Enum.Name()
	case Atom:
		return v.Enum.Name()
	}
	return ""
}

// structurallyEqual is a shallow structural-equality check used as the
// cheap early-out in Assignable and by Merge.
func structurallyEqual(a, b Type) bool {
	switch av := a.(type) {
	case Nominal:
		bv, ok := b.(Nominal)
		return ok && av.Sym.Equals(bv.Sym)
	case TypeParameter:
		bv, ok := b.(TypeParameter)
		return ok && av.Sym.Equals(bv.Sym)
	case Parameterized:
		bv, ok := b.(Parameterized)
		if !ok || len(av.Args) != len(bv.Args) || !structurallyEqual(av.Base, bv.Base) {
			return false
		}
		for i := range av.Args {
			if !structurallyEqual(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case Module:
		bv, ok := b.(Module)
		return ok && av.Sym.Equals(bv.Sym)
	case Struct:
		bv, ok := b.(Struct)
		return ok && av.Sym.Equals(bv.Sym)
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && av.Sym.Equals(bv.Sym)
	case Atom:
		bv, ok := b.(Atom)
		return ok && av.Sym.Equals(bv.Sym)
	case Enum:
		bv, ok := b.(Enum)
		return ok && av.Sym.Equals(bv.Sym)
	case Protocol:
		bv, ok := b.(Protocol)
		return ok && av.Sym.Equals(bv.Sym)
	case Nothing:
		_, ok := b.(Nothing)
		return ok
	case Function:
		bv, ok := b.(Function)
		if !ok {
			return false
		}
		return assignableFuncStructural(av, bv)
	default:
		return false
	}
}

func assignableFuncStructural(a, b Function) bool {
	if a.FuncPhase != b.FuncPhase || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !structurallyEqual(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return structurallyEqual(a.Result, b.Result)
}
