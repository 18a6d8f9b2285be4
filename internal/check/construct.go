package check

import (
	"sort"
	"strings"

	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/types"
)

// checkConstruct implements §4.4.6's Construct rule: Base{fields} where
// Base resolves to a Struct type, the field-key set must match exactly,
// and each field value is checked via the generic-inference algorithm
// against the struct's declared field type.
func (c *Checker) checkConstruct(scope *Scope, e ast.Construct, expected types.Type) (Expr, error) {
	baseType, err := scope.qualifyType(e.Base)
	if err != nil {
		return nil, err
	}
	strct, typeArgs, err := c.resolveStruct(e.Position(), baseType)
	if err != nil {
		return nil, err
	}

	if err := checkFieldSets(e.Position(), strct, e.Fields); err != nil {
		return nil, err
	}

	sub := make(types.Substitution, len(strct.TypeParams))
	for i, tp := range strct.TypeParams {
		if i < len(typeArgs) {
			sub[tp.Key()] = typeArgs[i]
		}
	}

	fields := make([]ConstructField, len(e.Fields))
	phase := types.Const
	for i, f := range e.Fields {
		declared, _ := strct.Field(f.Name)
		expectedField := types.Substitute(declared, sub)
		checked, err := c.CheckExpr(scope, f.Value, expectedField)
		if err != nil {
			return nil, err
		}
		if !types.Assignable(c.resolver(), expectedField, checked.Type()) {
			return nil, typeMismatch(f.Value.Position(), expectedField, checked.Type())
		}
		fields[i] = ConstructField{Name: f.Name, Value: checked}
		phase = types.Join(phase, checked.PhaseOf())
	}

	return Construct{base: newBase(e.Position(), baseType, phase), Fields: fields}, nil
}

// resolveStruct dereferences baseType down to a Struct, returning any
// Parameterized type arguments encountered along the way.
func (c *Checker) resolveStruct(pos ast.Pos, t types.Type) (types.Struct, []types.Type, error) {
	switch v := t.(type) {
	case types.Struct:
		return v, nil, nil
	case types.Nominal:
		resolved, ok := c.resolver().ResolveNominal(v)
		if !ok {
			return types.Struct{}, nil, errors.Wrap(errors.New("check", errors.TYP007, toPos(pos),
				"%s is not constructable", v.String()))
		}
		return c.resolveStruct(pos, resolved)
	case types.Parameterized:
		resolved, ok := c.resolver().ResolveNominal(v.Base)
		if !ok {
			return types.Struct{}, nil, errors.Wrap(errors.New("check", errors.TYP007, toPos(pos),
				"%s is not constructable", v.String()))
		}
		strct, ok := resolved.(types.Struct)
		if !ok {
			return types.Struct{}, nil, errors.Wrap(errors.New("check", errors.TYP007, toPos(pos),
				"%s is not constructable", v.String()))
		}
		return strct, v.Args, nil
	default:
		return types.Struct{}, nil, errors.Wrap(errors.New("check", errors.TYP007, toPos(pos),
			"%s is not constructable", t.String()))
	}
}

func checkFieldSets(pos ast.Pos, strct types.Struct, given []ast.ConstructField) error {
	declared := strct.FieldNames()
	declaredSet := make(map[string]bool, len(declared))
	for _, n := range declared {
		declaredSet[n] = true
	}
	givenSet := make(map[string]bool, len(given))
	for _, f := range given {
		givenSet[f.Name] = true
	}

	var missing, excess []string
	for _, n := range declared {
		if !givenSet[n] {
			missing = append(missing, n)
		}
	}
	for _, f := range given {
		if !declaredSet[f.Name] {
			excess = append(excess, f.Name)
		}
	}
	if len(missing) == 0 && len(excess) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(excess)
	var msg strings.Builder
	msg.WriteString("field set mismatch constructing ")
	msg.WriteString(strct.Sym.String())
	if len(missing) > 0 {
		msg.WriteString(": missing " + strings.Join(missing, ", "))
	}
	if len(excess) > 0 {
		msg.WriteString(": unexpected " + strings.Join(excess, ", "))
	}
	return errors.Wrap(errors.New("check", errors.TYP003, toPos(pos), "%s", msg.String()))
}
