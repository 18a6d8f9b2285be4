package reactive

import "reflect"

// Variable is a writable signal cell (spec §5): the runtime shape of a
// lowered `var` binding (ir.Variable). Set compares the new value against
// the old with reflect.DeepEqual and suppresses propagation on a no-op
// write (spec §5: "Variables compare new and old values for equality and
// suppress propagation on no-op writes") — deep equality because a
// Variable's held value may itself be a struct or collection built by
// Construct/ListLit, not only a comparable scalar.
type Variable struct {
	listenerSet
	value any
}

// NewVariable creates a Variable holding init.
func NewVariable(init any) *Variable {
	return &Variable{value: init}
}

func (v *Variable) Get() any { return v.value }

// Set writes a new value, invalidating every direct listener unless the
// value is unchanged.
func (v *Variable) Set(value any) {
	if reflect.DeepEqual(v.value, value) {
		return
	}
	v.value = value
	v.notifyDirty()
}

func (v *Variable) addListener(l listener)    { v.add(l) }
func (v *Variable) removeListener(l listener) { v.remove(l) }
