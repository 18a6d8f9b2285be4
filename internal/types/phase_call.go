package types

// ArgumentPhaseContribution implements the per-(argument-phase,
// expected-parameter-phase) table of spec §4.4.5. expected/hasExpected
// describe the parameter's declared phase annotation (hasExpected is false
// for an unspecified parameter phase). ok is false when the actual phase
// violates the parameter's requirement (a PHA004 error at the call site).
func ArgumentPhaseContribution(actual Phase, expected Phase, hasExpected bool) (contributed Phase, ok bool) {
	if !hasExpected {
		if actual == Var || actual == Flow {
			return Flow, true
		}
		return actual, true
	}
	switch expected {
	case Var:
		if actual != Var {
			return 0, false
		}
		return Flow, true
	case Flow:
		if actual != Var && actual != Flow {
			return 0, false
		}
		return Flow, true
	case Val:
		if actual != Val && actual != Const {
			return 0, false
		}
		return Val, true
	case Const:
		if actual != Const {
			return 0, false
		}
		return Const, true
	default:
		return 0, false
	}
}

// ResolveCallPhase applies the enclosing function's phase to a call,
// combining the per-argument contributions already computed via
// ArgumentPhaseContribution (spec §4.4.5). insideSig is true when the
// function currently being checked is a sig (affects the Fun branch only;
// a call to a fun helper nested in a sig's body still collapses reactive
// arguments down since the sig has already unwrapped them).
func ResolveCallPhase(enclosing FuncPhase, argPhases []Phase, insideSig bool) Phase {
	switch enclosing {
	case Sig:
		return Val
	case Def:
		return Flow
	case Fun:
		for _, p := range argPhases {
			if p == Const {
				return Const
			}
		}
		if insideSig {
			return Val
		}
		return JoinAll(argPhases...)
	default:
		return JoinAll(argPhases...)
	}
}
