package errors

// Error code taxonomy, one prefix per pipeline component (spec §7).
// Codes are stable identifiers for tooling; ErrorRegistry supplies
// human-oriented metadata about each one.
const (
	// Symbol Qualifier (§4.1)
	QUA001 = "QUA001" // unknown identifier
	QUA002 = "QUA002" // dotted chain reached a non-module/non-enum/non-struct prefix
	QUA003 = "QUA003" // wrong type-argument arity
	QUA004 = "QUA004" // import alias "self" rebound

	// Declaration Collector (§4.2)
	COL001 = "COL001" // impl declared outside its base type's module
	COL002 = "COL002" // multiple impls registered for one base symbol
	COL003 = "COL003" // duplicate top-level declaration name

	// Import Verifier (§4.3)
	IMP001 = "IMP001" // import target does not exist
	IMP002 = "IMP002" // import target not visible under its access modifier

	// Type & Phase Checker - type errors
	TYP001 = "TYP001" // type mismatch (assignment/argument/operand)
	TYP002 = "TYP002" // merge of incompatible types
	TYP003 = "TYP003" // construct: field set mismatch
	TYP004 = "TYP004" // unknown field
	TYP005 = "TYP005" // unknown enum variant
	TYP006 = "TYP006" // attempt to call a non-callable value
	TYP007 = "TYP007" // attempt to construct a non-constructable type

	// Type & Phase Checker - phase errors
	PHA001 = "PHA001" // reactive binding (var/flow) declared outside a def
	PHA002 = "PHA002" // reassignment outside a sig
	PHA003 = "PHA003" // disallowed parameter phase for fun/sig
	PHA004 = "PHA004" // phase mismatch at a call argument
	PHA005 = "PHA005" // declared function phase inconsistent with inferred phase

	// Reactive IR Lowering - internal invariants (should never reach a user)
	LOW001 = "LOW001" // lowering encountered a phase combination it cannot wrap
)

// ErrorInfo documents an error code for tooling/reporting.
type ErrorInfo struct {
	Code, Phase, Category, Description string
}

// ErrorRegistry maps every code above to descriptive metadata.
var ErrorRegistry = map[string]ErrorInfo{
	QUA001: {QUA001, "qualifier", "resolution", "Unknown identifier"},
	QUA002: {QUA002, "qualifier", "resolution", "Dotted chain reached non-module prefix"},
	QUA003: {QUA003, "qualifier", "resolution", "Wrong type-argument arity"},
	QUA004: {QUA004, "qualifier", "resolution", "self alias rebound"},

	COL001: {COL001, "collect", "impl", "Impl outside base type's module"},
	COL002: {COL002, "collect", "impl", "Multiple impls for one base symbol"},
	COL003: {COL003, "collect", "resolution", "Duplicate top-level declaration"},

	IMP001: {IMP001, "importcheck", "resolution", "Import target not found"},
	IMP002: {IMP002, "importcheck", "access", "Import target not visible"},

	TYP001: {TYP001, "check", "type", "Type mismatch"},
	TYP002: {TYP002, "check", "type", "Merge of incompatible types"},
	TYP003: {TYP003, "check", "type", "Construct field set mismatch"},
	TYP004: {TYP004, "check", "type", "Unknown field"},
	TYP005: {TYP005, "check", "type", "Unknown enum variant"},
	TYP006: {TYP006, "check", "type", "Non-callable value called"},
	TYP007: {TYP007, "check", "type", "Non-constructable type constructed"},

	PHA001: {PHA001, "check", "phase", "Reactive binding outside def"},
	PHA002: {PHA002, "check", "phase", "Reassignment outside sig"},
	PHA003: {PHA003, "check", "phase", "Disallowed parameter phase"},
	PHA004: {PHA004, "check", "phase", "Phase mismatch at call"},
	PHA005: {PHA005, "check", "phase", "Declared phase inconsistent with inferred phase"},

	LOW001: {LOW001, "lower", "invariant", "Lowering could not wrap phase combination"},
}
