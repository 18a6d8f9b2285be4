package decl

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// SymbolEntry is one row of the global symbol table (spec §3.6).
type SymbolEntry struct {
	Access    ast.AccessLevel
	Declaring symbol.Symbol // the declaring module
	Type      types.Type
}

// MethodEntry is one row of the method table.
type MethodEntry struct {
	Access    ast.AccessLevel
	Sym       symbol.Symbol
	Declaring symbol.Symbol
	Type      types.Function
}

// ExternalBinding is a (source-file, imported-name) pair for a declaration
// that links to a runtime-provided implementation (spec §3.6, §6.1).
type ExternalBinding struct {
	SourceFile   string
	ImportedName string
}

// Builder accumulates table rows during collection, then freezes into an
// immutable Tables value. This is the builder-then-freeze discipline
// described in the Design Notes (§9 "Global mutable state"), grounded on
// the teacher's internal/iface.Builder accumulate-then-finalize shape.
type Builder struct {
	symbols   map[string]SymbolEntry
	methods   map[string]map[string]MethodEntry
	protocols map[string]map[string]symbol.Symbol
	externals map[string]ExternalBinding
	implBases map[string]bool
	frozen    bool
}

// NewBuilder creates an empty, mutable table builder.
func NewBuilder() *Builder {
	return &Builder{
		symbols:   make(map[string]SymbolEntry),
		methods:   make(map[string]map[string]MethodEntry),
		protocols: make(map[string]map[string]symbol.Symbol),
		externals: make(map[string]ExternalBinding),
		implBases: make(map[string]bool),
	}
}

// AddImplForBase records that base now has an impl block. Returns false
// without mutating the builder if base already has one (spec §3.6/§4.2:
// "require at most one impl per base symbol", surfaced as COL002).
func (b *Builder) AddImplForBase(base symbol.Symbol) bool {
	b.mustNotBeFrozen()
	key := base.Key()
	if b.implBases[key] {
		return false
	}
	b.implBases[key] = true
	return true
}

// AddSymbol registers sym in the global symbol table. Returns false
// without mutating the builder if sym is already registered (duplicate
// top-level declaration, surfaced by the caller as COL003).
func (b *Builder) AddSymbol(sym symbol.Symbol, entry SymbolEntry) bool {
	b.mustNotBeFrozen()
	key := sym.Key()
	if _, exists := b.symbols[key]; exists {
		return false
	}
	b.symbols[key] = entry
	return true
}

// AddMethod registers a method under base in the method table (only
// called for methods whose first parameter is literally named "self",
// spec §3.6/§4.2).
func (b *Builder) AddMethod(base symbol.Symbol, name string, entry MethodEntry) {
	b.mustNotBeFrozen()
	key := base.Key()
	if b.methods[key] == nil {
		b.methods[key] = make(map[string]MethodEntry)
	}
	b.methods[key][name] = entry
}

// AddProtocolImpl registers an impl symbol for a (base, protocol) pair.
// Returns false without mutating the builder if that pair is already
// registered (spec §3.6: "at most once").
func (b *Builder) AddProtocolImpl(base, protocol, impl symbol.Symbol) bool {
	b.mustNotBeFrozen()
	baseKey := base.Key()
	if b.protocols[baseKey] == nil {
		b.protocols[baseKey] = make(map[string]symbol.Symbol)
	}
	if _, exists := b.protocols[baseKey][protocol.Key()]; exists {
		return false
	}
	b.protocols[baseKey][protocol.Key()] = impl
	return true
}

// AddExternal registers an external binding for sym.
func (b *Builder) AddExternal(sym symbol.Symbol, binding ExternalBinding) {
	b.mustNotBeFrozen()
	b.externals[sym.Key()] = binding
}

func (b *Builder) mustNotBeFrozen() {
	if b.frozen {
		panic("decl: builder used after Freeze")
	}
}

// Freeze seals the builder. The builder must not be mutated afterward;
// Tables is the read-only view shared across all later phases.
func (b *Builder) Freeze() *Tables {
	b.frozen = true
	return &Tables{
		symbols:   b.symbols,
		methods:   b.methods,
		protocols: b.protocols,
		externals: b.externals,
	}
}

// Tables is the frozen, read-only view of the four global tables (spec
// §3.6). Every read is lock-free: the underlying maps are never mutated
// again once a Builder has been frozen.
type Tables struct {
	symbols   map[string]SymbolEntry
	methods   map[string]map[string]MethodEntry
	protocols map[string]map[string]symbol.Symbol
	externals map[string]ExternalBinding
}

// Symbol looks up a declared symbol.
func (t *Tables) Symbol(sym symbol.Symbol) (SymbolEntry, bool) {
	e, ok := t.symbols[sym.Key()]
	return e, ok
}

// Method looks up a method by base type and name.
func (t *Tables) Method(base symbol.Symbol, name string) (MethodEntry, bool) {
	m, ok := t.methods[base.Key()]
	if !ok {
		return MethodEntry{}, false
	}
	e, ok := m[name]
	return e, ok
}

// Methods returns every method registered for base, keyed by name.
func (t *Tables) Methods(base symbol.Symbol) map[string]MethodEntry {
	return t.methods[base.Key()]
}

// ProtocolImpl looks up the impl symbol implementing protocol for base.
func (t *Tables) ProtocolImpl(base, protocol symbol.Symbol) (symbol.Symbol, bool) {
	m, ok := t.protocols[base.Key()]
	if !ok {
		return symbol.Symbol{}, false
	}
	impl, ok := m[protocol.Key()]
	return impl, ok
}

// External looks up a symbol's external binding.
func (t *Tables) External(sym symbol.Symbol) (ExternalBinding, bool) {
	e, ok := t.externals[sym.Key()]
	return e, ok
}

// ResolveNominal implements types.Resolver by looking a Nominal's symbol up
// in the symbol table and returning its declared type.
func (t *Tables) ResolveNominal(n types.Nominal) (types.Type, bool) {
	e, ok := t.Symbol(n.Sym)
	if !ok {
		return nil, false
	}
	return e.Type, true
}
