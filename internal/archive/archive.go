// Package archive implements the package archive serialization spec §6.2
// describes as compiler output: the stable, separately-compilable
// interface of a package (its symbol, method, and protocol-impl tables
// plus external bindings) as a deterministic JSON document, alongside the
// full reactive IR (internal/ir) for every source file, kept in memory
// for a downstream runtime/backend rather than round-tripped through the
// wire format.
//
// Grounded on the teacher's internal/iface.Iface + internal/iface/json.go:
// the same split between an in-memory interface value and a
// ToNormalizedJSON encoding (sorted fields, canonical string forms of
// types) that gives two packages compiled independently a stable digest
// to compare — generalized from one export table to the four tables
// spec §3.6 defines, and from a single-package Iface to Archive's added
// per-file *ir.File payload, since this pipeline's output is the lowered
// reactive IR rather than a typed core AST.
package archive

import (
	"encoding/json"
	"sort"

	"github.com/fluxlang/fluxc/internal/ir"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Schema is the archive wire format's version tag (spec §6.2), mirroring
// the teacher's "ailang.iface/v1" convention.
const Schema = "flux.archive/v1"

// SymbolRecord is one row of the global symbol table (spec §3.6), in its
// wire form: Type is rendered with types.Type.String() rather than
// serialized structurally, exactly as the teacher's FuncJSON/TypeJSON
// carry canonicalized type strings instead of a full type AST.
type SymbolRecord struct {
	Name      string `json:"name"`
	Access    string `json:"access"`
	Declaring string `json:"declaring"`
	Type      string `json:"type"`
}

// MethodRecord is one row of the method table, keyed by its base type.
type MethodRecord struct {
	Base   string `json:"base"`
	Name   string `json:"name"`
	Access string `json:"access"`
	Type   string `json:"type"`
}

// ProtocolImplRecord is one (base, protocol) -> impl row of the
// protocol-impl table.
type ProtocolImplRecord struct {
	Base     string `json:"base"`
	Protocol string `json:"protocol"`
	Impl     string `json:"impl"`
}

// ExternalRecord is one external binding (spec §3.6, §6.1).
type ExternalRecord struct {
	Name         string `json:"name"`
	SourceFile   string `json:"source_file"`
	ImportedName string `json:"imported_name"`
}

// File pairs a source file's path with its lowered reactive IR.
type File struct {
	Path string
	IR   *ir.File
}

// Archive is one package's compiled output (spec §6.2): the stable
// interface tables, and the full reactive IR for every file belonging to
// the package.
type Archive struct {
	Name    string
	Version string
	Schema  string

	Symbols       []SymbolRecord
	Methods       []MethodRecord
	ProtocolImpls []ProtocolImplRecord
	Externals     []ExternalRecord

	Files []File
}

// New creates an empty Archive for the named package.
func New(name, version string) *Archive {
	return &Archive{Name: name, Version: version, Schema: Schema}
}

// AddSymbol records one symbol-table row.
func (a *Archive) AddSymbol(r SymbolRecord) { a.Symbols = append(a.Symbols, r) }

// AddMethod records one method-table row.
func (a *Archive) AddMethod(r MethodRecord) { a.Methods = append(a.Methods, r) }

// AddProtocolImpl records one protocol-impl-table row.
func (a *Archive) AddProtocolImpl(r ProtocolImplRecord) { a.ProtocolImpls = append(a.ProtocolImpls, r) }

// AddExternal records one external binding.
func (a *Archive) AddExternal(r ExternalRecord) { a.Externals = append(a.Externals, r) }

// AddFile attaches one source file's lowered IR.
func (a *Archive) AddFile(path string, file *ir.File) {
	a.Files = append(a.Files, File{Path: path, IR: file})
}

// wireDoc is the JSON shape ToJSON/FromJSON exchange: only the stable
// interface tables, never the reactive IR bodies (spec §6.2's output
// split — see DESIGN.md). Symbol, Method, ProtocolImpl, and External rows
// are sorted for determinism, matching the teacher's ToNormalizedJSON.
type wireDoc struct {
	Schema        string               `json:"schema"`
	Name          string               `json:"name"`
	Version       string               `json:"version"`
	Symbols       []SymbolRecord       `json:"symbols"`
	Methods       []MethodRecord       `json:"methods"`
	ProtocolImpls []ProtocolImplRecord `json:"protocol_impls"`
	Externals     []ExternalRecord     `json:"externals"`
}

// ToJSON renders the archive's stable interface tables as deterministic
// JSON (spec §6.2): two independent compilations of the same sources
// produce byte-identical output.
func (a *Archive) ToJSON() ([]byte, error) {
	doc := wireDoc{
		Schema:        Schema,
		Name:          a.Name,
		Version:       a.Version,
		Symbols:       append([]SymbolRecord(nil), a.Symbols...),
		Methods:       append([]MethodRecord(nil), a.Methods...),
		ProtocolImpls: append([]ProtocolImplRecord(nil), a.ProtocolImpls...),
		Externals:     append([]ExternalRecord(nil), a.Externals...),
	}
	sort.Slice(doc.Symbols, func(i, j int) bool { return doc.Symbols[i].Name < doc.Symbols[j].Name })
	sort.Slice(doc.Methods, func(i, j int) bool {
		if doc.Methods[i].Base != doc.Methods[j].Base {
			return doc.Methods[i].Base < doc.Methods[j].Base
		}
		return doc.Methods[i].Name < doc.Methods[j].Name
	})
	sort.Slice(doc.ProtocolImpls, func(i, j int) bool {
		if doc.ProtocolImpls[i].Base != doc.ProtocolImpls[j].Base {
			return doc.ProtocolImpls[i].Base < doc.ProtocolImpls[j].Base
		}
		return doc.ProtocolImpls[i].Protocol < doc.ProtocolImpls[j].Protocol
	})
	sort.Slice(doc.Externals, func(i, j int) bool { return doc.Externals[i].Name < doc.Externals[j].Name })

	return json.MarshalIndent(doc, "", "  ")
}

// FromJSON parses an archive's interface tables back into a fresh
// Archive (Files is left empty — the wire form never carries bodies).
func FromJSON(data []byte) (*Archive, error) {
	var doc wireDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &Archive{
		Name:          doc.Name,
		Version:       doc.Version,
		Schema:        doc.Schema,
		Symbols:       doc.Symbols,
		Methods:       doc.Methods,
		ProtocolImpls: doc.ProtocolImpls,
		Externals:     doc.Externals,
	}, nil
}

// SymbolRecordFrom builds a SymbolRecord from a resolved symbol, access
// level, and type, string-rendering Type and Declaring the way the
// teacher's ToNormalizedJSON canonicalizes a Scheme.
func SymbolRecordFrom(sym symbol.Symbol, access string, declaring symbol.Symbol, typ types.Type) SymbolRecord {
	return SymbolRecord{Name: sym.Name(), Access: access, Declaring: declaring.String(), Type: typ.String()}
}
