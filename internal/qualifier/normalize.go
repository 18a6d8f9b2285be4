package qualifier

import "golang.org/x/text/unicode/norm"

// NormalizeIdent applies Unicode NFC normalization to an identifier
// segment before it becomes part of a Symbol path, so two differently
// encoded spellings of the same identifier collapse to one symbol. The
// lexer/parser are external collaborators (spec §1) and may hand us either
// form; this package is the first point fluxc controls, so normalization
// happens here rather than being silently skipped.
//
// Exported so any later stage keying a lookup by identifier (e.g.
// internal/check resolving an Ident against the qualifier's LocalMap)
// normalizes under the same rule instead of drifting out of sync with it.
func NormalizeIdent(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}
