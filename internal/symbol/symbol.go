// Package symbol defines the identifiers that name every declaration in a
// FLUX program: packages, versions, and fully qualified symbols built from
// them.
package symbol

import (
	"fmt"
	"strings"
)

// Channel distinguishes release tracks of a Package (e.g. "stable", "beta").
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
)

// Version is (major, minor, patch, optional build, channel, variant).
type Version struct {
	Major, Minor, Patch int
	Build               string // optional, e.g. "build.7" (String adds the "+"); empty if unset
	Channel             Channel
	Variant             string // optional, e.g. "wasm"; empty if unset
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Build != "" {
		s += "+" + v.Build
	}
	if v.Channel != "" && v.Channel != ChannelStable {
		s += "-" + string(v.Channel)
	}
	if v.Variant != "" {
		s += "@" + v.Variant
	}
	return s
}

// Equals compares all Version fields.
func (v Version) Equals(o Version) bool {
	return v == o
}

// Package identifies the owner of a Symbol: (organization, name, version,
// optional assembly, optional local alias). Two packages are equal iff
// organization, name, and version match; Assembly and Alias are metadata
// that travel with an import, not part of identity.
type Package struct {
	Organization string
	Name         string
	Version      Version
	Assembly     string // optional sub-assembly within the package
	Alias        string // optional local alias assigned by an importer
}

// SelfAlias is reserved; it always refers to the current package and may
// never be assigned as a Package.Alias.
const SelfAlias = "self"

// Equals reports whether two packages share organization, name, and version.
// Assembly/Alias are deliberately excluded from identity.
func (p Package) Equals(o Package) bool {
	return p.Organization == o.Organization && p.Name == o.Name && p.Version.Equals(o.Version)
}

func (p Package) String() string {
	s := fmt.Sprintf("%s/%s@%s", p.Organization, p.Name, p.Version.String())
	if p.Assembly != "" {
		s += "#" + p.Assembly
	}
	return s
}

// Symbol is a fully qualified identity: (package, ordered path of segments).
// The root symbol has an empty path. Symbols are value types: comparable
// with == only if the caller has first collapsed Path into a comparable
// form (use Key for map keys; == works for zero-length-path roots only
// because Path is a slice).
type Symbol struct {
	Pkg  Package
	Path []string
}

// Root builds the root symbol of a package (empty path).
func Root(pkg Package) Symbol {
	return Symbol{Pkg: pkg, Path: nil}
}

// Child appends a segment, returning a new Symbol. The receiver is
// untouched (Path is copied, never mutated in place).
func (s Symbol) Child(seg string) Symbol {
	next := make([]string, len(s.Path)+1)
	copy(next, s.Path)
	next[len(s.Path)] = seg
	return Symbol{Pkg: s.Pkg, Path: next}
}

// Parent drops the last segment. Undefined (panics) at the root; callers
// must check Path before calling.
func (s Symbol) Parent() Symbol {
	if len(s.Path) == 0 {
		panic("symbol: Parent called on root symbol")
	}
	return Symbol{Pkg: s.Pkg, Path: append([]string(nil), s.Path[:len(s.Path)-1]...)}
}

// Name is the last segment, or "" at the root.
func (s Symbol) Name() string {
	if len(s.Path) == 0 {
		return ""
	}
	return s.Path[len(s.Path)-1]
}

// IsRoot reports whether this symbol names a package itself.
func (s Symbol) IsRoot() bool {
	return len(s.Path) == 0
}

// IsParent is true when self.Pkg == other.Pkg and self.Path is a (possibly
// equal, non-strict) prefix of other.Path.
func (s Symbol) IsParent(other Symbol) bool {
	if !s.Pkg.Equals(other.Pkg) {
		return false
	}
	if len(s.Path) > len(other.Path) {
		return false
	}
	for i, seg := range s.Path {
		if other.Path[i] != seg {
			return false
		}
	}
	return true
}

// Equals compares package identity and path contents.
func (s Symbol) Equals(o Symbol) bool {
	if !s.Pkg.Equals(o.Pkg) || len(s.Path) != len(o.Path) {
		return false
	}
	for i := range s.Path {
		if s.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// Key renders a stable, hashable string for use as a map key. Value
// equality of Symbol is otherwise awkward to use as a Go map key because
// Path is a slice.
func (s Symbol) Key() string {
	var b strings.Builder
	b.WriteString(s.Pkg.Organization)
	b.WriteByte('/')
	b.WriteString(s.Pkg.Name)
	b.WriteByte('@')
	b.WriteString(s.Pkg.Version.String())
	if s.Pkg.Assembly != "" {
		b.WriteByte('#')
		b.WriteString(s.Pkg.Assembly)
	}
	for _, seg := range s.Path {
		b.WriteByte('.')
		b.WriteString(seg)
	}
	return b.String()
}

func (s Symbol) String() string {
	if len(s.Path) == 0 {
		return s.Pkg.String()
	}
	return s.Pkg.String() + "::" + strings.Join(s.Path, "::")
}
