// Package mmpath implements the value types at the bottom of mymake's
// dependency graph (spec §2.1/§3): Path (an ordered, simplified sequence of
// segments plus a directory flag) and FileInfo (an (exists, mTime, cTime)
// stat snapshot). Grounded on original_source/src/path.h's Path class and
// nocc's internal/common/filesystem.go helpers, reworked as an immutable,
// comparable Go value type instead of a mutable C++ object.
package mmpath

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Path is an ordered sequence of segments plus a directory flag (spec §3).
// Absoluteness is held in a separate flag rather than as a leading empty
// segment. Construction always simplifies: "." is dropped, ".." cancels a
// preceding non-".." segment, and empty segments are dropped.
type Path struct {
	parts       []string
	absolute    bool
	isDirectory bool
}

// caseInsensitiveOS reports whether path comparisons should ignore case — true
// on the OS that uses back-slash path separators, matching spec §3 exactly.
func caseInsensitiveOS() bool {
	return runtime.GOOS == "windows"
}

// New parses a path string into a simplified Path. A trailing separator (or
// an empty final segment) marks it as a directory.
func New(raw string) Path {
	if raw == "" {
		return Path{}
	}

	absolute := strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "\\")
	// drive letters (C:\...) also count as absolute on Windows
	if len(raw) >= 2 && raw[1] == ':' {
		absolute = true
	}

	rawParts := strings.FieldsFunc(raw, func(r rune) bool { return r == '/' || r == '\\' })
	isDirectory := strings.HasSuffix(raw, "/") || strings.HasSuffix(raw, "\\") || raw == "." || raw == ".."

	return simplify(rawParts, absolute, isDirectory)
}

func simplify(rawParts []string, absolute, isDirectory bool) Path {
	parts := make([]string, 0, len(rawParts))
	for _, p := range rawParts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 && parts[len(parts)-1] != ".." {
				parts = parts[:len(parts)-1]
			} else if !absolute {
				parts = append(parts, "..")
			}
			// an absolute path can never go above root: ".." at the root is dropped
		default:
			parts = append(parts, p)
		}
	}
	return Path{parts: parts, absolute: absolute, isDirectory: isDirectory}
}

// Join appends a relative path (or bare segment string) below this one,
// coercing this Path into a directory first if it wasn't already one.
func (p Path) Join(rel Path) Path {
	if rel.absolute {
		return rel
	}
	combined := make([]string, 0, len(p.parts)+len(rel.parts))
	combined = append(combined, p.parts...)
	combined = append(combined, rel.parts...)
	return simplify(combined, p.absolute, rel.isDirectory)
}

// JoinStr is a convenience wrapper around Join(New(rel)).
func (p Path) JoinStr(rel string) Path {
	return p.Join(New(rel))
}

func (p Path) IsDir() bool      { return p.isDirectory }
func (p Path) IsAbsolute() bool { return p.absolute }
func (p Path) IsEmpty() bool    { return len(p.parts) == 0 && !p.absolute }

// MakeDir returns a copy of p marked as a directory.
func (p Path) MakeDir() Path {
	p.isDirectory = true
	return p
}

// Parent returns the directory containing p.
func (p Path) Parent() Path {
	if len(p.parts) == 0 {
		return p
	}
	return Path{parts: append([]string{}, p.parts[:len(p.parts)-1]...), absolute: p.absolute, isDirectory: true}
}

// First returns the first path segment (used to name a sibling target in
// cross-target include resolution, spec §4.3).
func (p Path) First() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[0]
}

// Title returns the last segment (file or directory name).
func (p Path) Title() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[len(p.parts)-1]
}

// TitleNoExt returns Title with its extension stripped.
func (p Path) TitleNoExt() string {
	t := p.Title()
	if ext := filepath.Ext(t); ext != "" {
		return t[:len(t)-len(ext)]
	}
	return t
}

// Ext returns the last extension, including the dot ("" if none).
func (p Path) Ext() string {
	return filepath.Ext(p.Title())
}

// WithExt returns a copy of p with its last extension replaced by newExt
// (newExt should include the leading dot, or be "" to strip the extension).
func (p Path) WithExt(newExt string) Path {
	if len(p.parts) == 0 {
		return p
	}
	parts := append([]string{}, p.parts...)
	last := parts[len(parts)-1]
	if ext := filepath.Ext(last); ext != "" {
		last = last[:len(last)-len(ext)]
	}
	parts[len(parts)-1] = last + newExt
	return Path{parts: parts, absolute: p.absolute, isDirectory: p.isDirectory}
}

// IsChild reports whether p is to, or lies below to, in the filesystem hierarchy.
func (p Path) IsChild(to Path) bool {
	if len(to.parts) > len(p.parts) {
		return false
	}
	for i, seg := range to.parts {
		if !segmentEqual(seg, p.parts[i]) {
			return false
		}
	}
	return true
}

// MakeRelative strips the to prefix from p, returning a relative Path.
// If p is not a descendant of to, p's full segment list is returned unchanged (best effort).
func (p Path) MakeRelative(to Path) Path {
	if !p.IsChild(to) {
		return Path{parts: append([]string{}, p.parts...), isDirectory: p.isDirectory}
	}
	rel := append([]string{}, p.parts[len(to.parts):]...)
	return Path{parts: rel, isDirectory: p.isDirectory}
}

func segmentEqual(a, b string) bool {
	if caseInsensitiveOS() {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Equal implements spec §3's equality: directory flags and absolute-ness must
// match, and all segments must match under the platform's case policy.
func (p Path) Equal(o Path) bool {
	if p.isDirectory != o.isDirectory || p.absolute != o.absolute || len(p.parts) != len(o.parts) {
		return false
	}
	for i := range p.parts {
		if !segmentEqual(p.parts[i], o.parts[i]) {
			return false
		}
	}
	return true
}

// String renders the path using the host's native separator.
func (p Path) String() string {
	sep := "/"
	if runtime.GOOS == "windows" {
		sep = "\\"
	}
	var b strings.Builder
	if p.absolute {
		b.WriteString(sep)
	}
	b.WriteString(strings.Join(p.parts, sep))
	if p.isDirectory && len(p.parts) > 0 {
		b.WriteString(sep)
	}
	return b.String()
}

// Key returns a canonical string form suitable as a map key: Path itself
// holds a slice and so is not a comparable Go type, but the scanner's record
// cache and the time cache need Path-keyed lookups, so they key by Key()
// instead (the command cache is keyed by String()). Two paths that are Equal always
// produce the same Key, and vice versa.
func (p Path) Key() string {
	norm := p.parts
	if caseInsensitiveOS() {
		norm = make([]string, len(p.parts))
		for i, s := range p.parts {
			norm[i] = strings.ToLower(s)
		}
	}
	var b strings.Builder
	if p.absolute {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(norm, "/"))
	if p.isDirectory {
		b.WriteByte('/')
	}
	return b.String()
}
