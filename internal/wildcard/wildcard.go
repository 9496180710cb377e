// Package wildcard implements the ignore-pattern matcher spec §1 names as an
// out-of-scope external collaborator ("Wildcard matcher for ignore
// patterns"). It is backed by github.com/bmatcuk/doublestar/v4 (used by the
// lci example in the retrieval pack for its own ignore-file matching)
// instead of a hand-rolled glob engine, matching spec §4.1/§4.3's `ignore=`
// config entries and the wildcard half of each `compile` variant. The
// "input=*" rule does not use this package.
package wildcard

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a single compiled ignore pattern, matched against a
// slash-separated path relative to a target's working directory.
type Pattern struct {
	raw string
}

func Compile(raw string) Pattern {
	return Pattern{raw: filepathToSlash(raw)}
}

func CompileAll(patterns []string) []Pattern {
	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, Compile(p))
	}
	return out
}

// Match reports whether relPath (relative, slash-separated) matches this pattern.
func (p Pattern) Match(relPath string) bool {
	rel := filepathToSlash(relPath)
	if ok, _ := doublestar.Match(p.raw, rel); ok {
		return true
	}
	// a bare "foo.h"-style pattern (no wildcard metacharacters, no slash) also
	// matches by basename, mirroring simple Makefile-style ignore lists
	if !strings.ContainsAny(p.raw, "*?[") && !strings.Contains(p.raw, "/") {
		return path.Base(rel) == p.raw
	}
	return false
}

// MatchAny reports whether relPath matches any of the given patterns.
func MatchAny(patterns []Pattern, relPath string) bool {
	for _, p := range patterns {
		if p.Match(relPath) {
			return true
		}
	}
	return false
}

func filepathToSlash(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
