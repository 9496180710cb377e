package target

import (
	"strings"

	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/wildcard"
)

// buildDir returns the (absolute) directory intermediates are re-rooted
// under (config `buildDir`, default "build" under wd).
func (t *Target) buildDir() mmpath.Path {
	dir := t.Config.GetStr("buildDir", "build")
	p := mmpath.New(dir)
	if !p.IsAbsolute() {
		p = t.Wd.Join(p)
	}
	return p.MakeDir()
}

// intermediatePath re-roots unit under buildDir, swapping its extension to
// `intermediateExt` (spec §4.4 step 1).
func (t *Target) intermediatePath(unit mmpath.Path, buildDir mmpath.Path) mmpath.Path {
	rel := unit.MakeRelative(t.Wd)
	ext := t.Config.GetStr("intermediateExt", ".o")
	return buildDir.Join(rel).WithExt(ext)
}

// pchArtifactPath is the compiled pch output (config `pchFile`, default
// "pch" under buildDir with the intermediate extension).
func (t *Target) pchArtifactPath() mmpath.Path {
	name := t.Config.GetStr("pchFile", "")
	if name == "" {
		return t.buildDir().JoinStr("pch" + t.Config.GetStr("intermediateExt", ".o"))
	}
	p := mmpath.New(name)
	if !p.IsAbsolute() {
		p = t.Wd.Join(p)
	}
	return p
}

// selectCompileTemplate scans the configured `compile` list from last to
// first, each entry shaped `wildcard:template`; the first wildcard matching
// the source-relative path wins (spec §4.4 step 5 — last declaration has
// highest priority, allowing later entries to override earlier ones).
func (t *Target) selectCompileTemplate(unit mmpath.Path) string {
	rel := unit.MakeRelative(t.Wd).String()
	variants := t.Config.GetArray("compile", nil)
	for i := len(variants) - 1; i >= 0; i-- {
		pattern, template, ok := strings.Cut(variants[i], ":")
		if !ok {
			continue
		}
		if wildcard.Compile(pattern).Match(rel) {
			return template
		}
	}
	return ""
}

// expandCompileCommand expands the standard substitutions into the template
// for unit's *normal* compile invocation (spec §4.4 step 6). A pch unit only
// uses `pchCompile` here when pch compilation is combined into one invocation
// (`pchCompileCombined=yes`); under the split path, Compile issues a separate
// dedicated pchCompile invocation first (see compile.go) and this, the unit's
// own normal-compile invocation, still goes through the regular
// chooseCompile/selectCompileTemplate lookup — matching
// original_source/src/compile.cpp's compile(), where pchCompile only ever
// backs the dedicated pch-building call.
func (t *Target) expandCompileCommand(unit CompileUnit, intermediate mmpath.Path) string {
	var template string
	if unit.IsPch && t.Config.GetBool("pchCompileCombined", false) {
		template = t.Config.GetStr("pchCompile", "")
	} else {
		template = t.selectCompileTemplate(unit.Path)
	}
	return t.expandTemplate(template, unit.Path, intermediate)
}

func (t *Target) expandTemplate(template string, file mmpath.Path, output mmpath.Path) string {
	extra := map[string]string{
		"file":     file.String(),
		"output":   output.String(),
		"pchFile":  t.pchArtifactPath().String(),
		"includes": t.includesFlagString(),
	}
	return config.ExpandVars(template, t.Config, extra)
}

// includesFlagString space-joins `includeCl+path` for every configured
// include path (spec §4.4 step 6's `<includes>` substitution).
func (t *Target) includesFlagString() string {
	cl := t.Config.GetStr("includeCl", "-I")
	parts := make([]string, 0, len(t.includePaths))
	for _, p := range t.includePaths {
		parts = append(parts, cl+p.String())
	}
	return strings.Join(parts, " ")
}
