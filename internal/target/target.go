// Package target implements spec §3/§4.3/§4.4's Target: a single
// compilation-unit group built from one working directory under one merged
// Config. Grounded on original_source/src/compile.cpp (Compiler::compile,
// the per-unit staleness/intermediate-path logic) and
// src/compileproject.cpp (the sibling-target discovery rule via
// wd.parent()-relative paths).
package target

import (
	"strconv"

	"github.com/mymake-build/mymake/internal/cmdcache"
	"github.com/mymake-build/mymake/internal/config"
	"github.com/mymake-build/mymake/internal/mmpath"
	"github.com/mymake-build/mymake/internal/scanner"
	"github.com/mymake-build/mymake/internal/timecache"
	"github.com/mymake-build/mymake/internal/wildcard"
)

// CompileUnit is spec §3's CompileUnit value type.
type CompileUnit struct {
	Path      mmpath.Path
	IsPch     bool
	AutoFound bool
}

// Target is spec §3's runtime Target record.
type Target struct {
	Name   string // directory name, used as the sibling-dependency key
	Wd     mmpath.Path
	Config *config.Config

	Scanner  *scanner.Scanner
	Commands *cmdcache.CommandCache
	Times    *timecache.TimeCache

	ToCompile []CompileUnit
	Output    mmpath.Path

	DependsOn map[string]bool // sibling target names discovered via cross-tree includes

	LinkOutput  bool
	ForwardDeps bool

	ignorePatterns []wildcard.Pattern
	includePaths   []mmpath.Path
	validExts      []string
	pchHeader      string // the configured `pch` header text, "" if none

	ProcLimit int // this target's ProcessGroup local cap, from config `maxThreads`/`parallel`

	linkInputs []compiledUnit // populated by Compile, consumed by Link
}

// New builds a Target rooted at wd with cfg, wiring a fresh Scanner/TimeCache
// and the given shared CommandCache (shared across a Project's targets, per
// spec §3's ownership rule: "command-cache are owned by the per-target
// (single-target build) or project (multi-target build)").
func New(name string, wd mmpath.Path, cfg *config.Config, commands *cmdcache.CommandCache) *Target {
	exts := cfg.GetArray("ext", []string{".cpp", ".cc", ".c"})

	var includePaths []mmpath.Path
	for _, raw := range cfg.GetArray("include", nil) {
		p := mmpath.New(raw)
		if !p.IsAbsolute() {
			p = wd.Join(p)
		}
		includePaths = append(includePaths, p)
	}

	t := &Target{
		Name:        name,
		Wd:          wd,
		Config:      cfg,
		Scanner:     scanner.New(wd, includePaths),
		Commands:    commands,
		Times:       timecache.New(),
		DependsOn:   make(map[string]bool),
		LinkOutput:  cfg.GetBool("linkOutput", true),
		ForwardDeps: cfg.GetBool("forwardDeps", false),
		includePaths: includePaths,
		validExts:    exts,
		pchHeader:    cfg.GetStr("pch", ""),
		ProcLimit:    targetProcLimit(cfg),
	}
	t.Scanner.SetIgnorePatterns(cfg.GetArray("ignore", nil))
	t.ignorePatterns = wildcard.CompileAll(cfg.GetArray("ignore", nil))
	return t
}

func targetProcLimit(cfg *config.Config) int {
	if !cfg.GetBool("parallel", true) {
		return 1
	}
	n, err := strconv.Atoi(cfg.GetStr("maxThreads", "1"))
	if err != nil || n < 1 {
		n = 1
	}
	return n
}

func (t *Target) isIgnored(relOrAbs mmpath.Path) bool {
	if len(t.ignorePatterns) == 0 {
		return false
	}
	rel := relOrAbs.MakeRelative(t.Wd).String()
	return wildcard.MatchAny(t.ignorePatterns, rel)
}
