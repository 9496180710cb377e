package target

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mymake-build/mymake/internal/dsutil"
	"github.com/mymake-build/mymake/internal/mmpath"
)

// FindError reports a fatal dependency-discovery failure (spec §4.3's "pch
// must be included first" rule, spec §7's "pch ordering violation" error kind).
type FindError struct {
	Target string
	Reason string
}

func (e *FindError) Error() string {
	return fmt.Sprintf("%s: %s", e.Target, e.Reason)
}

// queueEntry carries a unit's autoFound flag through the dedup queue
// (dsutil.UniqueQueue needs a comparable element, so paths are queued by key
// and looked back up in a side table).
type queueEntry struct {
	path      mmpath.Path
	autoFound bool
	isPch     bool
}

// Find implements spec §4.3's dependency-discovery algorithm: it seeds a
// FIFO with the configured pch (if any) and the `input` array, then performs
// a breadth-first walk following each unit's include closure, classifying
// out-of-tree includes as sibling-target dependencies instead of compile
// units.
func (t *Target) Find() error {
	queue := dsutil.NewUniqueQueue[string]()
	entries := make(map[string]queueEntry)

	inputs, err := t.seedInputs()
	if err != nil {
		return err
	}
	for _, in := range inputs {
		key := in.path.Key()
		entries[key] = in
		queue.Push(key)
	}

	var firstCandidateName string

	for queue.Any() {
		key := queue.Pop()
		entry := entries[key]
		unit := entry.path

		if !unit.IsChild(t.Wd.Parent()) {
			// genuinely outside the whole project tree: nothing sane to record
			continue
		}
		if !unit.IsChild(t.Wd) {
			rel := unit.MakeRelative(t.Wd.Parent())
			sibling := rel.First()
			if sibling != "" {
				t.DependsOn[sibling] = true
			}
			continue // cross-target inclusion is a scheduling hint only
		}

		isPch := entry.isPch
		t.ToCompile = append(t.ToCompile, CompileUnit{Path: unit, IsPch: isPch, AutoFound: entry.autoFound})

		if firstCandidateName == "" && !isPch && !entry.autoFound {
			firstCandidateName = unit.TitleNoExt()
		}

		info := t.Scanner.Info(unit)

		if t.pchHeader != "" && !isPch {
			if info.FirstInclude == "" || info.FirstInclude != t.pchHeader {
				return &FindError{Target: t.Name, Reason: fmt.Sprintf("pch must be included first in every implementation file (violated by %s)", unit)}
			}
		}

		for _, h := range info.Includes {
			if !h.IsChild(t.Wd) && h.IsChild(t.Wd.Parent()) {
				if sibling := h.MakeRelative(t.Wd.Parent()).First(); sibling != "" {
					t.DependsOn[sibling] = true
				}
			}
			candidate, ok := t.findImplementation(h)
			if !ok {
				continue
			}
			ckey := candidate.Key()
			if _, seen := entries[ckey]; !seen {
				entries[ckey] = queueEntry{path: candidate, autoFound: true}
			}
			queue.Push(ckey)
		}
	}

	t.resolveOutput(firstCandidateName)

	if len(t.ToCompile) == 0 {
		return &FindError{Target: t.Name, Reason: "no compile units found"}
	}
	return nil
}

// seedInputs expands the `input` config array (spec §4.3 step 1): the pch
// source first if configured, then each input, resolving extension-less
// names against `ext` and expanding a bare "*" into every source file under
// wd (sorted per spec §9's open question on input=*'s traversal order).
func (t *Target) seedInputs() ([]queueEntry, error) {
	var out []queueEntry

	if t.pchHeader != "" {
		pchSrc, ok := t.resolveInputName(t.pchHeader)
		if ok {
			out = append(out, queueEntry{path: pchSrc, isPch: true})
		}
	}

	for _, raw := range t.Config.GetArray("input", nil) {
		if raw == "*" {
			found, err := t.findAllSources()
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				out = append(out, queueEntry{path: p})
			}
			continue
		}
		p, ok := t.resolveInputName(raw)
		if !ok {
			return nil, fmt.Errorf("%s: input %q not found", t.Name, raw)
		}
		out = append(out, queueEntry{path: p})
	}

	return out, nil
}

func (t *Target) resolveInputName(raw string) (mmpath.Path, bool) {
	p := mmpath.New(raw)
	if !p.IsAbsolute() {
		p = t.Wd.Join(p)
	}
	if p.Ext() != "" {
		return p, mmpath.Stat(p).Exists
	}
	for _, ext := range t.validExts {
		candidate := p.WithExt(ext)
		if mmpath.Stat(candidate).Exists {
			return candidate, true
		}
	}
	return p, false
}

// findAllSources recursively collects every file under wd whose extension is
// valid, sorted by path for reproducibility (spec §9 open question).
func (t *Target) findAllSources() ([]mmpath.Path, error) {
	var out []mmpath.Path
	root := t.Wd.String()
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		for _, valid := range t.validExts {
			if ext == valid {
				rel, relErr := filepath.Rel(root, p)
				if relErr != nil {
					rel = p
				}
				out = append(out, t.Wd.JoinStr(filepath.ToSlash(rel)))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// findImplementation tests header h against each valid extension, returning
// the first implementation file that exists on disk (spec §4.3 step 2's
// header→implementation auto-discovery rule; missing implementations are not
// errors).
func (t *Target) findImplementation(h mmpath.Path) (mmpath.Path, bool) {
	for _, ext := range t.validExts {
		candidate := h.WithExt(ext)
		if mmpath.Stat(candidate).Exists {
			return candidate, true
		}
	}
	return mmpath.Path{}, false
}

// resolveOutput determines the output artifact name (spec §4.3 step 3):
// execDir/(outputName.execExt), where outputName defaults to the first
// non-pch, non-auto-found input's title, falling back to wd's own name.
func (t *Target) resolveOutput(firstCandidateName string) {
	outputName := t.Config.GetStr("output", "")
	if outputName == "" {
		outputName = firstCandidateName
	}
	if outputName == "" {
		outputName = t.Wd.Title()
	}

	execExt := t.Config.GetStr("execExt", "")
	execDir := t.Config.GetStr("execDir", "")

	full := outputName
	if execExt != "" {
		full = outputName + execExt
	}

	out := mmpath.New(full)
	if execDir != "" {
		dir := mmpath.New(execDir)
		if !dir.IsAbsolute() {
			dir = t.Wd.Join(dir)
		}
		out = dir.Join(out)
	} else if !out.IsAbsolute() {
		out = t.Wd.Join(out)
	}
	t.Output = out
}
