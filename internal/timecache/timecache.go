// Package timecache implements spec §2.2's TimeCache: it memoizes a
// mmpath.FileInfo per path for the duration of a single build run, so a given
// file is stat'd at most once (spec §4.1's staleness algorithm depends on
// this). Grounded on the map+mutex shape of nocc's internal/client/
// includes-cache.go, but simplified per spec §5: "TimeCache: single-threaded
// per Target; each Target owns its own" — no locking is needed.
package timecache

import "github.com/mymake-build/mymake/internal/mmpath"

type TimeCache struct {
	cache map[string]mmpath.FileInfo
}

func New() *TimeCache {
	return &TimeCache{cache: make(map[string]mmpath.FileInfo, 256)}
}

// Stat returns path's FileInfo, stat'ing the filesystem only on first lookup.
func (tc *TimeCache) Stat(path mmpath.Path) mmpath.FileInfo {
	key := path.Key()
	if info, ok := tc.cache[key]; ok {
		return info
	}
	info := mmpath.Stat(path)
	tc.cache[key] = info
	return info
}

// Invalidate drops a cached entry, forcing the next Stat to re-read the
// filesystem. Used after this run writes new intermediates (after compiling,
// so Link's stat of each intermediate reflects the just-written file).
func (tc *TimeCache) Invalidate(path mmpath.Path) {
	delete(tc.cache, path.Key())
}

func (tc *TimeCache) Count() int {
	return len(tc.cache)
}
