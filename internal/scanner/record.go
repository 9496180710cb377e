package scanner

import "github.com/mymake-build/mymake/internal/mmpath"

// record is the per-file cache entry (spec §3's IncludeRecord), keyed by
// file.Key() in Scanner.cache.
type record struct {
	file         mmpath.Path
	lastModified mmpath.Timestamp
	firstInclude string
	includes     []mmpath.Path
	ignored      bool
	valid        bool
}

// IncludeInfo is the result of Scanner.Info: the transitive include closure
// of one file plus the text of its first include line (spec §3).
type IncludeInfo struct {
	File         mmpath.Path
	FirstInclude string
	Includes     []mmpath.Path
	Ignored      bool
}

// LastModified is the max mTime across the file itself and every file in its
// include closure (original_source/src/includes.cpp's IncludeInfo::lastModified).
func (info IncludeInfo) LastModified(stat func(mmpath.Path) mmpath.FileInfo) mmpath.Timestamp {
	r := stat(info.File).MTime
	for _, inc := range info.Includes {
		r = mmpath.Max(r, stat(inc).MTime)
	}
	return r
}
