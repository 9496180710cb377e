package mmpath

import "os"

// FileInfo is the (exists, mTime, cTime) stat snapshot spec §3 defines.
// A non-existent file carries Exists == false and zero timestamps.
type FileInfo struct {
	Exists bool
	MTime  Timestamp
	CTime  Timestamp
}

// Stat reads file metadata for path directly from the filesystem. Callers on
// a hot path should go through a TimeCache instead so a given path is stat'd
// at most once per build run (spec §4.1's staleness algorithm).
func Stat(path Path) FileInfo {
	info, err := os.Stat(path.String())
	if err != nil {
		return FileInfo{}
	}
	mtime := FromTime(info.ModTime())
	return FileInfo{
		Exists: true,
		MTime:  mtime,
		CTime:  statCTime(info, mtime),
	}
}
