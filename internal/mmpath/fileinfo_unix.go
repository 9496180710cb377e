//go:build unix

package mmpath

import (
	"os"
	"syscall"
)

// statCTime extracts the inode change time on POSIX systems, where it is
// available via the stat(2) syscall struct. Falls back to mtime if the
// underlying Sys() value isn't the expected type (e.g. on exotic filesystems).
func statCTime(info os.FileInfo, mtime Timestamp) Timestamp {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return mtime
	}
	return Timestamp(stat.Ctim.Sec*1_000_000 + stat.Ctim.Nsec/1_000)
}
