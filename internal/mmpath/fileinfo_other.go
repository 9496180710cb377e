//go:build !unix

package mmpath

import "os"

// statCTime has no portable equivalent on non-POSIX systems (notably
// Windows, where os.FileInfo exposes creation time, not inode-change time);
// mtime is used as a conservative stand-in.
func statCTime(_ os.FileInfo, mtime Timestamp) Timestamp {
	return mtime
}
