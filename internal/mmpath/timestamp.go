package mmpath

import "time"

// Timestamp is a microsecond count from a platform-stable epoch (unix epoch
// here), as spec §3 requires: "an integer microsecond count ... comparison is
// total." Grounded on original_source/src/timestamp.h (nat64 microsecond tick).
type Timestamp int64

// Zero is the epoch; file-does-not-exist FileInfo carries it.
const Zero Timestamp = 0

func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t))
}

func (t Timestamp) Before(o Timestamp) bool { return t < o }
func (t Timestamp) After(o Timestamp) bool  { return t > o }

// Max returns the later of two timestamps, as used throughout staleness checks
// (lastModified = max mTime over a file and its include closure, §4.1).
func Max(a, b Timestamp) Timestamp {
	if a > b {
		return a
	}
	return b
}
