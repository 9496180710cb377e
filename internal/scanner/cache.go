package scanner

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mymake-build/mymake/internal/mmpath"
)

// Load reads a persistent include cache from fileName (spec §6's "includes"
// cache format), grounded on original_source/src/includes.cpp's
// Includes::load. The leading run of `i<path>` lines must match s's
// includePaths exactly (same paths, same order); any mismatch discards the
// entire cache rather than risk stale resolutions under a changed search
// path. A missing file is not an error.
func (s *Scanner) Load(fileName string) error {
	f, err := os.Open(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	incID := 0
	var line string
	haveLine := false
	for scan.Scan() {
		line = scan.Text()
		if line == "" {
			continue
		}
		if line[0] != 'i' {
			haveLine = true
			break
		}
		if incID >= len(s.includePaths) || s.includePaths[incID].Key() != mmpath.New(line[1:]).Key() {
			return nil // include paths changed: discard the whole cache
		}
		incID++
		haveLine = false
	}
	if incID != len(s.includePaths) {
		return nil
	}
	if !haveLine {
		return nil // reached EOF while still inside the include-path header; no data to load
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current *record
	for {
		if line != "" {
			switch line[0] {
			case '+':
				current = nil
				rest := line[1:]
				space := strings.IndexByte(rest, ' ')
				if space == -1 {
					break
				}
				ts, err := strconv.ParseInt(rest[:space], 10, 64)
				if err != nil {
					break
				}
				modified := mmpath.Timestamp(ts)
				file := mmpath.New(rest[space+1:])
				onDisk := mmpath.Stat(file).MTime
				if onDisk <= modified {
					rec := &record{file: file, lastModified: modified, valid: true}
					s.cache[file.Key()] = rec
					current = rec
				}
			case '>':
				if current != nil {
					current.firstInclude = line[1:]
				}
			case '-':
				if current != nil {
					current.includes = append(current.includes, mmpath.New(line[1:]))
				}
			}
		}
		if !scan.Scan() {
			break
		}
		line = scan.Text()
	}

	return scan.Err()
}

// Save writes the cache in the same format Load reads (spec §6): the
// configured include paths first (so a later Load can detect a changed
// search path), then one block per valid record.
func (s *Scanner) Save(fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range s.includePaths {
		fmt.Fprintf(w, "i%s\n", p.String())
	}
	for _, rec := range s.cache {
		if !rec.valid {
			continue
		}
		fmt.Fprintf(w, "+%d %s\n", int64(rec.lastModified), rec.file.String())
		if rec.firstInclude != "" {
			fmt.Fprintf(w, ">%s\n", rec.firstInclude)
		}
		for _, inc := range rec.includes {
			fmt.Fprintf(w, "-%s\n", inc.String())
		}
	}
	return w.Flush()
}
