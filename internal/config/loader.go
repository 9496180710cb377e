package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ActiveSet is the set of tags a section must be compatible with to apply
// (spec §6): the platform tag ("windows"/"unix"), the word size ("64"/"32"),
// and every option name given on the command line.
type ActiveSet map[string]bool

func NewActiveSet(names ...string) ActiveSet {
	set := make(ActiveSet, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Load reads and parses a sectioned config file, keeping only the
// assignments from sections whose tags are satisfied by active.
func Load(fileName string, active ActiveSet) (*Config, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, active)
}

// Parse parses the sectioned key/value format directly from a reader, for
// tests and for embedding config text without a file on disk.
//
// Grammar (spec §6): `#` starts a line comment, blank lines are ignored,
// `[tag1,tag2,!tag3]` opens a section active only while `active` contains
// every non-negated tag and none of the negated ones, and each line inside an
// active section is either `key=value` (replace) or `key+=value` (append).
func Parse(r io.Reader, active ActiveSet) (*Config, error) {
	cfg := New()
	sectionActive := true // content before any section header always applies
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: malformed section header %q", lineNo, line)
			}
			sectionActive = sectionSatisfied(line[1:len(line)-1], active)
			continue
		}

		if !sectionActive {
			continue
		}

		if err := applyAssignment(cfg, line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx != -1 {
		return line[:idx]
	}
	return line
}

func sectionSatisfied(tagsRaw string, active ActiveSet) bool {
	for _, tag := range strings.Split(tagsRaw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if strings.HasPrefix(tag, "!") {
			if active[strings.TrimPrefix(tag, "!")] {
				return false
			}
			continue
		}
		if !active[tag] {
			return false
		}
	}
	return true
}

func applyAssignment(cfg *Config, line string, lineNo int) error {
	if idx := strings.Index(line, "+="); idx != -1 {
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+2:])
		if key == "" {
			return fmt.Errorf("line %d: missing key before +=", lineNo)
		}
		cfg.appendValue(key, value)
		return nil
	}
	idx := strings.Index(line, "=")
	if idx == -1 {
		return fmt.Errorf("line %d: expected key=value or key+=value, got %q", lineNo, line)
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return fmt.Errorf("line %d: missing key before =", lineNo)
	}
	cfg.set(key, value)
	return nil
}
