package procpool

import (
	"runtime"
	"strings"
)

// envSeparator matches spec §4.6: ';' on Windows, ':' elsewhere.
func envSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// BuildEnv merges base (typically os.Environ()) with config `env` directives
// (spec §4.6: `NAME=value` replace, `NAME<=value` prepend, `NAME=>value`
// append), returning a []string suitable for exec.Cmd.Env. Entries are not
// sorted by key: first-seen order is preserved, and a directive introducing
// a new key appends it at the end.
func BuildEnv(base []string, directives []string) []string {
	values := make(map[string]string, len(base)+len(directives))
	var order []string

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, exists := values[key]; !exists {
			order = append(order, key)
		}
		values[key] = value
	}

	sep := envSeparator()
	for _, d := range directives {
		key, op, value := parseDirective(d)
		if key == "" {
			continue
		}
		cur, exists := values[key]
		switch op {
		case "<=":
			if exists && cur != "" {
				values[key] = value + sep + cur
			} else {
				values[key] = value
			}
		case "=>":
			if exists && cur != "" {
				values[key] = cur + sep + value
			} else {
				values[key] = value
			}
		default: // "="
			values[key] = value
		}
		if !exists {
			order = append(order, key)
		}
	}

	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, k+"="+values[k])
	}
	return out
}

// parseDirective splits a config `env` entry into (key, operator, value).
// Operators are checked longest-first so "<=" and "=>" aren't mistaken for a
// plain "=".
func parseDirective(d string) (key, op, value string) {
	if idx := strings.Index(d, "<="); idx != -1 {
		return d[:idx], "<=", d[idx+2:]
	}
	if idx := strings.Index(d, "=>"); idx != -1 {
		return d[:idx], "=>", d[idx+2:]
	}
	if idx := strings.IndexByte(d, '='); idx != -1 {
		return d[:idx], "=", d[idx+1:]
	}
	return "", "", ""
}
