package config

import "strings"

// ExpandVars substitutes every `<name>` token in template with a value: extra
// is consulted first (it carries per-invocation substitutions like
// `<input>`/`<output>` that have no business living in a Config), falling
// back to cfg's array value joined by a single space, and finally the empty
// string if name is unknown anywhere. This backs the command-template
// expansion spec §4.4/§4.6 describes for compile/link command lines.
func ExpandVars(template string, cfg *Config, extra map[string]string) string {
	var out strings.Builder
	out.Grow(len(template))

	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '<')
		if open == -1 {
			out.WriteString(template[i:])
			break
		}
		open += i
		close := strings.IndexByte(template[open:], '>')
		if close == -1 {
			out.WriteString(template[i:])
			break
		}
		close += open

		out.WriteString(template[i:open])
		name := template[open+1 : close]
		out.WriteString(resolveVar(name, cfg, extra))
		i = close + 1
	}
	return out.String()
}

func resolveVar(name string, cfg *Config, extra map[string]string) string {
	if extra != nil {
		if v, ok := extra[name]; ok {
			return v
		}
	}
	if cfg != nil {
		if values := cfg.GetArray(name, nil); values != nil {
			return strings.Join(values, " ")
		}
	}
	return ""
}
