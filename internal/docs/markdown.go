package docs

import "strings"

// ExtractSection returns the first heading whose text equals or contains
// section (ignoring case) through the line before the next heading of the
// same or higher level. Trailing blank lines are dropped.
func ExtractSection(content, section string) (string, bool) {
	lines := strings.Split(content, "\n")
	want := strings.ToLower(strings.TrimSpace(section))
	if want == "" {
		return "", false
	}

	start, level := -1, 0
	for i, line := range lines {
		l, text, ok := heading(line)
		if !ok {
			continue
		}
		text = strings.ToLower(text)
		if text == want || strings.Contains(text, want) {
			start, level = i, l
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if l, _, ok := heading(lines[i]); ok && l <= level {
			end = i
			break
		}
	}

	out := lines[start:end]
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n"), true
}

func heading(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	trimmed := strings.TrimLeft(line, "#")
	return len(line) - len(trimmed), strings.TrimSpace(trimmed), true
}

// matchContexts returns up to limit snippets around lines containing query,
// each with two lines of context on either side.
func matchContexts(content, query string, limit int) []string {
	needle := strings.ToLower(query)
	lines := strings.Split(content, "\n")

	var out []string
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		start := max(0, i-2)
		end := min(len(lines), i+3)
		out = append(out, strings.Join(lines[start:end], "\n"))
		if len(out) == limit {
			break
		}
	}
	return out
}
