package compositor

import (
	"strconv"
	"strings"
	"unicode"
)

// The compositors' responses are not validated against any schema, so the
// extraction here is deliberately positional: find a key literal, scan
// forward, and default to nothing on anything unexpected. Re-running any
// of these on the same payload yields the same result.

// skipSpace returns the offset of the first non-whitespace byte in s.
func skipSpace(s string) int {
	i := 0
	for i < len(s) && unicode.IsSpace(rune(s[i])) {
		i++
	}
	return i
}

// scanQuoted extracts the first double-quoted string in s, honoring
// backslash escapes. It returns the unescaped value and the offset just
// past the closing quote.
func scanQuoted(s string) (value string, next int, ok bool) {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return "", 0, false
	}

	var b strings.Builder
	escaped := false
	for i := start + 1; i < len(s); i++ {
		ch := s[i]
		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			return b.String(), i + 1, true
		default:
			b.WriteByte(ch)
		}
	}

	return "", 0, false
}

// scanStringArray collects the quoted strings inside the first
// bracket-delimited array in s, honoring escapes. Empty strings are
// dropped. Returns nil when no array or no strings are found.
func scanStringArray(s string) []string {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return nil
	}
	content := s[open+1:]
	end := strings.IndexByte(content, ']')
	if end < 0 {
		return nil
	}
	content = content[:end]

	var names []string
	for {
		value, next, ok := scanQuoted(content)
		if !ok {
			break
		}
		if value != "" {
			names = append(names, value)
		}
		content = content[next:]
	}

	return names
}

// extractStringAfter finds key in s and returns the first quoted string
// after its colon.
func extractStringAfter(s, key string) (string, bool) {
	pos := strings.Index(s, key)
	if pos < 0 {
		return "", false
	}
	after := s[pos+len(key):]

	colon := strings.IndexByte(after, ':')
	if colon < 0 {
		return "", false
	}

	value, _, ok := scanQuoted(after[colon+1:])
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// extractIndexAfter finds key in s and parses the digits after its colon.
func extractIndexAfter(s, key string) (int, bool) {
	pos := strings.Index(s, key)
	if pos < 0 {
		return 0, false
	}
	after := s[pos+len(key):]

	colon := strings.IndexByte(after, ':')
	if colon < 0 {
		return 0, false
	}
	after = after[colon+1:]

	i := skipSpace(after)
	j := i
	for j < len(after) && after[j] >= '0' && after[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}

	n, err := strconv.Atoi(after[i:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// extractArrayAfter finds key in s and scans the string array after it.
func extractArrayAfter(s, key string) []string {
	pos := strings.Index(s, key)
	if pos < 0 {
		return nil
	}
	return scanStringArray(s[pos+len(key):])
}
