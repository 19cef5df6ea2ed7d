package store

import "strings"

// This file implements the tolerant document codec shared by every
// persisted document (identity, contacts, messages, pending keys,
// outbox). Rather than requiring strict JSON, it scans for known
// `"key":` markers and reads the value that follows, ignoring any
// fields it doesn't recognize and defaulting missing ones to zero
// values. Encoding emits JSON-shaped text, but string values have only
// '"', '\\' and newline escaped; any other control character (a tab, a
// carriage return) is written as-is, which a strict JSON parser rejects.

// EscapeString backslash-escapes '"', '\\', and newline, the three
// characters the wire format requires escaped in text fields.
func EscapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeString reverses EscapeString.
func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// SplitObjects splits a top-level JSON array of objects into the raw text
// of each object, tolerant of braces and commas nested inside string
// values. A non-array document (or an empty one) yields no elements.
func SplitObjects(doc []byte) []string {
	s := string(doc)
	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start == -1 || end == -1 || end < start {
		return nil
	}
	s = s[start+1 : end]

	var objects []string
	depth := 0
	inString := false
	escaped := false
	objStart := -1

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, ignore structural characters
		case c == '{':
			if depth == 0 {
				objStart = i
			}
			depth++
		case c == '}':
			depth--
			if depth == 0 && objStart != -1 {
				objects = append(objects, s[objStart:i+1])
				objStart = -1
			}
		}
	}
	return objects
}

// ScanString finds `"key":"value"` inside obj and returns the unescaped
// value, or ("", false) if the key is absent.
func ScanString(obj, key string) (string, bool) {
	marker := `"` + key + `":"`
	idx := strings.Index(obj, marker)
	if idx == -1 {
		return "", false
	}
	rest := obj[idx+len(marker):]

	var b strings.Builder
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			return unescapeString(b.String()), true
		}
		b.WriteByte(c)
	}
	return "", false
}

// ScanNumber finds `"key":<number>` and returns it as an int64, or
// (0, false) if the key is absent or not followed by a number.
func ScanNumber(obj, key string) (int64, bool) {
	marker := `"` + key + `":`
	idx := strings.Index(obj, marker)
	if idx == -1 {
		return 0, false
	}
	rest := obj[idx+len(marker):]

	neg := false
	i := 0
	if i < len(rest) && rest[i] == '-' {
		neg = true
		i++
	}
	start := i
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	var value int64
	for _, c := range rest[start:i] {
		value = value*10 + int64(c-'0')
	}
	if neg {
		value = -value
	}
	return value, true
}

// ScanBool finds `"key":true` or `"key":false`.
func ScanBool(obj, key string) (bool, bool) {
	if v, ok := ScanNumber(obj, key); ok {
		return v != 0, true
	}
	marker := `"` + key + `":`
	idx := strings.Index(obj, marker)
	if idx == -1 {
		return false, false
	}
	rest := obj[idx+len(marker):]
	if strings.HasPrefix(rest, "true") {
		return true, true
	}
	if strings.HasPrefix(rest, "false") {
		return false, true
	}
	return false, false
}
