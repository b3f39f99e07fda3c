package migration

import (
	"strings"
)

// SplitStatements splits raw SQL text into individual executable
// statements. A ';' terminates a statement unless it appears inside a
// single quoted literal (with '' escaping), a dollar quoted body
// ($tag$ ... $tag$) or after a -- line comment. Comments are stripped,
// empty statements are dropped.
func SplitStatements(raw string) (stmtList []string) {
	var b strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(b.String())
		b.Reset()
		if stmt != "" {
			stmtList = append(stmtList, stmt)
		}
	}

	for i := 0; i < len(raw); i++ {
		switch {
		case strings.HasPrefix(raw[i:], "--"):
			for i < len(raw) && raw[i] != '\n' {
				i++
			}
			// The comment ends at the newline, which still separates the
			// surrounding tokens
			if i < len(raw) {
				b.WriteByte('\n')
			}
		case raw[i] == '\'':
			j := closeQuote(raw, i)
			b.WriteString(raw[i:j])
			i = j - 1
		case raw[i] == '$':
			tag := dollarTag(raw[i:])
			if tag == "" {
				b.WriteByte(raw[i])
				continue
			}
			end := closeDollarQuote(raw, i, tag)
			b.WriteString(raw[i:end])
			i = end - 1
		case raw[i] == ';':
			flush()
		default:
			b.WriteByte(raw[i])
		}
	}
	flush()

	return stmtList
}

// closeQuote returns the index just past the end of the single quoted
// literal starting at raw[start], treating '' as an escaped quote
func closeQuote(raw string, start int) (end int) {
	for i := start + 1; i < len(raw); i++ {
		if raw[i] != '\'' {
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '\'' {
			i++
			continue
		}
		return i + 1
	}

	return len(raw)
}

// closeDollarQuote returns the index just past the closing tag of the
// dollar quoted section starting at raw[start]. An unterminated section
// runs to the end of the text
func closeDollarQuote(raw string, start int, tag string) (end int) {
	bodyStart := start + len(tag)
	idx := strings.Index(raw[bodyStart:], tag)
	if idx < 0 {
		return len(raw)
	}

	return bodyStart + idx + len(tag)
}

// dollarTag returns the $tag$ opener at the start of s, or an empty
// string if s does not begin a dollar quoted section
func dollarTag(s string) (tag string) {
	if len(s) < 2 || s[0] != '$' {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '$' {
			return s[:i+1]
		}
		if !isTagChar(s[i]) {
			return ""
		}
	}

	return ""
}

func isTagChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
