package sqlutil

import "strings"

// CQLToLike converts a CQL term to a LIKE pattern (without the surrounding
// quotes). Unescaped * and ? become % and _; the LIKE metacharacters
// % _ and \ are escaped. A backslash escapes the next character; a lone
// trailing backslash matches a literal backslash.
func CQLToLike(term string) string {
	var sb strings.Builder
	backslash := false
	for _, c := range term {
		switch {
		case c == '\\' && !backslash:
			backslash = true
			continue
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '%' || c == '_':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		case c == '*' && !backslash:
			sb.WriteByte('%')
		case c == '?' && !backslash:
			sb.WriteByte('_')
		default:
			sb.WriteRune(c)
		}
		backslash = false
	}
	if backslash {
		sb.WriteString(`\\`)
	}
	return sb.String()
}

// HasMasking reports whether term contains an unescaped * or ?.
func HasMasking(term string) bool {
	backslash := false
	for _, c := range term {
		if backslash {
			backslash = false
			continue
		}
		switch c {
		case '\\':
			backslash = true
		case '*', '?':
			return true
		}
	}
	return false
}

// Unescape removes CQL backslash escapes. A lone trailing backslash is kept.
func Unescape(term string) string {
	if !strings.ContainsRune(term, '\\') {
		return term
	}
	var sb strings.Builder
	backslash := false
	for _, c := range term {
		if c == '\\' && !backslash {
			backslash = true
			continue
		}
		sb.WriteRune(c)
		backslash = false
	}
	if backslash {
		sb.WriteByte('\\')
	}
	return sb.String()
}
