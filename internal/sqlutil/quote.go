package sqlutil

import "strings"

// Quote renders s as a PostgreSQL string literal, doubling embedded single
// quotes. Backslashes are kept verbatim, which assumes
// standard_conforming_strings (the PostgreSQL default since 9.1).
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			sb.WriteByte('\'')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('\'')
	return sb.String()
}

// Unquote reverses Quote. It reports false when lit is not a well-formed
// single-quoted literal.
func Unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\'' {
			sb.WriteByte(body[i])
			continue
		}
		if i+1 >= len(body) || body[i+1] != '\'' {
			return "", false
		}
		sb.WriteByte('\'')
		i++
	}
	return sb.String(), true
}
