package sqlutil

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrSingleMask   = errors.New("single character mask")
	ErrInnerMask    = errors.New("truncation other than right truncation")
	ErrAnchor       = errors.New("anchoring")
	standaloneStars = regexp.MustCompile(` +\*`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// FullTextWords splits a CQL term into normalized tsquery words. Stand-alone
// "*" words are dropped. A nil slice with a nil error means the term was
// empty; a single "*" word is reported by IsMatchAll.
func FullTextWords(term string) ([]string, error) {
	term = strings.TrimSpace(standaloneStars.ReplaceAllString(term, ""))
	if term == "" || term == "*" {
		return nil, nil
	}
	fields := whitespace.Split(term, -1)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w, err := FullTextWord(f)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// IsMatchAll reports whether a full-text term matches every value.
func IsMatchAll(term string) bool {
	return strings.TrimSpace(standaloneStars.ReplaceAllString(term, "")) == "*"
}

// FullTextWord normalizes one word for to_tsquery. A trailing * becomes the
// prefix marker :*, tsquery operators are backslash-escaped and leading
// single quotes are dropped.
func FullTextWord(word string) (string, error) {
	runes := []rune(strings.TrimSpace(word))
	var sb strings.Builder
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '?':
			return "", ErrSingleMask
		case '^':
			return "", ErrAnchor
		case '*':
			if i == len(runes)-1 {
				sb.WriteString(":*")
				continue
			}
			return "", ErrInnerMask
		case '\\':
			if i == len(runes)-1 {
				continue
			}
			i++
			c = runes[i]
		}
		if c == '\'' {
			if sb.Len() > 0 {
				sb.WriteRune(c)
			}
			continue
		}
		if strings.ContainsRune(`&!|()<>*:\`, c) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String(), nil
}
