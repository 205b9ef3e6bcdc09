package sqlutil

import "regexp"

// postgresNumber is the numeric constant grammar of PostgreSQL: optional
// sign, digits with an optional fraction (or a bare fraction), optional
// exponent.
var postgresNumber = regexp.MustCompile(`^[+-]?(?:\d+|\d+\.\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// IsNumber reports whether s is a PostgreSQL numeric constant.
func IsNumber(s string) bool {
	return postgresNumber.MatchString(s)
}
