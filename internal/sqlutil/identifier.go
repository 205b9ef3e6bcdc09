package sqlutil

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxIdentifierLength leaves room for suffixes such as "_idx_fulltext"
// inside PostgreSQL's 63 byte limit.
const MaxIdentifierLength = 49

// MaxNameLength is PostgreSQL's identifier limit in bytes. Longer names are
// silently truncated by the server.
const MaxNameLength = 63

var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,48}$`)

// ErrInvalidIdentifier is matched by every IdentifierError.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// IdentifierError reports a name rejected by ValidateIdentifier.
type IdentifierError struct {
	Name string
	// Max is the length limit that was exceeded, zero for a grammar error.
	Max  int
}

func (e *IdentifierError) Error() string {
	if e.Name == "" {
		return "invalid identifier: empty"
	}
	if e.Max > 0 {
		return fmt.Sprintf("invalid identifier %q: longer than %d bytes", e.Name, e.Max)
	}
	if len(e.Name) > MaxIdentifierLength {
		return fmt.Sprintf("invalid identifier %q: longer than %d characters", e.Name, MaxIdentifierLength)
	}
	return fmt.Sprintf("invalid identifier %q: must match %s", e.Name, validIdentifier)
}

func (e *IdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// ValidateIdentifier accepts ASCII identifiers of at most 49 characters
// that start with a letter or underscore.
func ValidateIdentifier(name string) error {
	if !validIdentifier.MatchString(name) {
		return &IdentifierError{Name: name}
	}
	return nil
}

// ValidateName checks a name composed from validated identifiers, such as
// <table>_<index>, against the server's length limit.
func ValidateName(name string) error {
	if len(name) > MaxNameLength {
		return &IdentifierError{Name: name, Max: MaxNameLength}
	}
	return nil
}

// IsIdentifier reports whether name passes ValidateIdentifier.
func IsIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}
