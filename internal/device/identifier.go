package device

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierLen is the length of a formatted identifier.
const IdentifierLen = 36

// NewIdentifier returns a random version 4 identifier in the lower-case
// 8-4-4-4-12 hex form.
func NewIdentifier() string {
	return uuid.NewString()
}

// ValidIdentifier reports whether s is a 36 character identifier with hyphens
// at positions 8, 13, 18 and 23 and hex digits everywhere else.
func ValidIdentifier(s string) bool {
	if len(s) != IdentifierLen {
		return false
	}
	// uuid.Parse also accepts the braced and urn forms; the length check
	// above leaves only the hyphenated one.
	_, err := uuid.Parse(s)
	return err == nil
}

func checkIdentifier(s string) error {
	if !ValidIdentifier(s) {
		return fmt.Errorf("identifier %q: %w", s, ErrInvalidIdentifier)
	}
	return nil
}
