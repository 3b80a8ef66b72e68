package users

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	// bcrypt reads at most 72 bytes of input and rejects anything longer,
	// so the cap is enforced here, before hashing.
	maxPasswordBytes = 72
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether s has the shape of a deliverable address.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePasswordStrength checks the length rules. The minimum counts
// characters, the maximum counts bytes (the hasher's input limit). The
// returned reason is safe to include in the error payload when the password
// is rejected.
func ValidatePasswordStrength(s string) (bool, string) {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long.", minPasswordLength)
	}
	if len(s) > maxPasswordBytes {
		return false, fmt.Sprintf("Password must be at most %d bytes long.", maxPasswordBytes)
	}
	return true, ""
}
