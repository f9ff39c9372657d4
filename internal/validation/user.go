package validation

import (
	"fmt"
	"regexp"
)

const maxEmailLength = 254

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{1,28}[a-zA-Z0-9]$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks username format: 3-30 characters of letters,
// digits, underscores, and hyphens, starting and ending with an
// alphanumeric character.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters of letters, numbers, underscores, or hyphens, and start and end with a letter or number")
	}
	return nil
}

// ValidateEmail checks basic email shape and the RFC length limit.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
