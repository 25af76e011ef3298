package utils

import "regexp"

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,7}$`)
)

// IsValidUsername reports whether username consists only of letters,
// digits and underscores.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// IsValidEmail reports whether email matches the standard address pattern.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
