package core

import "strings"

const (
	passwordMinLen  = 8
	passwordMaxLen  = 32
	passwordSymbols = "!@#$%^&*()_+=-"
)

// ValidatePassword checks a candidate password against the sign-up policy:
// must not contain the username (case-insensitive), length within [8,32],
// only ASCII letters, digits and the allowed symbol set, and at least one
// character from each of the four classes. All rules are evaluated and
// combined; the function is pure.
func ValidatePassword(password, username string) bool {
	noUsername := username == "" ||
		!strings.Contains(strings.ToLower(password), strings.ToLower(username))

	var hasUpper, hasLower, hasDigit, hasSymbol, onlyAllowed bool
	onlyAllowed = true
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			onlyAllowed = false
		}
	}

	checks := []bool{
		noUsername,
		len(password) >= passwordMinLen,
		len(password) <= passwordMaxLen,
		onlyAllowed,
		hasUpper,
		hasLower,
		hasDigit,
		hasSymbol,
	}
	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}
