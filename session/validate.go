package session

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const minPasswordLen = 6

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalize applies NFKC and trims surrounding whitespace, so visually
// identical input from different keyboards validates the same way.
func normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

func validateEmail(email string) (string, error) {
	email = normalize(email)
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "is required"}
	}
	if !emailRE.MatchString(email) {
		return "", &ValidationError{Field: "email", Reason: "is not a valid address"}
	}
	return email, nil
}

func validatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	if len(password) < minPasswordLen {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}
