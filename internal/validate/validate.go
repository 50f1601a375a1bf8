// Package validate holds the client-side pattern rules checked on the auth
// forms before any network call is made.
package validate

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

const passwordSpecials = "@$!%*?&"

// Field error messages surfaced inline next to the offending input.
const (
	MsgFullName = "Full name is required"
	MsgEmail    = "Enter a valid email address"
	MsgPassword = "Password must be at least 8 characters with an uppercase letter, a lowercase letter, a number and a special character (@$!%*?&)"
	MsgPhone    = "Enter a valid 10-digit mobile number"
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Phone reports whether s is exactly ten digits.
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}

// Password reports whether s satisfies the complexity rule: at least eight
// characters, with a lowercase letter, an uppercase letter, a digit and one
// of the allowed specials, and nothing outside those classes.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// Login validates the login form. The returned map is keyed by field name
// and empty when the form is valid.
func Login(email, password string) map[string]string {
	errs := make(map[string]string)
	if !Email(email) {
		errs["email"] = MsgEmail
	}
	if !Password(password) {
		errs["password"] = MsgPassword
	}
	return errs
}

// Registration validates the registration form.
func Registration(fullName, email, password, phone string) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(fullName) == "" {
		errs["fullName"] = MsgFullName
	}
	if !Email(email) {
		errs["email"] = MsgEmail
	}
	if !Password(password) {
		errs["password"] = MsgPassword
	}
	if !Phone(phone) {
		errs["phone"] = MsgPhone
	}
	return errs
}
