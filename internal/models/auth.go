package models

import "strings"

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of the registration call.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// AuthResult is the normalized outcome of a login or registration call.
// The API reports the token and display name in more than one place across
// the two calls; the gateway client flattens them into this shape.
type AuthResult struct {
	AccessToken string
	FullName    string
}

// DisplayNameFromEmail derives a fallback display name from the local part of
// an email address, matching what the API does when no fullName is returned.
func DisplayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
