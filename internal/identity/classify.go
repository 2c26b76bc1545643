package identity

import "strings"

// ClassifyCredentialError maps a provider error to a user-facing message by
// pattern-matching the raw error text. Unrecognized errors pass through
// unchanged so nothing is hidden from the user.
func ClassifyCredentialError(err error) string {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "invalid login credentials"):
		return "Invalid email or password."
	case strings.Contains(msg, "email not confirmed"):
		return "Please confirm your email address before signing in."
	case strings.Contains(msg, "rate limit"):
		return "Too many attempts. Please wait a moment and try again."
	case strings.Contains(msg, "already registered"):
		return "An account with this email already exists."
	case strings.Contains(msg, "password is too weak"), strings.Contains(msg, "password should be"):
		return "Password must be at least 6 characters long."
	default:
		return err.Error()
	}
}
