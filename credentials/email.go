package credentials

import (
	"regexp"
	"strings"
)

const (
	EmailRequiredMsg = "Email is required"
	EmailInvalidMsg  = "Please enter a valid email address"
)

// emailPattern is deliberately loose: local@domain.tld with an alphabetic TLD.
// Internationalised domains are not accepted.
var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9\-]+(\.[a-z0-9\-]+)*\.[a-z]{2,}$`)

// ValidateEmail returns the message to show for an invalid email, or "" when
// the address is acceptable.
func ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return EmailRequiredMsg
	}
	if !emailPattern.MatchString(email) {
		return EmailInvalidMsg
	}
	return ""
}
