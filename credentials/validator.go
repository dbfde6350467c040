package credentials

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	PasswordRequiredMsg = "Password is required"
	PasswordTooShortMsg = "Password must be at least 8 characters"
	FullNameRequiredMsg = "Full name is required"
	FullNameTooShortMsg = "Full name must be at least 2 characters"
	PhoneRequiredMsg    = "Phone number is required"
	PhoneInvalidMsg     = "Please enter a valid phone number"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidatePassword checks the minimum a sign-up form accepts.
func ValidatePassword(password string) string {
	if password == "" {
		return PasswordRequiredMsg
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return PasswordTooShortMsg
	}
	return ""
}

func ValidateFullName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return FullNameRequiredMsg
	}
	if utf8.RuneCountInString(name) < 2 {
		return FullNameTooShortMsg
	}
	return ""
}

// ValidatePhone accepts an optional leading + and 7 to 15 digits. Spaces,
// dashes and parentheses are ignored.
func ValidatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return PhoneRequiredMsg
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if !phonePattern.MatchString(cleaned) {
		return PhoneInvalidMsg
	}
	return ""
}

// Validator bundles the form checks so the UI layer can take them as a
// dependency.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Email(email string) string { return ValidateEmail(email) }

func (v *Validator) Password(password string) string { return ValidatePassword(password) }

func (v *Validator) FullName(name string) string { return ValidateFullName(name) }

func (v *Validator) Phone(phone string) string { return ValidatePhone(phone) }

func (v *Validator) Strength(password string) PasswordStrength { return ScorePassword(password) }

// SignUp validates every sign-up field and returns the messages keyed by
// field name. An empty map means the form can be submitted.
func (v *Validator) SignUp(fullName, email, phone, password string) map[string]string {
	problems := make(map[string]string)
	if msg := v.FullName(fullName); msg != "" {
		problems["full_name"] = msg
	}
	if msg := v.Email(email); msg != "" {
		problems["email"] = msg
	}
	if msg := v.Phone(phone); msg != "" {
		problems["phone"] = msg
	}
	if msg := v.Password(password); msg != "" {
		problems["password"] = msg
	}
	return problems
}
