package credentials

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordStrength is an advisory rating of a password. It is a UI hint and
// must never be the only check before credentials are sent to the server.
type PasswordStrength int

const (
	Empty PasswordStrength = iota
	Weak
	Medium
	Strong
	VeryStrong
)

const (
	minPasswordLength = 8
	longPassword      = 12
	veryLongPassword  = 16

	specialCharacters = `!@#$%^&*(),.?":{}|<>`
)

var commonSequences = []string{"123", "abc", "qwe"}

func (s PasswordStrength) String() string {
	switch s {
	case Empty:
		return "empty"
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case VeryStrong:
		return "veryStrong"
	}
	return "unknown"
}

// Label is the text shown next to the strength meter.
func (s PasswordStrength) Label() string {
	switch s {
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	}
	return ""
}

// AtLeast reports whether s rates at or above other.
func (s PasswordStrength) AtLeast(other PasswordStrength) bool {
	return s >= other
}

// ScorePassword rates a password.
//
// Anything under 8 characters is Weak regardless of content. Longer passwords
// collect a point for reaching 8, 12 and 16 characters and for each character
// class present (lowercase, uppercase, digit, special), then lose a point for
// a run of three identical characters and a point for containing a common
// sequence. The final score maps to Weak (<=2), Medium (<=4), Strong (<=6)
// or VeryStrong.
func ScorePassword(password string) PasswordStrength {
	if password == "" {
		return Empty
	}
	length := utf8.RuneCountInString(password)
	if length < minPasswordLength {
		return Weak
	}

	score := 1 // minimum length reached
	if length >= longPassword {
		score++
	}
	if length >= veryLongPassword {
		score++
	}

	classes := scanClasses(password)
	for _, present := range []bool{classes.lower, classes.upper, classes.digit, classes.special} {
		if present {
			score++
		}
	}

	if hasRepeatedRun(password) {
		score--
	}
	if hasCommonSequence(password) {
		score--
	}

	switch {
	case score <= 2:
		return Weak
	case score <= 4:
		return Medium
	case score <= 6:
		return Strong
	}
	return VeryStrong
}

type characterClasses struct {
	lower, upper, digit, special bool
}

func scanClasses(password string) characterClasses {
	var c characterClasses
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		case strings.ContainsRune(specialCharacters, r):
			c.special = true
		}
	}
	return c
}

// hasRepeatedRun reports three or more identical consecutive characters.
func hasRepeatedRun(password string) bool {
	var prev rune
	run := 0
	for _, r := range password {
		if run > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= 3 {
			return true
		}
		prev = r
	}
	return false
}

func hasCommonSequence(password string) bool {
	for _, seq := range commonSequences {
		if strings.Contains(password, seq) {
			return true
		}
	}
	return false
}

// Suggestions returns advice for reaching the next strength level. A new slice
// is returned on every call.
func Suggestions(strength PasswordStrength) []string {
	switch strength {
	case Empty:
		return []string{"Enter a password"}
	case Weak:
		return []string{
			"Use at least 8 characters",
			"Mix uppercase and lowercase letters",
			"Add numbers and special characters",
			"Avoid repeated characters and common sequences like 123 or abc",
		}
	case Medium:
		return []string{
			"Add special characters such as !@#$%",
			"Use 12 or more characters",
		}
	case Strong:
		return []string{"Use 16 or more characters for a very strong password"}
	}
	return []string{}
}

// PasswordHints lists what a specific password is missing, in display order.
func PasswordHints(password string) []string {
	hints := make([]string, 0, 7)
	if utf8.RuneCountInString(password) < minPasswordLength {
		hints = append(hints, "At least 8 characters")
	}
	classes := scanClasses(password)
	if !classes.lower {
		hints = append(hints, "A lowercase letter")
	}
	if !classes.upper {
		hints = append(hints, "An uppercase letter")
	}
	if !classes.digit {
		hints = append(hints, "A number")
	}
	if !classes.special {
		hints = append(hints, "A special character")
	}
	if hasRepeatedRun(password) {
		hints = append(hints, "No character repeated three times in a row")
	}
	if hasCommonSequence(password) {
		hints = append(hints, "No common sequences like 123, abc or qwe")
	}
	return hints
}
