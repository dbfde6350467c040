package autherrors

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jrsteele09/lostfound-auth-client/internal/utils"
)

// Classifier maps a raw transport failure to an AuthError.
type Classifier interface {
	Classify(err error) *AuthError
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(err error) *AuthError

func (f ClassifierFunc) Classify(err error) *AuthError { return f(err) }

// StatusCoder is implemented by transport errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

type textRule struct {
	matches func(msg string) bool
	kind    Kind
	message string
}

func containsAny(subs ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range subs {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range subs {
			if !strings.Contains(msg, s) {
				return false
			}
		}
		return true
	}
}

// textRules are evaluated in order and the first match wins. The order and
// the messages are relied on by the UI copy; do not reorder.
var textRules = []textRule{
	{containsAny("401", "Unauthorized"), InvalidCredentials, InvalidCredentialsMsg},
	{containsAll("400", "already"), EmailAlreadyExists, EmailAlreadyExistsMsg},
	{containsAny("expired", "refresh"), TokenExpired, TokenExpiredMsg},
	{containsAny("403", "disabled"), AccountDisabled, AccountDisabledMsg},
	{containsAny("404", "not found"), UserNotFound, UserNotFoundMsg},
	{containsAny("network", "connection"), NetworkError, NetworkErrorMsg},
}

// TextClassifier classifies by sniffing the error text. It is the behaviour
// existing UI copy depends on.
type TextClassifier struct{}

func (TextClassifier) Classify(err error) *AuthError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AuthError); ok {
		return ae
	}
	msg := err.Error()
	for _, rule := range textRules {
		if rule.matches(msg) {
			return classified(err, rule.kind, rule.message)
		}
	}
	return classified(err, Unknown, msg)
}

// StatusClassifier prefers a structured status code when the error carries
// one and falls back to text sniffing otherwise.
type StatusClassifier struct {
	Fallback Classifier
}

func (c StatusClassifier) Classify(err error) *AuthError {
	if err == nil {
		return nil
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		switch {
		case code == 400 && strings.Contains(err.Error(), "already"):
			return withStatus(classified(err, EmailAlreadyExists, EmailAlreadyExistsMsg), code)
		case code == 401:
			return withStatus(classified(err, InvalidCredentials, InvalidCredentialsMsg), code)
		case code == 403:
			return withStatus(classified(err, AccountDisabled, AccountDisabledMsg), code)
		case code == 404:
			return withStatus(classified(err, UserNotFound, UserNotFoundMsg), code)
		case code == 408:
			return withStatus(classified(err, NetworkError, NetworkErrorMsg), code)
		case code >= 500:
			return withStatus(classified(err, ServerError, ServerErrorMsg), code)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return classified(err, NetworkError, NetworkErrorMsg)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return classified(err, NetworkError, NetworkErrorMsg)
	}

	fallback := c.Fallback
	if fallback == nil {
		fallback = TextClassifier{}
	}
	classifiedErr := fallback.Classify(err)
	if sc != nil && classifiedErr != nil && classifiedErr.StatusCode == nil {
		classifiedErr.StatusCode = utils.Ptr(sc.StatusCode())
	}
	return classifiedErr
}

// Classify applies the text rules.
func Classify(err error) *AuthError {
	return TextClassifier{}.Classify(err)
}

func classified(err error, kind Kind, message string) *AuthError {
	return &AuthError{
		Kind:    kind,
		Message: message,
		Detail:  err.Error(),
		cause:   err,
	}
}

func withStatus(ae *AuthError, code int) *AuthError {
	ae.StatusCode = utils.Ptr(code)
	return ae
}
