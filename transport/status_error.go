package transport

import (
	"fmt"
	"net/http"
	"strings"
)

const maxErrorBody = 512

// StatusError is a non-2xx response. Its text starts with the numeric code so
// text-based classification keeps working; StatusCode exposes it directly.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	text := fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return text
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return text + ": " + body
}

func (e *StatusError) StatusCode() int {
	return e.Code
}
