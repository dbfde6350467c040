package users

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// User is the account returned alongside the tokens. Only the fields the
// client relies on are decoded; Raw keeps the full object so the profile
// screens can read the rest.
type User struct {
	ID       string          `json:"id,omitempty"`
	Email    string          `json:"email,omitempty"`
	Username string          `json:"username,omitempty"`
	FullName string          `json:"full_name,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

type wireUser struct {
	ID       json.RawMessage `json:"id"`
	Email    string          `json:"email"`
	Username string          `json:"username"`
	FullName string          `json:"full_name"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
}

// Parse decodes the user object of a token response. The id may be a JSON
// number or string; "name" is accepted when "full_name" is missing.
func Parse(data []byte) (*User, error) {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "[users.Parse] decode")
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[users.Parse] id")
	}
	fullName := w.FullName
	if fullName == "" {
		fullName = w.Name
	}
	return &User{
		ID:       id,
		Email:    w.Email,
		Username: w.Username,
		FullName: fullName,
		Phone:    w.Phone,
		Raw:      append(json.RawMessage(nil), data...),
	}, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Marshal returns the form persisted under the user key. The original
// object is kept when available so nothing the server sent is lost.
func (u *User) Marshal() (string, error) {
	if len(u.Raw) > 0 {
		return string(u.Raw), nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return "", errors.Wrap(err, "[User.Marshal]")
	}
	return string(b), nil
}

// DisplayName prefers the full name, then the username, then the email.
func (u *User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	}
	return u.Email
}

// Clone returns an independent copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Raw = append(json.RawMessage(nil), u.Raw...)
	return &c
}
