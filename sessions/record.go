package sessions

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	autherrs "github.com/jrsteele09/lostfound-auth-client/internal/errors"
)

// Record field names.
const (
	FieldAccessToken  = "accessToken"
	FieldRefreshToken = "refreshToken"
	FieldExpiresAt    = "expiresAt"
	FieldIssuedAt     = "issuedAt"
	FieldTokenType    = "tokenType"
)

// TimeFormat is the ISO-8601 layout used for persisted timestamps.
const TimeFormat = time.RFC3339Nano

// Record is the flat key-value form of a Session used for persistence.
type Record map[string]string

// ToRecord flattens the session. Timestamps are written in UTC.
func (s *Session) ToRecord() Record {
	return Record{
		FieldAccessToken:  s.AccessToken,
		FieldRefreshToken: s.RefreshToken,
		FieldExpiresAt:    s.ExpiresAt.UTC().Format(TimeFormat),
		FieldIssuedAt:     s.IssuedAt.UTC().Format(TimeFormat),
		FieldTokenType:    s.TokenType,
	}
}

// FromRecord rebuilds a session and checks its invariants.
func FromRecord(r Record) (*Session, error) {
	expiresAt, err := time.Parse(TimeFormat, r[FieldExpiresAt])
	if err != nil {
		return nil, errors.Wrap(autherrs.ErrMalformedRecord, "[sessions.FromRecord] expiresAt: "+err.Error())
	}
	issuedAt, err := time.Parse(TimeFormat, r[FieldIssuedAt])
	if err != nil {
		return nil, errors.Wrap(autherrs.ErrMalformedRecord, "[sessions.FromRecord] issuedAt: "+err.Error())
	}
	tokenType := r[FieldTokenType]
	if tokenType == "" {
		tokenType = DefaultTokenType
	}

	s := &Session{
		AccessToken:  r[FieldAccessToken],
		RefreshToken: r[FieldRefreshToken],
		TokenType:    tokenType,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(autherrs.ErrMalformedRecord, "[sessions.FromRecord] "+err.Error())
	}
	return s, nil
}

// Marshal encodes the record form as JSON.
func (s *Session) Marshal() (string, error) {
	b, err := json.Marshal(s.ToRecord())
	if err != nil {
		return "", errors.Wrap(err, "[Session.Marshal]")
	}
	return string(b), nil
}

// Unmarshal decodes a session previously produced by Marshal.
func Unmarshal(data string) (*Session, error) {
	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, errors.Wrap(autherrs.ErrMalformedRecord, "[sessions.Unmarshal] "+err.Error())
	}
	return FromRecord(r)
}
