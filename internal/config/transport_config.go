package config

import "time"

type TransportConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type Transport struct {
	BaseURL        string        `env:"AUTH_BASE_URL" envDefault:"http://localhost:8000"`
	RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"15s"`
}

var _ TransportConfig = Transport{}

func (t Transport) GetBaseURL() string {
	return t.BaseURL
}

func (t Transport) GetRequestTimeout() time.Duration {
	return t.RequestTimeout
}
