package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config interface {
	SessionConfig
	TransportConfig
	StoreConfig
	GetLogLevel() string
}

type mainConfig struct {
	Session
	Transport
	Store
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

var _ Config = mainConfig{}

func (c mainConfig) GetLogLevel() string {
	return strings.ToLower(c.LogLevel)
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return load(env.Options{Environment: vars})
}

// Default is the configuration with every variable unset.
func Default() Config {
	c, err := LoadFrom(nil)
	if err != nil {
		panic(err)
	}
	return c
}

func load(opts env.Options) (Config, error) {
	var c mainConfig
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, errors.Wrap(err, "[config.Load] parse env")
	}
	if err := c.validate(); err != nil {
		return nil, errors.Wrap(err, "[config.Load] validate")
	}
	return c, nil
}

func (c mainConfig) validate() error {
	if err := c.Session.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("AUTH_BASE_URL is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("AUTH_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// Static is a fixed SessionConfig, mostly for tests and embedding.
type Static struct {
	TokenLifetime       time.Duration
	RefreshThreshold    time.Duration
	UseTokenExpiryClaim bool
}

var _ SessionConfig = Static{}

func (s Static) GetTokenLifetime() time.Duration    { return s.TokenLifetime }
func (s Static) GetRefreshThreshold() time.Duration { return s.RefreshThreshold }
func (s Static) GetUseTokenExpiryClaim() bool       { return s.UseTokenExpiryClaim }
