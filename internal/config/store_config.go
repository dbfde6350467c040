package config

type StoreConfig interface {
	GetStorePath() string
	GetStorePassphrase() string
}

type Store struct {
	StorePath       string `env:"AUTH_STORE_PATH" envDefault:"./data/auth.store"`
	StorePassphrase string `env:"AUTH_STORE_PASSPHRASE"`
}

var _ StoreConfig = Store{}

func (s Store) GetStorePath() string {
	return s.StorePath
}

func (s Store) GetStorePassphrase() string {
	return s.StorePassphrase
}
