package storefake

import (
	"sync"

	"github.com/jrsteele09/lostfound-auth-client/storage"
)

var _ storage.Store = (*FakeStore)(nil)

// FakeStore is an in-memory store with optional injected failures.
type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex

	GetErr    error
	SetErr    error
	RemoveErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		values: make(map[string]string),
	}
}

func (fs *FakeStore) Get(key string) (string, bool, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.GetErr != nil {
		return "", false, fs.GetErr
	}
	v, ok := fs.values[key]
	return v, ok, nil
}

func (fs *FakeStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.RemoveErr != nil {
		return fs.RemoveErr
	}
	delete(fs.values, key)
	return nil
}

// Keys returns a snapshot of the stored keys.
func (fs *FakeStore) Keys() []string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	keys := make([]string, 0, len(fs.values))
	for k := range fs.values {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of stored keys.
func (fs *FakeStore) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}
