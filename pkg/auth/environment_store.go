package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads credentials from environment variables. It is
// read-only: Store and Delete report the account as not found so the
// manager falls through to a writable store.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables.
func (s *EnvironmentStore) Store(account *Account) error {
	return ErrNotFound
}

// Retrieve builds an account from WEIBOSCRAPER_COOKIE and
// WEIBOSCRAPER_USER_AGENT. Only the default account name resolves here.
func (s *EnvironmentStore) Retrieve(name string) (*Account, error) {
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	cookie := os.Getenv("WEIBOSCRAPER_COOKIE")
	if cookie == "" {
		return nil, ErrNotFound
	}

	return &Account{
		Name:         name,
		Cookie:       cookie,
		UserAgent:    os.Getenv("WEIBOSCRAPER_USER_AGENT"),
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables.
func (s *EnvironmentStore) Delete(name string) error {
	return ErrNotFound
}

// Exists checks whether environment credentials are set.
func (s *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("WEIBOSCRAPER_COOKIE") != ""
}
