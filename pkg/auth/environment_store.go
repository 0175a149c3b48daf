package auth

import (
	"os"
	"time"
)

const (
	EnvFacebookToken = "TINDERBOT_FACEBOOK_TOKEN"
	EnvFacebookID    = "TINDERBOT_FACEBOOK_ID"
)

// EnvironmentStore reads a single read-only account from
// TINDERBOT_FACEBOOK_TOKEN and TINDERBOT_FACEBOOK_ID
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(*Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment account under any requested name
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	token := os.Getenv(EnvFacebookToken)
	id := os.Getenv(EnvFacebookID)
	if token == "" || id == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = "environment"
	}
	return &Account{
		Name:          name,
		FacebookToken: token,
		FacebookID:    id,
		LastModified:  time.Now(),
	}, nil
}

func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(string) bool {
	return os.Getenv(EnvFacebookToken) != "" && os.Getenv(EnvFacebookID) != ""
}
