package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and mainly serves CI and container deployments.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(profile *Profile) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Profile, error) {
	bearerToken := os.Getenv("TAGWATCH_BEARER_TOKEN")
	if bearerToken == "" {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't store a profile name
	if name == "" {
		name = "default"
	}

	return &Profile{
		Name:         name,
		BearerToken:  bearerToken,
		APIKey:       os.Getenv("TAGWATCH_API_KEY"),
		APISecret:    os.Getenv("TAGWATCH_API_SECRET"),
		LastModified: time.Now(),
	}, nil
}

// List returns a single profile if environment variables are set
func (e *EnvironmentStore) List() ([]*Profile, error) {
	profile, err := e.Retrieve("")
	if err != nil {
		return []*Profile{}, nil
	}
	return []*Profile{profile}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("TAGWATCH_BEARER_TOKEN") != ""
}
