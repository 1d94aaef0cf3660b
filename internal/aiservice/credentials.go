package aiservice

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service name for OS credential store
	credentialService = "scrivener"
	// Key for the audit model API key
	apiKeyName = "api_key"
)

// Environment variables checked before the OS credential store, in order.
var apiKeyEnvVars = []string{"SCRIVENER_API_KEY", "OPENAI_API_KEY"}

// CredentialManager handles secure storage and retrieval of the audit
// model's API key.
type CredentialManager struct {
	service string
}

// NewCredentialManager creates a new credential manager instance
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{
		service: credentialService,
	}
}

// StoreAPIKey securely stores the API key in the OS credential store.
func (cm *CredentialManager) StoreAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if err := keyring.Set(cm.service, apiKeyName, key); err != nil {
		return fmt.Errorf("failed to store API key in credential store: %w", err)
	}
	return nil
}

// GetAPIKey resolves the API key: environment variables first, then the OS
// credential store.
func (cm *CredentialManager) GetAPIKey() (string, error) {
	for _, name := range apiKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}

	key, err := keyring.Get(cm.service, apiKeyName)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no API key found - set %s or run 'scrivener set-key'", apiKeyEnvVars[0])
		}
		return "", fmt.Errorf("failed to retrieve API key from credential store: %w", err)
	}

	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("stored API key is empty - run 'scrivener set-key' again")
	}
	return key, nil
}

// DeleteAPIKey removes the stored key from the OS credential store.
// Returns nil if no key is stored.
func (cm *CredentialManager) DeleteAPIKey() error {
	err := keyring.Delete(cm.service, apiKeyName)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete API key from credential store: %w", err)
	}
	return nil
}

// HasAPIKey checks if a key is resolvable without returning it.
func (cm *CredentialManager) HasAPIKey() bool {
	_, err := cm.GetAPIKey()
	return err == nil
}
