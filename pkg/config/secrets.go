package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// KeyringService groups this tool's secrets in the OS keychain.
const KeyringService = "referral-mailer"

// GetAPIKey reads the provider's API key from the OS keyring.
func GetAPIKey(provider string) (key string, err error) {
	key, err = keyring.Get(KeyringService, keyringAccount(provider))
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s API key from keyring", provider)
		return key, err
	}
	return key, err
}

// SetAPIKey stores the provider's API key in the OS keyring.
func SetAPIKey(provider, key string) (err error) {
	if strings.TrimSpace(key) == "" {
		err = errors.New("API key is empty")
		return err
	}

	err = keyring.Set(KeyringService, keyringAccount(provider), key)
	if err != nil {
		err = errors.Wrapf(err, "failed to store %s API key in keyring", provider)
		return err
	}
	return err
}

// DeleteAPIKey removes the provider's API key from the OS keyring.
func DeleteAPIKey(provider string) (err error) {
	err = keyring.Delete(KeyringService, keyringAccount(provider))
	if err != nil {
		err = errors.Wrapf(err, "failed to delete %s API key from keyring", provider)
		return err
	}
	return err
}

func keyringAccount(provider string) (account string) {
	account = strings.ToLower(strings.TrimSpace(provider))
	if account == "" {
		account = ProviderGroq
	}
	return account
}
