// Package keyring stores the site key material in the OS keychain.
package keyring

import (
	"errors"
	"strings"

	"github.com/fwojciec/jobsift"
	"github.com/zalando/go-keyring"
)

// Service groups jobsift secrets in the OS keychain.
const Service = "jobsift"

// DefaultAccount is the keychain account holding the private key.
const DefaultAccount = "private-key"

var _ jobsift.KeyStore = (*KeyStore)(nil)

// KeyStore keeps a PEM private key under one keychain account.
type KeyStore struct {
	service string
	account string
}

// NewKeyStore returns a KeyStore for account. An empty account uses DefaultAccount.
func NewKeyStore(account string) *KeyStore {
	account = strings.TrimSpace(account)
	if account == "" {
		account = DefaultAccount
	}
	return &KeyStore{service: Service, account: account}
}

// Account returns the keychain account name.
func (s *KeyStore) Account() string {
	return s.account
}

// LoadKey reads the key from the keychain.
func (s *KeyStore) LoadKey() ([]byte, error) {
	secret, err := keyring.Get(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "no key in keychain for %s/%s", s.service, s.account)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(secret) == "" {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "empty key in keychain for %s/%s", s.service, s.account)
	}
	return []byte(secret), nil
}

// StoreKey writes the key to the keychain, replacing any previous value.
func (s *KeyStore) StoreKey(pem []byte) error {
	if len(pem) == 0 {
		return jobsift.Errorf(jobsift.EINVALID, "key is empty")
	}
	return keyring.Set(s.service, s.account, string(pem))
}

// DeleteKey removes the key from the keychain.
func (s *KeyStore) DeleteKey() error {
	err := keyring.Delete(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return jobsift.Errorf(jobsift.ENOTFOUND, "no key in keychain for %s/%s", s.service, s.account)
	}
	return err
}
