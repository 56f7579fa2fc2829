package fs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/jobsift"
)

var _ jobsift.KeyStore = (*KeyFile)(nil)

// KeyFile stores a PEM private key in a file readable only by its owner.
type KeyFile struct {
	Path string
}

// LoadKey reads the key file.
func (f *KeyFile) LoadKey() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, jobsift.Errorf(jobsift.ENOTFOUND, "key file %s not found", f.Path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// StoreKey writes the key file with mode 0600, creating parent directories.
func (f *KeyFile) StoreKey(pem []byte) error {
	if len(pem) == 0 {
		return jobsift.Errorf(jobsift.EINVALID, "key is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, pem, 0o600)
}
