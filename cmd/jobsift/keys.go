package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobsift"
	"github.com/fwojciec/jobsift/pkcs1"
)

// Run executes the keygen command.
func (c *KeygenCmd) Run(deps *Dependencies) error {
	if !c.Force {
		_, err := deps.Keys.LoadKey()
		if err == nil {
			fmt.Fprintln(deps.Stderr, "error: a key already exists; use --force to replace it (existing site tokens stop working)")
			return jobsift.Errorf(jobsift.ECONFLICT, "key already exists")
		}
		if jobsift.ErrorCode(err) != jobsift.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
	}

	priv, err := pkcs1.GenerateKey(c.Bits)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if err := deps.Keys.StoreKey(pkcs1.EncodePrivateKey(priv)); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if deps.Public != nil {
		if err := deps.Public.StoreKey(pkcs1.EncodePublicKey(&priv.PublicKey)); err != nil {
			fmt.Fprintf(deps.Stderr, "error: writing public key: %v\n", err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Generated a %d-bit key. Seal each site host with 'jobsift seal'.\n", c.Bits)
	return nil
}

// Run executes the seal command.
func (c *SealCmd) Run(deps *Dependencies) error {
	host := strings.ToLower(strings.TrimSpace(c.Host))
	if host == "" {
		fmt.Fprintln(deps.Stderr, "error: host must not be empty")
		return jobsift.Errorf(jobsift.EINVALID, "host must not be empty")
	}

	sealer, err := loadSealer(deps)
	if err != nil {
		return err
	}

	token, err := sealer.Seal(host)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if c.Site == "" {
		fmt.Fprintln(deps.Stdout, token)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "  - site: %s\n    token: %s\n", c.Site, token)
	return nil
}

// loadSealer prefers the public key written by keygen and falls back to the
// private key when no public key file exists.
func loadSealer(deps *Dependencies) (*pkcs1.Sealer, error) {
	if deps.Public != nil {
		pem, err := deps.Public.LoadKey()
		if err == nil {
			sealer, err := pkcs1.NewSealerFromPEM(pem)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
			}
			return sealer, err
		}
		if jobsift.ErrorCode(err) != jobsift.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return nil, err
		}
	}

	pem, err := deps.Keys.LoadKey()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Run 'jobsift keygen' first.\n", jobsift.ErrorMessage(err))
		return nil, err
	}
	priv, err := pkcs1.ParsePrivateKey(pem)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobsift.ErrorMessage(err))
		return nil, err
	}
	return pkcs1.NewSealer(&priv.PublicKey), nil
}
