// Package pkcs1 obfuscates site host keys with RSA PKCS#1 v1.5.
//
// A plaintext is split into chunks of at most k-11 bytes, where k is the
// modulus size in bytes. Each chunk encrypts to exactly k bytes and the
// ciphertexts are concatenated. Decryption splits on k-byte boundaries.
package pkcs1

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/fwojciec/jobsift"
)

// DefaultKeyBits is the modulus size used by GenerateKey callers by default.
const DefaultKeyBits = 2048

// paddingOverhead is the PKCS#1 v1.5 encryption padding size in bytes.
const paddingOverhead = 11

var _ jobsift.Revealer = (*Codec)(nil)

// Codec reveals site keys with the private half of an RSA keypair.
// Codec is safe for concurrent use.
type Codec struct {
	priv *rsa.PrivateKey
}

// NewCodec creates a Codec from a private key.
func NewCodec(priv *rsa.PrivateKey) *Codec {
	return &Codec{priv: priv}
}

// NewCodecFromPEM parses a PKCS#1 "RSA PRIVATE KEY" PEM block into a Codec.
func NewCodecFromPEM(data []byte) (*Codec, error) {
	priv, err := ParsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return NewCodec(priv), nil
}

// Reveal decrypts a token produced by Sealer.Seal and DecodeToken.
func (c *Codec) Reveal(token []byte) (string, error) {
	b, err := Decrypt(c.priv, token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Sealer produces config tokens from the public half of the keypair.
type Sealer struct {
	pub *rsa.PublicKey
}

// NewSealer creates a Sealer for pub.
func NewSealer(pub *rsa.PublicKey) *Sealer {
	return &Sealer{pub: pub}
}

// NewSealerFromPEM parses a PKCS#1 "RSA PUBLIC KEY" PEM block into a Sealer.
func NewSealerFromPEM(data []byte) (*Sealer, error) {
	pub, err := ParsePublicKey(data)
	if err != nil {
		return nil, err
	}
	return NewSealer(pub), nil
}

// Seal encrypts host and returns the base64 token for config files.
func (s *Sealer) Seal(host string) (string, error) {
	token, err := Encrypt(s.pub, []byte(host))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

// Encrypt encrypts data chunk by chunk. Empty data yields an empty ciphertext.
func Encrypt(pub *rsa.PublicKey, data []byte) ([]byte, error) {
	maxLen := pub.Size() - paddingOverhead
	if maxLen <= 0 {
		return nil, jobsift.Errorf(jobsift.EINVALID, "RSA key too small: %d bytes", pub.Size())
	}

	out := make([]byte, 0, (len(data)/maxLen+1)*pub.Size())
	for start := 0; start < len(data); start += maxLen {
		end := min(start+maxLen, len(data))
		chunk, err := rsa.EncryptPKCS1v15(rand.Reader, pub, data[start:end])
		if err != nil {
			return nil, fmt.Errorf("encrypting chunk at offset %d: %w", start, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// Decrypt reverses Encrypt. The ciphertext length must be a multiple of the key size.
func Decrypt(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	size := priv.Size()
	if len(ciphertext)%size != 0 {
		return nil, jobsift.Errorf(jobsift.EINVALID,
			"ciphertext length %d is not a multiple of key size %d", len(ciphertext), size)
	}

	var out []byte
	for start := 0; start < len(ciphertext); start += size {
		chunk, err := rsa.DecryptPKCS1v15(nil, priv, ciphertext[start:start+size])
		if err != nil {
			return nil, fmt.Errorf("decrypting chunk at offset %d: %w", start, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// GenerateKey creates a new RSA private key with the given modulus size.
func GenerateKey(bits int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePrivateKey encodes priv as a PKCS#1 PEM block.
func EncodePrivateKey(priv *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
}

// EncodePublicKey encodes pub as a PKCS#1 PEM block.
func EncodePublicKey(pub *rsa.PublicKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(pub),
	})
}

// ParsePrivateKey parses a PKCS#1 PEM-encoded private key.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "no PEM block found in private key")
	}
	if block.Type != "RSA PRIVATE KEY" {
		return nil, jobsift.Errorf(jobsift.EINVALID, "unexpected PEM block type %q", block.Type)
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "invalid private key: %v", err)
	}
	return priv, nil
}

// ParsePublicKey parses a PKCS#1 PEM-encoded public key.
func ParsePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "no PEM block found in public key")
	}
	if block.Type != "RSA PUBLIC KEY" {
		return nil, jobsift.Errorf(jobsift.EINVALID, "unexpected PEM block type %q", block.Type)
	}
	pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "invalid public key: %v", err)
	}
	return pub, nil
}

// DecodeToken decodes a base64 token as stored in config files.
func DecodeToken(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, jobsift.Errorf(jobsift.EINVALID, "invalid token encoding: %v", err)
	}
	return b, nil
}
