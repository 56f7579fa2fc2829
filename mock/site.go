package mock

import "github.com/fwojciec/jobsift"

var _ jobsift.Parser = (*Parser)(nil)

// Parser is a mock implementation of jobsift.Parser.
type Parser struct {
	SiteFn  func() jobsift.Site
	ParseFn func(html string) (*jobsift.Posting, error)
}

func (p *Parser) Site() jobsift.Site {
	return p.SiteFn()
}

func (p *Parser) Parse(html string) (*jobsift.Posting, error) {
	return p.ParseFn(html)
}

var _ jobsift.RuleRegistry = (*RuleRegistry)(nil)

// RuleRegistry is a mock implementation of jobsift.RuleRegistry.
type RuleRegistry struct {
	ResolveFn func(rawURL string) (jobsift.Parser, bool)
	SitesFn   func() []jobsift.Site
}

func (r *RuleRegistry) Resolve(rawURL string) (jobsift.Parser, bool) {
	return r.ResolveFn(rawURL)
}

func (r *RuleRegistry) Sites() []jobsift.Site {
	return r.SitesFn()
}

var _ jobsift.Revealer = (*Revealer)(nil)

// Revealer is a mock implementation of jobsift.Revealer.
type Revealer struct {
	RevealFn func(token []byte) (string, error)
}

func (r *Revealer) Reveal(token []byte) (string, error) {
	return r.RevealFn(token)
}

// PlainRevealer returns a Revealer that treats tokens as plaintext.
func PlainRevealer() *Revealer {
	return &Revealer{
		RevealFn: func(token []byte) (string, error) {
			return string(token), nil
		},
	}
}

var _ jobsift.KeyStore = (*KeyStore)(nil)

// KeyStore is a mock implementation of jobsift.KeyStore.
type KeyStore struct {
	LoadKeyFn  func() ([]byte, error)
	StoreKeyFn func(pem []byte) error
}

func (s *KeyStore) LoadKey() ([]byte, error) {
	return s.LoadKeyFn()
}

func (s *KeyStore) StoreKey(pem []byte) error {
	return s.StoreKeyFn(pem)
}
