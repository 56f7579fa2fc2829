package jobsift

// Site identifies a job board.
type Site string

// Supported job boards.
const (
	SiteUnknown   Site = ""
	SiteLinkedIn  Site = "linkedin"
	SiteIndeed    Site = "indeed"
	SiteGlassdoor Site = "glassdoor"
)

// String returns the site name, or "(unknown)" for SiteUnknown.
func (s Site) String() string {
	if s == SiteUnknown {
		return "(unknown)"
	}
	return string(s)
}

// Parser extracts the structural fields of a job posting from one site's HTML.
type Parser interface {
	// Site returns the board this parser understands.
	Site() Site

	// Parse extracts company, title and description from html.
	// Missing nodes yield nil fields. When the document cannot be processed
	// at all, Parse returns an all-null Posting together with the error.
	Parse(html string) (*Posting, error)
}

// RuleRegistry maps job URLs to the parser for their site.
type RuleRegistry interface {
	// Resolve returns the parser bound to the site the URL's host belongs to.
	// Returns false when the URL cannot be parsed or no site matches.
	Resolve(rawURL string) (Parser, bool)

	// Sites returns the registered sites in resolution order.
	Sites() []Site
}

// Revealer turns an obfuscated site key back into its plaintext host string.
type Revealer interface {
	Reveal(token []byte) (string, error)
}

// KeyStore holds the PEM-encoded private key that reveals site keys.
type KeyStore interface {
	// LoadKey returns the stored key.
	// Returns ENOTFOUND if no key has been stored.
	LoadKey() ([]byte, error)

	// StoreKey replaces the stored key.
	StoreKey(pem []byte) error
}
