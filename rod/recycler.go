package rod

import "slices"

// DefaultBlockStatuses are document statuses job boards answer with once they
// flag a browser session as automated. LinkedIn uses the non-standard 999.
var DefaultBlockStatuses = []int{403, 429, 999}

// Recycle reasons reported by Recycler.Due.
const (
	ReasonBlocked   = "blocked"
	ReasonPageLimit = "page limit"
)

// Recycler decides when a browser session is spent: after MaxPages pages, or
// as soon as a page comes back with one of BlockStatuses.
//
// Recycler is not safe for concurrent use.
type Recycler struct {
	// MaxPages is the page budget of one browser. Zero disables the budget.
	MaxPages int64

	// BlockStatuses end the session immediately.
	BlockStatuses []int

	pages   int64
	blocked int
}

// Observe records a finished page load with its document status.
// Status 0 means the load failed before a response arrived.
func (r *Recycler) Observe(status int) {
	r.pages++
	if r.blocked == 0 && slices.Contains(r.BlockStatuses, status) {
		r.blocked = status
	}
}

// Due reports whether the browser should be replaced, and why.
func (r *Recycler) Due() (string, bool) {
	if r.blocked != 0 {
		return ReasonBlocked, true
	}
	if r.MaxPages > 0 && r.pages >= r.MaxPages {
		return ReasonPageLimit, true
	}
	return "", false
}

// Pages returns the number of pages loaded by the current browser.
func (r *Recycler) Pages() int64 { return r.pages }

// BlockedBy returns the status that ended the session, or 0.
func (r *Recycler) BlockedBy() int { return r.blocked }

// Reset starts a new session.
func (r *Recycler) Reset() {
	r.pages = 0
	r.blocked = 0
}
