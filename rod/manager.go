package rod

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default page budget of one browser session.
// Job boards serve heavy pages and track long sessions, so the browser is
// restarted well before memory would become a problem.
const DefaultMaxPages = 50

// BrowserManager owns the Chrome process behind a Fetcher and replaces it when
// its Recycler says the session is spent.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	recycler Recycler
	recycles int
	logger   *slog.Logger
	closed   atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the page budget of one browser. Zero disables it.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycler.MaxPages = n
	}
}

// WithBlockStatuses replaces DefaultBlockStatuses.
func WithBlockStatuses(statuses ...int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycler.BlockStatuses = statuses
	}
}

// WithManagerLogger sets the logger that reports browser restarts.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches Chrome. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		recycler: Recycler{
			MaxPages:      DefaultMaxPages,
			BlockStatuses: DefaultBlockStatuses,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Browser returns the current browser, replacing it first if the previous
// session was blocked or used up its page budget.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if reason, due := bm.recycler.Due(); due {
		bm.recycleBrowser(reason)
	}
	return bm.browser
}

// PageDone records a finished page load with the document status it returned.
func (bm *BrowserManager) PageDone(status int) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.recycler.Observe(status)
}

// Recycles returns how many times the browser has been replaced.
func (bm *BrowserManager) Recycles() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.recycles
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.closeBrowser()
}

func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser swaps in a fresh browser. If the launch fails the old
// browser stays in service and the session is retried on the next call.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser(reason string) {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	bm.browser, bm.launcher = nil, nil

	if err := bm.launchBrowser(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		bm.logger.Warn("browser restart failed", "reason", reason, "err", err)
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}

	bm.logger.Info("browser restarted",
		"reason", reason,
		"pages", bm.recycler.Pages(),
		"status", bm.recycler.BlockedBy(),
	)
	bm.recycler.Reset()
	bm.recycles++
}

// LauncherPID returns the process ID of the current browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
