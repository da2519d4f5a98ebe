package fetcher

import (
	"fmt"
	"time"

	"epexgrab/internal/browser"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	// DefaultUserAgent is a realistic desktop browser identity, used to
	// reduce blocking. Not a correctness requirement.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"

	// DefaultSettleDelay gives the page a grace period after consent
	// handling for CSS display changes to finish before extraction.
	DefaultSettleDelay = time.Second

	snippetLimit = 2000
)

// consentClickJS locates and clicks a cookie-consent control. Returns false
// when no matching control exists, which is a normal state.
const consentClickJS = `() => {
    const controls = document.querySelectorAll('button, a');
    for (const el of controls) {
        const text = (el.innerText || '').trim().toLowerCase();
        if (text.includes('accept') || text.includes('agree')) {
            el.click();
            return true;
        }
    }
    return false;
}`

// Options configures page fetching.
type Options struct {
	Timeout     time.Duration // bounds navigation and the element wait, each
	SettleDelay time.Duration
	UserAgent   string
}

// ReadyPage is a page whose target table has been attached to the document.
// The caller owns Close on success paths.
type ReadyPage struct {
	page *rod.Page
}

// HTML returns the rendered page HTML.
func (p *ReadyPage) HTML() (string, error) {
	return p.page.HTML()
}

// Close closes the underlying page.
func (p *ReadyPage) Close() error {
	return p.page.Close()
}

// Fetcher drives browser pages to a ready state.
type Fetcher struct {
	browser *browser.Browser
	opts    Options
}

// New creates a Fetcher. Zero option fields fall back to defaults.
func New(b *browser.Browser, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Fetcher{browser: b, opts: opts}
}

// FetchReadyPage navigates to url and waits until at least one element
// matching selector is attached to the document (existence, not visibility).
// A cookie-consent banner is dismissed best-effort, then a fixed settle
// delay is applied. On failure the page is closed before returning.
func (f *Fetcher) FetchReadyPage(url, selector string) (*ReadyPage, error) {
	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: f.opts.UserAgent,
	})
	_, _ = page.EvalOnNewDocument(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`)

	if err := page.Timeout(f.opts.Timeout).Navigate(url); err != nil {
		page.Close()
		return nil, &LoadTimeoutError{URL: url, Timeout: f.opts.Timeout, Err: err}
	}

	if _, err := page.Timeout(f.opts.Timeout).Element(selector); err != nil {
		snippet := pageSnippet(page)
		page.Close()
		return nil, &TableNotFoundError{Selector: selector, Snippet: snippet, Err: err}
	}

	// Consent banner may or may not be present; either way the run proceeds.
	_, _ = page.Timeout(5 * time.Second).Eval(consentClickJS)

	time.Sleep(f.opts.SettleDelay)

	return &ReadyPage{page: page}, nil
}

// pageSnippet returns a short prefix of the rendered page for diagnostics.
func pageSnippet(page *rod.Page) string {
	html, err := page.Timeout(5 * time.Second).HTML()
	if err != nil {
		return ""
	}
	if len(html) > snippetLimit {
		return html[:snippetLimit]
	}
	return html
}
