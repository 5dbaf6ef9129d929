// Package fetch retrieves job postings over plain HTTP and extracts their
// main textual content from the page HTML. It is the degraded ingestion path
// used when no extraction-service credential is configured; pages that render
// client-side can additionally fall back to a headless browser.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "Mozilla/5.0 (compatible; CVStudio/1.0)"

// Error wraps a failure while fetching or extracting a posting.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves job postings and reduces them to readable text.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	useBrowser bool
	verbose    bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBrowserFallback enables headless-browser rendering for pages whose
// static HTML carries too little text. Requires Chrome/Chromium installed.
func WithBrowserFallback() Option {
	return func(f *Fetcher) { f.useBrowser = true }
}

// WithVerbose enables tagged debug logging.
func WithVerbose() Option {
	return func(f *Fetcher) { f.verbose = true }
}

// NewFetcher creates a Fetcher with the default timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// JobPosting fetches the page at urlStr and returns the main textual content
// of the posting, with navigation, forms, and legal boilerplate removed.
func (f *Fetcher) JobPosting(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	html, err := f.pageHTML(ctx, urlStr)
	if err != nil {
		return "", err
	}

	board := DetectBoard(urlStr)
	text, err := extractMainText(html, board)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	// JavaScript-rendered boards ship nearly empty static HTML; retry with a
	// real browser when enabled.
	if f.useBrowser && tooShort(text) {
		f.logf("[BROWSER] static HTML too short (%d chars), rendering %s", len(text), urlStr)
		rendered, browserErr := renderWithBrowser(ctx, urlStr, DefaultTimeout)
		if browserErr != nil {
			f.logf("[BROWSER] rendering failed: %v, keeping static content", browserErr)
		} else if browserText, extractErr := extractMainText(rendered, board); extractErr == nil {
			text = browserText
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: urlStr, Message: "no textual content found"}
	}
	return text, nil
}

// pageHTML performs the HTTP GET and returns the raw body.
func (f *Fetcher) pageHTML(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

func (f *Fetcher) logf(format string, args ...any) {
	if f.verbose {
		log.Printf(format, args...)
	}
}

// extractMainText parses the HTML, strips noise elements, and returns the
// text of the first matching content region (falling back to body).
func extractMainText(html string, board Board) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, iframe, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if noise := strings.Join(board.noiseSelectors(), ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	var region *goquery.Selection
	for _, selector := range board.contentSelectors() {
		if sel := doc.Find(selector); sel.Length() > 0 {
			region = sel.First()
			break
		}
	}
	if region == nil {
		region = doc.Find("body")
	}

	return collapseWhitespace(region.Text()), nil
}

// collapseWhitespace trims each line and drops empties.
func collapseWhitespace(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
