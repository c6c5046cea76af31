package importer

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"

	"menuchat/internal/core"
)

const maxPageChars = 20000

var whitespace = regexp.MustCompile(`\s+`)

// Fetcher returns the readable text of a remote page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PageFetcher scrapes a page with colly, dropping scripts and styles.
type PageFetcher struct {
	timeout   time.Duration
	userAgent string
}

// ctxTransport binds every request colly makes to the caller's context.
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func NewPageFetcher(timeout time.Duration) *PageFetcher {
	return &PageFetcher{
		timeout:   timeout,
		userAgent: "menuchat-importer/1.0",
	}
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.SetRequestTimeout(f.timeout)
	c.WithTransport(ctxTransport{ctx: ctx, base: http.DefaultTransport})

	var (
		text     string
		fetchErr error
	)

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("script, style, noscript, svg").Remove()
		text = e.DOM.Text()
	})

	// plain-text and JSON pages never reach OnHTML
	c.OnResponse(func(r *colly.Response) {
		if !strings.Contains(r.Headers.Get("Content-Type"), "html") {
			text = string(r.Body)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = eris.Wrapf(err, "status %d", r.StatusCode)
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return "", core.Upstream(fetchErr, "fetch "+url)
	}

	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if text == "" {
		return "", core.Upstream(eris.New("page has no text"), "fetch "+url)
	}
	return truncate(text, maxPageChars), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
