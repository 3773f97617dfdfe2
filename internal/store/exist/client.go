package exist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/MrSnakeDoc/verse/internal/domain"
	"github.com/MrSnakeDoc/verse/internal/metrics"
	"github.com/MrSnakeDoc/verse/internal/utils"
)

const (
	// DefaultTimeout bounds a single store round trip.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxBodyBytes caps the size of a store response.
	DefaultMaxBodyBytes = 4 << 20

	endpointQuery = "query"
	endpointBooks = "books"
	endpointStats = "stats"
	endpointPing  = "ping"
)

var (
	verseTextExpr = xpath.MustCompile("//verse/text()")
	bookExpr      = xpath.MustCompile("//book")
	chapterExpr   = xpath.MustCompile("//chapter")
)

// Options configures a Client.
type Options struct {
	BaseURL      string           // document URL, ex: http://127.0.0.1:8080/exist/rest/db/nz/nz.xml
	Timeout      time.Duration    // per request (default: 5s)
	UserAgent    string           // optional
	MaxBodyBytes int64            // default: 4 MiB
	HTTPClient   *http.Client     // optional, overrides Timeout
	Metrics      *metrics.Metrics // optional
}

// Client talks to the eXist REST endpoint holding the scripture corpus.
// It is safe for concurrent use. Every call is a single attempt.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	maxBody   int64
	metrics   *metrics.Metrics
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("store base URL is empty")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported store URL scheme %q", base.Scheme)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		base:      base,
		http:      httpClient,
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
		metrics:   opts.Metrics,
	}, nil
}

// FetchPassage runs sel against the store and returns the matched verse text.
// A selector that matches nothing yields domain.ErrNotFound.
func (c *Client) FetchPassage(ctx context.Context, sel domain.Selector) (domain.Passage, error) {
	u := *c.base
	u.RawQuery = url.Values{"_query": {sel.String()}}.Encode()

	doc, err := c.getXML(ctx, endpointQuery, &u)
	if err != nil {
		return domain.Passage{}, err
	}

	nodes := xmlquery.QuerySelectorAll(doc, verseTextExpr)
	fragments := make([]string, 0, len(nodes))
	for _, n := range nodes {
		text := n.InnerText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fragments = append(fragments, text)
	}

	if len(fragments) == 0 {
		return domain.Passage{}, domain.ErrNotFound
	}
	return domain.Passage{Fragments: fragments}, nil
}

// FetchBooks returns the book listing in document order.
func (c *Client) FetchBooks(ctx context.Context) ([]domain.BookEntry, error) {
	doc, err := c.getXML(ctx, endpointBooks, c.base.JoinPath("books"))
	if err != nil {
		return nil, err
	}

	nodes := xmlquery.QuerySelectorAll(doc, bookExpr)
	books := make([]domain.BookEntry, 0, len(nodes))
	for _, n := range nodes {
		abbr := strings.TrimSpace(n.SelectAttr("abbr"))
		if abbr == "" {
			continue
		}
		books = append(books, domain.BookEntry{
			Abbr:  abbr,
			Title: strings.TrimSpace(n.SelectAttr("title")),
		})
	}
	return books, nil
}

// FetchChapterStats returns verse counts per chapter of the given book.
func (c *Client) FetchChapterStats(ctx context.Context, abbr string) ([]domain.ChapterStat, error) {
	u := c.base.JoinPath("stats")
	u.RawQuery = url.Values{"book": {abbr}}.Encode()

	doc, err := c.getXML(ctx, endpointStats, u)
	if err != nil {
		return nil, err
	}

	nodes := xmlquery.QuerySelectorAll(doc, chapterExpr)
	stats := make([]domain.ChapterStat, 0, len(nodes))
	for _, n := range nodes {
		number, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr("number")))
		if err != nil {
			return nil, c.fail(endpointStats, KindMalformed, fmt.Errorf("chapter number: %w", err))
		}
		verses, err := strconv.Atoi(strings.TrimSpace(n.SelectAttr("verses")))
		if err != nil {
			return nil, c.fail(endpointStats, KindMalformed, fmt.Errorf("chapter %d verse count: %w", number, err))
		}
		stats = append(stats, domain.ChapterStat{Number: number, Verses: verses})
	}
	return stats, nil
}

// Ping checks that the books endpoint answers with a 2xx status.
// Its latency and failures are recorded under the "ping" endpoint label.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, endpointPing, c.base.JoinPath("books"))
	return err
}

// BaseURL returns the configured document URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) getXML(ctx context.Context, endpoint string, u *url.URL) (*xmlquery.Node, error) {
	body, err := c.get(ctx, endpoint, u)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(endpoint, KindMalformed, err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, endpoint string, u *url.URL) ([]byte, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveStoreLatency(endpoint, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, c.fail(endpoint, KindUnavailable, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(endpoint, classify(err), err)
	}
	defer utils.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(endpoint, KindUnavailable, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, c.fail(endpoint, classify(err), fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > c.maxBody {
		return nil, c.fail(endpoint, KindMalformed, fmt.Errorf("response exceeds %d bytes", c.maxBody))
	}
	return body, nil
}

func (c *Client) fail(endpoint string, kind Kind, err error) error {
	c.metrics.IncrementStoreError(endpoint, string(kind))
	return &Error{Kind: kind, Op: endpoint, Err: err}
}
