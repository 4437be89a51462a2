package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Accept header presets
type Accept string

const (
	AcceptHTML  Accept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptImage Accept = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"
)

// Client defaults
const (
	DefaultTimeout     = 20 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultMaxBodySize = 16 << 20
	maxRedirects       = 10
)

// ProgressFunc receives download progress in percent, 0..100.
// It is called on the fetching goroutine.
type ProgressFunc func(percent int)

// Response is a fully read response body
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Getter is the fetch surface the resolvers depend on
type Getter interface {
	Get(ctx context.Context, url string, accept Accept, onProgress ProgressFunc) (*Response, error)
}

// Client performs GET requests with a per-request timeout
type Client struct {
	http        *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxBodySize caps the number of bytes read from a response
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// NewClient creates a fetch client
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:        newHTTPClient(),
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get downloads url and returns the whole body. Any failure, including a non
// 2xx status and timeout expiry, is returned as *model.FetchError.
func (c *Client) Get(ctx context.Context, url string, accept Accept, onProgress ProgressFunc) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &model.FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", string(accept))
	if accept == AcceptHTML {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &model.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := c.readBody(resp, onProgress)
	if err != nil {
		return nil, &model.FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	return &Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// readBody reads the body through a progress counter. Progress is only
// reported when the server announces a Content-Length.
func (c *Client) readBody(resp *http.Response, onProgress ProgressFunc) ([]byte, error) {
	if resp.ContentLength > c.maxBodySize {
		return nil, fmt.Errorf("response too large: %d bytes", resp.ContentLength)
	}

	reader := &progressReader{
		r:          io.LimitReader(resp.Body, c.maxBodySize+1),
		total:      resp.ContentLength,
		onProgress: onProgress,
		last:       -1,
	}
	reader.report(0)

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", c.maxBodySize)
	}
	reader.report(100)
	return body, nil
}

type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 && n > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 99 {
			// 100 is reported once the body is complete
			pct = 99
		}
		p.report(pct)
	}
	return n, err
}

func (p *progressReader) report(pct int) {
	if p.onProgress == nil || pct == p.last {
		return
	}
	p.last = pct
	p.onProgress(pct)
}
