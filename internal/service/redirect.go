package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrMissingLocation  = errors.New("redirect without Location header")
)

// Response is the part of an HTTP answer the checks look at.
type Response struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Location   string `json:"location,omitempty"`
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// RedirectChain lists every response seen while following redirects, in
// request order.
type RedirectChain struct {
	Hops []Response `json:"hops"`
}

// Last is the most recent response, nil before any request completed.
func (c *RedirectChain) Last() *Response {
	if len(c.Hops) == 0 {
		return nil
	}
	return &c.Hops[len(c.Hops)-1]
}

// Redirects counts the redirect responses in the chain.
func (c *RedirectChain) Redirects() int {
	n := 0
	for i := range c.Hops {
		if c.Hops[i].IsRedirect() {
			n++
		}
	}
	return n
}

type RedirectResolver struct {
	Client *http.Client
}

// NewRedirectResolver returns a resolver whose client never follows
// redirects by itself and does not reuse connections between probes.
func NewRedirectResolver(timeout time.Duration) *RedirectResolver {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	return &RedirectResolver{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get performs exactly one GET and reports its status and Location.
func (r *RedirectResolver) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
	}()

	return &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Location:   resp.Header.Get("Location"),
	}, nil
}

// Follow requests startURL and keeps following Location on 3xx responses.
// It returns the URL of the first non-redirect response. At most maxHops
// redirects are followed, so at most maxHops+1 requests are made; one more
// redirect yields ErrTooManyRedirects together with the chain so far.
func (r *RedirectResolver) Follow(ctx context.Context, startURL string, maxHops int) (string, *RedirectChain, error) {
	chain := &RedirectChain{}
	current := startURL

	for {
		resp, err := r.Get(ctx, current)
		if err != nil {
			return "", chain, err
		}
		chain.Hops = append(chain.Hops, *resp)

		if !resp.IsRedirect() {
			return current, chain, nil
		}
		if resp.Location == "" {
			return "", chain, fmt.Errorf("%s answered %s: %w", current, resp.Status, ErrMissingLocation)
		}
		if chain.Redirects() > maxHops {
			return "", chain, fmt.Errorf("%s: more than %d redirects: %w", startURL, maxHops, ErrTooManyRedirects)
		}

		next, err := resolveLocation(current, resp.Location)
		if err != nil {
			return "", chain, err
		}
		current = next
	}
}

func resolveLocation(base, location string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	l, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("bad Location %q from %s: %w", location, base, err)
	}
	return b.ResolveReference(l).String(), nil
}
