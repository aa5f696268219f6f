// Package tcgdex implements the catalog Provider against the TCGdex REST
// API. Payloads are decoded as untyped JSON at the boundary and validated
// into strict records; any shape mismatch fails the whole fetch rather
// than producing partial data.
package tcgdex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"tcgcollectr/internal/catalog"
)

// Client talks to one TCGdex base URL, e.g. https://api.tcgdex.net/v2/en.
// Requests are rate-limited client-side. There is no retry loop here: a
// failed fetch propagates and the next catalog read attempts the seed
// again.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(baseURL, userAgent string, timeout time.Duration, rps, burst int) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchSets retrieves the full set listing.
func (c *Client) FetchSets(ctx context.Context) ([]catalog.Set, error) {
	body, err := c.get(ctx, c.baseURL+"/sets")
	if err != nil {
		return nil, err
	}
	return parseSetList(body)
}

// FetchSetCards retrieves the card listing embedded in one set's detail.
func (c *Client) FetchSetCards(ctx context.Context, setID string) ([]catalog.Card, error) {
	body, err := c.get(ctx, c.baseURL+"/sets/"+url.PathEscape(setID))
	if err != nil {
		if status(err) == http.StatusNotFound {
			return nil, catalog.ErrSetNotFound
		}
		return nil, err
	}
	return parseSetCards(setID, body)
}

// FetchCard retrieves one card's detail. An upstream 404 is reported as
// catalog.ErrCardNotFound.
func (c *Client) FetchCard(ctx context.Context, id string) (catalog.Card, error) {
	body, err := c.get(ctx, c.baseURL+"/cards/"+url.PathEscape(id))
	if err != nil {
		if status(err) == http.StatusNotFound {
			return catalog.Card{}, catalog.ErrCardNotFound
		}
		return catalog.Card{}, err
	}
	return parseCardDetail(body)
}

// statusError distinguishes an HTTP error status from a transport failure.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func status(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", catalog.ErrUpstreamUnavailable, &statusError{code: resp.StatusCode})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", catalog.ErrUpstreamUnavailable, err)
	}
	return body, nil
}
