package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/salesreport/src/logger"
	"github.com/username/salesreport/src/models"
	"github.com/username/salesreport/src/utils"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	maxErrorBodyBytes = 64 * 1024
)

var (
	// ErrAPIStatus marks a non-200 answer from the orders endpoint. Pagination
	// stops there and whatever was already fetched is still usable.
	ErrAPIStatus = errors.New("orders API returned a non-success status")
	// ErrTransport marks a request that never produced a usable response.
	ErrTransport = errors.New("orders API request failed")
	// ErrNoMorePages is returned by OrderPager.Next once the sequence is drained.
	ErrNoMorePages = errors.New("no more order pages")
)

// APIError carries the status and body of a rejected page request.
type APIError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orders API returned status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *APIError) Unwrap() error { return ErrAPIStatus }

// OrderWindow selects the orders to list: every status, created inside the
// inclusive day range, Limit orders per page.
type OrderWindow struct {
	Range models.DateRange
	Limit int
}

// FetchResult is the drained page sequence.
type FetchResult struct {
	Orders    []models.Order
	Pages     int
	Truncated bool // an API error stopped pagination early
}

// OrderService lists orders from the Admin API.
type OrderService interface {
	Pages(window OrderWindow) *OrderPager
	FetchOrders(ctx context.Context, window OrderWindow) (*FetchResult, error)
}

type ShopifyClientConfig struct {
	BaseURL           string // e.g. https://shop.myshopify.com/admin/api/2024-07
	TokenSource       oauth2.TokenSource
	RequestsPerSecond float64
	Timeout           time.Duration
}

type shopifyClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewShopifyClient builds an orders client that authenticates every request
// with the token from cfg.TokenSource and paces requests to cfg.RequestsPerSecond.
func NewShopifyClient(cfg ShopifyClientConfig) OrderService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &shopifyClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &tokenTransport{
				source: cfg.TokenSource,
				base:   http.DefaultTransport,
			},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchOrders drains the page sequence for window. On an API error the
// orders collected so far are returned along with an error wrapping ErrAPIStatus.
func (c *shopifyClient) FetchOrders(ctx context.Context, window OrderWindow) (*FetchResult, error) {
	pager := c.Pages(window)
	result := &FetchResult{}

	for pager.HasNext() {
		orders, err := pager.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrAPIStatus) {
				result.Truncated = true
			}
			logger.L.Debug("Order fetch stopped early", "pages", result.Pages, "ordersSoFar", len(result.Orders), "error", err)
			return result, err
		}
		result.Orders = append(result.Orders, orders...)
		result.Pages++
	}

	logger.L.Debug("Fetched raw orders", "count", len(result.Orders), "pages", result.Pages)
	return result, nil
}

// Pages returns a lazy, finite, non-restartable sequence of order pages.
func (c *shopifyClient) Pages(window OrderWindow) *OrderPager {
	query := url.Values{}
	query.Set("status", "any")
	query.Set("created_at_min", utils.WindowStart(window.Range.Start))
	query.Set("created_at_max", utils.WindowEnd(window.Range.End))
	query.Set("limit", strconv.Itoa(window.Limit))

	return &OrderPager{
		client:  c,
		nextURL: c.baseURL + "/orders.json?" + query.Encode(),
		visited: cache.New(cache.NoExpiration, 0),
	}
}

// OrderPager walks the orders listing by following the server's
// rel="next" links. Continuation URLs are requested verbatim.
type OrderPager struct {
	client  *shopifyClient
	nextURL string
	done    bool
	visited *cache.Cache
}

// HasNext reports whether another page may be requested.
func (p *OrderPager) HasNext() bool {
	return !p.done
}

// Next requests the next page. Any error ends the sequence.
func (p *OrderPager) Next(ctx context.Context) ([]models.Order, error) {
	if p.done {
		return nil, ErrNoMorePages
	}
	pageURL := p.nextURL
	p.visited.Set(pageURL, struct{}{}, cache.NoExpiration)

	orders, next, err := p.client.getPage(ctx, pageURL)
	if err != nil {
		p.done = true
		return nil, err
	}

	switch {
	case next == "":
		p.done = true
	case p.seen(next):
		logger.L.Warn("Server repeated a pagination link, stopping", "url", next)
		p.done = true
	default:
		p.nextURL = next
	}
	return orders, nil
}

func (p *OrderPager) seen(pageURL string) bool {
	_, found := p.visited.Get(pageURL)
	return found
}

func (c *shopifyClient) getPage(ctx context.Context, pageURL string) ([]models.Order, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("waiting for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: building request for %s: %v", ErrTransport, pageURL, err)
	}

	logger.L.Debug("Requesting orders page", "url", pageURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		logger.L.Error("Error getting orders", "status", resp.StatusCode, "body", string(bodyBytes))
		return nil, "", &APIError{URL: pageURL, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var page models.OrdersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("%w: decoding orders page: %v", ErrTransport, err)
	}
	return page.Orders, utils.NextPageURL(resp.Header), nil
}

// tokenTransport stamps the Admin API access token on every request.
type tokenTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.source == nil {
		return nil, errors.New("no access token source configured")
	}
	token, err := t.source.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining access token: %w", err)
	}

	authed := req.Clone(req.Context())
	authed.Header.Set(accessTokenHeader, token.AccessToken)
	authed.Header.Set("Content-Type", "application/json")
	authed.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(authed)
}
