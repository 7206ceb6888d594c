// Package upstream fetches raw catalog documents from the catalog HTTP API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-catalog/pkg/errors"
	"github.com/angelmondragon/storefront-catalog/pkg/pagination"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 8 << 20
)

// Options configures a Client. A zero RequestsPerSecond leaves requests unthrottled.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the catalog API:
//
//	GET {base}/products?page=&limit=  -> {"data": [payload, ...]}
//	GET {base}/products/{id}          -> {"data": payload}
//
// Bare bodies without the data envelope are accepted as well.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ catalog.Source = (*Client)(nil)

// New validates the base URL and builds a pooled HTTP client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("catalog base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("catalog base url must be http or https, got %q", base.Scheme)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: timeout,
				ForceAttemptHTTP2:     true,
			},
		}
	}

	client := &Client{baseURL: base, httpClient: httpClient}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return client, nil
}

// FetchProduct loads the full document of one product.
func (c *Client) FetchProduct(ctx context.Context, productID string) (*catalog.RawCatalogPayload, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	body, err := c.get(ctx, nil, "products", url.PathEscape(productID))
	if err != nil {
		return nil, err
	}
	payload, err := catalog.DecodePayload(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "catalog returned an unreadable product")
	}
	return payload, nil
}

// ListProducts loads one page of product documents.
func (c *Client) ListProducts(ctx context.Context, page pagination.Params) ([]json.RawMessage, error) {
	page = pagination.Normalize(page)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page.Page))
	query.Set("limit", strconv.Itoa(page.Limit))

	body, err := c.get(ctx, query, "products")
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog returned an unreadable product list")
	}
	return items, nil
}

// get issues the request and returns the unwrapped data member of the response.
func (c *Client) get(ctx context.Context, query url.Values, segments ...string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request throttled")
		}
	}

	endpoint := c.baseURL.JoinPath(segments...)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog responded with status %d", resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	return unwrapData(body), nil
}

// unwrapData returns the "data" member of an envelope, or body when there is none.
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil || len(envelope.Data) == 0 {
		return trimmed
	}
	return envelope.Data
}
