package providerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	PurposeMeta    = "meta"
	PurposeCatalog = "catalog"
)

// FetchError tags a failed provider fetch with what was being fetched and
// from where. Network errors, timeouts, non-2xx statuses, and undecodable
// bodies all surface as a FetchError.
type FetchError struct {
	Purpose  string
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Purpose, e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client talks to a provider adapter endpoint. It performs no retries; the
// sync scheduler decides when an adapter is tried again.
type Client struct {
	httpClient     *resty.Client
	metaTimeout    time.Duration
	catalogTimeout time.Duration
}

func NewClient(userAgent string, metaTimeout, catalogTimeout time.Duration) *Client {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:     client,
		metaTimeout:    metaTimeout,
		catalogTimeout: catalogTimeout,
	}
}

// GetMeta fetches GET {endpoint}/meta.
func (c *Client) GetMeta(ctx context.Context, endpoint string) (*Metadata, error) {
	var meta Metadata
	if err := c.get(ctx, PurposeMeta, endpoint, "/meta", c.metaTimeout, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetCatalog fetches GET {endpoint}/catalog. Catalog payloads enumerate the
// provider's whole region/plan/spec tree, so this call gets a much longer
// deadline than the metadata probe.
func (c *Client) GetCatalog(ctx context.Context, endpoint string) (*Catalog, error) {
	var catalog Catalog
	if err := c.get(ctx, PurposeCatalog, endpoint, "/catalog", c.catalogTimeout, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Client) get(ctx context.Context, purpose, endpoint, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(endpoint + path)
	if err != nil {
		return &FetchError{Purpose: purpose, Endpoint: endpoint, Err: err}
	}
	if resp.IsError() {
		return &FetchError{Purpose: purpose, Endpoint: endpoint, Err: fmt.Errorf("provider returned %s", resp.Status())}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &FetchError{Purpose: purpose, Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
