/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package uschess

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikeb26/swisschamp/internal"
	"github.com/mikeb26/swisschamp/internal/httpcache"
)

const (
	ratingsAPIBase = "https://ratings-api.uschess.org/api/v1"
	msaBase        = "https://www.uschess.org/msa"
)

type Client struct {
	httpClient *http.Client
}

const DefaultCacheTTL = 24 * time.Hour

// NewClient returns a client whose responses are cached for ttl in the given
// S3 bucket, or in memory when the bucket is unavailable.
func NewClient(ctx context.Context, bucket string, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		httpClient: httpcache.NewCachedHttpClient(ctx, bucket, ttl),
	}
}

func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

func (client *Client) get(ctx context.Context, url string,
	accept string) (*http.Response, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %v: %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing HTTP GET %v: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %v: %s",
			resp.StatusCode, url, string(body))
	}

	return resp, nil
}

func (client *Client) getJSON(ctx context.Context, url string, out any) error {
	resp, err := client.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding JSON from %v: %w", url, err)
	}

	return nil
}
