/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/swisschamp/store"
)

// NewCachedHttpClient returns an http.Client that caches responses in the
// given S3 bucket for maxAge regardless of what the origin asks for. If the
// bucket is empty or cannot be reached it falls back to an in-memory cache.
func NewCachedHttpClient(ctx context.Context, bucket string,
	maxAge time.Duration) *http.Client {

	var cache httpcache.Cache
	if bucket != "" {
		b := store.NewS3Bucket(bucket, true)
		if err := b.Init(ctx); err != nil {
			log.Printf("httpcache: warning failed to init S3 cache: %v; falling back to memory cache", err)
		} else {
			cache = store.NewS3Cache(ctx, b, true)
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	return NewTTLClient(cache, maxAge, http.DefaultTransport)
}

// NewTTLClient returns an http.Client caching through cache with a fixed
// client-side TTL, sending requests over rt.
func NewTTLClient(cache httpcache.Cache, maxAge time.Duration,
	rt http.RoundTripper) *http.Client {

	hc := httpcache.NewTransport(cache)
	// we have to inject our own header overrides here in order to override
	// server responses that might indicate caching shouldn't be done
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: rt,
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}
	}
	return resp, nil
}
