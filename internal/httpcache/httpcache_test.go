/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
)

func TestTTLClientCachesUncacheableResponses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		w.Header().Set("Cache-Control", "no-store, no-cache")
		w.Header().Set("Pragma", "no-cache")
		io.WriteString(w, "player data")
	}))
	defer srv.Close()

	client := NewTTLClient(httpcache.NewMemoryCache(), time.Hour,
		http.DefaultTransport)
	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || string(data) != "player data" {
			t.Errorf("body %q err %v", data, err)
		}
		if i > 0 && resp.Header.Get(httpcache.XFromCache) != "1" {
			t.Errorf("request %v was not served from cache", i)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("origin hit %v times; want 1", got)
	}
}

func TestHeaderOverrideTransportRequestHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		w.Header().Set("X-Seen-UA", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: &HeaderOverrideTransport{
		wrappedRT: http.DefaultTransport,
		Request: func(req *http.Request) {
			req.Header.Set("User-Agent", "hooked")
		},
	}}
	req, err := http.NewRequest("GET", srv.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Seen-UA"); got != "hooked" {
		t.Errorf("User-Agent = %q; want hooked", got)
	}
	if req.Header.Get("User-Agent") != "" {
		t.Errorf("caller's request was modified")
	}
}

func TestNewCachedHttpClientFallback(t *testing.T) {
	client := NewCachedHttpClient(context.Background(), "", time.Minute)
	if client == nil || client == http.DefaultClient {
		t.Errorf("expected a caching client")
	}
}
