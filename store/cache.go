/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"path"
)

// S3Cache is an httpcache.Cache whose entries live under httpcache/ in an
// S3Bucket.
type S3Cache struct {
	bucket    *S3Bucket
	logErrors bool

	// The context to specify when initiating s3 requests
	ctx context.Context
}

func NewS3Cache(ctx context.Context, bucket *S3Bucket, logErrors bool) *S3Cache {
	return &S3Cache{
		bucket:    bucket,
		logErrors: logErrors,
		ctx:       ctx,
	}
}

func (c *S3Cache) Get(key string) ([]byte, bool) {
	data, err := c.bucket.get(c.ctx, cacheKeyToObjectKey(key))
	if err != nil {
		// a missing key just indicates a cache miss
		if c.logErrors && !errors.Is(err, ErrNotFound) {
			log.Printf("s3cache.get: %v", err)
		}
		return []byte{}, false
	}

	return data, true
}

// Set stores the provided data in the cache under the given key.
func (c *S3Cache) Set(key string, data []byte) {
	err := c.bucket.put(c.ctx, cacheKeyToObjectKey(key), data)
	if err != nil && c.logErrors {
		log.Printf("s3cache.set: %v", err)
	}
}

func (c *S3Cache) Delete(key string) {
	err := c.bucket.delete(c.ctx, cacheKeyToObjectKey(key))
	if err != nil && c.logErrors {
		log.Printf("s3cache.delete: %v", err)
	}
}

func cacheKeyToObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)

	return path.Join("httpcache", hex.EncodeToString(h.Sum(nil)))
}
