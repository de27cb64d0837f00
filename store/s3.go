/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/swisschamp/championship"
)

// ObjectAPI is the subset of *s3.Client used by S3Bucket.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput,
		optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput,
		optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Bucket reads and writes objects in a single Amazon S3 bucket, optionally
// gzipping them.
type S3Bucket struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is used for every S3 request. Init() creates one from the default
	// Config when it is nil, so callers can supply their own beforehand.
	Client ObjectAPI

	name string

	// gzip indicates whether objects should be gzipped on put and gunzipped
	// on get. If true, object keys get the suffix ".gz".
	gzip bool
}

func NewS3Bucket(name string, gzipIn bool) *S3Bucket {
	return &S3Bucket{
		name: name,
		gzip: gzipIn,
	}
}

// Init loads the default AWS configuration when no client was supplied and
// verifies the bucket is reachable. The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
func (b *S3Bucket) Init(ctx context.Context) error {
	if b.Client == nil {
		var err error
		b.Config, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("store.init: failed to load AWS config: %w", err)
		}
		b.Client = s3.NewFromConfig(b.Config)
	}

	if _, err := b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.name),
	}); err != nil {
		return fmt.Errorf("store.init: head bucket failed for %s: %w", b.name, err)
	}

	if _, err := b.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.name),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("store.init: list objects failed for %s: %w", b.name, err)
	}

	return nil
}

func (b *S3Bucket) Name() string {
	return b.name
}

func (b *S3Bucket) objectKey(key string) string {
	if b.gzip {
		return key + ".gz"
	}
	return key
}

func (b *S3Bucket) get(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	}

	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%v/%v: %w", b.name, *input.Key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %v/%v: %w", b.name,
			*input.Key, err)
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if b.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			return nil, fmt.Errorf("failed to open compressed object %v/%v: %w",
				b.name, *input.Key, err)
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %v/%v: %w", b.name,
			*input.Key, err)
	}

	return data, nil
}

func (b *S3Bucket) put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("failed to gzip data for %v/%v: %w", b.name,
				*input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer for %v/%v: %w",
				b.name, *input.Key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put failed for %v/%v: %w", b.name, *input.Key, err)
	}

	return nil
}

func (b *S3Bucket) delete(ctx context.Context, key string) error {
	_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete failed for %v/%v: %w", b.name,
			b.objectKey(key), err)
	}

	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}

	return false
}

// S3Store keeps snapshots under snapshots/<key>.json in an S3Bucket.
type S3Store struct {
	bucket *S3Bucket
}

func NewS3Store(bucket *S3Bucket) *S3Store {
	return &S3Store{bucket: bucket}
}

func snapshotObjectKey(key string) string {
	return path.Join("snapshots", key+".json")
}

func (s3store *S3Store) Load(ctx context.Context, key string) (championship.State, error) {
	if err := validateKey(key); err != nil {
		return championship.State{}, err
	}
	data, err := s3store.bucket.get(ctx, snapshotObjectKey(key))
	if err != nil {
		return championship.State{}, fmt.Errorf("store.load: %w", err)
	}

	return Decode(data)
}

func (s3store *S3Store) Save(ctx context.Context, key string, s championship.State) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := s3store.bucket.put(ctx, snapshotObjectKey(key), data); err != nil {
		return fmt.Errorf("store.save: %w", err)
	}

	return nil
}

func (s3store *S3Store) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s3store.bucket.delete(ctx, snapshotObjectKey(key)); err != nil {
		return fmt.Errorf("store.delete: %w", err)
	}

	return nil
}
