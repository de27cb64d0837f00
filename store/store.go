/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package store persists championship snapshots. Snapshots are JSON documents
 * keyed by an opaque string (the CLI uses a fixed key, the discord bot uses
 * the discord user id) and can live on local disk or in Amazon S3.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mikeb26/swisschamp/championship"
)

var ErrNotFound = errors.New("snapshot not found")

type Store interface {
	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (championship.State, error)
	Save(ctx context.Context, key string, s championship.State) error
	// Delete removes the snapshot stored under key. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, key string) error
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid snapshot key %q", key)
	}

	return nil
}
