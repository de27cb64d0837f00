/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mikeb26/swisschamp/championship"
)

// FileStore keeps one JSON file per key in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fstore *FileStore) path(key string) string {
	return filepath.Join(fstore.dir, key+".json")
}

func (fstore *FileStore) Load(ctx context.Context, key string) (championship.State, error) {
	if err := validateKey(key); err != nil {
		return championship.State{}, err
	}
	data, err := os.ReadFile(fstore.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return championship.State{}, fmt.Errorf("%v: %w", key, ErrNotFound)
	} else if err != nil {
		return championship.State{}, fmt.Errorf("store.load: %w", err)
	}

	return Decode(data)
}

// Save writes the snapshot to a temporary file and renames it into place so a
// crash never leaves a truncated snapshot behind.
func (fstore *FileStore) Save(ctx context.Context, key string, s championship.State) error {
	if err := validateKey(key); err != nil {
		return err
	}
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fstore.dir, 0700); err != nil {
		return fmt.Errorf("store.save: %w", err)
	}

	tmp, err := os.CreateTemp(fstore.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("store.save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store.save: failed to write %v: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store.save: failed to close %v: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fstore.path(key)); err != nil {
		return fmt.Errorf("store.save: %w", err)
	}

	return nil
}

func (fstore *FileStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(fstore.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store.delete: %w", err)
	}

	return nil
}
