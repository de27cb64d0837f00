/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	var st Store = NewFileStore(dir)

	if _, err := st.Load(ctx, "cli"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load of missing snapshot: got %v; want ErrNotFound", err)
	}

	want := playedState(t)
	if err := st.Save(ctx, "cli", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load(ctx, "cli")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "cli.json" {
		t.Errorf("unexpected directory contents: %v", entries)
	}

	if err := st.Delete(ctx, "cli"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Load(ctx, "cli"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete: got %v; want ErrNotFound", err)
	}
	if err := st.Delete(ctx, "cli"); err != nil {
		t.Errorf("Delete of missing snapshot: %v", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	st := NewFileStore(t.TempDir())
	s := playedState(t)
	if err := st.Save(ctx, "cli", s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Completed = true
	if err := st.Save(ctx, "cli", s); err != nil {
		t.Fatalf("Save (overwrite): %v", err)
	}
	got, err := st.Load(ctx, "cli")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Completed {
		t.Errorf("overwrite was lost")
	}
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	st := NewFileStore(t.TempDir())
	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if _, err := st.Load(context.Background(), key); err == nil ||
			errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) = %v; want a key error", key, err)
		}
	}
}
