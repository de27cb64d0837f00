/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikeb26/swisschamp/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "champtd.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Championship.Rounds != 7 || cfg.Championship.Players != 40 {
		t.Errorf("championship defaults %+v", cfg.Championship)
	}
	if cfg.Store.Kind != StoreKindFile || cfg.Store.Dir == "" {
		t.Errorf("store defaults %+v", cfg.Store)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
championship:
  rounds: 5
  players: 20
store:
  kind: s3
  bucket: my-bucket
  gzip: false
uschess:
  cache_ttl: 2h
montecarlo:
  runs: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Championship.Rounds != 5 || cfg.Championship.Players != 20 {
		t.Errorf("championship %+v", cfg.Championship)
	}
	if cfg.Store.Kind != StoreKindS3 || cfg.Store.Bucket != "my-bucket" ||
		cfg.Store.Gzip {
		t.Errorf("store %+v", cfg.Store)
	}
	if cfg.USChess.CacheTTL != 2*time.Hour {
		t.Errorf("cache ttl %v; want 2h", cfg.USChess.CacheTTL)
	}
	// untouched keys keep their defaults
	if cfg.MonteCarlo.Runs != 50 || cfg.MonteCarlo.Workers != 8 {
		t.Errorf("montecarlo %+v", cfg.MonteCarlo)
	}
	fc := cfg.FieldConfig()
	if fc.TotalRounds != 5 || fc.TotalPlayers != 20 {
		t.Errorf("field config %+v", fc)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHAMPTD_STORE_DIR", dir)
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DISCORD_APP_ID", "1234")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Dir != dir {
		t.Errorf("store dir %q; want %q", cfg.Store.Dir, dir)
	}
	if cfg.Discord.Token != "token" || cfg.Discord.AppID != "1234" {
		t.Errorf("discord %+v", cfg.Discord)
	}

	st, err := cfg.OpenStore(context.Background())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, ok := st.(*store.FileStore); !ok {
		t.Errorf("OpenStore returned %T; want *store.FileStore", st)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"odd players":  "championship:\n  players: 21\n",
		"no rounds":    "championship:\n  rounds: 0\n",
		"bad kind":     "store:\n  kind: tape\n",
		"bad yaml":     "championship: [",
		"zero workers": "montecarlo:\n  workers: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Errorf("Load accepted %q", body)
			}
		})
	}
}
