/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
	"github.com/mikeb26/swisschamp/store"
)

const (
	StoreKindFile = "file"
	StoreKindS3   = "s3"
)

type Config struct {
	Championship ChampionshipConfig `yaml:"championship"`
	Store        StoreConfig        `yaml:"store"`
	USChess      USChessConfig      `yaml:"uschess"`
	MonteCarlo   MonteCarloConfig   `yaml:"montecarlo"`
	Discord      DiscordConfig      `yaml:"-"`
}

type ChampionshipConfig struct {
	Rounds  int `yaml:"rounds"`
	Players int `yaml:"players"`
}

type StoreConfig struct {
	Kind   string `yaml:"kind"` // file|s3
	Dir    string `yaml:"dir"`
	Bucket string `yaml:"bucket"`
	Gzip   bool   `yaml:"gzip"`
}

type USChessConfig struct {
	// empty disables the S3 http cache
	CacheBucket string        `yaml:"cache_bucket"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type MonteCarloConfig struct {
	Runs    int `yaml:"runs"`
	Workers int `yaml:"workers"`
}

// DiscordConfig is only ever read from the environment.
type DiscordConfig struct {
	Token     string
	PublicKey string
	AppID     string
}

func Default() *Config {
	dir := internal.DefaultStoreDir
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, internal.DefaultStoreDir)
	}

	return &Config{
		Championship: ChampionshipConfig{
			Rounds:  championship.DefaultTotalRounds,
			Players: championship.DefaultTotalPlayers,
		},
		Store: StoreConfig{
			Kind:   StoreKindFile,
			Dir:    dir,
			Bucket: internal.DefaultBucket,
			Gzip:   true,
		},
		USChess: USChessConfig{
			CacheBucket: internal.DefaultBucket,
			CacheTTL:    24 * time.Hour,
		},
		MonteCarlo: MonteCarloConfig{
			Runs:    1000,
			Workers: 8,
		},
	}
}

// Load reads filename over the defaults. A missing file is not an error.
// Environment variables override both.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if v := os.Getenv("CHAMPTD_STORE"); v != "" {
		cfg.Store.Kind = v
	}
	if v := os.Getenv("CHAMPTD_STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("CHAMPTD_BUCKET"); v != "" {
		cfg.Store.Bucket = v
	}
	if v := os.Getenv("CHAMPTD_MC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MonteCarlo.Workers = n
		}
	}
	cfg.Discord.Token = os.Getenv("DISCORD_BOT_TOKEN")
	cfg.Discord.PublicKey = os.Getenv("DISCORD_PUBLIC_KEY")
	cfg.Discord.AppID = os.Getenv("DISCORD_APP_ID")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Championship.Rounds < 1 {
		return fmt.Errorf("config: rounds must be at least 1, got %v",
			cfg.Championship.Rounds)
	}
	if cfg.Championship.Players < 2 || cfg.Championship.Players%2 != 0 {
		return fmt.Errorf("config: players must be an even number of at least 2, got %v",
			cfg.Championship.Players)
	}
	switch cfg.Store.Kind {
	case StoreKindFile:
		if cfg.Store.Dir == "" {
			return fmt.Errorf("config: file store needs a dir")
		}
	case StoreKindS3:
		if cfg.Store.Bucket == "" {
			return fmt.Errorf("config: s3 store needs a bucket")
		}
	default:
		return fmt.Errorf("config: unknown store kind %q", cfg.Store.Kind)
	}
	if cfg.MonteCarlo.Runs < 1 || cfg.MonteCarlo.Workers < 1 {
		return fmt.Errorf("config: montecarlo runs and workers must be positive")
	}

	return nil
}

// FieldConfig returns the field generation settings.
func (cfg *Config) FieldConfig() championship.Config {
	return championship.Config{
		TotalRounds:  cfg.Championship.Rounds,
		TotalPlayers: cfg.Championship.Players,
	}
}

// OpenStore returns the configured snapshot store.
func (cfg *Config) OpenStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Kind != StoreKindS3 {
		return store.NewFileStore(cfg.Store.Dir), nil
	}

	bucket := store.NewS3Bucket(cfg.Store.Bucket, cfg.Store.Gzip)
	if err := bucket.Init(ctx); err != nil {
		return nil, err
	}

	return store.NewS3Store(bucket), nil
}
