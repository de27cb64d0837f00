/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mikeb26/swisschamp/championship"
	"github.com/mikeb26/swisschamp/internal"
	"github.com/mikeb26/swisschamp/internal/config"
	"github.com/mikeb26/swisschamp/store"
	"github.com/mikeb26/swisschamp/uschess"
)

//go:embed help.txt
var helpText string

const defaultKey = "cli"

// app carries what every command needs.
type app struct {
	cfg   *config.Config
	store store.Store
	key   string
	out   io.Writer
	rnd   championship.RandSource

	// newUSChess is swapped out in tests
	newUSChess func(ctx context.Context) *uschess.Client
}

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, a *app, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"start":     handleStart,
	"pairings":  handlePairings,
	"standings": handleStandings,
	"opponent":  handleOpponent,
	"play":      handlePlay,
	"reset":     handleReset,
	"simulate":  handleSimulate,
	"estimate":  handleEstimate,
}

func configPath() string {
	if v := os.Getenv("CHAMPTD_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, internal.DefaultStoreDir, "config.yaml")
}

func main() {
	ctx := context.Background()

	global := flag.NewFlagSet("champtd", flag.ExitOnError)
	key := global.String("key", defaultKey, "Snapshot key")
	global.Usage = usage
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if global.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	cmd := global.Arg(0)
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		log.Fatalf("Error opening %v store: %v", cfg.Store.Kind, err)
	}

	a := &app{
		cfg:   cfg,
		store: st,
		key:   *key,
		out:   os.Stdout,
		newUSChess: func(ctx context.Context) *uschess.Client {
			return uschess.NewClient(ctx, cfg.USChess.CacheBucket,
				cfg.USChess.CacheTTL)
		},
	}
	if err := handler(ctx, a, global.Args()[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, a *app, args []string) error {
	fmt.Fprintf(a.out, "%v", helpText)
	return nil
}
