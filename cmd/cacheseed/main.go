/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mikeb26/swisschamp/internal/config"
	"github.com/mikeb26/swisschamp/uschess"
)

// this program exists just to seed the http cache with USCF member lookups so
// that /champ start uscf:<id> answers quickly

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %v <uscf member id>...\n", os.Args[0])
		os.Exit(1)
	}
	cfg, err := config.Load(os.Getenv("CHAMPTD_CONFIG"))
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	if cfg.USChess.CacheBucket == "" {
		log.Fatalf("cacheseed: no uschess cache_bucket configured")
	}

	ctx := context.Background()
	client := uschess.NewClient(ctx, cfg.USChess.CacheBucket, cfg.USChess.CacheTTL)
	for idx, arg := range os.Args[1:] {
		memID, err := strconv.Atoi(arg)
		if err != nil {
			log.Printf("cacheseed: skipping invalid member id %q", arg)
			continue
		}
		if idx > 0 {
			time.Sleep(2 * time.Second) // avoid pegging uschess.org
		}
		player, err := client.FetchPlayer(ctx, uschess.MemID(memID))
		if err != nil {
			// best effort
			log.Printf("cacheseed: %v", err)
			continue
		}
		rating, err := player.Rating()
		if err != nil {
			fmt.Printf("seeded %v (%v)\n", player.Name, err)
			continue
		}

		fmt.Printf("seeded %v (%v)\n", player.Name, rating)
	}
}
